package profile

import "fmt"

type Role string

const (
	Admin   Role = "admin"
	Teacher Role = "teacher"
	Student Role = "student"
)

func Roles() []Role {
	return []Role{Admin, Teacher, Student}
}

func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", value)
	}
	return role, nil
}

func (r Role) Valid() bool {
	switch r {
	case Admin, Teacher, Student:
		return true
	default:
		return false
	}
}

// Namespace is the path prefix owned by the role.
func (r Role) Namespace() string {
	switch r {
	case Admin:
		return "/admin"
	case Teacher:
		return "/teacher"
	case Student:
		return "/student"
	default:
		return ""
	}
}

// Dashboard is where an authenticated session lands when it is sent away from a page it cannot use.
func (r Role) Dashboard() string {
	if ns := r.Namespace(); ns != "" {
		return ns + "/dashboard"
	}
	return "/login"
}

func (r Role) String() string {
	return string(r)
}
