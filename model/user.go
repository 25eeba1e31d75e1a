package model

import (
	"time"

	"github.com/kinkando/school-portal-service/pkg/profile"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	UserID       string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         profile.Role `json:"role"`
	IsVerified   bool         `json:"isVerified"`
	Profile      UserProfile  `json:"profile"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type UserProfile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u User) Identity() profile.Identity {
	return profile.Identity{
		ID:       u.UserID,
		Email:    u.Email,
		Role:     u.Role,
		Username: u.Username,
	}
}

type UserFilter struct {
	UserID   string
	Email    string
	Username string
	Role     profile.Role
}

type RegisterUserRequest struct {
	Username  string       `json:"username" validate:"required,max=64"`
	Email     string       `json:"email" validate:"required,email"`
	Password  string       `json:"password" validate:"required,min=8"`
	Role      profile.Role `json:"role" validate:"required,oneof=admin teacher student"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
}

type GetUsersRequest struct {
	Pagination
	Role profile.Role `query:"role" validate:"omitempty,oneof=admin teacher student"`
}

type ExportUsersRequest struct {
	Format string       `query:"format" validate:"omitempty,oneof=csv xlsx"`
	Role   profile.Role `query:"role" validate:"omitempty,oneof=admin teacher student"`
}

// UserRow is the flat roster layout written by exports.
type UserRow struct {
	ID        string `csv:"ID"`
	Username  string `csv:"Username"`
	Email     string `csv:"Email"`
	Role      string `csv:"Role"`
	FirstName string `csv:"First Name"`
	LastName  string `csv:"Last Name"`
	Verified  bool   `csv:"Verified"`
	CreatedAt string `csv:"Created At"`
}

func (u User) Row() UserRow {
	return UserRow{
		ID:        u.UserID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		FirstName: u.Profile.FirstName,
		LastName:  u.Profile.LastName,
		Verified:  u.IsVerified,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
