package model

import "github.com/kinkando/school-portal-service/pkg/profile"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Message string           `json:"message"`
	User    profile.Identity `json:"user"`
}

type SignupRequest struct {
	Username string       `json:"username" validate:"required,max=64"`
	Email    string       `json:"email" validate:"required,email"`
	Password string       `json:"password" validate:"required,min=8"`
	Role     profile.Role `json:"role" validate:"omitempty,oneof=admin teacher student"`
}

type SessionResponse struct {
	User           profile.Identity `json:"user"`
	ImpersonatorID string           `json:"impersonatorID,omitempty"`
}

type ImpersonateRequest struct {
	UserID string       `json:"userId" validate:"required"`
	Role   profile.Role `json:"role" validate:"required,oneof=admin teacher student"`
}

// Session is a freshly issued token together with the identity it was issued for.
type Session struct {
	Token string           `json:"token"`
	User  profile.Identity `json:"user"`
}

type RestoreRequest struct {
	Token string `json:"token" validate:"required"`
}
