package profile

import (
	"errors"

	"github.com/golang-jwt/jwt"
)

const ApplicationPrefix = "SCHOOL_PORTAL"

type SessionClaims struct {
	jwt.StandardClaims
	Identity
	ImpersonatorID string `json:"imp,omitempty"`
}

func (c SessionClaims) Valid() error {
	if err := c.StandardClaims.Valid(); err != nil {
		return err
	}
	if c.ID == "" {
		return jwt.NewValidationError("token carries no user id", jwt.ValidationErrorClaimsInvalid)
	}
	if !c.Role.Valid() {
		return jwt.NewValidationError("token carries an unknown role", jwt.ValidationErrorClaimsInvalid)
	}
	if c.ExpiresAt == 0 {
		return &jwt.ValidationError{Inner: errors.New("token has no expiry"), Errors: jwt.ValidationErrorExpired}
	}
	return nil
}

func (c SessionClaims) Profile() Profile {
	return Profile{
		Identity:       c.Identity,
		SessionID:      c.Id,
		ImpersonatorID: c.ImpersonatorID,
	}
}
