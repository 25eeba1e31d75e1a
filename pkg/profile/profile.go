package profile

import (
	"context"
	"errors"
	"fmt"
)

type contextKey string

const profileKey contextKey = "profile"

var ErrNoProfile = errors.New("unable to retrieve profile from context")

type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

// Profile is the identity of the current request together with the session it came from.
type Profile struct {
	Identity
	SessionID      string `json:"sessionID"`
	ImpersonatorID string `json:"impersonatorID,omitempty"`
}

func (p Profile) Impersonated() bool {
	return p.ImpersonatorID != ""
}

func WithProfile(ctx context.Context, profile Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

func UseProfile(ctx context.Context) (Profile, error) {
	profile, ok := ctx.Value(profileKey).(Profile)
	if !ok {
		return Profile{}, ErrNoProfile
	}
	return profile, nil
}

func UseRoleProfile(ctx context.Context, role Role) (Profile, error) {
	profile, err := UseProfile(ctx)
	if err != nil {
		return Profile{}, err
	}

	if profile.Role != role {
		return Profile{}, fmt.Errorf(`unable to retrieve %s profile from context`, role)
	}

	return profile, nil
}

func UseAdminProfile(ctx context.Context) (Profile, error) {
	return UseRoleProfile(ctx, Admin)
}
