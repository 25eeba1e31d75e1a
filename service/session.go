package service

import (
	"context"
	"fmt"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/repository"
)

// Session turns the opaque cookie value into the caller's profile.
type Session interface {
	Open(ctx context.Context, identity profile.Identity, impersonatorID string) (string, profile.SessionClaims, error)
	GetSession(ctx context.Context, token string) (profile.Profile, bool, error)
	Close(ctx context.Context, token string) error
}

type session struct {
	tokenService Token
	// registry is nil when sessions are stateless.
	registry repository.SessionRegistry
}

func NewSessionService(tokenService Token, registry repository.SessionRegistry) Session {
	return &session{
		tokenService: tokenService,
		registry:     registry,
	}
}

func (s *session) Open(ctx context.Context, identity profile.Identity, impersonatorID string) (string, profile.SessionClaims, error) {
	token, claims, err := s.tokenService.Issue(ctx, identity, impersonatorID)
	if err != nil {
		logger.Context(ctx).Error(err)
		return "", profile.SessionClaims{}, err
	}

	if s.registry != nil {
		if err = s.registry.Register(ctx, claims); err != nil {
			logger.Context(ctx).Error(err)
			return "", profile.SessionClaims{}, err
		}
	}

	return token, claims, nil
}

// GetSession reports an empty, rejected or revoked token as no session. The error is
// reserved for a registry that cannot answer, in which case the token says nothing either way.
func (s *session) GetSession(ctx context.Context, token string) (profile.Profile, bool, error) {
	if token == "" {
		return profile.Profile{}, false, nil
	}

	claims, err := s.tokenService.Verify(ctx, token)
	if err != nil {
		logger.Context(ctx).Debugf("session: %s", err.Error())
		return profile.Profile{}, false, nil
	}

	if s.registry != nil {
		found, err := s.registry.Exists(ctx, claims.Role, claims.ID, claims.Id)
		if err != nil {
			logger.Context(ctx).Error(err)
			return profile.Profile{}, false, fmt.Errorf("session %s: %w", claims.Id, model.ErrSessionUnavailable)
		}
		if !found {
			return profile.Profile{}, false, nil
		}
	}

	return claims.Profile(), true, nil
}

func (s *session) Close(ctx context.Context, token string) error {
	if s.registry == nil || token == "" {
		return nil
	}

	claims, err := s.tokenService.Verify(ctx, token)
	if err != nil {
		return nil
	}

	if err = s.registry.Revoke(ctx, claims.Role, claims.ID, claims.Id); err != nil {
		logger.Context(ctx).Error(err)
		return err
	}
	return nil
}
