package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/generator"
	"github.com/kinkando/school-portal-service/pkg/profile"
)

type Token interface {
	Issue(ctx context.Context, identity profile.Identity, impersonatorID string) (string, profile.SessionClaims, error)
	Verify(ctx context.Context, token string) (profile.SessionClaims, error)
	TTL() time.Duration
}

type token struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewTokenService fails with model.ErrConfig when the signing key is missing so the process never starts without one.
func NewTokenService(secret string, ttl time.Duration) (Token, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt signing key is empty: %w", model.ErrConfig)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s: %w", ttl, model.ErrConfig)
	}
	return &token{
		secret: []byte(secret),
		ttl:    ttl,
		parser: &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}},
	}, nil
}

func (s *token) TTL() time.Duration {
	return s.ttl
}

func (s *token) Issue(ctx context.Context, identity profile.Identity, impersonatorID string) (string, profile.SessionClaims, error) {
	now := jwt.TimeFunc()
	claims := profile.SessionClaims{
		StandardClaims: jwt.StandardClaims{
			Id:        generator.UUID(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
		Identity:       identity,
		ImpersonatorID: impersonatorID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", profile.SessionClaims{}, err
	}
	return signed, claims, nil
}

func (s *token) Verify(ctx context.Context, tokenString string) (profile.SessionClaims, error) {
	var claims profile.SessionClaims
	parsed, err := s.parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return profile.SessionClaims{}, fmt.Errorf("%w: %v", model.ErrTokenRejected, err)
	}
	if !parsed.Valid {
		return profile.SessionClaims{}, model.ErrTokenRejected
	}
	return claims, nil
}
