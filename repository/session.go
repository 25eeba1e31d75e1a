package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	goredis "github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "SESSION"

type SessionRegistry interface {
	Register(ctx context.Context, claims profile.SessionClaims) error
	Exists(ctx context.Context, role profile.Role, userID, sessionID string) (bool, error)
	Revoke(ctx context.Context, role profile.Role, userID, sessionID string) error
}

type sessionRegistry struct {
	db  *goredis.Client
	now func() time.Time
}

func NewSessionRegistryRepository(client *goredis.Client) SessionRegistry {
	return &sessionRegistry{
		db:  client,
		now: time.Now,
	}
}

func sessionKey(role profile.Role, userID, sessionID string) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", profile.ApplicationPrefix, sessionKeyPrefix, role, userID, sessionID)
}

// Register stores the session until its token expires. The value records the
// issue and expiry times and, for impersonation sessions, the admin behind it.
func (r *sessionRegistry) Register(ctx context.Context, claims profile.SessionClaims) error {
	ttl := time.Unix(claims.ExpiresAt, 0).Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", claims.Id)
	}

	key := sessionKey(claims.Role, claims.ID, claims.Id)
	value := fmt.Sprintf("%d:%d:%s", claims.IssuedAt, claims.ExpiresAt, claims.ImpersonatorID)
	if err := r.db.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Context(ctx).Error(err)
		return err
	}
	return nil
}

func (r *sessionRegistry) Exists(ctx context.Context, role profile.Role, userID, sessionID string) (bool, error) {
	n, err := r.db.Exists(ctx, sessionKey(role, userID, sessionID)).Result()
	if err != nil {
		logger.Context(ctx).Error(err)
		return false, err
	}
	return n > 0, nil
}

func (r *sessionRegistry) Revoke(ctx context.Context, role profile.Role, userID, sessionID string) error {
	if err := r.db.Del(ctx, sessionKey(role, userID, sessionID)).Err(); err != nil {
		logger.Context(ctx).Error(err)
		return err
	}
	return nil
}
