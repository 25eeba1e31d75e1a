package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var student = profile.Identity{ID: "s1", Email: "s1@school.edu", Role: profile.Student, Username: "s1"}

// freezeTime pins jwt.TimeFunc, which both Issue and the claims validation read.
func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	jwt.TimeFunc = func() time.Time { return at }
	t.Cleanup(func() { jwt.TimeFunc = time.Now })
}

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("", 24*time.Hour)
	assert.ErrorIs(t, err, model.ErrConfig)

	_, err = NewTokenService("secret", 0)
	assert.ErrorIs(t, err, model.ErrConfig)

	svc, err := NewTokenService("secret", 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, svc.TTL())
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, err := NewTokenService("secret", 24*time.Hour)
	require.NoError(t, err)

	token, issued, err := svc.Issue(ctx, student, "")
	require.NoError(t, err)
	assert.Equal(t, issued.IssuedAt+int64((24*time.Hour).Seconds()), issued.ExpiresAt)
	assert.NotEmpty(t, issued.Id)

	claims, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, student, claims.Identity)
	assert.Equal(t, issued.Id, claims.Profile().SessionID)
	assert.False(t, claims.Profile().Impersonated())

	token, _, err = svc.Issue(ctx, student, "a1")
	require.NoError(t, err)
	claims, err = svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.Profile().ImpersonatorID)
}

func TestTokenRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := NewTokenService("secret", 24*time.Hour)
	foreign, _ := NewTokenService("other-secret", 24*time.Hour)

	token, _, err := foreign.Issue(ctx, student, "")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, profile.SessionClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		Identity:       student,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, profile.SessionClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		Identity:       student,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, profile.SessionClaims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		Identity:       profile.Identity{ID: "x"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, profile.SessionClaims{
		Identity: student,
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"foreign secret":    token,
		"empty":             "",
		"garbage":           "not.a.token",
		"two segments":      "abc.def",
		"alg none":          none,
		"unexpected hmac":   hs512,
		"unknown role":      noRole,
		"no expiry":         noExpiry,
		"truncated":         token[:len(token)-4],
		"oversized garbage": strings.Repeat("a", 8192),
	}
	for name, tokenString := range tests {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := svc.Verify(ctx, tokenString)
				assert.ErrorIs(t, err, model.ErrTokenRejected)
			})
		})
	}
}

func TestTokenExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	svc, _ := NewTokenService("secret", 24*time.Hour)

	issuedAt := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	freezeTime(t, issuedAt)
	token, _, err := svc.Issue(ctx, student, "")
	require.NoError(t, err)

	freezeTime(t, issuedAt.Add(23*time.Hour+59*time.Minute))
	_, err = svc.Verify(ctx, token)
	assert.NoError(t, err)

	freezeTime(t, issuedAt.Add(24*time.Hour+time.Minute))
	_, err = svc.Verify(ctx, token)
	assert.ErrorIs(t, err, model.ErrTokenRejected)
}
