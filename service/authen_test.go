package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authenFixture struct {
	users    *testutil.UserRepository
	audits   *testutil.AuditRepository
	sessions Session
	service  Authen

	admin   model.User
	teacher model.User
	student model.User
}

func newAuthenFixture(t *testing.T) *authenFixture {
	t.Helper()
	return newRegistryAuthenFixture(t, nil)
}

func newRegistryAuthenFixture(t *testing.T, registry *testutil.SessionRegistry) *authenFixture {
	t.Helper()
	f := &authenFixture{
		users:  &testutil.UserRepository{},
		audits: &testutil.AuditRepository{},
	}
	// a nil *SessionRegistry would not compare equal to a nil interface
	if registry != nil {
		f.sessions = NewSessionService(newTokenService(t), registry)
	} else {
		f.sessions = NewSessionService(newTokenService(t), nil)
	}
	f.service = NewAuthenService(f.users, f.audits, f.sessions)

	f.admin = f.users.AddUser("a1", "admin@school.edu", "admin-pass", profile.Admin)
	f.teacher = f.users.AddUser("t1", "t1@school.edu", "teacher-pass", profile.Teacher)
	f.student = f.users.AddUser("s1", "s1@school.edu", "student-pass", profile.Student)
	return f
}

func (f *authenFixture) as(u model.User) context.Context {
	return profile.WithProfile(context.Background(), profile.Profile{Identity: u.Identity(), SessionID: "sess-" + u.Username})
}

func TestLogin(t *testing.T) {
	f := newAuthenFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, model.LoginRequest{Email: "t1@school.edu", Password: "teacher-pass"})
	require.NoError(t, err)
	assert.Equal(t, f.teacher.Identity(), session.User)

	got, ok, err := f.sessions.GetSession(ctx, session.Token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, profile.Teacher, got.Role)

	_, err = f.service.Login(ctx, model.LoginRequest{Email: "t1@school.edu", Password: "wrong"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, model.LoginRequest{Email: "ghost@school.edu", Password: "teacher-pass"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	f.users.Err = errors.New("server selection timeout")
	_, err = f.service.Login(ctx, model.LoginRequest{Email: "t1@school.edu", Password: "teacher-pass"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestSignup(t *testing.T) {
	f := newAuthenFixture(t)
	ctx := context.Background()

	identity, err := f.service.Signup(ctx, model.SignupRequest{Username: "s2", Email: "s2@school.edu", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, profile.Student, identity.Role)
	assert.NotEmpty(t, identity.ID)

	_, err = f.service.Login(ctx, model.LoginRequest{Email: "s2@school.edu", Password: "password1"})
	assert.NoError(t, err)

	_, err = f.service.Signup(ctx, model.SignupRequest{Username: "t2", Email: "t2@school.edu", Password: "password1", Role: profile.Teacher})
	assert.ErrorIs(t, err, model.ErrSignupRoleNotAllowed)

	_, err = f.service.Signup(ctx, model.SignupRequest{Username: "s3", Email: "s1@school.edu", Password: "password1"})
	assert.ErrorIs(t, err, model.ErrUserExists)

	_, err = f.service.Signup(ctx, model.SignupRequest{Username: "s1", Email: "new@school.edu", Password: "password1"})
	assert.ErrorIs(t, err, model.ErrUserExists)
}

func TestImpersonate(t *testing.T) {
	f := newAuthenFixture(t)

	session, err := f.service.Impersonate(f.as(f.admin), model.ImpersonateRequest{UserID: f.student.UserID, Role: profile.Student}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, f.student.Identity(), session.User)

	got, ok, err := f.sessions.GetSession(context.Background(), session.Token)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, profile.Student, got.Role)
	assert.Equal(t, f.admin.UserID, got.ImpersonatorID)

	events := f.audits.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.AuditImpersonate, events[0].Action)
	assert.Equal(t, f.admin.UserID, events[0].ActorID)
	assert.Equal(t, f.student.UserID, events[0].TargetID)
	assert.Equal(t, got.SessionID, events[0].SessionID)
	assert.Equal(t, "10.0.0.1", events[0].IP)
}

func TestImpersonateRejected(t *testing.T) {
	f := newAuthenFixture(t)

	tests := []struct {
		name string
		ctx  context.Context
		req  model.ImpersonateRequest
		err  error
	}{
		{"teacher caller", f.as(f.teacher), model.ImpersonateRequest{UserID: f.student.UserID, Role: profile.Student}, model.ErrForbidden},
		{"student caller", f.as(f.student), model.ImpersonateRequest{UserID: f.teacher.UserID, Role: profile.Teacher}, model.ErrForbidden},
		{"no session", context.Background(), model.ImpersonateRequest{UserID: f.student.UserID, Role: profile.Student}, model.ErrUnauthenticated},
		{"unknown target", f.as(f.admin), model.ImpersonateRequest{UserID: "65f1c0ffee65f1c0ffee65f1", Role: profile.Student}, model.ErrNotFound},
		{"role mismatch", f.as(f.admin), model.ImpersonateRequest{UserID: f.teacher.UserID, Role: profile.Student}, model.ErrNotFound},
		{"admin target", f.as(f.admin), model.ImpersonateRequest{UserID: f.admin.UserID, Role: profile.Admin}, model.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := f.service.Impersonate(tt.ctx, tt.req, "")
			assert.ErrorIs(t, err, tt.err)
			assert.Empty(t, session.Token)
		})
	}
	assert.Empty(t, f.audits.Events())
}

func TestImpersonateAuditFailure(t *testing.T) {
	f := newAuthenFixture(t)
	f.audits.Err = errors.New("write concern error")

	session, err := f.service.Impersonate(f.as(f.admin), model.ImpersonateRequest{UserID: f.student.UserID, Role: profile.Student}, "")
	assert.Error(t, err)
	assert.Empty(t, session.Token)
}

func TestRestore(t *testing.T) {
	f := newAuthenFixture(t)
	ctx := context.Background()

	adminSession, err := f.service.Login(ctx, model.LoginRequest{Email: "admin@school.edu", Password: "admin-pass"})
	require.NoError(t, err)
	impersonated, err := f.service.Impersonate(f.as(f.admin), model.ImpersonateRequest{UserID: f.student.UserID, Role: profile.Student}, "")
	require.NoError(t, err)

	restored, err := f.service.Restore(ctx, model.RestoreRequest{Token: adminSession.Token}, impersonated.Token, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, adminSession.Token, restored.Token)
	assert.Equal(t, f.admin.Identity(), restored.User)

	events := f.audits.Events()
	require.Len(t, events, 2)
	assert.Equal(t, model.AuditRestore, events[1].Action)
	assert.Equal(t, f.student.UserID, events[1].TargetID)

	studentSession, err := f.service.Login(ctx, model.LoginRequest{Email: "s1@school.edu", Password: "student-pass"})
	require.NoError(t, err)
	_, err = f.service.Restore(ctx, model.RestoreRequest{Token: studentSession.Token}, "", "")
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = f.service.Restore(ctx, model.RestoreRequest{Token: "forged"}, "", "")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestRestoreWithRegistry(t *testing.T) {
	registry := testutil.NewSessionRegistry()
	f := newRegistryAuthenFixture(t, registry)
	ctx := context.Background()

	adminSession, err := f.service.Login(ctx, model.LoginRequest{Email: "admin@school.edu", Password: "admin-pass"})
	require.NoError(t, err)
	admin, ok, err := f.sessions.GetSession(ctx, adminSession.Token)
	require.NoError(t, err)
	require.True(t, ok)

	impersonated, err := f.service.Impersonate(profile.WithProfile(ctx, admin), model.ImpersonateRequest{UserID: f.student.UserID, Role: profile.Student}, "")
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Len())

	restored, err := f.service.Restore(ctx, model.RestoreRequest{Token: adminSession.Token}, impersonated.Token, "")
	require.NoError(t, err)
	assert.Equal(t, adminSession.Token, restored.Token)

	_, ok, err = f.sessions.GetSession(ctx, impersonated.Token)
	require.NoError(t, err)
	assert.False(t, ok, "impersonation session is closed")

	_, ok, err = f.sessions.GetSession(ctx, adminSession.Token)
	require.NoError(t, err)
	assert.True(t, ok, "admin session stays open")
}

func TestRestoreKeepsUnrelatedSessions(t *testing.T) {
	registry := testutil.NewSessionRegistry()
	f := newRegistryAuthenFixture(t, registry)
	ctx := context.Background()

	adminSession, err := f.service.Login(ctx, model.LoginRequest{Email: "admin@school.edu", Password: "admin-pass"})
	require.NoError(t, err)
	teacherSession, err := f.service.Login(ctx, model.LoginRequest{Email: "t1@school.edu", Password: "teacher-pass"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		current string
	}{
		{"same admin session", adminSession.Token},
		{"session not opened by impersonation", teacherSession.Token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restored, err := f.service.Restore(ctx, model.RestoreRequest{Token: adminSession.Token}, tt.current, "")
			require.NoError(t, err)
			assert.Equal(t, adminSession.Token, restored.Token)

			_, ok, err := f.sessions.GetSession(ctx, tt.current)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}

	for _, event := range f.audits.Events() {
		assert.Empty(t, event.TargetID)
	}
}

func TestRestoreRegistryUnavailable(t *testing.T) {
	registry := testutil.NewSessionRegistry()
	f := newRegistryAuthenFixture(t, registry)
	ctx := context.Background()

	adminSession, err := f.service.Login(ctx, model.LoginRequest{Email: "admin@school.edu", Password: "admin-pass"})
	require.NoError(t, err)

	registry.Err = errors.New("connection refused")
	restored, err := f.service.Restore(ctx, model.RestoreRequest{Token: adminSession.Token}, "", "")
	assert.ErrorIs(t, err, model.ErrSessionUnavailable)
	assert.Empty(t, restored.Token)
	assert.Empty(t, f.audits.Events())
}
