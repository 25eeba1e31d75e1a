package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/repository"
)

type Authen interface {
	Login(ctx context.Context, req model.LoginRequest) (model.Session, error)
	Signup(ctx context.Context, req model.SignupRequest) (profile.Identity, error)
	Logout(ctx context.Context, token string) error
	Impersonate(ctx context.Context, req model.ImpersonateRequest, clientIP string) (model.Session, error)
	Restore(ctx context.Context, req model.RestoreRequest, currentToken, clientIP string) (model.Session, error)
}

type authen struct {
	userRepository  repository.User
	auditRepository repository.Audit
	sessionService  Session
	now             func() time.Time
}

func NewAuthenService(
	userRepository repository.User,
	auditRepository repository.Audit,
	sessionService Session,
) Authen {
	return &authen{
		userRepository:  userRepository,
		auditRepository: auditRepository,
		sessionService:  sessionService,
		now:             time.Now,
	}
}

func (s *authen) Login(ctx context.Context, req model.LoginRequest) (model.Session, error) {
	user, err := s.userRepository.GetUser(ctx, model.UserFilter{Email: req.Email})
	if errors.Is(err, model.ErrNotFound) {
		return model.Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.Session{}, err
	}

	if !user.CheckPassword(req.Password) {
		return model.Session{}, model.ErrInvalidCredentials
	}

	token, _, err := s.sessionService.Open(ctx, user.Identity(), "")
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.Session{}, err
	}

	return model.Session{Token: token, User: user.Identity()}, nil
}

// Signup is self-registration, which is open to students only.
func (s *authen) Signup(ctx context.Context, req model.SignupRequest) (profile.Identity, error) {
	if req.Role == "" {
		req.Role = profile.Student
	}
	if req.Role != profile.Student {
		return profile.Identity{}, model.ErrSignupRoleNotAllowed
	}

	user, err := createUser(ctx, s.userRepository, model.RegisterUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     profile.Student,
	})
	if err != nil {
		return profile.Identity{}, err
	}

	return user.Identity(), nil
}

func (s *authen) Logout(ctx context.Context, token string) error {
	return s.sessionService.Close(ctx, token)
}

func (s *authen) Impersonate(ctx context.Context, req model.ImpersonateRequest, clientIP string) (model.Session, error) {
	admin, err := profile.UseProfile(ctx)
	if err != nil {
		return model.Session{}, model.ErrUnauthenticated
	}
	if admin.Role != profile.Admin {
		return model.Session{}, fmt.Errorf("%s %s cannot impersonate: %w", admin.Role, admin.ID, model.ErrForbidden)
	}

	target, err := s.userRepository.GetUser(ctx, model.UserFilter{UserID: req.UserID, Role: req.Role})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Context(ctx).Error(err)
		}
		return model.Session{}, err
	}
	if target.Role == profile.Admin {
		return model.Session{}, fmt.Errorf("admin accounts cannot be impersonated: %w", model.ErrForbidden)
	}

	token, claims, err := s.sessionService.Open(ctx, target.Identity(), admin.ID)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.Session{}, err
	}

	event := model.AuditEvent{
		Action:     model.AuditImpersonate,
		ActorID:    admin.ID,
		TargetID:   target.UserID,
		TargetRole: target.Role,
		SessionID:  claims.Id,
		IP:         clientIP,
		CreatedAt:  s.now(),
	}
	if err = s.audit(ctx, event); err != nil {
		_ = s.sessionService.Close(ctx, token)
		return model.Session{}, err
	}

	return model.Session{Token: token, User: target.Identity()}, nil
}

// Restore swaps an impersonation session back to the admin session the client kept aside.
func (s *authen) Restore(ctx context.Context, req model.RestoreRequest, currentToken, clientIP string) (model.Session, error) {
	admin, ok, err := s.sessionService.GetSession(ctx, req.Token)
	if err != nil {
		return model.Session{}, err
	}
	if !ok {
		return model.Session{}, model.ErrUnauthenticated
	}
	if admin.Role != profile.Admin {
		return model.Session{}, fmt.Errorf("restore requires an admin session: %w", model.ErrForbidden)
	}

	event := model.AuditEvent{
		Action:    model.AuditRestore,
		ActorID:   admin.ID,
		SessionID: admin.SessionID,
		IP:        clientIP,
		CreatedAt: s.now(),
	}
	current, ok, err := s.sessionService.GetSession(ctx, currentToken)
	if err != nil {
		return model.Session{}, err
	}
	// Only the session this admin opened by impersonating is closed; the admin session itself stays.
	impersonated := ok && current.ImpersonatorID == admin.ID && current.SessionID != admin.SessionID
	if impersonated {
		event.TargetID, event.TargetRole = current.ID, current.Role
	}
	if err := s.audit(ctx, event); err != nil {
		return model.Session{}, err
	}

	if impersonated {
		if err := s.sessionService.Close(ctx, currentToken); err != nil {
			logger.Context(ctx).Error(err)
		}
	}

	return model.Session{Token: req.Token, User: admin.Identity}, nil
}

func (s *authen) audit(ctx context.Context, event model.AuditEvent) error {
	logger.Context(ctx).Infow("audit",
		"action", event.Action,
		"actorID", event.ActorID,
		"targetID", event.TargetID,
		"targetRole", event.TargetRole,
		"sessionID", event.SessionID,
		"ip", event.IP,
	)

	if err := s.auditRepository.CreateEvent(ctx, event); err != nil {
		logger.Context(ctx).Error(err)
		return err
	}
	return nil
}
