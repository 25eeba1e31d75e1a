// Package testutil holds in-memory repositories for handler and service tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserRepository struct {
	mu    sync.RWMutex
	users []model.User
	Err   error
}

// AddUser stores a user with the given plain password and returns it with its assigned id.
func (r *UserRepository) AddUser(username, email, password string, role profile.Role) model.User {
	u := model.User{Username: username, Email: email, Role: role}
	if err := u.SetPassword(password); err != nil {
		panic(err)
	}
	id, err := r.CreateUser(context.Background(), u)
	if err != nil {
		panic(err)
	}
	u.UserID = id
	return u
}

func (r *UserRepository) match(u model.User, filter model.UserFilter) bool {
	return (filter.UserID == "" || u.UserID == filter.UserID) &&
		(filter.Email == "" || u.Email == filter.Email) &&
		(filter.Username == "" || u.Username == filter.Username) &&
		(filter.Role == "" || u.Role == filter.Role)
}

func (r *UserRepository) GetUser(ctx context.Context, filter model.UserFilter) (model.User, error) {
	if r.Err != nil {
		return model.User{}, r.Err
	}
	if filter == (model.UserFilter{}) {
		return model.User{}, errors.New("filter must be provided")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if r.match(u, filter) {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) roster(role profile.Role, search string) []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		if role != "" && u.Role != role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Username+" "+u.Email), strings.ToLower(search)) {
			continue
		}
		users = append(users, u)
	}
	return users
}

func (r *UserRepository) GetUsers(ctx context.Context, filter model.GetUsersRequest) ([]model.User, uint64, error) {
	if r.Err != nil {
		return nil, 0, r.Err
	}
	users := r.roster(filter.Role, filter.Search)
	total := uint64(len(users))

	start := min(filter.Offset, total)
	end := min(start+filter.Limit, total)
	return users[start:end], total, nil
}

func (r *UserRepository) ListUsers(ctx context.Context, role profile.Role) ([]model.User, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	users := r.roster(role, "")
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Role != users[j].Role {
			return users[i].Role < users[j].Role
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user model.User) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return "", model.ErrUserExists
		}
	}

	if user.UserID == "" {
		user.UserID = bson.NewObjectID().Hex()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users = append(r.users, user)
	return user.UserID, nil
}

func (r *UserRepository) CountUsers(ctx context.Context, role profile.Role) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.roster(role, ""))), nil
}

func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	return r.Err
}

type AuditRepository struct {
	mu     sync.Mutex
	events []model.AuditEvent
	Err    error
}

func (r *AuditRepository) CreateEvent(ctx context.Context, event model.AuditEvent) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *AuditRepository) Events() []model.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.AuditEvent(nil), r.events...)
}

type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]profile.SessionClaims
	Err      error
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]profile.SessionClaims)}
}

func (r *SessionRegistry) Register(ctx context.Context, claims profile.SessionClaims) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[claims.Id] = claims
	return nil
}

func (r *SessionRegistry) Exists(ctx context.Context, role profile.Role, userID, sessionID string) (bool, error) {
	if r.Err != nil {
		return false, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	claims, ok := r.sessions[sessionID]
	return ok && claims.Role == role && claims.ID == userID, nil
}

func (r *SessionRegistry) Revoke(ctx context.Context, role profile.Role, userID, sessionID string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type SchoolRepository struct {
	Classes            int64
	Assessments        int64
	TeacherClasses     map[string]int64
	TeacherAssessments map[string]int64
	StudentClasses     map[string]int64
	StudentGraded      map[string]int64
	Err                error
}

func (r *SchoolRepository) CountClasses(ctx context.Context) (int64, error) {
	return r.Classes, r.Err
}

func (r *SchoolRepository) CountAssessments(ctx context.Context) (int64, error) {
	return r.Assessments, r.Err
}

func (r *SchoolRepository) CountTeacherClasses(ctx context.Context, teacherID string) (int64, error) {
	return r.TeacherClasses[teacherID], r.Err
}

func (r *SchoolRepository) CountTeacherAssessments(ctx context.Context, teacherID string) (int64, error) {
	return r.TeacherAssessments[teacherID], r.Err
}

func (r *SchoolRepository) CountStudentClasses(ctx context.Context, studentID string) (int64, error) {
	return r.StudentClasses[studentID], r.Err
}

func (r *SchoolRepository) CountGradedAssessments(ctx context.Context, studentID string) (int64, error) {
	return r.StudentGraded[studentID], r.Err
}
