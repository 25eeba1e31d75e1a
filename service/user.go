package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/kinkando/school-portal-service/config"
	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/repository"
	"github.com/xuri/excelize/v2"
)

const (
	exportCSV  = "csv"
	exportXLSX = "xlsx"

	rosterSheetName = "Users"
)

type User interface {
	GetUserInfo(ctx context.Context) (model.User, error)
	RegisterUser(ctx context.Context, req model.RegisterUserRequest) (model.User, error)
	GetUsers(ctx context.Context, req model.GetUsersRequest) (model.PagingWithMetadata[model.User], error)
	ExportUsers(ctx context.Context, req model.ExportUsersRequest) (model.ExportFile, error)
	SeedAdmin(ctx context.Context, seed config.AdminSeedConfig) error
}

type user struct {
	userRepository repository.User
}

func NewUserService(userRepository repository.User) User {
	return &user{
		userRepository: userRepository,
	}
}

func (s *user) GetUserInfo(ctx context.Context) (model.User, error) {
	userProfile, err := profile.UseProfile(ctx)
	if err != nil {
		return model.User{}, model.ErrUnauthenticated
	}

	userInfo, err := s.userRepository.GetUser(ctx, model.UserFilter{UserID: userProfile.ID})
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.User{}, err
	}

	return userInfo, nil
}

func (s *user) RegisterUser(ctx context.Context, req model.RegisterUserRequest) (model.User, error) {
	return createUser(ctx, s.userRepository, req)
}

func (s *user) GetUsers(ctx context.Context, req model.GetUsersRequest) (model.PagingWithMetadata[model.User], error) {
	req.AssignDefault()

	users, total, err := s.userRepository.GetUsers(ctx, req)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.PagingWithMetadata[model.User]{}, err
	}

	return model.PaginationResponse(users, req.Pagination, total), nil
}

func (s *user) ExportUsers(ctx context.Context, req model.ExportUsersRequest) (model.ExportFile, error) {
	if req.Format == "" {
		req.Format = exportCSV
	}
	if req.Format != exportCSV && req.Format != exportXLSX {
		return model.ExportFile{}, fmt.Errorf("%q: %w", req.Format, model.ErrUnsupportedFormat)
	}

	users, err := s.userRepository.ListUsers(ctx, req.Role)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.ExportFile{}, err
	}

	rows := make([]model.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, u.Row())
	}

	filename := "users"
	if req.Role != "" {
		filename += "-" + string(req.Role)
	}
	filename += "-" + time.Now().Format("20060102")

	var file model.ExportFile
	switch req.Format {
	case exportXLSX:
		file.Data, err = rowsToXLSX(rows)
		file.Filename = filename + ".xlsx"
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		file.Data, err = gocsv.MarshalBytes(&rows)
		file.Filename = filename + ".csv"
		file.ContentType = "text/csv"
	}
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.ExportFile{}, err
	}

	return file, nil
}

var rosterHeader = []any{"ID", "Username", "Email", "Role", "First Name", "Last Name", "Verified", "Created At"}

func rowsToXLSX(rows []model.UserRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", rosterSheetName); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(rosterSheetName, "A1", &rosterHeader); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{row.ID, row.Username, row.Email, row.Role, row.FirstName, row.LastName, row.Verified, row.CreatedAt}
		if err = f.SetSheetRow(rosterSheetName, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SeedAdmin creates the configured admin account unless a user with that email already exists.
func (s *user) SeedAdmin(ctx context.Context, seed config.AdminSeedConfig) error {
	if seed.Email == "" || seed.Password == "" {
		logger.Context(ctx).Warn("admin seed skipped: APP_ADMIN_EMAIL or APP_ADMIN_PASSWORD is empty")
		return nil
	}

	_, err := s.userRepository.GetUser(ctx, model.UserFilter{Email: seed.Email})
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		logger.Context(ctx).Error(err)
		return err
	}

	username := seed.Username
	if username == "" {
		username = "admin"
	}

	admin := model.User{
		Username:   username,
		Email:      seed.Email,
		Role:       profile.Admin,
		IsVerified: true,
		Profile:    model.UserProfile{FirstName: "Admin", LastName: "User"},
	}
	if err = admin.SetPassword(seed.Password); err != nil {
		logger.Context(ctx).Error(err)
		return err
	}

	if _, err = s.userRepository.CreateUser(ctx, admin); err != nil && !errors.Is(err, model.ErrUserExists) {
		logger.Context(ctx).Error(err)
		return err
	}

	logger.Context(ctx).Infof("admin %s seeded", seed.Email)
	return nil
}

func createUser(ctx context.Context, userRepository repository.User, req model.RegisterUserRequest) (model.User, error) {
	for _, filter := range []model.UserFilter{{Email: req.Email}, {Username: req.Username}} {
		_, err := userRepository.GetUser(ctx, filter)
		if err == nil {
			return model.User{}, model.ErrUserExists
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Context(ctx).Error(err)
			return model.User{}, err
		}
	}

	u := model.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Profile: model.UserProfile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
		CreatedAt: time.Now(),
	}
	if err := u.SetPassword(req.Password); err != nil {
		logger.Context(ctx).Error(err)
		return model.User{}, err
	}

	userID, err := userRepository.CreateUser(ctx, u)
	if err != nil {
		if !errors.Is(err, model.ErrUserExists) {
			logger.Context(ctx).Error(err)
		}
		return model.User{}, err
	}
	u.UserID = userID

	return u, nil
}
