package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/kinkando/school-portal-service/config"
	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newRoster(t *testing.T) *testutil.UserRepository {
	t.Helper()
	users := &testutil.UserRepository{}
	users.AddUser("a1", "admin@school.edu", "admin-pass", profile.Admin)
	users.AddUser("t1", "t1@school.edu", "teacher-pass", profile.Teacher)
	users.AddUser("s1", "s1@school.edu", "student-pass", profile.Student)
	users.AddUser("s2", "s2@school.edu", "student-pass", profile.Student)
	return users
}

func TestGetUserInfo(t *testing.T) {
	users := newRoster(t)
	svc := NewUserService(users)

	_, err := svc.GetUserInfo(context.Background())
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	s1, err := users.GetUser(context.Background(), model.UserFilter{Username: "s1"})
	require.NoError(t, err)

	ctx := profile.WithProfile(context.Background(), profile.Profile{Identity: s1.Identity()})
	got, err := svc.GetUserInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s1@school.edu", got.Email)
}

func TestRegisterUser(t *testing.T) {
	svc := NewUserService(newRoster(t))
	ctx := context.Background()

	u, err := svc.RegisterUser(ctx, model.RegisterUserRequest{
		Username:  "t2",
		Email:     "t2@school.edu",
		Password:  "password1",
		Role:      profile.Teacher,
		FirstName: "Tom",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.Equal(t, "Tom", u.Profile.FirstName)
	assert.True(t, u.CheckPassword("password1"))

	_, err = svc.RegisterUser(ctx, model.RegisterUserRequest{Username: "t3", Email: "t2@school.edu", Password: "password1", Role: profile.Teacher})
	assert.ErrorIs(t, err, model.ErrUserExists)
}

func TestGetUsers(t *testing.T) {
	svc := NewUserService(newRoster(t))

	page, err := svc.GetUsers(context.Background(), model.GetUsersRequest{Role: profile.Student, Pagination: model.Pagination{Limit: 1, Page: 2}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "s2", page.Data[0].Username)
	assert.Equal(t, uint64(2), page.Metadata.TotalItem)
	assert.Equal(t, uint64(2), page.Metadata.CurrentPage)

	page, err = svc.GetUsers(context.Background(), model.GetUsersRequest{Pagination: model.Pagination{Search: "T1@"}})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, profile.Teacher, page.Data[0].Role)
}

func TestExportUsers(t *testing.T) {
	svc := NewUserService(newRoster(t))
	ctx := context.Background()

	file, err := svc.ExportUsers(ctx, model.ExportUsersRequest{Role: profile.Student})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, file.Filename, "users-student-")

	var rows []model.UserRow
	require.NoError(t, gocsv.UnmarshalBytes(file.Data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "s1", rows[0].Username)

	file, err = svc.ExportUsers(ctx, model.ExportUsersRequest{Format: "xlsx"})
	require.NoError(t, err)
	assert.Contains(t, file.Filename, ".xlsx")

	workbook, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer workbook.Close()

	sheetRows, err := workbook.GetRows(rosterSheetName)
	require.NoError(t, err)
	require.Len(t, sheetRows, 5)
	assert.Equal(t, "Username", sheetRows[0][1])

	_, err = svc.ExportUsers(ctx, model.ExportUsersRequest{Format: "pdf"})
	assert.ErrorIs(t, err, model.ErrUnsupportedFormat)
}

func TestSeedAdmin(t *testing.T) {
	users := &testutil.UserRepository{}
	svc := NewUserService(users)
	ctx := context.Background()
	seed := config.AdminSeedConfig{Username: "root", Email: "root@school.edu", Password: "root-pass"}

	require.NoError(t, svc.SeedAdmin(ctx, seed))
	require.NoError(t, svc.SeedAdmin(ctx, seed))

	total, err := users.CountUsers(ctx, profile.Admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	admin, err := users.GetUser(ctx, model.UserFilter{Email: "root@school.edu"})
	require.NoError(t, err)
	assert.True(t, admin.IsVerified)
	assert.True(t, admin.CheckPassword("root-pass"))

	require.NoError(t, NewUserService(&testutil.UserRepository{}).SeedAdmin(ctx, config.AdminSeedConfig{}))
}
