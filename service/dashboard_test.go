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

func TestDashboards(t *testing.T) {
	users := newRoster(t)
	school := &testutil.SchoolRepository{
		Classes:            4,
		Assessments:        9,
		TeacherClasses:     map[string]int64{"t1": 2},
		TeacherAssessments: map[string]int64{"t1": 5},
		StudentClasses:     map[string]int64{"s1": 3},
		StudentGraded:      map[string]int64{"s1": 7},
	}
	svc := NewDashboardService(users, school)

	admin, err := svc.AdminDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.AdminDashboard{TotalTeachers: 1, TotalStudents: 2, TotalClasses: 4, TotalAssessments: 9}, admin)

	teacherCtx := profile.WithProfile(context.Background(), profile.Profile{Identity: profile.Identity{ID: "t1", Role: profile.Teacher}})
	teacher, err := svc.TeacherDashboard(teacherCtx)
	require.NoError(t, err)
	assert.Equal(t, model.TeacherDashboard{TotalClasses: 2, TotalAssessments: 5}, teacher)

	_, err = svc.StudentDashboard(teacherCtx)
	assert.ErrorIs(t, err, model.ErrForbidden)

	studentCtx := profile.WithProfile(context.Background(), profile.Profile{Identity: profile.Identity{ID: "s1", Role: profile.Student}})
	student, err := svc.StudentDashboard(studentCtx)
	require.NoError(t, err)
	assert.Equal(t, model.StudentDashboard{TotalClasses: 3, GradedAssessment: 7}, student)

	school.Err = errors.New("cursor killed")
	_, err = svc.AdminDashboard(context.Background())
	assert.Error(t, err)
}
