package service

import (
	"context"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"github.com/kinkando/school-portal-service/repository"
	"github.com/sourcegraph/conc/pool"
)

type Dashboard interface {
	AdminDashboard(ctx context.Context) (model.AdminDashboard, error)
	TeacherDashboard(ctx context.Context) (model.TeacherDashboard, error)
	StudentDashboard(ctx context.Context) (model.StudentDashboard, error)
}

type dashboard struct {
	userRepository   repository.User
	schoolRepository repository.School
}

func NewDashboardService(userRepository repository.User, schoolRepository repository.School) Dashboard {
	return &dashboard{
		userRepository:   userRepository,
		schoolRepository: schoolRepository,
	}
}

func (s *dashboard) AdminDashboard(ctx context.Context) (data model.AdminDashboard, err error) {
	conc := pool.New().WithContext(ctx)
	conc.Go(func(ctx context.Context) (err error) {
		data.TotalTeachers, err = s.userRepository.CountUsers(ctx, profile.Teacher)
		return err
	})
	conc.Go(func(ctx context.Context) (err error) {
		data.TotalStudents, err = s.userRepository.CountUsers(ctx, profile.Student)
		return err
	})
	conc.Go(func(ctx context.Context) (err error) {
		data.TotalClasses, err = s.schoolRepository.CountClasses(ctx)
		return err
	})
	conc.Go(func(ctx context.Context) (err error) {
		data.TotalAssessments, err = s.schoolRepository.CountAssessments(ctx)
		return err
	})
	if err = conc.Wait(); err != nil {
		logger.Context(ctx).Error(err)
		return model.AdminDashboard{}, err
	}

	return data, nil
}

func (s *dashboard) TeacherDashboard(ctx context.Context) (data model.TeacherDashboard, err error) {
	teacher, err := profile.UseRoleProfile(ctx, profile.Teacher)
	if err != nil {
		return data, model.ErrForbidden
	}

	conc := pool.New().WithContext(ctx)
	conc.Go(func(ctx context.Context) (err error) {
		data.TotalClasses, err = s.schoolRepository.CountTeacherClasses(ctx, teacher.ID)
		return err
	})
	conc.Go(func(ctx context.Context) (err error) {
		data.TotalAssessments, err = s.schoolRepository.CountTeacherAssessments(ctx, teacher.ID)
		return err
	})
	if err = conc.Wait(); err != nil {
		logger.Context(ctx).Error(err)
		return model.TeacherDashboard{}, err
	}

	return data, nil
}

func (s *dashboard) StudentDashboard(ctx context.Context) (data model.StudentDashboard, err error) {
	student, err := profile.UseRoleProfile(ctx, profile.Student)
	if err != nil {
		return data, model.ErrForbidden
	}

	conc := pool.New().WithContext(ctx)
	conc.Go(func(ctx context.Context) (err error) {
		data.TotalClasses, err = s.schoolRepository.CountStudentClasses(ctx, student.ID)
		return err
	})
	conc.Go(func(ctx context.Context) (err error) {
		data.GradedAssessment, err = s.schoolRepository.CountGradedAssessments(ctx, student.ID)
		return err
	})
	if err = conc.Wait(); err != nil {
		logger.Context(ctx).Error(err)
		return model.StudentDashboard{}, err
	}

	return data, nil
}
