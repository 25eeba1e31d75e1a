package repository

import (
	"context"
	"fmt"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	classCollection      = "classes"
	assessmentCollection = "assessments"
	enrollmentCollection = "enrollments"
)

// School reads the class and assessment collections owned by the rest of the portal.
type School interface {
	CountClasses(ctx context.Context) (int64, error)
	CountAssessments(ctx context.Context) (int64, error)
	CountTeacherClasses(ctx context.Context, teacherID string) (int64, error)
	CountTeacherAssessments(ctx context.Context, teacherID string) (int64, error)
	CountStudentClasses(ctx context.Context, studentID string) (int64, error)
	CountGradedAssessments(ctx context.Context, studentID string) (int64, error)
}

type school struct {
	classes     *mongo.Collection
	assessments *mongo.Collection
	enrollments *mongo.Collection
}

func NewSchoolRepository(db *mongo.Database) School {
	return &school{
		classes:     db.Collection(classCollection),
		assessments: db.Collection(assessmentCollection),
		enrollments: db.Collection(enrollmentCollection),
	}
}

func (r *school) count(ctx context.Context, collection *mongo.Collection, filter bson.D) (int64, error) {
	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		logger.Context(ctx).Error(err)
		return 0, err
	}
	return total, nil
}

func memberID(ctx context.Context, userID string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		err = fmt.Errorf("user %q: %w", userID, model.ErrNotFound)
		logger.Context(ctx).Error(err)
		return bson.ObjectID{}, err
	}
	return id, nil
}

func (r *school) CountClasses(ctx context.Context) (int64, error) {
	return r.count(ctx, r.classes, bson.D{})
}

func (r *school) CountAssessments(ctx context.Context) (int64, error) {
	return r.count(ctx, r.assessments, bson.D{})
}

// CountTeacherClasses counts classes where the teacher is class teacher or teaches a subject.
func (r *school) CountTeacherClasses(ctx context.Context, teacherID string) (int64, error) {
	id, err := memberID(ctx, teacherID)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, r.classes, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "classTeacher", Value: id}},
		bson.D{{Key: "subjects.teacher", Value: id}},
	}}})
}

func (r *school) CountTeacherAssessments(ctx context.Context, teacherID string) (int64, error) {
	id, err := memberID(ctx, teacherID)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, r.assessments, bson.D{{Key: "teacher", Value: id}})
}

func (r *school) CountStudentClasses(ctx context.Context, studentID string) (int64, error) {
	id, err := memberID(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, r.enrollments, bson.D{{Key: "student", Value: id}, {Key: "status", Value: "active"}})
}

func (r *school) CountGradedAssessments(ctx context.Context, studentID string) (int64, error) {
	id, err := memberID(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, r.assessments, bson.D{{Key: "grades.student", Value: id}})
}
