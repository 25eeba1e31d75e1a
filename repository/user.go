package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"github.com/kinkando/school-portal-service/pkg/profile"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const userCollection = "users"

type User interface {
	GetUser(ctx context.Context, filter model.UserFilter) (model.User, error)
	GetUsers(ctx context.Context, filter model.GetUsersRequest) ([]model.User, uint64, error)
	ListUsers(ctx context.Context, role profile.Role) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) (string, error)
	CountUsers(ctx context.Context, role profile.Role) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type user struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) User {
	return &user{
		collection: db.Collection(userCollection),
	}
}

type userDocument struct {
	ID         bson.ObjectID       `bson:"_id,omitempty"`
	Username   string              `bson:"username"`
	Email      string              `bson:"email"`
	Password   string              `bson:"password"`
	Role       string              `bson:"role"`
	IsVerified bool                `bson:"isVerified"`
	Profile    userProfileDocument `bson:"profile,omitempty"`
	CreatedAt  time.Time           `bson:"createdAt"`
}

type userProfileDocument struct {
	FirstName string `bson:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty"`
}

func (d userDocument) toModel() model.User {
	return model.User{
		UserID:       d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         profile.Role(d.Role),
		IsVerified:   d.IsVerified,
		Profile: model.UserProfile{
			FirstName: d.Profile.FirstName,
			LastName:  d.Profile.LastName,
		},
		CreatedAt: d.CreatedAt,
	}
}

func userFilter(filter model.UserFilter) (bson.D, error) {
	condition := bson.D{}
	if filter.UserID != "" {
		id, err := bson.ObjectIDFromHex(filter.UserID)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", filter.UserID, model.ErrNotFound)
		}
		condition = append(condition, bson.E{Key: "_id", Value: id})
	}
	if filter.Email != "" {
		condition = append(condition, bson.E{Key: "email", Value: filter.Email})
	}
	if filter.Username != "" {
		condition = append(condition, bson.E{Key: "username", Value: filter.Username})
	}
	if filter.Role != "" {
		condition = append(condition, bson.E{Key: "role", Value: string(filter.Role)})
	}
	if len(condition) == 0 {
		return nil, errors.New("filter must be provided")
	}
	return condition, nil
}

func (r *user) GetUser(ctx context.Context, filter model.UserFilter) (model.User, error) {
	condition, err := userFilter(filter)
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.User{}, err
	}

	var doc userDocument
	err = r.collection.FindOne(ctx, condition).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, fmt.Errorf("user: %w", model.ErrNotFound)
	}
	if err != nil {
		logger.Context(ctx).Error(err)
		return model.User{}, err
	}

	return doc.toModel(), nil
}

func rosterFilter(role profile.Role, search string) bson.D {
	condition := bson.D{}
	if role != "" {
		condition = append(condition, bson.E{Key: "role", Value: string(role)})
	}
	if search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		condition = append(condition, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "username", Value: pattern}},
			bson.D{{Key: "email", Value: pattern}},
		}})
	}
	return condition
}

func (r *user) GetUsers(ctx context.Context, filter model.GetUsersRequest) ([]model.User, uint64, error) {
	condition := rosterFilter(filter.Role, filter.Search)

	total, err := r.collection.CountDocuments(ctx, condition)
	if err != nil {
		logger.Context(ctx).Error(err)
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	users, err := r.find(ctx, condition, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, uint64(total), nil
}

func (r *user) ListUsers(ctx context.Context, role profile.Role) ([]model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "username", Value: 1}})
	return r.find(ctx, rosterFilter(role, ""), opts)
}

func (r *user) find(ctx context.Context, condition bson.D, opts *options.FindOptionsBuilder) ([]model.User, error) {
	cursor, err := r.collection.Find(ctx, condition, opts)
	if err != nil {
		logger.Context(ctx).Error(err)
		return nil, err
	}

	var docs []userDocument
	if err = cursor.All(ctx, &docs); err != nil {
		logger.Context(ctx).Error(err)
		return nil, err
	}

	users := make([]model.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toModel())
	}
	return users, nil
}

func (r *user) CreateUser(ctx context.Context, user model.User) (string, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	doc := userDocument{
		Username:   user.Username,
		Email:      user.Email,
		Password:   user.PasswordHash,
		Role:       string(user.Role),
		IsVerified: user.IsVerified,
		Profile: userProfileDocument{
			FirstName: user.Profile.FirstName,
			LastName:  user.Profile.LastName,
		},
		CreatedAt: user.CreatedAt,
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return "", model.ErrUserExists
	}
	if err != nil {
		logger.Context(ctx).Error(err)
		return "", err
	}

	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id %v", result.InsertedID)
	}
	return id.Hex(), nil
}

func (r *user) CountUsers(ctx context.Context, role profile.Role) (int64, error) {
	total, err := r.collection.CountDocuments(ctx, rosterFilter(role, ""))
	if err != nil {
		logger.Context(ctx).Error(err)
		return 0, err
	}
	return total, nil
}

func (r *user) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		logger.Context(ctx).Error(err)
		return err
	}
	return nil
}
