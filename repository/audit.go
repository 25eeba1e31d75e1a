package repository

import (
	"context"
	"time"

	"github.com/kinkando/school-portal-service/model"
	"github.com/kinkando/school-portal-service/pkg/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const auditCollection = "audit_events"

type Audit interface {
	CreateEvent(ctx context.Context, event model.AuditEvent) error
}

type audit struct {
	collection *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) Audit {
	return &audit{
		collection: db.Collection(auditCollection),
	}
}

type auditDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Action     string        `bson:"action"`
	ActorID    string        `bson:"actorID"`
	TargetID   string        `bson:"targetID"`
	TargetRole string        `bson:"targetRole"`
	SessionID  string        `bson:"sessionID"`
	IP         string        `bson:"ip"`
	CreatedAt  time.Time     `bson:"createdAt"`
}

func (r *audit) CreateEvent(ctx context.Context, event model.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, auditDocument{
		Action:     string(event.Action),
		ActorID:    event.ActorID,
		TargetID:   event.TargetID,
		TargetRole: string(event.TargetRole),
		SessionID:  event.SessionID,
		IP:         event.IP,
		CreatedAt:  event.CreatedAt,
	})
	if err != nil {
		logger.Context(ctx).Error(err)
		return err
	}
	return nil
}
