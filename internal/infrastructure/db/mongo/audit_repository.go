package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/readstack/library-system/internal/core/domain"
)

const auditCollection = "auth_audit"

// AuditRepository appends authentication decisions to the audit trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	Username   string `bson:"username"`
	Scheme     string `bson:"scheme"`
	Outcome    string `bson:"outcome"`
	OccurredAt int64  `bson:"occurred_at"`
}

func (r *AuditRepository) Record(ctx context.Context, event domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, mongoAuthEvent{
		Username:   event.Username,
		Scheme:     event.Scheme,
		Outcome:    event.Outcome,
		OccurredAt: event.OccurredAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
