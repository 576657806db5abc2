package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/authcrest/session-engine/internal/core/ports"
)

const auditCollection = "audit_log"

// AuditStore persists audit entries to an insert-only collection.
type AuditStore struct {
	coll *mongo.Collection
}

func NewAuditStore(db *mongo.Database) *AuditStore {
	return &AuditStore{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	UserID    string         `bson:"user_id,omitempty"`
	SessionID string         `bson:"session_id,omitempty"`
	Action    string         `bson:"action"`
	Resource  string         `bson:"resource"`
	UserAgent string         `bson:"user_agent,omitempty"`
	IPAddress string         `bson:"ip_address,omitempty"`
	Metadata  map[string]any `bson:"metadata,omitempty"`
	Timestamp time.Time      `bson:"timestamp"`
}

// Insert writes one audit entry. Callers treat failures as non-fatal;
// the audit trail must never take authentication down with it.
func (s *AuditStore) Insert(ctx context.Context, entry ports.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := auditDoc{
		UserID:    entry.UserID,
		SessionID: entry.SessionID,
		Action:    entry.Action,
		Resource:  entry.Resource,
		UserAgent: entry.UserAgent,
		IPAddress: entry.IPAddress,
		Metadata:  entry.Metadata,
		Timestamp: entry.Timestamp,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
