package audit

import (
	"context"
	"time"

	auditDatamodel "github.com/laala-app/creator-dashboard/internal/core/datamodel/audit"
)

// Entry is one line of the delegated-access audit trail: who asked to do
// what, to which resource, and how the guard ruled.
type Entry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	ActorKind  string    `json:"actor_kind"`
	OwnerID    string    `json:"owner_id"`
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Entry, error)
}

func ToDataModel(e *Entry) *auditDatamodel.Entry {
	return &auditDatamodel.Entry{
		ID:         e.ID,
		ActorID:    e.ActorID,
		ActorKind:  e.ActorKind,
		OwnerID:    e.OwnerID,
		Resource:   e.Resource,
		Action:     e.Action,
		Allowed:    e.Allowed,
		Reason:     e.Reason,
		OccurredAt: e.OccurredAt,
	}
}

func FromDataModel(m *auditDatamodel.Entry) *Entry {
	return &Entry{
		ID:         m.ID,
		ActorID:    m.ActorID,
		ActorKind:  m.ActorKind,
		OwnerID:    m.OwnerID,
		Resource:   m.Resource,
		Action:     m.Action,
		Allowed:    m.Allowed,
		Reason:     m.Reason,
		OccurredAt: m.OccurredAt,
	}
}
