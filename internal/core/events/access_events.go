package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAccessDecision            = "access.decision"
	EventTypeAccountProvision          = "comanager.provisioned"
	EventTypeAccountPermissionsUpdated = "comanager.permissions_updated"
	EventTypeAccountStatusUpdated      = "comanager.status_updated"
	EventTypeAccountDeleted            = "comanager.deleted"
)

// AccessDecisionEvent carries a guard verdict to the audit subscriber.
type AccessDecisionEvent struct {
	BaseEvent
	ActorID   string `json:"actor_id"`
	ActorKind string `json:"actor_kind"`
	OwnerID   string `json:"owner_id"`
	Resource  string `json:"resource"`
	Action    string `json:"action"`
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
}

func NewAccessDecisionEvent(actorID, actorKind, ownerID, resource, action string, allowed bool, reason string, occurredAt time.Time) *AccessDecisionEvent {
	return &AccessDecisionEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessDecision,
			Timestamp: occurredAt,
			Data: map[string]interface{}{
				"actor_id":   actorID,
				"actor_kind": actorKind,
				"owner_id":   ownerID,
				"resource":   resource,
				"action":     action,
				"allowed":    allowed,
				"reason":     reason,
			},
		},
		ActorID:   actorID,
		ActorKind: actorKind,
		OwnerID:   ownerID,
		Resource:  resource,
		Action:    action,
		Allowed:   allowed,
		Reason:    reason,
	}
}

// AccountLifecycleEvent marks owner actions on co-manager accounts that the
// audit trail tracks outside the guard path (provision, delete).
type AccountLifecycleEvent struct {
	BaseEvent
	AccountID string `json:"account_id"`
	OwnerID   string `json:"owner_id"`
}

func NewAccountLifecycleEvent(eventType, accountID, ownerID string) *AccountLifecycleEvent {
	return &AccountLifecycleEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"account_id": accountID,
				"owner_id":   ownerID,
			},
		},
		AccountID: accountID,
		OwnerID:   ownerID,
	}
}
