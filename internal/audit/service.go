package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/core/events"
)

// Service persists guard decisions and co-manager lifecycle actions. It
// implements authz.AuditSink by publishing onto the event bus, keeping the
// store write off the request path; the bus subscriber does the persist.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// RegisterSubscribers wires the service onto the bus. Call once at startup.
func (s *Service) RegisterSubscribers() {
	s.bus.Subscribe(events.EventTypeAccessDecision, s.handleAccessDecision)
	s.bus.Subscribe(events.EventTypeAccountProvision, s.handleLifecycle)
	s.bus.Subscribe(events.EventTypeAccountPermissionsUpdated, s.handleLifecycle)
	s.bus.Subscribe(events.EventTypeAccountStatusUpdated, s.handleLifecycle)
	s.bus.Subscribe(events.EventTypeAccountDeleted, s.handleLifecycle)
}

// RecordDecision implements authz.AuditSink.
func (s *Service) RecordDecision(ctx context.Context, entry authz.DecisionEntry) {
	event := events.NewAccessDecisionEvent(
		entry.ActorID,
		string(entry.ActorKind),
		entry.OwnerID,
		string(entry.Resource),
		string(entry.Action),
		entry.Allowed,
		string(entry.Reason),
		entry.OccurredAt,
	)
	// Fire-and-forget: audit must never block or fail a request.
	s.bus.Publish(context.WithoutCancel(ctx), event)
}

func (s *Service) handleAccessDecision(ctx context.Context, event events.Event) error {
	decision, ok := event.(*events.AccessDecisionEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	entry := &Entry{
		ID:         uuid.New().String(),
		ActorID:    decision.ActorID,
		ActorKind:  decision.ActorKind,
		OwnerID:    decision.OwnerID,
		Resource:   decision.Resource,
		Action:     decision.Action,
		Allowed:    decision.Allowed,
		Reason:     decision.Reason,
		OccurredAt: decision.OccurredAt(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to persist audit entry", "error", err, "actor_id", entry.ActorID)
		return err
	}
	return nil
}

func (s *Service) handleLifecycle(ctx context.Context, event events.Event) error {
	lifecycle, ok := event.(*events.AccountLifecycleEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	var action string
	switch event.EventType() {
	case events.EventTypeAccountProvision:
		action = "create"
	case events.EventTypeAccountDeleted:
		action = "delete"
	default:
		// Permission and status edits are both updates to the record.
		action = "update"
	}

	entry := &Entry{
		ID:         uuid.New().String(),
		ActorID:    lifecycle.OwnerID,
		ActorKind:  string(authz.PrincipalOwner),
		OwnerID:    lifecycle.OwnerID,
		Resource:   string(authz.ResourceCoManager),
		Action:     action,
		Allowed:    true,
		OccurredAt: lifecycle.OccurredAt(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to persist lifecycle audit entry", "error", err, "account_id", lifecycle.AccountID)
		return err
	}
	return nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}
