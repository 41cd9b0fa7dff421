package authz

import (
	"context"
	"log/slog"
	"time"
)

type DenyReason string

const (
	DenySuspendedAccount       DenyReason = "SuspendedAccount"
	DenyForbiddenResource      DenyReason = "ForbiddenResource"
	DenyInsufficientPermission DenyReason = "InsufficientPermission"
	DenyUnknownResource        DenyReason = "UnknownResource"
)

// Decision is the guard's verdict. The reason is only meaningful when
// Allowed is false; callers surface a generic denial and keep the reason
// for logs and the audit trail.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// DelegateRecord is the live snapshot of a co-manager account the guard
// rules on. It is re-read from the store for every decision so that
// permission edits, suspension and deletion apply on the next request.
type DelegateRecord struct {
	ID          string
	OwnerID     string
	Status      AccountStatus
	AccessLevel AccessLevel
	Permissions []PermissionGrant
}

type DelegateResolver interface {
	ResolveDelegate(ctx context.Context, accountID string) (*DelegateRecord, error)
}

// AuditSink receives every denial and every allowed mutation.
type AuditSink interface {
	RecordDecision(ctx context.Context, entry DecisionEntry)
}

type DecisionEntry struct {
	ActorID    string
	ActorKind  PrincipalKind
	OwnerID    string
	Resource   ResourceKind
	Action     Action
	Allowed    bool
	Reason     DenyReason
	OccurredAt time.Time
}

type Guard struct {
	resolver DelegateResolver
	audit    AuditSink
	logger   *slog.Logger
}

func NewGuard(resolver DelegateResolver, audit AuditSink, logger *slog.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		audit:    audit,
		logger:   logger,
	}
}

// Authorize decides whether the principal may perform action on resource.
// The rule chain short-circuits in order: owner supremacy, live
// re-resolution, suspension, owner-exclusive resources, granular grant,
// access-level tier, fail-closed. A non-nil error means the decision could
// not be made (deleted account or store failure), not a denial.
func (g *Guard) Authorize(ctx context.Context, principal Principal, resource ResourceKind, action Action) (Decision, error) {
	if principal.IsOwner() {
		decision := Allow()
		g.record(ctx, principal, resource, action, decision)
		return decision, nil
	}

	record, err := g.resolver.ResolveDelegate(ctx, principal.ID)
	if err != nil {
		return Decision{}, err
	}

	decision := DecideForDelegate(record, resource, action)
	g.record(ctx, principal, resource, action, decision)
	return decision, nil
}

// DecideForDelegate evaluates the delegate rule chain against an already
// resolved record. Exposed as a pure function so the decision table is
// testable without a store.
func DecideForDelegate(record *DelegateRecord, resource ResourceKind, action Action) Decision {
	if record.Status != StatusActive {
		return Deny(DenySuspendedAccount)
	}

	// Owner-exclusive kinds are structurally outside the permissions
	// list; a stored grant for them never applies.
	if resource == ResourceCoManager || resource == ResourceBoutique {
		return Deny(DenyForbiddenResource)
	}

	if !resource.Known() {
		return Deny(DenyUnknownResource)
	}

	for _, grant := range record.Permissions {
		if grant.Resource != resource {
			continue
		}
		if grant.Allows(action) {
			return Allow()
		}
		return Deny(DenyInsufficientPermission)
	}

	if tierAllows(record.AccessLevel, action) {
		return Allow()
	}
	return Deny(DenyInsufficientPermission)
}

// RecordDenial feeds a denial made outside the rule chain (owner-exclusive
// routes rejected before any permission lookup) into the same audit sink.
func (g *Guard) RecordDenial(ctx context.Context, principal Principal, resource ResourceKind, action Action, reason DenyReason) {
	g.record(ctx, principal, resource, action, Deny(reason))
}

func (g *Guard) record(ctx context.Context, principal Principal, resource ResourceKind, action Action, decision Decision) {
	if !decision.Allowed {
		g.logger.WarnContext(ctx, "authorization denied",
			"actor_id", principal.ID,
			"actor_kind", principal.Kind,
			"resource", resource,
			"action", action,
			"reason", decision.Reason)
	}

	// Denials are always recorded; allowed decisions only when they
	// mutate state, so the trail shows who changed what.
	if g.audit == nil {
		return
	}
	if decision.Allowed && action == ActionRead {
		return
	}
	g.audit.RecordDecision(ctx, DecisionEntry{
		ActorID:    principal.ID,
		ActorKind:  principal.Kind,
		OwnerID:    principal.OwnerID,
		Resource:   resource,
		Action:     action,
		Allowed:    decision.Allowed,
		Reason:     decision.Reason,
		OccurredAt: time.Now(),
	})
}
