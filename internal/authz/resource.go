package authz

import "fmt"

// ResourceKind is the closed set of dashboard resources the guard rules on.
// Adding a kind here forces an explicit decision in grantability and in the
// tier defaults below; nothing defaults to permissive.
type ResourceKind string

const (
	ResourceContent   ResourceKind = "content"
	ResourceLaala     ResourceKind = "laala"
	ResourceMessage   ResourceKind = "message"
	ResourceRetrait   ResourceKind = "retrait"
	ResourceBoutique  ResourceKind = "boutique"
	ResourceCoManager ResourceKind = "comanager"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// AccessLevel is the coarse fallback tier consulted only when no granular
// grant matches the requested resource.
type AccessLevel string

const (
	AccessLevelConsult AccessLevel = "consult"
	AccessLevelManage  AccessLevel = "manage"
)

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
)

// PermissionGrant pairs a resource kind with the actions allowed on it.
// A permissions list holds at most one grant per kind.
type PermissionGrant struct {
	Resource ResourceKind `json:"resource"`
	Actions  []Action     `json:"actions"`
}

func (g PermissionGrant) Allows(action Action) bool {
	for _, a := range g.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func ParseResourceKind(s string) (ResourceKind, error) {
	switch ResourceKind(s) {
	case ResourceContent, ResourceLaala, ResourceMessage, ResourceRetrait,
		ResourceBoutique, ResourceCoManager:
		return ResourceKind(s), nil
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

func ParseAccessLevel(s string) (AccessLevel, error) {
	switch AccessLevel(s) {
	case AccessLevelConsult, AccessLevelManage:
		return AccessLevel(s), nil
	}
	return "", fmt.Errorf("unknown access level %q", s)
}

// Grantable reports whether a resource kind may appear in a co-manager's
// permissions list. Boutique and co-manager management stay with the owner.
func (r ResourceKind) Grantable() bool {
	switch r {
	case ResourceContent, ResourceLaala, ResourceMessage, ResourceRetrait:
		return true
	case ResourceBoutique, ResourceCoManager:
		return false
	}
	return false
}

// Known reports whether the kind belongs to the closed enum at all.
func (r ResourceKind) Known() bool {
	switch r {
	case ResourceContent, ResourceLaala, ResourceMessage, ResourceRetrait,
		ResourceBoutique, ResourceCoManager:
		return true
	}
	return false
}

// tierAllows is the access-level fallback: consult reads everything
// grantable, manage additionally creates and updates. Delete is never
// implied by a tier; it must be granted explicitly.
func tierAllows(level AccessLevel, action Action) bool {
	switch level {
	case AccessLevelConsult:
		return action == ActionRead
	case AccessLevelManage:
		return action == ActionCreate || action == ActionRead || action == ActionUpdate
	}
	return false
}

// ValidateGrants enforces the write-time shape of a permissions list:
// every kind known and grantable, no duplicate kinds, no empty action sets.
func ValidateGrants(grants []PermissionGrant) error {
	seen := make(map[ResourceKind]bool, len(grants))
	for _, g := range grants {
		if !g.Resource.Known() {
			return fmt.Errorf("unknown resource kind %q", g.Resource)
		}
		if !g.Resource.Grantable() {
			return fmt.Errorf("resource %q cannot be granted to a co-manager", g.Resource)
		}
		if seen[g.Resource] {
			return fmt.Errorf("duplicate grant for resource %q", g.Resource)
		}
		seen[g.Resource] = true
		if len(g.Actions) == 0 {
			return fmt.Errorf("grant for resource %q has no actions", g.Resource)
		}
		actionSeen := make(map[Action]bool, len(g.Actions))
		for _, a := range g.Actions {
			if _, err := ParseAction(string(a)); err != nil {
				return err
			}
			if actionSeen[a] {
				return fmt.Errorf("duplicate action %q for resource %q", a, g.Resource)
			}
			actionSeen[a] = true
		}
	}
	return nil
}
