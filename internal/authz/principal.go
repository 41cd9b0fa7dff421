package authz

import "context"

type PrincipalKind string

const (
	PrincipalOwner     PrincipalKind = "owner"
	PrincipalCoManager PrincipalKind = "comanager"
)

// Principal is the resolved caller identity, passed explicitly through the
// request pipeline. For owners ID and OwnerID are the same value. Principal
// never carries permission material; the guard re-reads that from the store
// on every decision.
type Principal struct {
	Kind    PrincipalKind `json:"kind"`
	ID      string        `json:"id"`
	OwnerID string        `json:"owner_id"`
	Email   string        `json:"email"`
}

func (p Principal) IsOwner() bool {
	return p.Kind == PrincipalOwner
}

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}
