package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/laala-app/creator-dashboard/internal/comanager"
	"github.com/laala-app/creator-dashboard/internal/owner"
)

// OwnerStore resolves creator accounts for login and per-request
// principal resolution.
type OwnerStore interface {
	FindByEmail(ctx context.Context, email string) (*owner.Owner, error)
	FindByID(ctx context.Context, id string) (*owner.Owner, error)
}

// DelegateStore resolves co-manager accounts. Lookups hit the live record
// store; the issuer never caches an account between requests.
type DelegateStore interface {
	GetByEmail(ctx context.Context, email string) (*comanager.Account, error)
	GetByID(ctx context.Context, accountID string) (*comanager.Account, error)
	SetPassword(ctx context.Context, accountID, passwordHash string, requiresChange bool) error
}

// TokenGenerator creates and validates bearer tokens.
type TokenGenerator interface {
	GenerateAccessToken(accountID, ownerID, kind string) (string, error)
	GenerateRefreshToken(accountID, ownerID, kind string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims carries only identity: account id, owning principal and kind.
// Permission material is deliberately absent so edits and suspensions
// take effect without waiting out a token's lifetime.
type Claims struct {
	AccountID string `json:"account_id"`
	OwnerID   string `json:"owner_id"`
	Kind      string `json:"kind"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}
