package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/authz"
)

// Service is the credential and session issuer for owners and co-managers.
type Service struct {
	owners         OwnerStore
	delegates      DelegateStore
	tokenGenerator TokenGenerator
	logger         *slog.Logger
	bcryptCost     int
}

func NewService(owners OwnerStore, delegates DelegateStore, tokenGen TokenGenerator, logger *slog.Logger, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		owners:         owners,
		delegates:      delegates,
		tokenGenerator: tokenGen,
		logger:         logger,
		bcryptCost:     bcryptCost,
	}
}

// Authenticate validates credentials and returns tokens plus the resolved
// principal. Unknown email and wrong password are indistinguishable to the
// caller; the distinction only reaches the logs.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, *authz.Principal, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, nil, err
	}

	if o, err := s.owners.FindByEmail(ctx, dto.Email); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(dto.Password)) != nil {
			s.logger.Warn("login failed: owner password mismatch", "owner_id", o.ID)
			return AuthTokens{}, nil, internal.ErrInvalidCredentials
		}
		principal := &authz.Principal{
			Kind:    authz.PrincipalOwner,
			ID:      o.ID,
			OwnerID: o.ID,
			Email:   o.Email,
		}
		tokens, err := s.issueTokens(principal)
		if err != nil {
			return AuthTokens{}, nil, err
		}
		return tokens, principal, nil
	} else if !errors.Is(err, internal.ErrAccountNotFound) {
		return AuthTokens{}, nil, err
	}

	account, err := s.delegates.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			s.logger.Warn("login failed: no account for email")
			return AuthTokens{}, nil, internal.ErrInvalidCredentials
		}
		return AuthTokens{}, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.Password)) != nil {
		s.logger.Warn("login failed: co-manager password mismatch", "account_id", account.ID)
		return AuthTokens{}, nil, internal.ErrInvalidCredentials
	}

	// Suspension is reported only after the credential is proven, so an
	// unauthenticated caller cannot confirm a suspended account exists.
	if !account.IsActive() {
		s.logger.Warn("login failed: account suspended", "account_id", account.ID)
		return AuthTokens{}, nil, internal.ErrAccountSuspended
	}

	principal := &authz.Principal{
		Kind:    authz.PrincipalCoManager,
		ID:      account.ID,
		OwnerID: account.OwnerID,
		Email:   account.Email,
	}
	tokens, err := s.issueTokens(principal)
	if err != nil {
		return AuthTokens{}, nil, err
	}
	return tokens, principal, nil
}

// RefreshTokens validates the refresh token and re-resolves the account
// before issuing replacements, so a deleted or suspended account cannot
// mint fresh sessions.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	principal, err := s.ResolvePrincipal(ctx, claims)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(principal)
}

// ValidateAccessToken validates the token signature and expiry. Callers
// must still re-resolve the account; a valid token does not prove the
// account still exists or is active.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ResolvePrincipal re-reads the account behind the claims from the live
// store. Deletion surfaces here as not-found, which kills the session.
func (s *Service) ResolvePrincipal(ctx context.Context, claims *Claims) (*authz.Principal, error) {
	switch authz.PrincipalKind(claims.Kind) {
	case authz.PrincipalOwner:
		o, err := s.owners.FindByID(ctx, claims.AccountID)
		if err != nil {
			return nil, err
		}
		return &authz.Principal{
			Kind:    authz.PrincipalOwner,
			ID:      o.ID,
			OwnerID: o.ID,
			Email:   o.Email,
		}, nil
	case authz.PrincipalCoManager:
		account, err := s.delegates.GetByID(ctx, claims.AccountID)
		if err != nil {
			return nil, err
		}
		if account.RequiresPasswordChange {
			return nil, internal.ErrPasswordChangeRequired
		}
		return &authz.Principal{
			Kind:    authz.PrincipalCoManager,
			ID:      account.ID,
			OwnerID: account.OwnerID,
			Email:   account.Email,
		}, nil
	}
	return nil, internal.ErrInvalidToken
}

// CompleteFirstPasswordChange verifies the temporary credential and stores
// the replacement. A second call with the original temporary password
// fails: the requires-change flag is already cleared, so the temporary
// credential cannot be replayed.
func (s *Service) CompleteFirstPasswordChange(ctx context.Context, dto FirstPasswordChangeDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	account, err := s.delegates.GetByID(ctx, dto.AccountID)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			return internal.ErrInvalidCredentials
		}
		return err
	}

	if !account.IsActive() {
		return internal.ErrAccountSuspended
	}

	if !account.RequiresPasswordChange {
		return internal.ErrPasswordAlreadyChanged
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.TemporaryPassword)) != nil {
		s.logger.Warn("first password change failed: temporary credential mismatch", "account_id", account.ID)
		return internal.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.delegates.SetPassword(ctx, account.ID, string(hash), false); err != nil {
		return err
	}

	s.logger.Info("first password change completed", "account_id", account.ID)
	return nil
}

func (s *Service) issueTokens(principal *authz.Principal) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(principal.ID, principal.OwnerID, string(principal.Kind))
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(principal.ID, principal.OwnerID, string(principal.Kind))
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(accountID, ownerID, kind string) (string, error) {
	return j.signed(accountID, ownerID, kind, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(accountID, ownerID, kind string) (string, error) {
	return j.signed(accountID, ownerID, kind, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signed(accountID, ownerID, kind string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		AccountID: accountID,
		OwnerID:   ownerID,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   accountID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Check signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Tokens that outlive the access TTL were signed with the
		// refresh secret.
		if claims, ok := token.Claims.(*Claims); ok {
			if time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
