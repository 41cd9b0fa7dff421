package comanager

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/core/events"
)

type Service struct {
	repo               Repository
	bus                *events.EventBus
	logger             *slog.Logger
	bcryptCost         int
	tempPasswordLength int
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger, bcryptCost, tempPasswordLength int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if tempPasswordLength < 8 {
		tempPasswordLength = 12
	}
	return &Service{
		repo:               repo,
		bus:                bus,
		logger:             logger,
		bcryptCost:         bcryptCost,
		tempPasswordLength: tempPasswordLength,
	}
}

// Provision creates a co-manager under ownerID with a one-time temporary
// password. The account starts with requires_password_change set; the
// delegate must complete the first password change before any other route
// lets them through.
func (s *Service) Provision(ctx context.Context, ownerID string, dto CreateCoManagerDTO) (*Account, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	existing, err := s.repo.FindByEmail(ctx, dto.Email)
	if err != nil && !errors.Is(err, internal.ErrAccountNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", internal.ErrEmailTaken
	}

	tempPassword, err := generateTempPassword(s.tempPasswordLength)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to generate temporary password", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), s.bcryptCost)
	if err != nil {
		return nil, "", internal.NewInternalError("failed to hash temporary password", err)
	}

	grants, err := toGrants(dto.Permissions)
	if err != nil {
		return nil, "", internal.NewValidationFieldError("permissions", err.Error(), internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	account := &Account{
		ID:                     uuid.New().String(),
		OwnerID:                ownerID,
		Email:                  dto.Email,
		PasswordHash:           string(hash),
		AccessLevel:            authz.AccessLevel(dto.AccessLevel),
		Permissions:            grants,
		Status:                 authz.StatusActive,
		RequiresPasswordChange: true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, "", err
	}

	s.logger.Info("co-manager provisioned",
		"account_id", account.ID,
		"owner_id", ownerID,
		"access_level", account.AccessLevel)

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewAccountLifecycleEvent(events.EventTypeAccountProvision, account.ID, ownerID))
	}

	return account, tempPassword, nil
}

func (s *Service) GetForOwner(ctx context.Context, ownerID, accountID string) (*Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	// Another owner's delegate looks exactly like a missing record.
	if account.OwnerID != ownerID {
		return nil, internal.ErrAccountNotFound
	}
	return account, nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]*Account, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// UpdatePermissions replaces the grant list and access level. Takes effect
// on the delegate's next request; no token revocation is needed because
// the guard re-reads the record every time.
func (s *Service) UpdatePermissions(ctx context.Context, ownerID, accountID string, dto UpdatePermissionsDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.GetForOwner(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	grants, err := toGrants(dto.Permissions)
	if err != nil {
		return nil, internal.NewValidationFieldError("permissions", err.Error(), internal.ErrCodeValidationFailed)
	}

	account.AccessLevel = authz.AccessLevel(dto.AccessLevel)
	account.Permissions = grants
	account.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("co-manager permissions updated",
		"account_id", account.ID,
		"owner_id", ownerID,
		"access_level", account.AccessLevel,
		"grant_count", len(grants))

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewAccountLifecycleEvent(events.EventTypeAccountPermissionsUpdated, account.ID, ownerID))
	}

	return account, nil
}

func (s *Service) UpdateStatus(ctx context.Context, ownerID, accountID string, dto UpdateStatusDTO) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.GetForOwner(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	account.Status = authz.AccountStatus(dto.Status)
	account.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("co-manager status updated",
		"account_id", account.ID,
		"owner_id", ownerID,
		"status", account.Status)

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewAccountLifecycleEvent(events.EventTypeAccountStatusUpdated, account.ID, ownerID))
	}

	return account, nil
}

// Delete is terminal. Outstanding tokens die with the record: the next
// request re-resolves, gets not-found, and is rejected.
func (s *Service) Delete(ctx context.Context, ownerID, accountID string) error {
	account, err := s.GetForOwner(ctx, ownerID, accountID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, account.ID); err != nil {
		return err
	}

	s.logger.Info("co-manager deleted", "account_id", account.ID, "owner_id", ownerID)

	if s.bus != nil {
		s.bus.Publish(ctx, events.NewAccountLifecycleEvent(events.EventTypeAccountDeleted, account.ID, ownerID))
	}

	return nil
}

// ResolveDelegate implements the guard's resolver contract with a live
// store read.
func (s *Service) ResolveDelegate(ctx context.Context, accountID string) (*authz.DelegateRecord, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account.DelegateRecord(), nil
}

// GetByEmail and GetByID serve the credential issuer.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *Service) GetByID(ctx context.Context, accountID string) (*Account, error) {
	return s.repo.FindByID(ctx, accountID)
}

// SetPassword stores a new credential hash for the delegate's own record.
func (s *Service) SetPassword(ctx context.Context, accountID, passwordHash string, requiresChange bool) error {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	account.PasswordHash = passwordHash
	account.RequiresPasswordChange = requiresChange
	account.UpdatedAt = time.Now()

	return s.repo.Update(ctx, account)
}

func generateTempPassword(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
