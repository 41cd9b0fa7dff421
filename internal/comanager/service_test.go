package comanager

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/laala-app/creator-dashboard/internal"
	"github.com/laala-app/creator-dashboard/internal/authz"
	"github.com/laala-app/creator-dashboard/internal/core/events"
)

func TestCoManager(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "CoManager Module Suite")
}

// Mock Repository keeping accounts in memory.
type mockRepository struct {
	accounts      map[string]*Account
	returnError   bool
	errorToReturn error
}

func newMockRepository() *mockRepository {
	return &mockRepository{accounts: map[string]*Account{}}
}

func (m *mockRepository) FindByEmail(_ context.Context, email string) (*Account, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockRepository) FindByID(_ context.Context, id string) (*Account, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockRepository) Create(_ context.Context, account *Account) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockRepository) Update(_ context.Context, account *Account) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	if m.returnError {
		return m.errorToReturn
	}
	delete(m.accounts, id)
	return nil
}

func (m *mockRepository) ListByOwner(_ context.Context, ownerID string) ([]*Account, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	var out []*Account
	for _, a := range m.accounts {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

// eventCollector records bus events; Publish dispatches on goroutines so
// reads go through the mutex-guarded snapshot.
type eventCollector struct {
	mu   sync.Mutex
	seen []string
}

func newEventCollector(bus *events.EventBus, eventTypes ...string) *eventCollector {
	c := &eventCollector{}
	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.seen = append(c.seen, event.EventType())
			return nil
		})
	}
	return c
}

func (c *eventCollector) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.seen...)
}

var _ = ginkgo.Describe("CoManagerService", func() {
	var (
		service *Service
		repo    *mockRepository
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		service = NewService(repo, nil, slog.Default(), bcrypt.MinCost, 12)
	})

	ginkgo.Describe("Provision", func() {
		ginkgo.It("should create an active account that must change its password", func() {
			// Given
			dto := CreateCoManagerDTO{
				Email:       "karim@laala.app",
				AccessLevel: "consult",
				Permissions: []GrantDTO{
					{Resource: "content", Actions: []string{"create", "read"}},
				},
			}

			// When
			account, tempPassword, err := service.Provision(ctx, "owner-1", dto)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(account.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(account.OwnerID).To(gomega.Equal("owner-1"))
			gomega.Expect(account.Status).To(gomega.Equal(authz.StatusActive))
			gomega.Expect(account.RequiresPasswordChange).To(gomega.BeTrue())
			gomega.Expect(account.Permissions).To(gomega.HaveLen(1))

			// The temporary password is returned in clear exactly once
			// and stored only as a hash.
			gomega.Expect(tempPassword).To(gomega.HaveLen(12))
			gomega.Expect(account.PasswordHash).ToNot(gomega.ContainSubstring(tempPassword))
			gomega.Expect(bcrypt.CompareHashAndPassword(
				[]byte(account.PasswordHash), []byte(tempPassword))).To(gomega.Succeed())
		})

		ginkgo.It("should refuse an email that is already taken", func() {
			// Given
			dto := CreateCoManagerDTO{Email: "karim@laala.app", AccessLevel: "consult"}
			_, _, err := service.Provision(ctx, "owner-1", dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// When the same email is provisioned again, even by another owner
			_, _, err = service.Provision(ctx, "owner-2", dto)

			// Then
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmailTaken))
		})

		ginkgo.It("should reject permissions naming owner-exclusive resources", func() {
			// Given
			dto := CreateCoManagerDTO{
				Email:       "karim@laala.app",
				AccessLevel: "manage",
				Permissions: []GrantDTO{
					{Resource: "comanager", Actions: []string{"create"}},
				},
			}

			// When
			_, _, err := service.Provision(ctx, "owner-1", dto)

			// Then
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.accounts).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject duplicate grants for the same resource", func() {
			// Given
			dto := CreateCoManagerDTO{
				Email:       "karim@laala.app",
				AccessLevel: "manage",
				Permissions: []GrantDTO{
					{Resource: "content", Actions: []string{"read"}},
					{Resource: "content", Actions: []string{"create"}},
				},
			}

			// When
			_, _, err := service.Provision(ctx, "owner-1", dto)

			// Then
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should reject an unknown access level", func() {
			// When
			_, _, err := service.Provision(ctx, "owner-1", CreateCoManagerDTO{
				Email:       "karim@laala.app",
				AccessLevel: "root",
			})

			// Then
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("GetForOwner", func() {
		ginkgo.BeforeEach(func() {
			repo.accounts["cm-1"] = &Account{ID: "cm-1", OwnerID: "owner-1", Email: "karim@laala.app"}
		})

		ginkgo.It("should return the owner's own delegate", func() {
			account, err := service.GetForOwner(ctx, "owner-1", "cm-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(account.ID).To(gomega.Equal("cm-1"))
		})

		ginkgo.It("should hide another owner's delegate behind not-found", func() {
			_, err := service.GetForOwner(ctx, "owner-2", "cm-1")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountNotFound))
		})
	})

	ginkgo.Describe("UpdatePermissions", func() {
		ginkgo.BeforeEach(func() {
			repo.accounts["cm-1"] = &Account{
				ID:          "cm-1",
				OwnerID:     "owner-1",
				Email:       "karim@laala.app",
				AccessLevel: authz.AccessLevelConsult,
			}
		})

		ginkgo.It("should replace the access level and grant list", func() {
			// When
			account, err := service.UpdatePermissions(ctx, "owner-1", "cm-1", UpdatePermissionsDTO{
				AccessLevel: "manage",
				Permissions: []GrantDTO{
					{Resource: "content", Actions: []string{"create", "read", "update", "delete"}},
				},
			})

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(account.AccessLevel).To(gomega.Equal(authz.AccessLevelManage))
			gomega.Expect(account.Permissions).To(gomega.HaveLen(1))
			gomega.Expect(repo.accounts["cm-1"].AccessLevel).To(gomega.Equal(authz.AccessLevelManage))
		})

		ginkgo.It("should refuse edits to another owner's delegate", func() {
			_, err := service.UpdatePermissions(ctx, "owner-2", "cm-1", UpdatePermissionsDTO{
				AccessLevel: "manage",
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountNotFound))
		})
	})

	ginkgo.Describe("UpdateStatus", func() {
		ginkgo.BeforeEach(func() {
			repo.accounts["cm-1"] = &Account{
				ID:      "cm-1",
				OwnerID: "owner-1",
				Status:  authz.StatusActive,
			}
		})

		ginkgo.It("should suspend and reactivate", func() {
			account, err := service.UpdateStatus(ctx, "owner-1", "cm-1", UpdateStatusDTO{Status: "suspended"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(account.Status).To(gomega.Equal(authz.StatusSuspended))

			account, err = service.UpdateStatus(ctx, "owner-1", "cm-1", UpdateStatusDTO{Status: "active"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(account.Status).To(gomega.Equal(authz.StatusActive))
		})

		ginkgo.It("should reject a status outside the enum", func() {
			_, err := service.UpdateStatus(ctx, "owner-1", "cm-1", UpdateStatusDTO{Status: "banned"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.BeforeEach(func() {
			repo.accounts["cm-1"] = &Account{ID: "cm-1", OwnerID: "owner-1"}
		})

		ginkgo.It("should remove the record", func() {
			gomega.Expect(service.Delete(ctx, "owner-1", "cm-1")).To(gomega.Succeed())
			gomega.Expect(repo.accounts).To(gomega.BeEmpty())
		})

		ginkgo.It("should make the guard see the deletion immediately", func() {
			gomega.Expect(service.Delete(ctx, "owner-1", "cm-1")).To(gomega.Succeed())

			_, err := service.ResolveDelegate(ctx, "cm-1")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountNotFound))
		})

		ginkgo.It("should refuse deleting another owner's delegate", func() {
			err := service.Delete(ctx, "owner-2", "cm-1")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountNotFound))
			gomega.Expect(repo.accounts).To(gomega.HaveKey("cm-1"))
		})
	})

	ginkgo.Describe("audit events", func() {
		var collector *eventCollector

		ginkgo.BeforeEach(func() {
			bus := events.NewEventBus(slog.Default())
			collector = newEventCollector(bus,
				events.EventTypeAccountProvision,
				events.EventTypeAccountPermissionsUpdated,
				events.EventTypeAccountStatusUpdated,
				events.EventTypeAccountDeleted)
			service = NewService(repo, bus, slog.Default(), bcrypt.MinCost, 12)

			repo.accounts["cm-1"] = &Account{
				ID:      "cm-1",
				OwnerID: "owner-1",
				Status:  authz.StatusActive,
			}
		})

		ginkgo.It("should publish a lifecycle event for a permission edit", func() {
			// When
			_, err := service.UpdatePermissions(ctx, "owner-1", "cm-1", UpdatePermissionsDTO{
				AccessLevel: "consult",
			})

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Eventually(collector.types).Should(
				gomega.ContainElement(events.EventTypeAccountPermissionsUpdated))
		})

		ginkgo.It("should publish a lifecycle event for a suspension", func() {
			// When
			_, err := service.UpdateStatus(ctx, "owner-1", "cm-1", UpdateStatusDTO{Status: "suspended"})

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Eventually(collector.types).Should(
				gomega.ContainElement(events.EventTypeAccountStatusUpdated))
		})

		ginkgo.It("should publish one event per owner mutation", func() {
			// When: provision, edit, suspend, delete
			account, _, err := service.Provision(ctx, "owner-1", CreateCoManagerDTO{
				Email:       "nadia@laala.app",
				AccessLevel: "consult",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.UpdatePermissions(ctx, "owner-1", account.ID, UpdatePermissionsDTO{AccessLevel: "manage"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.UpdateStatus(ctx, "owner-1", account.ID, UpdateStatusDTO{Status: "suspended"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(ctx, "owner-1", account.ID)).To(gomega.Succeed())

			// Then the trail sees all four
			gomega.Eventually(collector.types).Should(gomega.ConsistOf(
				events.EventTypeAccountProvision,
				events.EventTypeAccountPermissionsUpdated,
				events.EventTypeAccountStatusUpdated,
				events.EventTypeAccountDeleted))
		})
	})

	ginkgo.Describe("ResolveDelegate", func() {
		ginkgo.It("should snapshot the live record for the guard", func() {
			repo.accounts["cm-1"] = &Account{
				ID:          "cm-1",
				OwnerID:     "owner-1",
				Status:      authz.StatusActive,
				AccessLevel: authz.AccessLevelManage,
				Permissions: []authz.PermissionGrant{
					{Resource: authz.ResourceContent, Actions: []authz.Action{authz.ActionDelete}},
				},
			}

			record, err := service.ResolveDelegate(ctx, "cm-1")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(record.OwnerID).To(gomega.Equal("owner-1"))
			gomega.Expect(record.AccessLevel).To(gomega.Equal(authz.AccessLevelManage))
			gomega.Expect(record.Permissions).To(gomega.HaveLen(1))
		})
	})
})
