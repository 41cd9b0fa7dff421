package authz

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/laala-app/creator-dashboard/internal"
)

func TestAuthz(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Authz Module Suite")
}

// Mock DelegateResolver backed by a mutable map, so specs can edit,
// suspend or delete an account between calls the way the store would.
type mockResolver struct {
	records map[string]*DelegateRecord
	calls   int
}

func newMockResolver() *mockResolver {
	return &mockResolver{records: map[string]*DelegateRecord{}}
}

func (m *mockResolver) ResolveDelegate(_ context.Context, accountID string) (*DelegateRecord, error) {
	m.calls++
	if record, ok := m.records[accountID]; ok {
		return record, nil
	}
	return nil, internal.ErrAccountNotFound
}

// Mock AuditSink collecting entries synchronously.
type mockAuditSink struct {
	entries []DecisionEntry
}

func (m *mockAuditSink) RecordDecision(_ context.Context, entry DecisionEntry) {
	m.entries = append(m.entries, entry)
}

var _ = ginkgo.Describe("Guard", func() {
	var (
		guard    *Guard
		resolver *mockResolver
		sink     *mockAuditSink
		ctx      context.Context

		owner    Principal
		delegate Principal
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		resolver = newMockResolver()
		sink = &mockAuditSink{}
		guard = NewGuard(resolver, sink, slog.Default())

		owner = Principal{Kind: PrincipalOwner, ID: "owner-1", OwnerID: "owner-1"}
		delegate = Principal{Kind: PrincipalCoManager, ID: "cm-1", OwnerID: "owner-1"}
	})

	ginkgo.Describe("owner supremacy", func() {
		ginkgo.It("should allow the owner every action on every resource", func() {
			for _, resource := range []ResourceKind{ResourceContent, ResourceLaala, ResourceMessage, ResourceRetrait, ResourceBoutique, ResourceCoManager} {
				for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
					decision, err := guard.Authorize(ctx, owner, resource, action)
					gomega.Expect(err).ToNot(gomega.HaveOccurred())
					gomega.Expect(decision.Allowed).To(gomega.BeTrue())
				}
			}
		})

		ginkgo.It("should not consult the record store for owners", func() {
			// When
			_, err := guard.Authorize(ctx, owner, ResourceContent, ActionDelete)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resolver.calls).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("delegate decisions", func() {
		ginkgo.BeforeEach(func() {
			resolver.records["cm-1"] = &DelegateRecord{
				ID:          "cm-1",
				OwnerID:     "owner-1",
				Status:      StatusActive,
				AccessLevel: AccessLevelConsult,
			}
		})

		ginkgo.Context("access-level tiers", func() {
			ginkgo.It("should let consult read and nothing else", func() {
				decision, err := guard.Authorize(ctx, delegate, ResourceContent, ActionRead)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeTrue())

				for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
					decision, err := guard.Authorize(ctx, delegate, ResourceContent, action)
					gomega.Expect(err).ToNot(gomega.HaveOccurred())
					gomega.Expect(decision.Allowed).To(gomega.BeFalse())
					gomega.Expect(decision.Reason).To(gomega.Equal(DenyInsufficientPermission))
				}
			})

			ginkgo.It("should let manage create, read and update but never delete", func() {
				resolver.records["cm-1"].AccessLevel = AccessLevelManage

				for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate} {
					decision, err := guard.Authorize(ctx, delegate, ResourceLaala, action)
					gomega.Expect(err).ToNot(gomega.HaveOccurred())
					gomega.Expect(decision.Allowed).To(gomega.BeTrue())
				}

				decision, err := guard.Authorize(ctx, delegate, ResourceLaala, ActionDelete)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeFalse())
				gomega.Expect(decision.Reason).To(gomega.Equal(DenyInsufficientPermission))
			})
		})

		ginkgo.Context("granular grants", func() {
			ginkgo.It("should widen a consult tier where a grant says so", func() {
				// Given a consult delegate holding a delete grant on content
				resolver.records["cm-1"].Permissions = []PermissionGrant{
					{Resource: ResourceContent, Actions: []Action{ActionRead, ActionDelete}},
				}

				// When
				decision, err := guard.Authorize(ctx, delegate, ResourceContent, ActionDelete)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeTrue())
			})

			ginkgo.It("should narrow a manage tier where a grant says so", func() {
				// Given a manage delegate whose content grant is read-only
				resolver.records["cm-1"].AccessLevel = AccessLevelManage
				resolver.records["cm-1"].Permissions = []PermissionGrant{
					{Resource: ResourceContent, Actions: []Action{ActionRead}},
				}

				// When
				decision, err := guard.Authorize(ctx, delegate, ResourceContent, ActionUpdate)

				// Then the grant overrides the tier, not the other way round
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeFalse())
				gomega.Expect(decision.Reason).To(gomega.Equal(DenyInsufficientPermission))
			})

			ginkgo.It("should leave ungranted resources on the tier", func() {
				// Given a grant for content only
				resolver.records["cm-1"].Permissions = []PermissionGrant{
					{Resource: ResourceContent, Actions: []Action{ActionCreate, ActionRead}},
				}

				// When asking about message
				decision, err := guard.Authorize(ctx, delegate, ResourceMessage, ActionRead)

				// Then the consult tier answers
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("owner-exclusive resources", func() {
			ginkgo.It("should deny co-manager administration regardless of tier", func() {
				resolver.records["cm-1"].AccessLevel = AccessLevelManage

				decision, err := guard.Authorize(ctx, delegate, ResourceCoManager, ActionRead)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeFalse())
				gomega.Expect(decision.Reason).To(gomega.Equal(DenyForbiddenResource))
			})

			ginkgo.It("should ignore a stored grant for an owner-exclusive kind", func() {
				// Given a grant that should never have been writable
				resolver.records["cm-1"].Permissions = []PermissionGrant{
					{Resource: ResourceBoutique, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
				}

				// When
				decision, err := guard.Authorize(ctx, delegate, ResourceBoutique, ActionRead)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeFalse())
				gomega.Expect(decision.Reason).To(gomega.Equal(DenyForbiddenResource))
			})
		})

		ginkgo.Context("suspension", func() {
			ginkgo.It("should deny everything for a suspended account before other rules", func() {
				resolver.records["cm-1"].Status = StatusSuspended
				resolver.records["cm-1"].AccessLevel = AccessLevelManage
				resolver.records["cm-1"].Permissions = []PermissionGrant{
					{Resource: ResourceContent, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
				}

				decision, err := guard.Authorize(ctx, delegate, ResourceContent, ActionRead)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeFalse())
				gomega.Expect(decision.Reason).To(gomega.Equal(DenySuspendedAccount))
			})
		})

		ginkgo.Context("unknown resources", func() {
			ginkgo.It("should fail closed", func() {
				resolver.records["cm-1"].AccessLevel = AccessLevelManage

				decision, err := guard.Authorize(ctx, delegate, ResourceKind("statistique"), ActionRead)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeFalse())
				gomega.Expect(decision.Reason).To(gomega.Equal(DenyUnknownResource))
			})
		})

		ginkgo.Context("live re-resolution", func() {
			ginkgo.It("should pick up a permission edit on the next decision", func() {
				// Given an allowed read
				decision, err := guard.Authorize(ctx, delegate, ResourceContent, ActionRead)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeTrue())

				// When the record is narrowed to an empty content grant
				resolver.records["cm-1"].Permissions = []PermissionGrant{
					{Resource: ResourceContent, Actions: []Action{ActionCreate}},
				}

				// Then the very next decision sees it
				decision, err = guard.Authorize(ctx, delegate, ResourceContent, ActionRead)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(decision.Allowed).To(gomega.BeFalse())
			})

			ginkgo.It("should resolve the record on every single call", func() {
				for i := 0; i < 3; i++ {
					_, err := guard.Authorize(ctx, delegate, ResourceContent, ActionRead)
					gomega.Expect(err).ToNot(gomega.HaveOccurred())
				}
				gomega.Expect(resolver.calls).To(gomega.Equal(3))
			})

			ginkgo.It("should surface deletion as an error, not a denial", func() {
				// Given the account is deleted mid-session
				delete(resolver.records, "cm-1")

				// When
				_, err := guard.Authorize(ctx, delegate, ResourceContent, ActionRead)

				// Then
				gomega.Expect(err).To(gomega.MatchError(internal.ErrAccountNotFound))
			})
		})

		ginkgo.Context("audit recording", func() {
			ginkgo.It("should record every denial", func() {
				_, err := guard.Authorize(ctx, delegate, ResourceContent, ActionDelete)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				gomega.Expect(sink.entries).To(gomega.HaveLen(1))
				gomega.Expect(sink.entries[0].Allowed).To(gomega.BeFalse())
				gomega.Expect(sink.entries[0].Reason).To(gomega.Equal(DenyInsufficientPermission))
				gomega.Expect(sink.entries[0].ActorID).To(gomega.Equal("cm-1"))
				gomega.Expect(sink.entries[0].OwnerID).To(gomega.Equal("owner-1"))
			})

			ginkgo.It("should record denials taken outside the rule chain", func() {
				// Given a delegate rejected on an owner-exclusive route
				guard.RecordDenial(ctx, delegate, ResourceCoManager, ActionRead, DenyForbiddenResource)

				// Then the sink sees it like any guard denial
				gomega.Expect(sink.entries).To(gomega.HaveLen(1))
				gomega.Expect(sink.entries[0].Allowed).To(gomega.BeFalse())
				gomega.Expect(sink.entries[0].Reason).To(gomega.Equal(DenyForbiddenResource))
				gomega.Expect(sink.entries[0].Resource).To(gomega.Equal(ResourceCoManager))
				gomega.Expect(sink.entries[0].ActorID).To(gomega.Equal("cm-1"))
			})

			ginkgo.It("should record allowed mutations but not allowed reads", func() {
				resolver.records["cm-1"].AccessLevel = AccessLevelManage

				_, err := guard.Authorize(ctx, delegate, ResourceContent, ActionRead)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(sink.entries).To(gomega.BeEmpty())

				_, err = guard.Authorize(ctx, delegate, ResourceContent, ActionUpdate)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(sink.entries).To(gomega.HaveLen(1))
				gomega.Expect(sink.entries[0].Allowed).To(gomega.BeTrue())
				gomega.Expect(sink.entries[0].Action).To(gomega.Equal(ActionUpdate))
			})
		})
	})
})

var _ = ginkgo.Describe("DecideForDelegate", func() {
	// The worked scenario: a manage-level delegate whose content grant
	// adds delete while retrait stays on the tier.
	record := &DelegateRecord{
		ID:          "cm-2",
		OwnerID:     "owner-1",
		Status:      StatusActive,
		AccessLevel: AccessLevelManage,
		Permissions: []PermissionGrant{
			{Resource: ResourceContent, Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		},
	}

	ginkgo.It("should allow delete on the granted resource", func() {
		gomega.Expect(DecideForDelegate(record, ResourceContent, ActionDelete).Allowed).To(gomega.BeTrue())
	})

	ginkgo.It("should fall back to the manage tier for retrait", func() {
		gomega.Expect(DecideForDelegate(record, ResourceRetrait, ActionUpdate).Allowed).To(gomega.BeTrue())
		gomega.Expect(DecideForDelegate(record, ResourceRetrait, ActionDelete).Allowed).To(gomega.BeFalse())
	})

	ginkgo.It("should keep owner-exclusive kinds closed", func() {
		gomega.Expect(DecideForDelegate(record, ResourceCoManager, ActionRead).Allowed).To(gomega.BeFalse())
		gomega.Expect(DecideForDelegate(record, ResourceBoutique, ActionUpdate).Allowed).To(gomega.BeFalse())
	})
})
