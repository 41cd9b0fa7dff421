package authz

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("ResourceKind", func() {
	ginkgo.Describe("Grantable", func() {
		ginkgo.It("should accept the delegable kinds", func() {
			for _, r := range []ResourceKind{ResourceContent, ResourceLaala, ResourceMessage, ResourceRetrait} {
				gomega.Expect(r.Grantable()).To(gomega.BeTrue())
			}
		})

		ginkgo.It("should refuse the owner-exclusive kinds", func() {
			gomega.Expect(ResourceBoutique.Grantable()).To(gomega.BeFalse())
			gomega.Expect(ResourceCoManager.Grantable()).To(gomega.BeFalse())
		})

		ginkgo.It("should refuse kinds outside the enum", func() {
			gomega.Expect(ResourceKind("statistique").Grantable()).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("ParseResourceKind", func() {
		ginkgo.It("should round-trip every member of the enum", func() {
			for _, s := range []string{"content", "laala", "message", "retrait", "boutique", "comanager"} {
				r, err := ParseResourceKind(s)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(string(r)).To(gomega.Equal(s))
			}
		})

		ginkgo.It("should reject anything else", func() {
			_, err := ParseResourceKind("Content")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})

var _ = ginkgo.Describe("ValidateGrants", func() {
	ginkgo.It("should accept a well-formed list", func() {
		err := ValidateGrants([]PermissionGrant{
			{Resource: ResourceContent, Actions: []Action{ActionCreate, ActionRead}},
			{Resource: ResourceMessage, Actions: []Action{ActionRead}},
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("should reject duplicate resource kinds", func() {
		err := ValidateGrants([]PermissionGrant{
			{Resource: ResourceContent, Actions: []Action{ActionRead}},
			{Resource: ResourceContent, Actions: []Action{ActionCreate}},
		})
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("duplicate grant"))
	})

	ginkgo.It("should reject owner-exclusive kinds", func() {
		err := ValidateGrants([]PermissionGrant{
			{Resource: ResourceCoManager, Actions: []Action{ActionRead}},
		})
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("cannot be granted"))
	})

	ginkgo.It("should reject unknown kinds", func() {
		err := ValidateGrants([]PermissionGrant{
			{Resource: ResourceKind("statistique"), Actions: []Action{ActionRead}},
		})
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("unknown resource kind"))
	})

	ginkgo.It("should reject empty action sets", func() {
		err := ValidateGrants([]PermissionGrant{
			{Resource: ResourceContent, Actions: nil},
		})
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("no actions"))
	})

	ginkgo.It("should reject duplicate actions within a grant", func() {
		err := ValidateGrants([]PermissionGrant{
			{Resource: ResourceContent, Actions: []Action{ActionRead, ActionRead}},
		})
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("duplicate action"))
	})

	ginkgo.It("should reject unknown actions", func() {
		err := ValidateGrants([]PermissionGrant{
			{Resource: ResourceContent, Actions: []Action{Action("publish")}},
		})
		gomega.Expect(err).To(gomega.HaveOccurred())
	})
})

var _ = ginkgo.Describe("tierAllows", func() {
	ginkgo.It("should limit consult to read", func() {
		gomega.Expect(tierAllows(AccessLevelConsult, ActionRead)).To(gomega.BeTrue())
		gomega.Expect(tierAllows(AccessLevelConsult, ActionCreate)).To(gomega.BeFalse())
		gomega.Expect(tierAllows(AccessLevelConsult, ActionUpdate)).To(gomega.BeFalse())
		gomega.Expect(tierAllows(AccessLevelConsult, ActionDelete)).To(gomega.BeFalse())
	})

	ginkgo.It("should give manage everything except delete", func() {
		gomega.Expect(tierAllows(AccessLevelManage, ActionCreate)).To(gomega.BeTrue())
		gomega.Expect(tierAllows(AccessLevelManage, ActionRead)).To(gomega.BeTrue())
		gomega.Expect(tierAllows(AccessLevelManage, ActionUpdate)).To(gomega.BeTrue())
		gomega.Expect(tierAllows(AccessLevelManage, ActionDelete)).To(gomega.BeFalse())
	})

	ginkgo.It("should fail closed on an unknown level", func() {
		gomega.Expect(tierAllows(AccessLevel("root"), ActionRead)).To(gomega.BeFalse())
	})
})
