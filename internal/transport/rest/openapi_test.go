package rest_test

import (
	"context"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// The served contract must stay loadable and name every route the router
// registers under /api/v1.
var _ = Describe("OpenAPI Contract", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("should describe every registered route", func() {
		expected := map[string][]string{
			"/health":                     {http.MethodGet},
			"/ping":                       {http.MethodGet},
			"/auth/login":                 {http.MethodPost},
			"/auth/refresh":               {http.MethodPost},
			"/auth/logout":                {http.MethodPost},
			"/auth/password/first-change": {http.MethodPost},
			"/contents":                   {http.MethodGet, http.MethodPost},
			"/contents/{id}":              {http.MethodGet, http.MethodPut, http.MethodDelete},
			"/comanagers":                 {http.MethodGet, http.MethodPost},
			"/comanagers/{id}":            {http.MethodGet, http.MethodDelete},
			"/comanagers/{id}/permissions": {http.MethodPut},
			"/comanagers/{id}/status":      {http.MethodPut},
			"/audit":                       {http.MethodGet},
		}

		for path, methods := range expected {
			item := doc.Paths.Find(path)
			Expect(item).NotTo(BeNil(), "missing path %s", path)
			for _, method := range methods {
				Expect(item.GetOperation(method)).NotTo(BeNil(), "missing %s %s", method, path)
			}
		}
	})

	It("should declare bearer auth for the protected surface", func() {
		Expect(doc.Components.SecuritySchemes).To(HaveKey("bearerAuth"))

		op := doc.Paths.Find("/contents").Get
		Expect(op).NotTo(BeNil())
		Expect(op.Security).NotTo(BeNil())
	})

	It("should keep owner-exclusive resources out of the grantable enum", func() {
		grant := doc.Components.Schemas["Grant"]
		Expect(grant).NotTo(BeNil())

		resource := grant.Value.Properties["resource"]
		Expect(resource).NotTo(BeNil())

		var kinds []interface{}
		kinds = append(kinds, resource.Value.Enum...)
		Expect(kinds).To(ContainElements("content", "laala", "message", "retrait"))
		Expect(kinds).NotTo(ContainElement("boutique"))
		Expect(kinds).NotTo(ContainElement("comanager"))
	})
})
