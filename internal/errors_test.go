package internal

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestErrors(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Errors Suite")
}

var _ = ginkgo.Describe("AppError", func() {
	ginkgo.Describe("sentinel matching", func() {
		ginkgo.It("should match a sentinel through WithCause", func() {
			err := ErrStoreUnavailable.WithCause(fmt.Errorf("connection refused"))

			gomega.Expect(errors.Is(err, ErrStoreUnavailable)).To(gomega.BeTrue())
		})

		ginkgo.It("should match a sentinel through wrapping", func() {
			err := fmt.Errorf("load account: %w", ErrAccountNotFound)

			gomega.Expect(errors.Is(err, ErrAccountNotFound)).To(gomega.BeTrue())
		})

		ginkgo.It("should not confuse a store outage with a generic internal error", func() {
			internalErr := NewInternalError("unexpected state", nil)

			gomega.Expect(errors.Is(internalErr, ErrStoreUnavailable)).To(gomega.BeFalse())
			gomega.Expect(errors.Is(ErrStoreUnavailable, internalErr)).To(gomega.BeFalse())
		})

		ginkgo.It("should not match sentinels with different codes", func() {
			gomega.Expect(errors.Is(ErrInvalidCredentials, ErrAccountSuspended)).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("store outage sentinel", func() {
		ginkgo.It("should answer with a 503 and its own code", func() {
			status, _ := ErrStoreUnavailable.ToHTTPResponse()

			gomega.Expect(status).To(gomega.Equal(http.StatusServiceUnavailable))
			gomega.Expect(ErrStoreUnavailable.Code).To(gomega.Equal(ErrCodeStoreUnavailable))
		})
	})

	ginkgo.Describe("WithCause", func() {
		ginkgo.It("should leave the shared sentinel untouched", func() {
			cause := fmt.Errorf("dial tcp: timeout")
			clone := ErrStoreUnavailable.WithCause(cause)

			gomega.Expect(clone.Cause).To(gomega.Equal(cause))
			gomega.Expect(ErrStoreUnavailable.Cause).To(gomega.BeNil())
			gomega.Expect(errors.Unwrap(clone)).To(gomega.Equal(cause))
		})
	})
})
