package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/laala-app/creator-dashboard/pkg/logger"
)

const traceHeader = "X-Trace-ID"

// RequestID honors an inbound X-Trace-ID or mints one, stamps it on the
// context logger and echoes it back so callers can correlate.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set(traceHeader, traceID)

		ctx := logger.With(r.Context(), "trace_id", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
