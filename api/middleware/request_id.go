package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-client/pkg/logger"
	"github.com/angelmondragon/storefront-client/pkg/transport"
	"github.com/google/uuid"
)

const maxRequestIDLen = 128

// RequestID echoes the storefront's X-Request-Id so client and sandbox logs
// correlate. Missing or unusable ids are replaced.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(transport.HeaderRequestID)
			if !usableRequestID(reqID) {
				reqID = uuid.NewString()
			}
			w.Header().Set(transport.HeaderRequestID, reqID)
			next.ServeHTTP(w, r.WithContext(logg.WithRequestID(r.Context(), reqID)))
		})
	}
}

func usableRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
