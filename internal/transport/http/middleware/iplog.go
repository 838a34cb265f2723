package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"vibemusic/internal/logger"
)

// UploadIPRecorder stores the IP an upload request came from.
type UploadIPRecorder interface {
	RecordUpload(ctx context.Context, userID int64, ip string) error
}

// ClientIP returns the first X-Forwarded-For entry, else the host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UploadIPLogger records the client IP of authenticated POST and PUT requests
// whose path starts with prefix. It must run after AuthMiddleware. Recording
// failures are logged and never block the request.
func UploadIPLogger(recorder UploadIPRecorder, prefix string) func(http.Handler) http.Handler {
	log := logger.For("iplog")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut {
				userID, ok := GetUserIDFromContext(r.Context())
				if ok && strings.HasPrefix(r.URL.Path, prefix) {
					ip := ClientIP(r)
					if err := recorder.RecordUpload(r.Context(), userID, ip); err != nil {
						log.WithError(err).WithField("user_id", userID).Warn("failed to record upload ip")
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
