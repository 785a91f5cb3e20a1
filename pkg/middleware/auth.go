package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminBasicAuth guards admin routes with HTTP Basic credentials checked
// against a bcrypt hash. An empty hash disables the admin surface.
func AdminBasicAuth(username, passwordHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordHash == "" {
				utils.ResponseForbidden(w, "Admin access is disabled")
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) == nil
			if !userOK || !passOK {
				logger.Warn("Admin check: invalid credentials",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				w.Header().Set("WWW-Authenticate", `Basic realm="admin", charset="UTF-8"`)
				utils.ResponseUnauthorized(w, "Invalid credentials")
				return
			}

			ctx := utils.SetAdminContext(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
