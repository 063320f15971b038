package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/internal"
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyCaller contextKey = "caller"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth verifies the caller's access token and resolves it to
// (callerID, role) on the request context. The token arrives either as a
// Bearer header or inside the encrypted session cookie set at login. Role
// comes from the Cognito groups claim; a user in no group is a requester.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := bearerToken(r)
		if accessToken == "" {
			cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
			if err != nil {
				s.logger.WithError(err).Debug("no access token found")
				s.respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if err := s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken); err != nil {
				s.logger.WithError(err).Error("failed to decrypt access token")
				s.respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}
		}

		set, err := s.jwksCache.Lookup(r.Context(), s.jwksURL)
		if err != nil {
			s.logger.WithError(err).Error("failed to fetch JWKS")
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		token, err := jwt.Parse(
			[]byte(accessToken),
			jwt.WithKeySet(set),
			jwt.WithValidate(true),
		)
		if err != nil {
			s.logger.WithError(err).Error("failed to parse JWT")
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, ok := token.Subject()
		if !ok || userID == "" {
			s.logger.Error("no user ID in JWT subject claim")
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var groups []string
		if err := token.Get("cognito:groups", &groups); err != nil {
			s.logger.WithError(err).Debug("no groups claim in JWT")
		}

		caller := types.Caller{ID: userID, Role: roleFromGroups(groups)}

		s.logger.WithFields(logrus.Fields{
			"user_id": caller.ID,
			"role":    caller.Role,
		}).Debug("authenticated caller")

		ctx := context.WithValue(r.Context(), contextKeyCaller, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func roleFromGroups(groups []string) types.Role {
	role := types.RoleRequester
	for _, g := range groups {
		switch g {
		case string(types.RoleAdministrator):
			return types.RoleAdministrator
		case string(types.RoleFulfiller):
			role = types.RoleFulfiller
		}
	}
	return role
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
