package http

import (
	"context"
	"net/http"

	"monipersonal/server/internal/auth"
)

type identityKey struct{}

// sessionMiddleware resolves the session cookie once per request. It never
// rejects by itself; the role gates below decide what an absent identity
// means for the route.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := s.resolver.Resolve(r.Context(), sessionToken(r))
		if identity != nil {
			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func identityFromContext(ctx context.Context) *auth.Identity {
	value := ctx.Value(identityKey{})
	identity, _ := value.(*auth.Identity)
	return identity
}

// requireRole gates a route on an authenticated identity with the given
// role. Unauthenticated callers are redirected to the login variant the
// route belongs to; authenticated callers with the wrong role get a 403,
// never a redirect.
func (s *Server) requireRole(role auth.Role, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromContext(r.Context())
			if identity == nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			if identity.Role != role {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requireStudent(next http.Handler) http.Handler {
	return s.requireRole(auth.RoleStudent, "/login")(next)
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return s.requireRole(auth.RoleAdmin, "/admin/login")(next)
}
