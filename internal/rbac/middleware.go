package rbac

import (
	"net/http"
)

var defaultChecker = NewChecker(nil)

// Require admits a request whose role holds at least one of perms, using
// the default role policy.
func Require(perms ...string) func(http.Handler) http.Handler {
	return defaultChecker.Require(perms...)
}

// Require admits a request whose role holds at least one of perms.
func (c *Checker) Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !c.Any(role, perms...) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
