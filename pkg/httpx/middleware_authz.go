package httpx

import (
	"net/http"
	"strings"
)

// RequireAnyRol lets the request through when the authenticated role is one
// of the listed roles. Role denial is a deterministic 403, not an error.
func RequireAnyRol(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, rol := range required {
		want[rol] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rol := RolFromContext(r.Context())
			if _, ok := want[rol]; ok {
				next.ServeHTTP(w, r)
				return
			}

			writeRolError(w, required...)
		})
	}
}

func writeRolError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteError(w, http.StatusForbidden, "rol_insuficiente", "this operation requires rol: "+strings.Join(required, ", "))
}
