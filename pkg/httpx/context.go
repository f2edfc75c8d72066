package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRol    ctxKey = "rol"
	CtxKeyClaims ctxKey = "claims" // full jwtx.Claims when you need more
)

// RolFromContext returns the authenticated role, or "" when the request
// carries no verified token.
func RolFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRol).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
