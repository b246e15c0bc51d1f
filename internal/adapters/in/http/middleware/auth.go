// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseAuthClient is an alias so router deps can name the type without
// importing the firebase SDK.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type to avoid collisions (SA1029).
type ctxKey struct{ name string }

var (
	ctxKeyUID   = ctxKey{name: "uid"}
	ctxKeyEmail = ctxKey{name: "email"}
)

// AuthMiddleware verifies "Authorization: Bearer <ID_TOKEN>" and stores the
// uid/email in the request context. Routes wrapped by RequireAuth reject
// unauthenticated requests before any handler logic runs; the cart core never
// sees identity at all.
type AuthMiddleware struct {
	FirebaseAuth *FirebaseAuthClient
}

// RequireAuth gates a handler behind a verified identity.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil || m.FirebaseAuth == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		token, err := m.FirebaseAuth.VerifyIDToken(r.Context(), idToken)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		uid := strings.TrimSpace(token.UID)
		if uid == "" {
			http.Error(w, "invalid uid in token", http.StatusUnauthorized)
			return
		}

		email := ""
		if emailRaw, ok := token.Claims["email"]; ok {
			if e, ok2 := emailRaw.(string); ok2 {
				email = strings.TrimSpace(e)
			}
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), uid, email)))
	})
}

// WithIdentity stores a verified identity in the context. Exposed so handler
// tests can exercise authenticated routes without a real token verifier.
func WithIdentity(ctx context.Context, uid, email string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUID, uid)
	if email != "" {
		ctx = context.WithValue(ctx, ctxKeyEmail, email)
	}
	return ctx
}

// CurrentUID returns the verified uid, or "" when the request is anonymous.
func CurrentUID(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyUID).(string)
	return v
}

// CurrentEmail returns the verified email claim, or "".
func CurrentEmail(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyEmail).(string)
	return v
}
