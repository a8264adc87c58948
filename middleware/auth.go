package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"taskboard/logging"
	"taskboard/models"
	"taskboard/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

type contextKey string

const actorKey contextKey = "actor"

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID primitive.ObjectID
	Role   models.Role
}

// ActorFromContext returns the caller placed in ctx by JWTAuth.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}

// WithActor is used by JWTAuth and by tests that bypass it.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// token's subject in the request context.
func JWTAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				writeMessage(w, http.StatusUnauthorized, "Authorization header missing")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader {
				logging.Logger.Warnf("Event ID: JWT_AUTH_BEARER_PREFIX_MISSING, Description: Bearer prefix missing for request to %s %s", r.Method, r.URL.Path)
				writeMessage(w, http.StatusUnauthorized, "Bearer token required")
				return
			}

			claims, err := utils.ValidateToken(secret, tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token subject")
				return
			}

			logging.Logger.Debugf("Event ID: JWT_AUTH_SUCCESS, Description: Token validated for user %s on %s %s", claims.UserID, r.Method, r.URL.Path)
			actor := Actor{UserID: userID, Role: models.Role(claims.Role)}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// OptionalJWTAuth lets anonymous requests through untouched. A request that
// does carry an Authorization header is held to the same rules as JWTAuth.
func OptionalJWTAuth(secret []byte) func(http.Handler) http.Handler {
	required := JWTAuth(secret)
	return func(next http.Handler) http.Handler {
		withToken := required(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			withToken.ServeHTTP(w, r)
		})
	}
}

// RequireRole lets through only actors whose role is listed. It must run
// after JWTAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, actor.Role) {
				logging.Logger.Warnf("Event ID: ROLE_FORBIDDEN, Description: User %s with role %q denied %s %s", actor.UserID.Hex(), actor.Role, r.Method, r.URL.Path)
				writeMessage(w, http.StatusForbidden, "Access forbidden: insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
