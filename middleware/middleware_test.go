package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/models"
	"taskboard/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var secret = []byte("middleware-secret")

func token(t *testing.T, id primitive.ObjectID, role models.Role) string {
	t.Helper()
	tok, err := utils.GenerateToken(secret, id.Hex(), string(role), time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func echoActor(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(actor.UserID.Hex()))
}

func TestJWTAuth(t *testing.T) {
	id := primitive.NewObjectID()
	h := JWTAuth(secret)(http.HandlerFunc(echoActor))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", token(t, id, models.RoleWorker), http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token(t, id, models.RoleWorker), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Body.String() != id.Hex() {
				t.Fatalf("actor = %q, want %q", rec.Body.String(), id.Hex())
			}
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	id := primitive.NewObjectID()
	h := OptionalJWTAuth(secret)(http.HandlerFunc(echoActor))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"anonymous", "", http.StatusTeapot},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid", "Bearer " + token(t, id, models.RoleAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	h := JWTAuth(secret)(RequireRole(models.RoleAdmin)(http.HandlerFunc(echoActor)))

	for role, want := range map[models.Role]int{
		models.RoleAdmin:  http.StatusOK,
		models.RoleWorker: http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodDelete, "/api/users/x", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, primitive.NewObjectID(), role))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("%s: status = %d, want %d", role, rec.Code, want)
		}
	}

	rec := httptest.NewRecorder()
	RequireRole(models.RoleAdmin)(http.HandlerFunc(echoActor)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without JWTAuth: status = %d", rec.Code)
	}
}

func TestEnableCORS(t *testing.T) {
	h := EnableCORS("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/tasks", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight: %d %v", rec.Code, rec.Header())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("passthrough status = %d", rec.Code)
	}
}
