package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type stubUsers map[string]*models.User

func (s stubUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, database.ErrNotFound
}

type failingUsers struct{}

func (failingUsers) GetUser(context.Context, string) (*models.User, error) {
	return nil, errors.New("db down")
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(roles ...string) *Claims {
	return &Claims{
		UserID: "user-1",
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	claims, err := GetAuthenticatedUser(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write([]byte(claims.UserID))
}

func TestAuthMiddleware(t *testing.T) {
	expired := validClaims("user")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	ghost := validClaims("user", "admin")
	ghost.UserID = "ghost"

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"wrong key", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims("user")), http.StatusUnauthorized},
		{"wrong algorithm", "Bearer " + sign(t, jwt.SigningMethodHS512, testSecret, validClaims("user")), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, testSecret, expired), http.StatusUnauthorized},
		{"unknown user", "Bearer " + sign(t, jwt.SigningMethodHS256, testSecret, ghost), http.StatusUnauthorized},
		{"valid", "Bearer " + sign(t, jwt.SigningMethodHS256, testSecret, validClaims("user")), http.StatusOK},
	}

	handler := AuthMiddleware(testSecret, stubUsers{"user-1": {ID: "user-1"}})(http.HandlerFunc(echoUser))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1", rec.Body.String())
			} else {
				assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
				assert.Contains(t, rec.Body.String(), `"message"`)
			}
		})
	}
}

func TestRoleBasedMiddleware(t *testing.T) {
	users := stubUsers{
		"user-1":  {ID: "user-1"},
		"admin-1": {ID: "admin-1", IsAdmin: true},
	}
	handler := AuthMiddleware(testSecret, users)(
		RoleBasedMiddleware(models.RoleAdmin)(http.HandlerFunc(echoUser)))

	run := func(userID string, roles ...string) int {
		claims := validClaims(roles...)
		claims.UserID = userID
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, testSecret, claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, run("user-1", "user"))
	assert.Equal(t, http.StatusOK, run("admin-1", "user"))

	t.Run("token roles are not trusted", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, run("user-1", "user", "admin"))
	})

	t.Run("demotion applies to issued tokens", func(t *testing.T) {
		users["admin-1"].IsAdmin = false
		assert.Equal(t, http.StatusForbidden, run("admin-1", "user", "admin"))
	})
}

func TestAuthMiddlewareLookupFailure(t *testing.T) {
	handler := AuthMiddleware(testSecret, failingUsers{})(http.HandlerFunc(echoUser))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, testSecret, validClaims("user")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, rec.Body.String())
}

func TestRoleBasedMiddlewareWithoutAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	RoleBasedMiddleware(models.RoleAdmin)(http.HandlerFunc(echoUser)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
