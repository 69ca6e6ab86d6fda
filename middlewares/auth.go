package middlewares

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ray-remotestate/foodcourt/database"
	"github.com/ray-remotestate/foodcourt/models"
	"github.com/sirupsen/logrus"
)

type Claims struct {
	UserID string
	Roles  []string
	jwt.RegisteredClaims
}

func (c *Claims) HasRole(role models.Role) bool {
	for _, r := range c.Roles {
		if models.Role(strings.ToLower(r)) == role {
			return true
		}
	}
	return false
}

func (c *Claims) IsAdmin() bool {
	return c.HasRole(models.RoleAdmin)
}

type ContextKey string

const (
	userContextKey ContextKey = "user"
)

// UserLookup loads the account a token was issued to.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller in the request context. Roles are read from the account on
// every request, not from the token, so a demotion applies immediately.
func AuthMiddleware(secretKey []byte, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				deny(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
				return secretKey, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid || claims.UserID == "" {
				deny(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserID)
			if errors.Is(err, database.ErrNotFound) {
				deny(w, http.StatusUnauthorized, "Not authorized, user not found")
				return
			}
			if err != nil {
				logrus.WithError(err).WithField("user_id", claims.UserID).Error("failed to load authenticated user")
				deny(w, http.StatusInternalServerError, "Server error")
				return
			}
			claims.Roles = user.Roles()

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetAuthenticatedUser(r *http.Request) (*Claims, error) {
	claims, ok := r.Context().Value(userContextKey).(*Claims)
	if !ok {
		return nil, errors.New("no user in context")
	}
	return claims, nil
}

func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization format")
	}
	return parts[1], nil
}

func RoleBasedMiddleware(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetAuthenticatedUser(r)
			if err != nil {
				deny(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			for _, role := range allowedRoles {
				if claims.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}

			deny(w, http.StatusForbidden, "Not authorized as an admin")
		})
	}
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
