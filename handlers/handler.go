package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ray-remotestate/foodcourt/middlewares"
	"github.com/ray-remotestate/foodcourt/services"
	"github.com/sirupsen/logrus"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	catalog  *services.Catalog
	orders   *services.Orders
	accounts *services.Accounts
	validate *validator.Validate
}

func New(catalog *services.Catalog, orders *services.Orders, accounts *services.Accounts) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{catalog: catalog, orders: orders, accounts: accounts, validate: v}
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindUnavailable:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeError maps err onto the error taxonomy. Unexpected failures are
// logged and reported with their message only.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = services.Unexpected(err)
	}

	status := statusFor(svcErr.Kind)
	resp := errorResponse{Message: svcErr.Message}
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		if svcErr.Err != nil {
			resp.Error = svcErr.Err.Error()
		}
	}
	writeJSON(w, status, resp)
}

// decode reads a JSON body into dst and validates it.
func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.ValidationError("invalid request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return services.ValidationError("%s", describe(verrs[0]))
		}
		return services.ValidationError("invalid request body")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not be empty", field)
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}

func identity(r *http.Request) (services.Identity, error) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		return services.Identity{}, services.UnauthenticatedError("Not authorized")
	}
	return services.Identity{UserID: claims.UserID, IsAdmin: claims.IsAdmin()}, nil
}
