package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/middleware"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/policy"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/services"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/storage"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// validateRequest runs struct tags and renders the first failure as a
// readable message keyed by the JSON field name.
func validateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &services.ValidationError{Message: "invalid request"}
	}

	fe := fieldErrs[0]
	field := lowerFirst(fe.Field())
	var message string
	switch fe.Tag() {
	case "required":
		message = fmt.Sprintf("%s is required", field)
	case "email":
		message = fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		message = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		message = fmt.Sprintf("%s is invalid", field)
	}
	return &services.ValidationError{Field: field, Message: message}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func actorFrom(c *fiber.Ctx) policy.Actor {
	return middleware.GetPrincipal(c).Actor()
}

func errorStatus(err error) int {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest
	case errors.Is(err, policy.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, policy.ErrInvalidRole):
		return fiber.StatusBadRequest
	case errors.Is(err, policy.ErrNotPrivileged),
		errors.Is(err, policy.ErrSelfAction),
		errors.Is(err, policy.ErrAdminTarget),
		errors.Is(err, policy.ErrAdminAssignment),
		errors.Is(err, policy.ErrNotOwner),
		errors.Is(err, policy.ErrUnknownAction):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUserOwnsFiles):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrPasswordMismatch):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrUnknownIdentity),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFileNotFound),
		errors.Is(err, storage.ErrObjectNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps a workflow error onto the response envelope. Unclassified
// errors are logged and answered with the generic fallback message.
func respondError(c *fiber.Ctx, err error, action string, fallback string) error {
	status := errorStatus(err)
	if status != fiber.StatusInternalServerError {
		return utils.Error(c, status, err.Error())
	}

	details := map[string]interface{}{
		"path":       c.Path(),
		"request_id": c.Locals("requestID"),
	}
	if userID := logger.GetUserIDFromContext(c); userID != nil {
		logger.ErrorWithUser(*userID, action, err, details)
	} else {
		logger.Error(action, err, details)
	}
	return utils.Error(c, fiber.StatusInternalServerError, fallback)
}
