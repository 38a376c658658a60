package middleware

import (
	"strings"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/policy"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
)

const currentUserKey = "currentUser"

// Principal is the identity decoded from a session token. Its role is the
// one embedded at login and stays authoritative until the token expires.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  models.UserRole
}

func (p *Principal) Actor() policy.Actor {
	if p == nil {
		return policy.Actor{}
	}
	return policy.Actor{ID: p.ID, Role: p.Role}
}

type AuthMiddleware struct {
	Tokens *utils.JWTManager
}

func NewAuthMiddleware(tokens *utils.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{Tokens: tokens}
}

func CORS(allowedOrigins string) fiber.Handler {
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	})
}

func (a *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		logger.Warn("jwt_missing_header", map[string]interface{}{
			"ip":   c.IP(),
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	scheme, tokenString, found := strings.Cut(authHeader, " ")
	tokenString = strings.TrimSpace(tokenString)
	if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
		logger.Warn("jwt_invalid_format", map[string]interface{}{
			"ip":          c.IP(),
			"path":        c.Path(),
			"auth_header": authHeader[:min(len(authHeader), 20)] + "...",
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := a.Tokens.ValidateToken(tokenString)
	if err != nil {
		logger.Warn("jwt_validation_failed", map[string]interface{}{
			"ip":    c.IP(),
			"path":  c.Path(),
			"error": err.Error(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	role, err := models.ParseUserRole(claims.Role)
	if err != nil {
		logger.Warn("jwt_unknown_role", map[string]interface{}{
			"ip":      c.IP(),
			"path":    c.Path(),
			"user_id": claims.UserID.String(),
			"role":    claims.Role,
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	c.Locals(currentUserKey, &Principal{ID: claims.UserID, Email: claims.Email, Role: role})
	c.Locals("userID", claims.UserID.String())
	return c.Next()
}

// RequirePrivileged gates routes to manager and admin principals.
func RequirePrivileged(c *fiber.Ctx) error {
	principal := GetPrincipal(c)
	if principal == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !principal.Role.IsPrivileged() {
		return utils.Error(c, fiber.StatusForbidden, "manager or admin role required")
	}
	return c.Next()
}

func GetPrincipal(c *fiber.Ctx) *Principal {
	value := c.Locals(currentUserKey)
	if value == nil {
		return nil
	}
	principal, ok := value.(*Principal)
	if !ok {
		return nil
	}
	return principal
}
