package handlers

import (
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/services"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	Users *services.UserService
}

func NewUsersHandler(users *services.UserService) *UsersHandler {
	return &UsersHandler{Users: users}
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err, "list_users_failed", "failed listing users")
	}
	return utils.Success(c, fiber.StatusOK, users)
}

func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := h.Users.Me(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err, "get_profile_failed", "failed loading profile")
	}
	return utils.Success(c, fiber.StatusOK, user)
}

func (h *UsersHandler) ChangeRole(c *fiber.Ctx) error {
	targetID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req changeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRequest(&req); err != nil {
		return respondError(c, err, "change_role_failed", "failed updating user role")
	}

	actor := actorFrom(c)
	user, err := h.Users.ChangeRole(c.UserContext(), actor, targetID, req.Role)
	if err != nil {
		return respondError(c, err, "change_role_failed", "failed updating user role")
	}

	logger.InfoWithUser(actor.ID.String(), "user_role_changed", map[string]interface{}{
		"target_id": targetID.String(),
		"role":      string(user.Role),
	})
	return utils.Success(c, fiber.StatusOK, fiber.Map{"user": user})
}

func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	targetID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	actor := actorFrom(c)
	if err := h.Users.Delete(c.UserContext(), actor, targetID); err != nil {
		return respondError(c, err, "delete_user_failed", "failed deleting user")
	}

	logger.InfoWithUser(actor.ID.String(), "user_deleted", map[string]interface{}{
		"target_id": targetID.String(),
	})
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "user deleted"})
}
