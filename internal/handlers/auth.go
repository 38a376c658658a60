package handlers

import (
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/services"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRequest(&req); err != nil {
		return respondError(c, err, "register_failed", "failed registering user")
	}

	user, err := h.Auth.Register(c.UserContext(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return respondError(c, err, "register_failed", "failed registering user")
	}

	logger.InfoWithUser(user.ID.String(), "user_registered", map[string]interface{}{
		"email": user.Email,
	})
	return utils.Success(c, fiber.StatusCreated, fiber.Map{"user": user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRequest(&req); err != nil {
		return respondError(c, err, "login_failed", "failed logging in")
	}

	result, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "login_failed", "failed logging in")
	}

	logger.InfoWithUser(result.User.ID.String(), "user_logged_in", map[string]interface{}{
		"ip": c.IP(),
	})
	return utils.Success(c, fiber.StatusOK, result)
}
