package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tumanina/internal/http/middleware"
	"tumanina/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token.
//
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} errorPayload
// @Router /api/auth/login [post]
func Login(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		res, err := auth.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) ||
				errors.Is(err, service.ErrUserNotFound) ||
				errors.Is(err, service.ErrWrongPassword) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", service.LoginErrorMessage(err))
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", service.LoginErrorMessage(err))
		}
		return c.JSON(res)
	}
}

// Logout revokes the caller's session. It succeeds even without a token.
//
// @Summary Sign out
// @Tags auth
// @Success 204
// @Router /api/auth/logout [post]
func Logout(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := strings.TrimSpace(middleware.TokenFrom(c)); tok != "" {
			if err := auth.Logout(c.UserContext(), tok); err != nil {
				return writeServiceError(c, err)
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me returns the session admitted by the auth gate.
//
// @Summary Current session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Session
// @Failure 401 {object} errorPayload
// @Router /api/auth/me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.SessionFrom(c)
		if sess == nil {
			return writeServiceError(c, service.ErrUnauthenticated)
		}
		return c.JSON(sess)
	}
}
