package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tumanina/internal/http/middleware"
	"tumanina/internal/service"
)

type loginView struct {
	Email string
	Error string
}

func (h *Handler) LoginForm(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "login.html", page{Title: "تسجيل الدخول", Data: loginView{}})
}

// Login signs in and sends the user to the dashboard. Non-admin accounts sign in
// successfully but the dashboard gate sends them back here.
func (h *Handler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	res, err := h.deps.Auth.Login(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		h.deps.Logger.Warn("login failed", zap.Error(err))
		return h.render(c, fiber.StatusUnauthorized, "login.html", page{
			Title: "تسجيل الدخول",
			Data:  loginView{Email: email, Error: service.LoginErrorMessage(err)},
		})
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.deps.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

// Logout revokes the session everywhere and clears the cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	if tok := middleware.TokenFrom(c); tok != "" {
		if err := h.deps.Auth.Logout(c.UserContext(), tok); err != nil {
			h.deps.Logger.Error("logout failed", zap.Error(err))
		}
	}
	h.clearSessionCookie(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (h *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.deps.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
