package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tumanina/internal/service"
)

const (
	// SessionCookie carries the session token for the HTML dashboard.
	SessionCookie = "tumanina_session"

	sessionLocalKey = "session"
)

// DenyFunc renders the response for a request the gate rejected. err is
// service.ErrUnauthenticated, service.ErrForbidden or a backend failure.
type DenyFunc func(c *fiber.Ctx, err error) error

// AuthGate admits only requests carrying a live session of an admin profile.
// The token is read from the session cookie or an Authorization bearer header.
// On success the resolved *service.Session is stored for SessionFrom.
func AuthGate(auth service.AuthService, deny DenyFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFrom(c)
		if token == "" {
			return deny(c, service.ErrUnauthenticated)
		}
		sess, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return deny(c, err)
		}
		if !sess.IsAdmin() {
			return deny(c, service.ErrForbidden)
		}
		c.Locals(sessionLocalKey, sess)
		return c.Next()
	}
}

// SessionFrom returns the session admitted by AuthGate, or nil outside gated routes.
func SessionFrom(c *fiber.Ctx) *service.Session {
	s, _ := c.Locals(sessionLocalKey).(*service.Session)
	return s
}

// TokenFrom returns the bearer token, falling back to the session cookie.
func TokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	return c.Cookies(SessionCookie)
}

// IsAuthError reports whether err means the caller must sign in again.
func IsAuthError(err error) bool {
	return errors.Is(err, service.ErrUnauthenticated) || errors.Is(err, service.ErrForbidden)
}
