package web

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	flashCookie = "tumanina_flash"
	flashTTL    = time.Minute
)

// flash is a one-shot toast shown on the next rendered page.
type flash struct {
	Kind    string `json:"k"`
	Message string `json:"m"`
}

func flashOK(msg string) *flash    { return &flash{Kind: "success", Message: msg} }
func flashError(msg string) *flash { return &flash{Kind: "error", Message: msg} }

func (h *Handler) setFlash(c *fiber.Ctx, f *flash) {
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  time.Now().Add(flashTTL),
		HTTPOnly: true,
		Secure:   h.deps.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// takeFlash reads and clears the pending toast.
func (h *Handler) takeFlash(c *fiber.Ctx) *flash {
	v := c.Cookies(flashCookie)
	if v == "" {
		return nil
	}
	c.ClearCookie(flashCookie)
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var f flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}
