// Package web serves the server-rendered Arabic site: the public awareness pages,
// the login form and the admin dashboard with its schema-driven record editors.
package web

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tumanina/internal/http/middleware"
	"tumanina/internal/model"
	"tumanina/internal/service"
)

// Deps are the services and settings behind the HTML pages.
type Deps struct {
	Site      service.SiteService
	Auth      service.AuthService
	Editors   []service.Editor
	Settings  service.SettingsService
	Media     service.MediaService
	Dashboard service.DashboardService
	Logger    *zap.Logger

	// BaseURL is the absolute site URL used in the sitemap and robots file.
	BaseURL      string
	CookieSecure bool
}

// Handler renders the site.
type Handler struct {
	deps    Deps
	pages   map[string]*template.Template
	editors map[string]service.Editor
	nav     []navItem
}

// New parses every page template. It fails when a template is malformed.
func New(deps Deps) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	deps.BaseURL = strings.TrimRight(deps.BaseURL, "/")

	h := &Handler{deps: deps, pages: pages, editors: make(map[string]service.Editor, len(deps.Editors))}
	h.nav = append(h.nav, navItem{Label: "الرئيسية", Href: "/dashboard"})
	for _, ed := range deps.Editors {
		sc := ed.Schema()
		h.editors[sc.Resource] = ed
		h.nav = append(h.nav, navItem{Label: sc.Title, Href: "/dashboard/" + sc.Resource})
	}
	h.nav = append(h.nav, navItem{Label: model.SettingsSchema.Title, Href: "/dashboard/settings"})
	return h, nil
}

// Register attaches the HTML routes. Call it after the API routes so NotFound
// only sees requests nothing else claimed.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/robots.txt", h.Robots)
	app.Get("/sitemap.xml", h.Sitemap)
	app.Get("/manifest.webmanifest", h.Manifest)

	app.Get("/", h.Home)
	app.Get("/articles", h.Articles)
	app.Get("/articles/:id", h.Article)
	app.Get("/self-exam", h.SelfExam)
	app.Get("/self-exam/steps", h.Steps)
	app.Get("/self-exam/screening", h.Screening)
	app.Get("/self-exam/warnings", h.Warnings)
	app.Get("/privacy", h.Privacy)
	app.Get("/terms", h.Terms)
	app.Get("/support", h.Support)

	app.Get("/login", h.LoginForm)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)

	dash := app.Group("/dashboard", middleware.AuthGate(h.deps.Auth, h.denyHTML))
	dash.Get("/", h.DashboardHome)
	dash.Get("/settings", h.SettingsForm)
	dash.Post("/settings", h.SaveSettings)
	dash.Post("/uploads/:folder", h.Upload)
	dash.Get("/:resource", h.EditorPage)
	dash.Post("/:resource", h.SaveRecord)
	dash.Post("/:resource/:id/delete", h.DeleteRecord)

	app.Use(h.NotFound)
}

// denyHTML sends anyone the gate rejects to the login form.
func (h *Handler) denyHTML(c *fiber.Ctx, err error) error {
	if !middleware.IsAuthError(err) {
		h.deps.Logger.Error("session check failed", zap.String("path", c.Path()), zap.Error(err))
	}
	if c.Cookies(middleware.SessionCookie) != "" {
		h.clearSessionCookie(c)
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// NotFound renders the 404 page; unknown API paths keep the JSON error envelope.
func (h *Handler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") {
		return fiber.ErrNotFound
	}
	return h.render(c, fiber.StatusNotFound, "notfound.html", page{Title: "الصفحة غير موجودة"})
}
