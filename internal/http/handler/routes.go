package handler

import (
	"github.com/gofiber/fiber/v2"

	"tumanina/internal/http/middleware"
	"tumanina/internal/service"
)

// Deps are the services behind the JSON API.
type Deps struct {
	Ping      PingFunc
	Auth      service.AuthService
	Site      service.SiteService
	Editors   []service.Editor
	Settings  service.SettingsService
	Media     service.MediaService
	Dashboard service.DashboardService
}

// RegisterRoutes attaches the health and JSON API routes to app.
// Everything under /api/admin requires an admin session.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Ping))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	authAPI := api.Group("/auth")
	authAPI.Post("/login", Login(d.Auth))
	authAPI.Post("/logout", Logout(d.Auth))
	authAPI.Get("/me", middleware.AuthGate(d.Auth, denyJSON), Me())

	pub := api.Group("/public")
	pub.Get("/articles", ListPublishedArticles(d.Site))
	pub.Get("/articles/:id", GetPublishedArticle(d.Site))
	pub.Get("/self-exam/steps", ListSelfExamSteps(d.Site))
	pub.Get("/self-exam/screening", GetScreening(d.Site))
	pub.Get("/self-exam/warnings", GetWarningSigns(d.Site))
	pub.Get("/settings", GetPublicSettings(d.Site))

	admin := api.Group("/admin", middleware.AuthGate(d.Auth, denyJSON))
	admin.Get("/stats", Stats(d.Dashboard))
	admin.Get("/settings", GetSettings(d.Settings))
	admin.Put("/settings", SaveSettings(d.Settings))
	admin.Post("/uploads/:folder", UploadMedia(d.Media))
	for _, ed := range d.Editors {
		r := admin.Group("/" + ed.Schema().Resource)
		r.Get("/", ListRecords(ed))
		r.Get("/new", RecordDefaults(ed))
		r.Get("/:id", GetRecord(ed))
		r.Post("/", CreateRecord(ed))
		r.Patch("/:id", UpdateRecord(ed))
		r.Delete("/:id", DeleteRecord(ed))
	}
}
