package handler

import (
	"github.com/gofiber/fiber/v2"

	"tumanina/internal/service"
)

// ListPublishedArticles returns published articles in display order.
//
// @Summary Published articles
// @Tags public
// @Produce json
// @Success 200 {array} model.Article
// @Router /api/public/articles [get]
func ListPublishedArticles(site service.SiteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(site.PublishedArticles(c.UserContext()))
	}
}

// GetPublishedArticle returns one published article; drafts are reported as not found.
//
// @Summary Published article
// @Tags public
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} model.Article
// @Failure 404 {object} errorPayload
// @Router /api/public/articles/{id} [get]
func GetPublishedArticle(site service.SiteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := site.Article(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(a)
	}
}

// @Summary Self-examination steps
// @Tags public
// @Produce json
// @Success 200 {array} model.SelfExamStep
// @Router /api/public/self-exam/steps [get]
func ListSelfExamSteps(site service.SiteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(site.SelfExamSteps(c.UserContext()))
	}
}

// @Summary Screening schedules by gender
// @Tags public
// @Produce json
// @Success 200 {object} service.ScreeningGroups
// @Router /api/public/self-exam/screening [get]
func GetScreening(site service.SiteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(site.Screening(c.UserContext()))
	}
}

// @Summary Warning signs by category
// @Tags public
// @Produce json
// @Success 200 {object} service.WarningGroups
// @Router /api/public/self-exam/warnings [get]
func GetWarningSigns(site service.SiteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(site.WarningSigns(c.UserContext()))
	}
}

// @Summary Site settings
// @Tags public
// @Produce json
// @Success 200 {object} model.SiteSettings
// @Router /api/public/settings [get]
func GetPublicSettings(site service.SiteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(site.Settings(c.UserContext()))
	}
}
