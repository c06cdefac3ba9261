package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"tumanina/internal/model"
	"tumanina/internal/service"
)

func (h *Handler) Home(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "home.html", page{
		Title: "التوعية بسرطان الثدي والكشف المبكر",
		Data:  h.deps.Site.Settings(c.UserContext()),
	})
}

func (h *Handler) Articles(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "articles.html", page{
		Title: "المقالات التوعوية",
		Data:  h.deps.Site.PublishedArticles(c.UserContext()),
	})
}

// Article renders one published article. Drafts and unknown ids get the 404 page.
func (h *Handler) Article(c *fiber.Ctx) error {
	a, err := h.deps.Site.Article(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return h.render(c, fiber.StatusNotFound, "notfound.html", page{Title: "مقال غير موجود"})
		}
		return err
	}
	p := page{
		Title:       a.TitleAr,
		Description: summary(a.BodyAr, 160),
		Data:        a,
	}
	if a.MediaType == model.MediaImage {
		p.Image = a.MediaURL
	}
	return h.render(c, fiber.StatusOK, "article.html", p)
}

func (h *Handler) SelfExam(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "selfexam.html", page{Title: "الفحص الذاتي"})
}

func (h *Handler) Steps(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "steps.html", page{
		Title: "خطوات الفحص الذاتي",
		Data:  h.deps.Site.SelfExamSteps(c.UserContext()),
	})
}

// Screening renders the female and male recommendations. The male section is
// omitted when it has no schedules.
func (h *Handler) Screening(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "screening.html", page{
		Title: "مواعيد الكشف المبكر",
		Data:  h.deps.Site.Screening(c.UserContext()),
	})
}

func (h *Handler) Warnings(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "warnings.html", page{
		Title: "العلامات التحذيرية",
		Data:  h.deps.Site.WarningSigns(c.UserContext()),
	})
}

type legalView struct {
	Heading     string
	Body        string
	Placeholder string
	Updated     time.Time
}

func (h *Handler) Privacy(c *fiber.Ctx) error {
	st := h.deps.Site.Settings(c.UserContext())
	return h.render(c, fiber.StatusOK, "legal.html", page{
		Title: "سياسة الخصوصية",
		Data: legalView{
			Heading:     "سياسة الخصوصية",
			Body:        st.PrivacyPolicyAr,
			Placeholder: "جاري تحديث سياسة الخصوصية...",
			Updated:     st.LastUpdated,
		},
	})
}

func (h *Handler) Terms(c *fiber.Ctx) error {
	st := h.deps.Site.Settings(c.UserContext())
	return h.render(c, fiber.StatusOK, "legal.html", page{
		Title: "الشروط والأحكام",
		Data: legalView{
			Heading:     "الشروط والأحكام",
			Body:        st.TermsConditionsAr,
			Placeholder: "جاري تحديث الشروط والأحكام...",
			Updated:     st.LastUpdated,
		},
	})
}

func (h *Handler) Support(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "support.html", page{
		Title: "الدعم والاتصال",
		Data:  h.deps.Site.Settings(c.UserContext()),
	})
}
