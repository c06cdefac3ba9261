package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tumanina/internal/http/handler"
	"tumanina/internal/model"
	"tumanina/internal/repository/memory"
	"tumanina/internal/service"
	serviceMocks "tumanina/internal/service/mocks"
	"tumanina/internal/session"
)

const (
	adminEmail   = "admin@example.com"
	studentEmail = "student@example.com"
	testPassword = "correct-horse"
)

type fixture struct {
	app      *fiber.App
	articles *service.Records[model.Article, *model.Article]
	media    *serviceMocks.MockMediaService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	articles := service.NewRecords[model.Article](memory.NewCollection[model.Article](model.CollectionArticles), model.ArticleSchema, nil)
	steps := service.NewRecords[model.SelfExamStep](memory.NewCollection[model.SelfExamStep](model.CollectionSteps), model.SelfExamSchema, nil)
	screening := service.NewRecords[model.ScreeningSchedule](memory.NewCollection[model.ScreeningSchedule](model.CollectionScreening), model.ScreeningSchema, nil)
	warnings := service.NewRecords[model.WarningSign](memory.NewCollection[model.WarningSign](model.CollectionWarnings), model.WarningSchema, nil)
	reminders := service.NewRecords[model.ReminderTemplate](memory.NewCollection[model.ReminderTemplate](model.CollectionReminders), model.ReminderSchema, nil)
	settings := service.NewSettingsService(memory.NewCollection[model.SiteSettings](model.CollectionSettings), nil)

	users := memory.NewUsers()
	auth := service.NewAuthService(users, session.NewMemory(), []byte("web-test-secret-web-test-secret"), time.Hour)
	_, err := auth.Provision(ctx, adminEmail, testPassword, model.RoleAdmin, "المشرفة")
	require.NoError(t, err)
	_, err = auth.Provision(ctx, studentEmail, testPassword, model.RoleStudent, "")
	require.NoError(t, err)

	editors := []service.Editor{articles, reminders, screening, steps, warnings}
	media := new(serviceMocks.MockMediaService)

	h, err := New(Deps{
		Site: service.NewSiteService(service.SiteDeps{
			Articles:  articles,
			Steps:     steps,
			Screening: screening,
			Warnings:  warnings,
			Settings:  settings,
		}, logger),
		Auth:      auth,
		Editors:   editors,
		Settings:  settings,
		Media:     media,
		Dashboard: service.NewDashboardService(editors, users, logger),
		Logger:    logger,
		BaseURL:   "https://tumanina.example/",
	})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler()})
	h.Register(app)
	return &fixture{app: app, articles: articles, media: media}
}

func (f *fixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f *fixture) get(t *testing.T, target string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return f.do(t, req)
}

func (f *fixture) post(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return f.do(t, req)
}

// login signs in through the form and returns the session cookie.
func (f *fixture) login(t *testing.T, email string) *http.Cookie {
	t.Helper()
	resp := f.post(t, "/login", url.Values{"email": {email}, "password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	c := cookie(resp, "tumanina_session")
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	return c
}

func cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

func TestNew(t *testing.T) {
	h, err := New(Deps{})
	require.NoError(t, err)

	for _, name := range []string{"home.html", "articles.html", "article.html", "login.html", "notfound.html", "dash_home.html", "dash_editor.html", "dash_settings.html"} {
		assert.Contains(t, h.pages, name)
	}
	assert.NotContains(t, h.pages, "layout.html")
}

func TestDashboardGate(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		cookies func() []*http.Cookie
	}{
		{
			name:    "no session",
			cookies: func() []*http.Cookie { return nil },
		},
		{
			name:    "garbage token",
			cookies: func() []*http.Cookie { return []*http.Cookie{{Name: "tumanina_session", Value: "nope"}} },
		},
		{
			name:    "student account",
			cookies: func() []*http.Cookie { return []*http.Cookie{f.login(t, studentEmail)} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, target := range []string{"/dashboard", "/dashboard/articles", "/dashboard/settings"} {
				resp := f.get(t, target, tt.cookies()...)
				assert.Equal(t, http.StatusSeeOther, resp.StatusCode, target)
				assert.Equal(t, "/login", resp.Header.Get("Location"), target)
			}
		})
	}

	t.Run("admin", func(t *testing.T) {
		sess := f.login(t, adminEmail)
		resp := f.get(t, "/dashboard", sess)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		html := body(t, resp)
		assert.Contains(t, html, "المشرفة")
		assert.Contains(t, html, "إدارة المقالات")
	})
}

func TestLoginForm(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.post(t, "/login", url.Values{"email": {adminEmail}, "password": {"battery"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "كلمة المرور غير صحيحة")
	assert.Contains(t, html, adminEmail)

	resp = f.post(t, "/login", url.Values{"email": {"nobody@example.com"}, "password": {testPassword}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body(t, resp), "المستخدم غير موجود")
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	resp := f.post(t, "/logout", nil, sess)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// The revoked token no longer opens the dashboard.
	resp = f.get(t, "/dashboard", sess)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestArticlePublishToggle(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	resp := f.post(t, "/dashboard/articles", url.Values{
		"title_ar":      {"فوائد الفحص المبكر"},
		"body_ar":       {"**مهم** جداً"},
		"media_type":    {"image"},
		"display_order": {"1"},
		"is_published":  {"true"},
	}, sess)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/articles", resp.Header.Get("Location"))
	fl := cookie(resp, "tumanina_flash")
	require.NotNil(t, fl)

	// The toast is shown once on the next page.
	resp = f.get(t, "/dashboard/articles", sess, fl)
	assert.Contains(t, body(t, resp), "تم إضافة المقال بنجاح")

	entries, err := f.articles.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	id := entries[0].ID

	html := body(t, f.get(t, "/articles"))
	assert.Contains(t, html, "فوائد الفحص المبكر")

	resp = f.get(t, "/articles/"+id)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "<strong>مهم</strong>")

	// An unchecked checkbox is not submitted: the article is unpublished.
	resp = f.post(t, "/dashboard/articles", url.Values{
		"id":            {id},
		"title_ar":      {"فوائد الفحص المبكر"},
		"body_ar":       {"**مهم** جداً"},
		"media_type":    {"image"},
		"display_order": {"1"},
	}, sess)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	html = body(t, f.get(t, "/articles"))
	assert.NotContains(t, html, "فوائد الفحص المبكر")
	assert.Contains(t, html, "لا توجد مقالات منشورة حالياً.")

	resp = f.get(t, "/articles/"+id)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "الصفحة غير موجودة")

	html = body(t, f.get(t, "/dashboard/articles", sess))
	assert.Contains(t, html, "فوائد الفحص المبكر")

	html = body(t, f.get(t, "/dashboard/articles?edit="+id, sess))
	assert.Contains(t, html, `name="id" value="`+id+`"`)
}

func TestSaveRecord_ValidationKeepsInput(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	resp := f.post(t, "/dashboard/articles", url.Values{
		"title_ar":      {""},
		"body_ar":       {"نص محفوظ"},
		"media_type":    {"image"},
		"display_order": {"1"},
	}, sess)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "فشل حفظ المقال")
	assert.Contains(t, html, "نص محفوظ")

	entries, err := f.articles.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteRecord(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)
	id, err := f.articles.Create(context.Background(), map[string]any{"title_ar": "للحذف", "body_ar": "x"})
	require.NoError(t, err)

	// Without confirmation only the prompt is shown.
	resp := f.post(t, "/dashboard/articles/"+id+"/delete", nil, sess)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "هل أنت متأكد من حذف المقال")
	_, err = f.articles.Get(context.Background(), id)
	require.NoError(t, err)

	resp = f.post(t, "/dashboard/articles/"+id+"/delete", url.Values{"confirm": {"yes"}}, sess)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, err = f.articles.Get(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrNotFound)

	html := body(t, f.get(t, "/dashboard/articles", sess, cookie(resp, "tumanina_flash")))
	assert.Contains(t, html, "تم حذف المقال بنجاح")
	assert.NotContains(t, html, "للحذف")

	// Confirming a record that no longer exists goes back to the list.
	resp = f.post(t, "/dashboard/articles/"+id+"/delete", nil, sess)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestUnknownResource(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	resp := f.get(t, "/dashboard/users", sess)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadFailureThenManualURL(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	f.media.On("Upload", mock.Anything, mock.Anything, "step.png", mock.Anything, int64(3), model.FolderSelfExam).
		Return(nil, service.ErrUploadFailed)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "step.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/uploads/self-exam", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(sess)
	resp := f.do(t, req)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	var res map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "فشل رفع الملف", res["error"])
	f.media.AssertExpectations(t)

	// The form still saves with a URL typed in by hand.
	resp = f.post(t, "/dashboard/self-exam", url.Values{
		"step_number":    {"1"},
		"title_ar":       {"الفحص أمام المرآة"},
		"description_ar": {"قفي أمام المرآة"},
		"image_url":      {"https://cdn.example.com/step.png"},
	}, sess)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	html := body(t, f.get(t, "/self-exam/steps"))
	assert.Contains(t, html, "https://cdn.example.com/step.png")
}

func TestUpload(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	f.media.On("Upload", mock.Anything, mock.Anything, "a.jpg", "image/jpeg", int64(1), model.FolderArticles).
		Return(&service.UploadResult{URL: "https://cdn.example.com/articles/1-a.jpg", Key: "articles/1-a.jpg"}, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="file"; filename="a.jpg"`}
	hdr["Content-Type"] = []string{"image/jpeg"}
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/uploads/articles", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(sess)
	resp := f.do(t, req)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var res map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, "https://cdn.example.com/articles/1-a.jpg", res["url"])
	assert.Equal(t, "articles/1-a.jpg", res["key"])
}

func TestScreeningMaleSection(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	html := body(t, f.get(t, "/self-exam/screening"))
	assert.Contains(t, html, "لا توجد بيانات متاحة حالياً.")

	resp := f.post(t, "/dashboard/screening", url.Values{
		"gender":            {"female"},
		"exam_type":         {"mammogram"},
		"start_age":         {"40"},
		"frequency_text_ar": {"كل سنتين"},
	}, sess)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	html = body(t, f.get(t, "/self-exam/screening"))
	assert.Contains(t, html, "كل سنتين")
	assert.NotContains(t, html, `id="male"`)

	resp = f.post(t, "/dashboard/screening", url.Values{
		"gender":            {"male"},
		"exam_type":         {"clinical"},
		"start_age":         {"50"},
		"frequency_text_ar": {"سنوياً"},
	}, sess)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	html = body(t, f.get(t, "/self-exam/screening"))
	assert.Contains(t, html, `id="male"`)
	assert.Contains(t, html, "سنوياً")
}

func TestSettingsForm(t *testing.T) {
	f := newFixture(t)
	sess := f.login(t, adminEmail)

	html := body(t, f.get(t, "/privacy"))
	assert.Contains(t, html, "جاري تحديث سياسة الخصوصية...")

	resp := f.post(t, "/dashboard/settings", url.Values{
		"privacy_policy_ar": {"نحترم خصوصيتك"},
		"contact_email":     {"not-an-email"},
	}, sess)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body(t, resp), "فشل حفظ الإعدادات")

	resp = f.post(t, "/dashboard/settings", url.Values{
		"privacy_policy_ar": {"نحترم خصوصيتك"},
		"contact_email":     {"help@tumanina.example"},
	}, sess)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard/settings", resp.Header.Get("Location"))

	html = body(t, f.get(t, "/privacy"))
	assert.Contains(t, html, "نحترم خصوصيتك")
	assert.Contains(t, body(t, f.get(t, "/support")), "help@tumanina.example")
	assert.Contains(t, body(t, f.get(t, "/dashboard/settings", sess)), "آخر تحديث")
}

func TestRobotsAndSitemap(t *testing.T) {
	f := newFixture(t)
	id, err := f.articles.Create(context.Background(), map[string]any{"title_ar": "أ", "body_ar": "x"})
	require.NoError(t, err)
	_, err = f.articles.Create(context.Background(), map[string]any{"title_ar": "ب", "body_ar": "x", "is_published": false})
	require.NoError(t, err)

	resp := f.get(t, "/robots.txt")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	robots := body(t, resp)
	assert.Contains(t, robots, "Disallow: /dashboard/")
	assert.Contains(t, robots, "Disallow: /login")
	assert.Contains(t, robots, "Sitemap: https://tumanina.example/sitemap.xml")

	resp = f.get(t, "/sitemap.xml")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	xml := body(t, resp)
	assert.Contains(t, xml, "<loc>https://tumanina.example</loc>")
	assert.Contains(t, xml, "<loc>https://tumanina.example/self-exam/warnings</loc>")
	assert.Contains(t, xml, "<loc>https://tumanina.example/articles/"+id+"</loc>")
	assert.Equal(t, 11, strings.Count(xml, "<url>"))
	assert.NotContains(t, xml, "/dashboard")
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "الصفحة غير موجودة")
	assert.Contains(t, html, "العودة للرئيسية")

	resp = f.get(t, "/api/no-such-endpoint")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
}

func TestPublicPages(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/", "/articles", "/self-exam", "/self-exam/steps", "/self-exam/screening", "/self-exam/warnings", "/privacy", "/terms", "/support", "/manifest.webmanifest"} {
		resp := f.get(t, target)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
	}

	html := body(t, f.get(t, "/"))
	assert.Contains(t, html, `dir="rtl"`)
	assert.Contains(t, html, "| طمانينة</title>")
}
