package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tumanina/internal/http/middleware"
	"tumanina/internal/model"
	"tumanina/internal/service"
	serviceMocks "tumanina/internal/service/mocks"
)

func decodeError(t *testing.T, body io.Reader) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthCheck(t *testing.T) {
	var pingErr error
	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Get("/health", HealthCheck(func(ctx context.Context) error { return pingErr }))

	t.Run("healthy", func(t *testing.T) {
		pingErr = nil
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		pingErr = errors.New("db error")
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		body := decodeError(t, resp.Body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
		assert.Equal(t, resp.Header.Get(middleware.RequestIDHeader), body.RequestID)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(m *serviceMocks.MockAuthService)
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name: "success",
			body: `{"email":"admin@example.com","password":"secret-pass"}`,
			setupMocks: func(m *serviceMocks.MockAuthService) {
				m.On("Login", mock.Anything, "admin@example.com", "secret-pass").
					Return(&service.LoginResult{Token: "tok", Session: &service.Session{Role: model.RoleAdmin}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"email":"admin@example.com","password":"nope"}`,
			setupMocks: func(m *serviceMocks.MockAuthService) {
				m.On("Login", mock.Anything, "admin@example.com", "nope").Return(nil, service.ErrWrongPassword)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_CREDENTIALS",
			wantMsg:    "كلمة المرور غير صحيحة",
		},
		{
			name: "backend error",
			body: `{"email":"admin@example.com","password":"x"}`,
			setupMocks: func(m *serviceMocks.MockAuthService) {
				m.On("Login", mock.Anything, "admin@example.com", "x").Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "حدث خطأ أثناء تسجيل الدخول. يرجى المحاولة مرة أخرى",
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			setupMocks: func(m *serviceMocks.MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_BODY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(serviceMocks.MockAuthService)
			tt.setupMocks(m)
			app := fiber.New()
			app.Post("/api/auth/login", Login(m))

			resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/auth/login", tt.body))
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				body := decodeError(t, resp.Body)
				assert.Equal(t, tt.wantCode, body.Error.Code)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, body.Error.Message)
				}
			} else {
				var res service.LoginResult
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
				assert.Equal(t, "tok", res.Token)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestLogout(t *testing.T) {
	m := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/api/auth/logout", Logout(m))

	t.Run("revokes bearer token", func(t *testing.T) {
		m.On("Logout", mock.Anything, "tok").Return(nil).Once()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer tok")

		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("no token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	m.AssertExpectations(t)
}

func TestPublicRoutes(t *testing.T) {
	site := new(serviceMocks.MockSiteService)
	app := fiber.New()
	app.Get("/articles", ListPublishedArticles(site))
	app.Get("/articles/:id", GetPublishedArticle(site))
	app.Get("/screening", GetScreening(site))

	t.Run("published list", func(t *testing.T) {
		site.On("PublishedArticles", mock.Anything).Return([]model.Article{{ID: "a1", TitleAr: "أ", IsPublished: true}}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/articles", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var items []model.Article
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "a1", items[0].ID)
	})

	t.Run("unpublished detail", func(t *testing.T) {
		site.On("Article", mock.Anything, "draft").Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/articles/draft", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("empty male group", func(t *testing.T) {
		site.On("Screening", mock.Anything).Return(service.ScreeningGroups{
			Female: []model.ScreeningSchedule{{ID: "s1", Gender: model.GenderFemale, StartAge: 20}},
			Male:   []model.ScreeningSchedule{},
		}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/screening", nil))
		var body map[string][]map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body["female"], 1)
		assert.NotNil(t, body["male"])
		assert.Empty(t, body["male"])
	})

	site.AssertExpectations(t)
}

func TestRecordRoutes(t *testing.T) {
	ed := new(serviceMocks.MockEditor)
	app := fiber.New()
	app.Get("/r", ListRecords(ed))
	app.Get("/r/new", RecordDefaults(ed))
	app.Get("/r/:id", GetRecord(ed))
	app.Post("/r", CreateRecord(ed))
	app.Patch("/r/:id", UpdateRecord(ed))
	app.Delete("/r/:id", DeleteRecord(ed))

	t.Run("list", func(t *testing.T) {
		ed.On("Entries", mock.Anything).Return([]service.Entry{{ID: "a1", Values: map[string]any{"title_ar": "أ"}}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/r", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res recordListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, "a1", res.Items[0].ID)
	})

	t.Run("list error", func(t *testing.T) {
		ed.On("Entries", mock.Anything).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/r", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("defaults", func(t *testing.T) {
		ed.On("Defaults", mock.Anything).Return(map[string]any{"display_order": 4}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/r/new", nil))
		var d map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
		assert.Equal(t, float64(4), d["display_order"])
	})

	t.Run("create", func(t *testing.T) {
		ed.On("Create", mock.Anything, mock.MatchedBy(func(in map[string]any) bool {
			return in["title_ar"] == "A" && in["display_order"] == json.Number("1")
		})).Return("new-id", nil).Once()
		ed.On("Entry", mock.Anything, "new-id").Return(&service.Entry{ID: "new-id"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/r", `{"title_ar":"A","display_order":1}`))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("create validation", func(t *testing.T) {
		ed.On("Create", mock.Anything, mock.Anything).Return("", &service.ValidationError{Fields: []service.FieldError{
			{Field: "title_ar", Tag: "required", Message: "هذا الحقل مطلوب"},
		}}).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/r", `{}`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeError(t, resp.Body)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		require.Len(t, body.Error.Fields, 1)
		assert.Equal(t, "title_ar", body.Error.Fields[0].Field)
	})

	t.Run("create non-object body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/r", `[1,2]`))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("update not found", func(t *testing.T) {
		ed.On("Update", mock.Anything, "gone", map[string]any{"is_published": false}).Return(service.ErrNotFound).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/r/gone", `{"is_published":false}`))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		ed.On("Update", mock.Anything, "a1", map[string]any{"title_ar": "B"}).Return(nil).Once()
		ed.On("Entry", mock.Anything, "a1").Return(&service.Entry{ID: "a1", Values: map[string]any{"title_ar": "B"}}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/r/a1", `{"title_ar":"B"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete", func(t *testing.T) {
		ed.On("Delete", mock.Anything, "a1").Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/r/a1", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	ed.AssertExpectations(t)
}

func TestSettingsRoutes(t *testing.T) {
	svc := new(serviceMocks.MockSettingsService)
	app := fiber.New()
	app.Get("/settings", GetSettings(svc))
	app.Put("/settings", SaveSettings(svc))

	t.Run("get absent", func(t *testing.T) {
		svc.On("Get", mock.Anything).Return(&model.SiteSettings{ID: model.SettingsID}, false, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/settings", nil))
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, false, body["exists"])
	})

	t.Run("save", func(t *testing.T) {
		svc.On("Save", mock.Anything, map[string]any{"contact_email": "a@b.co"}).
			Return(&model.SiteSettings{ID: model.SettingsID, ContactEmail: "a@b.co", PrivacyPolicyAr: "kept"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/settings", `{"contact_email":"a@b.co"}`))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var st model.SiteSettings
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
		assert.Equal(t, "kept", st.PrivacyPolicyAr)
	})

	svc.AssertExpectations(t)
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		part.Write([]byte(content))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadMedia(t *testing.T) {
	media := new(serviceMocks.MockMediaService)
	app := fiber.New()
	app.Post("/uploads/:folder", UploadMedia(media))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "photo.png", "png")
		media.On("Upload", mock.Anything, mock.Anything, "photo.png", mock.Anything, int64(3), model.FolderArticles).
			Return(&service.UploadResult{URL: "https://cdn.example.com/articles/1-photo.png", Key: "articles/1-photo.png"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/uploads/articles", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res service.UploadResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "articles/1-photo.png", res.Key)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/uploads/articles", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "photo.png", "png")
		media.On("Upload", mock.Anything, mock.Anything, "photo.png", mock.Anything, mock.Anything, model.FolderWarnings).
			Return(nil, errors.Join(service.ErrUploadFailed, errors.New("denied"))).Once()

		req := httptest.NewRequest(http.MethodPost, "/uploads/warnings", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "UPLOAD_FAILED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("folder not allowed", func(t *testing.T) {
		body, ct := multipartBody(t, "file", "a.png", "x")
		media.On("Upload", mock.Anything, mock.Anything, "a.png", mock.Anything, mock.Anything, "secrets").
			Return(nil, service.ErrInvalidFolder).Once()

		req := httptest.NewRequest(http.MethodPost, "/uploads/secrets", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_FOLDER", decodeError(t, resp.Body).Error.Code)
	})

	media.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	auth := new(serviceMocks.MockAuthService)
	ed := new(serviceMocks.MockEditor)
	ed.On("Schema").Return(model.ArticleSchema)
	dash := new(serviceMocks.MockDashboardService)

	RegisterRoutes(app, Deps{
		Auth:      auth,
		Site:      new(serviceMocks.MockSiteService),
		Editors:   []service.Editor{ed},
		Settings:  new(serviceMocks.MockSettingsService),
		Media:     new(serviceMocks.MockMediaService),
		Dashboard: dash,
	})

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("admin without session", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/articles", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("admin as student", func(t *testing.T) {
		auth.On("Authenticate", mock.Anything, "student-tok").
			Return(&service.Session{UserID: "u2", Role: model.RoleStudent}, nil).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/articles", nil)
		req.Header.Set("Authorization", "Bearer student-tok")

		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("admin list", func(t *testing.T) {
		auth.On("Authenticate", mock.Anything, "admin-tok").
			Return(&service.Session{UserID: "u1", Role: model.RoleAdmin}, nil).Once()
		ed.On("Entries", mock.Anything).Return([]service.Entry{}, nil).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/articles", nil)
		req.Header.Set("Authorization", "Bearer admin-tok")

		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("stats", func(t *testing.T) {
		auth.On("Authenticate", mock.Anything, "admin-tok").
			Return(&service.Session{UserID: "u1", Role: model.RoleAdmin}, nil).Once()
		dash.On("Stats", mock.Anything).Return([]service.Stat{{Collection: model.CollectionArticles, Count: 3}}).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		req.Header.Set("Authorization", "Bearer admin-tok")

		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("me", func(t *testing.T) {
		auth.On("Authenticate", mock.Anything, "admin-tok").
			Return(&service.Session{UserID: "u1", Email: "admin@example.com", Role: model.RoleAdmin}, nil).Once()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer admin-tok")

		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var sess service.Session
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
		assert.Equal(t, "admin@example.com", sess.Email)
	})

	auth.AssertExpectations(t)
	ed.AssertExpectations(t)
	dash.AssertExpectations(t)
}
