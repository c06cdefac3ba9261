package handler

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"tumanina/internal/service"
)

// recordListResult is the admin list response of one resource.
type recordListResult struct {
	Items []service.Entry `json:"items"`
	Total int             `json:"total"`
}

// decodeInput reads a JSON object body. Numbers are kept as json.Number so the
// schema coercion sees exact integers.
func decodeInput(c *fiber.Ctx) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	var input map[string]any
	if err := dec.Decode(&input); err != nil || input == nil {
		return nil, false
	}
	return input, true
}

// ListRecords returns every record of the resource in the order the dashboard shows them.
//
// @Summary List records
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param resource path string true "articles, reminders, screening, self-exam or warnings"
// @Success 200 {object} recordListResult
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /api/admin/{resource} [get]
func ListRecords(ed service.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := ed.Entries(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(recordListResult{Items: items, Total: len(items)})
	}
}

// RecordDefaults returns the initial values of the create form.
//
// @Summary New record defaults
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource"
// @Success 200 {object} map[string]any
// @Router /api/admin/{resource}/new [get]
func RecordDefaults(ed service.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := ed.Defaults(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// @Summary Get record
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Success 200 {object} service.Entry
// @Failure 404 {object} errorPayload
// @Router /api/admin/{resource}/{id} [get]
func GetRecord(ed service.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, err := ed.Entry(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(e)
	}
}

// CreateRecord stores a new record; absent fields take their form defaults.
//
// @Summary Create record
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource"
// @Success 201 {object} service.Entry
// @Failure 400 {object} errorPayload
// @Router /api/admin/{resource} [post]
func CreateRecord(ed service.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, ok := decodeInput(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		id, err := ed.Create(c.UserContext(), input)
		if err != nil {
			return writeServiceError(c, err)
		}
		e, err := ed.Entry(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

// UpdateRecord merges the body into the record; fields not sent are unchanged.
//
// @Summary Update record
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Success 200 {object} service.Entry
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/admin/{resource}/{id} [patch]
func UpdateRecord(ed service.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, ok := decodeInput(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		id := c.Params("id")
		if err := ed.Update(c.UserContext(), id, input); err != nil {
			return writeServiceError(c, err)
		}
		e, err := ed.Entry(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(e)
	}
}

// @Summary Delete record
// @Tags admin
// @Security BearerAuth
// @Param resource path string true "Resource"
// @Param id path string true "Record ID"
// @Success 204
// @Router /api/admin/{resource}/{id} [delete]
func DeleteRecord(ed service.Editor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ed.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type settingsResult struct {
	Settings any  `json:"settings"`
	Exists   bool `json:"exists"`
}

// @Summary Get site settings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} settingsResult
// @Router /api/admin/settings [get]
func GetSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, exists, err := svc.Get(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(settingsResult{Settings: st, Exists: exists})
	}
}

// SaveSettings merges the body into the settings document, creating it on first save.
//
// @Summary Save site settings
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SiteSettings
// @Failure 400 {object} errorPayload
// @Router /api/admin/settings [put]
func SaveSettings(svc service.SettingsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, ok := decodeInput(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}
		st, err := svc.Save(c.UserContext(), input)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(st)
	}
}

// UploadMedia stores the multipart field "file" under the folder and returns its public URL.
//
// @Summary Upload media
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param folder path string true "articles, self-exam or warnings"
// @Param file formData file true "File"
// @Success 201 {object} service.UploadResult
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /api/admin/uploads/{folder} [post]
func UploadMedia(media service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := media.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size, c.Params("folder"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.Stat
// @Router /api/admin/stats [get]
func Stats(dash service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(dash.Stats(c.UserContext()))
	}
}
