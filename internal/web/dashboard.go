package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tumanina/internal/model"
	"tumanina/internal/service"
)

// editorView is the data of a record editor page: the table and the form.
type editorView struct {
	Schema  model.Schema
	Entries []service.Entry
	Form    formView
	// Confirm is the record awaiting delete confirmation, if any.
	Confirm *service.Entry
}

type formView struct {
	ID     string
	Values map[string]any
	Errors map[string]string
	// Open shows the form expanded: editing, a failed save or ?new=1.
	Open bool
}

func (h *Handler) DashboardHome(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, "dash_home.html", page{
		Title: "لوحة التحكم",
		Data:  h.deps.Dashboard.Stats(c.UserContext()),
	})
}

func (h *Handler) editor(c *fiber.Ctx) (service.Editor, error) {
	ed, ok := h.editors[c.Params("resource")]
	if !ok {
		return nil, fiber.ErrNotFound
	}
	return ed, nil
}

// EditorPage lists the records and shows the form: pre-filled from ?edit=<id>,
// or with the create defaults.
func (h *Handler) EditorPage(c *fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.NotFound(c)
	}
	ctx := c.UserContext()
	sc := ed.Schema()
	view := editorView{Schema: sc}
	var toast *flash

	if id := c.Query("edit"); id != "" {
		e, err := ed.Entry(ctx, id)
		if err != nil {
			h.logWriteError(sc, "load", err)
			toast = flashError("فشل تحميل " + sc.Noun)
		} else {
			view.Form = formView{ID: e.ID, Values: e.Values, Open: true}
		}
	}
	if view.Form.Values == nil {
		d, err := ed.Defaults(ctx)
		if err != nil {
			h.logWriteError(sc, "defaults", err)
			d = sc.Defaults()
		}
		view.Form = formView{Values: d, Open: c.Query("new") != ""}
	}

	view.Entries, toast = h.entries(c, ed, toast)
	return h.render(c, fiber.StatusOK, "dash_editor.html", page{Title: sc.Title, Flash: toast, Data: view})
}

// entries loads the table; a failure is logged and shown as an empty list with a toast.
func (h *Handler) entries(c *fiber.Ctx, ed service.Editor, toast *flash) ([]service.Entry, *flash) {
	sc := ed.Schema()
	items, err := ed.Entries(c.UserContext())
	if err != nil {
		h.logWriteError(sc, "list", err)
		return []service.Entry{}, flashError("فشل تحميل " + sc.Plural)
	}
	return items, toast
}

// SaveRecord creates the record when the form has no id and updates it otherwise.
// On failure the form is shown again with the submitted values.
func (h *Handler) SaveRecord(c *fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.NotFound(c)
	}
	ctx := c.UserContext()
	sc := ed.Schema()
	id := c.FormValue("id")
	input := formInput(c, sc)

	var msg string
	if id == "" {
		_, err = ed.Create(ctx, input)
		msg = "تم إضافة " + sc.Noun + " بنجاح"
	} else {
		err = ed.Update(ctx, id, input)
		msg = "تم تحديث " + sc.Noun + " بنجاح"
	}
	if err == nil {
		h.setFlash(c, flashOK(msg))
		return c.Redirect("/dashboard/"+sc.Resource, fiber.StatusSeeOther)
	}

	h.logWriteError(sc, "save", err)
	status := fiber.StatusInternalServerError
	if errors.Is(err, service.ErrValidation) {
		status = fiber.StatusUnprocessableEntity
	} else if errors.Is(err, service.ErrNotFound) {
		status = fiber.StatusNotFound
	}
	view := editorView{
		Schema: sc,
		Form:   formView{ID: id, Values: input, Errors: fieldErrors(err), Open: true},
	}
	toast := flashError("فشل حفظ " + sc.Noun)
	view.Entries, toast = h.entries(c, ed, toast)
	return h.render(c, status, "dash_editor.html", page{Title: sc.Title, Flash: toast, Data: view})
}

// DeleteRecord deletes only when the request carries confirm=yes; otherwise it
// shows the confirmation prompt.
func (h *Handler) DeleteRecord(c *fiber.Ctx) error {
	ed, err := h.editor(c)
	if err != nil {
		return h.NotFound(c)
	}
	ctx := c.UserContext()
	sc := ed.Schema()
	id := c.Params("id")

	if c.FormValue("confirm") != "yes" {
		e, err := ed.Entry(ctx, id)
		if err != nil {
			h.logWriteError(sc, "load", err)
			h.setFlash(c, flashError("فشل تحميل "+sc.Noun))
			return c.Redirect("/dashboard/"+sc.Resource, fiber.StatusSeeOther)
		}
		d, _ := ed.Defaults(ctx)
		view := editorView{Schema: sc, Confirm: e, Form: formView{Values: d}}
		view.Entries, _ = h.entries(c, ed, nil)
		return h.render(c, fiber.StatusOK, "dash_editor.html", page{Title: sc.Title, Data: view})
	}

	if err := ed.Delete(ctx, id); err != nil {
		h.logWriteError(sc, "delete", err)
		h.setFlash(c, flashError("فشل حذف "+sc.Noun))
	} else {
		h.setFlash(c, flashOK("تم حذف "+sc.Noun+" بنجاح"))
	}
	return c.Redirect("/dashboard/"+sc.Resource, fiber.StatusSeeOther)
}

// Upload stores the form's selected file and returns {url, key} for the URL field.
func (h *Handler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "يرجى اختيار ملف"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "فشل رفع الملف"})
	}
	defer f.Close()

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	folder := c.Params("folder")
	res, err := h.deps.Media.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size, folder)
	if err != nil {
		h.deps.Logger.Error("upload failed", zap.String("folder", folder), zap.Error(err))
		status := fiber.StatusBadGateway
		if errors.Is(err, service.ErrInvalidFolder) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": "فشل رفع الملف"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": res.URL, "key": res.Key, "message": "تم رفع الملف بنجاح"})
}

type settingsView struct {
	Schema  model.Schema
	Values  map[string]any
	Errors  map[string]string
	Exists  bool
	Updated string
}

func (h *Handler) SettingsForm(c *fiber.Ctx) error {
	view := settingsView{Schema: model.SettingsSchema, Values: map[string]any{}}
	var toast *flash
	st, exists, err := h.deps.Settings.Get(c.UserContext())
	if err != nil {
		h.logWriteError(model.SettingsSchema, "load", err)
		toast = flashError("فشل تحميل الإعدادات")
	} else {
		view.Values = settingsValues(st)
		view.Exists = exists
		if exists {
			view.Updated = st.LastUpdated.Format("2006-01-02 15:04")
		}
	}
	return h.render(c, fiber.StatusOK, "dash_settings.html", page{Title: model.SettingsSchema.Title, Flash: toast, Data: view})
}

func (h *Handler) SaveSettings(c *fiber.Ctx) error {
	input := formInput(c, model.SettingsSchema)
	if _, err := h.deps.Settings.Save(c.UserContext(), input); err != nil {
		h.logWriteError(model.SettingsSchema, "save", err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, service.ErrValidation) {
			status = fiber.StatusUnprocessableEntity
		}
		view := settingsView{Schema: model.SettingsSchema, Values: input, Errors: fieldErrors(err)}
		return h.render(c, status, "dash_settings.html", page{
			Title: model.SettingsSchema.Title,
			Flash: flashError("فشل حفظ الإعدادات"),
			Data:  view,
		})
	}
	h.setFlash(c, flashOK("تم حفظ الإعدادات بنجاح"))
	return c.Redirect("/dashboard/settings", fiber.StatusSeeOther)
}

// formInput collects the schema's fields from the submitted form. An unchecked
// checkbox is not submitted, so bool fields default to false.
func formInput(c *fiber.Ctx, sc model.Schema) map[string]any {
	args := c.Request().PostArgs()
	mf, _ := c.MultipartForm()
	input := make(map[string]any, len(sc.Fields))
	for _, f := range sc.Fields {
		var v string
		var ok bool
		if args.Has(f.Name) {
			v, ok = string(args.Peek(f.Name)), true
		} else if mf != nil && len(mf.Value[f.Name]) > 0 {
			v, ok = mf.Value[f.Name][0], true
		}
		switch {
		case f.Kind == model.KindBool:
			input[f.Name] = ok && isTrue(v)
		case ok:
			input[f.Name] = v
		}
	}
	return input
}

func fieldErrors(err error) map[string]string {
	fields := service.FieldErrors(err)
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field] = f.Message
	}
	return out
}

func settingsValues(st *model.SiteSettings) map[string]any {
	return map[string]any{
		"privacy_policy_ar":   st.PrivacyPolicyAr,
		"terms_conditions_ar": st.TermsConditionsAr,
		"about_us_ar":         st.AboutUsAr,
		"contact_email":       st.ContactEmail,
		"contact_phone":       st.ContactPhone,
	}
}

func (h *Handler) logWriteError(sc model.Schema, op string, err error) {
	h.deps.Logger.Error("dashboard operation failed",
		zap.String("collection", sc.Collection),
		zap.String("op", op),
		zap.Error(err),
	)
}
