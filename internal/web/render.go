package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"tumanina/internal/http/middleware"
	"tumanina/internal/model"
	"tumanina/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer converts article bodies to HTML. Raw HTML in the source is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

const (
	siteName        = "طمانينة"
	siteDescription = "تطبيق شامل للتوعية بسرطان الثدي والكشف المبكر"
)

type navItem struct {
	Label string
	Href  string
}

// page is the data every template receives.
type page struct {
	Title       string
	Description string
	Image       string
	Path        string
	Session     *service.Session
	Flash       *flash
	Nav         []navItem
	Data        any
}

var funcs = template.FuncMap{
	"markdown": func(md string) template.HTML {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(md))
		}
		return template.HTML(buf.String())
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"value": func(values map[string]any, name string) string {
		v, ok := values[name]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	},
	"isTrue":    isTrue,
	"cell":      cell,
	"examLabel": examLabel,
	"fieldView": func(f model.Field, values map[string]any, errs map[string]string) fieldView {
		return fieldView{Field: f, Values: values, Error: errs[f.Name]}
	},
}

// fieldView is one form input of the record editor.
type fieldView struct {
	Field  model.Field
	Values map[string]any
	Error  string
}

// parsePages builds one template set per page: the page's "content" block inside
// the public or dashboard layout.
func parsePages() (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := strings.TrimPrefix(name, "templates/")
		if strings.HasPrefix(base, "layout") {
			continue
		}
		layout := "templates/layout.html"
		if strings.HasPrefix(base, "dash_") {
			layout = "templates/layout_dashboard.html"
		}
		tpl, err := template.New(base).Funcs(funcs).ParseFS(templateFS, layout, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", base, err)
		}
		out[base] = tpl
	}
	return out, nil
}

// render executes the page inside its layout. The flash cookie is consumed here.
func (h *Handler) render(c *fiber.Ctx, status int, name string, p page) error {
	tpl, ok := h.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if p.Title == "" {
		p.Title = siteName
	} else if !strings.Contains(p.Title, siteName) {
		p.Title = p.Title + " | " + siteName
	}
	if p.Description == "" {
		p.Description = siteDescription
	}
	p.Path = c.Path()
	if p.Session == nil {
		p.Session = middleware.SessionFrom(c)
	}
	if p.Session != nil {
		p.Nav = h.nav
	}
	if p.Flash == nil {
		p.Flash = h.takeFlash(c)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(b) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}

// cell formats a listed field for the editor table.
func cell(f model.Field, v any) string {
	if v == nil {
		return ""
	}
	switch f.Kind {
	case model.KindBool:
		if isTrue(v) {
			return "نعم"
		}
		return "لا"
	case model.KindEnum:
		return f.OptionLabel(fmt.Sprint(v))
	default:
		return fmt.Sprint(v)
	}
}

func examLabel(examType string) string {
	f, _ := model.ScreeningSchema.Field("exam_type")
	return f.OptionLabel(examType)
}

// summary returns the first n runes of s followed by an ellipsis.
func summary(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	return string(r[:min(n, len(r))]) + "..."
}
