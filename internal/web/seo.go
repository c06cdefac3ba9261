package web

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Robots keeps crawlers out of the dashboard and login form.
func (h *Handler) Robots(c *fiber.Ctx) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /dashboard/\n")
	b.WriteString("Disallow: /login\n\n")
	fmt.Fprintf(&b, "Sitemap: %s/sitemap.xml\n", h.deps.BaseURL)
	c.Type("txt", "utf-8")
	return c.SendString(b.String())
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap lists the static pages and every published article.
func (h *Handler) Sitemap(c *fiber.Ctx) error {
	entries := h.deps.Site.Sitemap(c.UserContext())
	set := urlset{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9", URLs: make([]sitemapURL, 0, len(entries))}
	for _, e := range entries {
		loc := h.deps.BaseURL
		if e.Path != "/" {
			loc += e.Path
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        loc,
			LastMod:    e.LastModified.UTC().Format(time.RFC3339),
			ChangeFreq: e.ChangeFreq,
			Priority:   fmt.Sprintf("%.1f", e.Priority),
		})
	}
	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return err
	}
	c.Type("xml", "utf-8")
	return c.Send(append([]byte(xml.Header), out...))
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	BackgroundColor string         `json:"background_color"`
	ThemeColor      string         `json:"theme_color"`
	Icons           []manifestIcon `json:"icons"`
}

var manifest = webManifest{
	Name:            "طمانينة - التوعية بسرطان الثدي",
	ShortName:       siteName,
	Description:     siteDescription,
	StartURL:        "/",
	Display:         "standalone",
	BackgroundColor: "#ffffff",
	ThemeColor:      "#db2777",
	Icons:           []manifestIcon{{Src: "/favicon.ico", Sizes: "any", Type: "image/x-icon"}},
}

func (h *Handler) Manifest(c *fiber.Ctx) error {
	return c.JSON(manifest, "application/manifest+json")
}
