// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the blog frontend.
// Every page template is parsed together with the shared base layout and
// executed into a buffer, so a template failure never produces a
// half-written page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"nextblog/internal/listing"
	"nextblog/internal/markdown"
	"nextblog/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title      string         // Page title for <title> tag
	Section    string         // Active nav entry (e.g., "health", "starred", "new")
	Categories []string       // Nav categories
	Error      string         // Error banner shown in place of page content
	Data       map[string]any // Page-specific data
}

// Card is the view model of one post in a listing.
type Card struct {
	Post      models.Post
	Excerpt   string
	Truncated bool
	Expand    bool   // show the full content inline with <details>
	Return    string // path to come back to after a mutation
}

// PageLink is one numbered entry of a Pager.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pager is the navigation under a paginated listing. Prev and Next are
// empty on the first and last page.
type Pager struct {
	Prev  string
	Next  string
	Links []PageLink
}

// NewPager builds navigation for p, using url to link a page number.
func NewPager(p listing.Page, url func(page int) string) Pager {
	var pg Pager
	if p.HasPrev() {
		pg.Prev = url(p.Prev())
	}
	if p.HasNext() {
		pg.Next = url(p.Next())
	}
	for _, n := range p.Numbers() {
		pg.Links = append(pg.Links, PageLink{Number: n, URL: url(n), Current: n == p.Number})
	}
	return pg
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// New creates a Renderer by parsing all page templates from the embedded
// filesystem. Each page template is paired with the base layout.
func New() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "active"
				}
				return ""
			},
			"card": func(p models.Post, expand bool, ret string) Card {
				excerpt, truncated := listing.Excerpt(p.Content, listing.ExcerptLength)
				return Card{Post: p, Excerpt: excerpt, Truncated: truncated, Expand: expand, Return: ret}
			},
			"formatDate": formatDate,
			"lower":      strings.ToLower,
			"titleCase":  TitleCase,
			"markdown":   markdown.Render,
		},
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}

		tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
			templateFS, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}

		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// Page renders the named page inside the base layout with the given status.
func (rn *Renderer) Page(w http.ResponseWriter, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	if data.Categories == nil {
		data.Categories = listing.Categories
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		slog.Error("template execution failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formatDate renders a timestamp the way listings show it. The zero time
// renders as an empty string.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006")
}

// TitleCase upper-cases the first rune, e.g. "health" -> "Health".
func TitleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
