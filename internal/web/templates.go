package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/garancija/internal/imagehost"
	"github.com/erazemk/garancija/internal/inventory"
	"github.com/erazemk/garancija/internal/model"
	"github.com/erazemk/garancija/internal/webhook"
	webembed "github.com/erazemk/garancija/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"statusName": func(status string) string {
			switch status {
			case model.StatusActive:
				return "Aktivna"
			case model.StatusExpiringSoon:
				return "Kmalu poteče"
			case model.StatusExpired:
				return "Potekla"
			default:
				return status
			}
		},
		"statusColor": func(status string) string {
			switch status {
			case model.StatusActive:
				return "green"
			case model.StatusExpiringSoon:
				return "orange"
			case model.StatusExpired:
				return "red"
			default:
				return "gray"
			}
		},
		"hasPhoto": func(url string) bool {
			return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
		},
		"abs": func(n int) int {
			if n < 0 {
				return -n
			}
			return n
		},
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"items.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Manager      *inventory.Manager
	Templates    *Templates
	JWTSecret    string
	PasswordHash string
	Uploader     imagehost.Uploader
	Images       *imagehost.LocalUploader
	Webhook      *webhook.Sender
}
