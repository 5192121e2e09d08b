package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/timesheet-portal-go/internal/domain/session"
	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageFiles = []string{
	"login.html",
	"change_password.html",
	"no_access.html",
	"employee.html",
	"manager.html",
	"hr.html",
	"admin_users.html",
	"admin_settings.html",
}

// pageData is the root value every template receives
type pageData struct {
	Title string
	User  *session.User
	Roles map[string]bool
	Error string
	Next  string
	Email string
	Data  interface{}
}

// listSection is a table whose fetch may have failed
type listSection struct {
	Items interface{}
	Error string
}

type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"relTime": humanize.Time,
		"join":    strings.Join,
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/timesheets.partial.html",
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

func newPageData(title string, sess *session.Session) pageData {
	data := pageData{Title: title}
	if sess != nil {
		user := sess.User
		data.User = &user
		data.Roles = make(map[string]bool, len(user.Roles))
		for _, role := range user.RoleSet().Strings() {
			data.Roles[role] = true
		}
	}
	return data
}

func (rd *Renderer) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		slog.Error("unknown page template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
