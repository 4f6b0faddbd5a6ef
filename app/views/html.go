package views

import (
	"embed"
	"html/template"
	"io"
	"io/fs"

	"likedposts/app/models"

	"github.com/pkg/errors"
)

//go:embed templates
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// ConfirmPage asks before an unlike is sent.
type ConfirmPage struct {
	Post      PostCard
	Tab       models.Tab
	Page      int
	ActionURL string
	CancelURL string
}

// LoginPage is the token form.
type LoginPage struct {
	Error string
	Label string
}

// Renderer executes the embedded page templates.
type Renderer struct {
	templates map[string]*template.Template
}

var pageFiles = map[string][]string{
	"index": {
		"templates/layout.html",
		"templates/liked/index.html",
		"templates/shared/post.html",
		"templates/shared/pagination.html",
	},
	"confirm": {
		"templates/layout.html",
		"templates/liked/confirm.html",
		"templates/shared/post.html",
	},
	"login": {
		"templates/layout.html",
		"templates/sessions/login.html",
	},
}

// NewRenderer parses all page templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}
	for name, files := range pageFiles {
		tmpl, err := template.ParseFS(templateFiles, files...)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s templates", name)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render writes page name with data into w.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Static returns the stylesheet and other assets rooted at their directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
