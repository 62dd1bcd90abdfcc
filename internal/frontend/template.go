package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed views
var viewsFS embed.FS

const (
	layoutFile   = "views/layout.html"
	viewsPattern = "views/*.html"
	iconFile     = "views/icon.svg"
)

// Template renders a page by executing the shared layout around the page's "content" block.
type Template struct {
	pages map[string]*template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Local().Format("2006-01-02 15:04:05")
	},
}

// newTemplate parses every page together with the layout, each page in its own set
// so that all of them can define the same "content" block.
func newTemplate(views fs.FS) (*Template, error) {
	files, err := fs.Glob(views, viewsPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		page, err := template.New(path.Base(file)).Funcs(templateFuncs).ParseFS(views, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse view %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return &Template{pages: pages}, nil
}
