package core

import (
	"bytes"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

// Renderer turns a view name and its data context into a response body.
type Renderer interface {
	Render(w io.Writer, view string, data map[string]interface{}) error
}

type RendererConfig struct {
	Views      fs.FS
	Funcs      template.FuncMap
	Reload     bool
	MinifyHTML bool
}

// TemplateRenderer renders <view>.html files from an fs.FS with html/template.
// A view opts into a layout with a first line of the form
// <!-- layout: layout.html -->; files under components/ are always in scope.
type TemplateRenderer struct {
	views    fs.FS
	funcs    template.FuncMap
	reload   bool
	minifier *minify.M

	mu    sync.RWMutex
	cache map[string]*compiledView
}

type compiledView struct {
	tmpl  *template.Template
	entry string
}

func NewTemplateRenderer(cfg RendererConfig) *TemplateRenderer {
	t := &TemplateRenderer{
		views:  cfg.Views,
		funcs:  cfg.Funcs,
		reload: cfg.Reload,
		cache:  make(map[string]*compiledView),
	}
	if cfg.MinifyHTML {
		t.minifier = minify.New()
		t.minifier.AddFunc("text/html", minhtml.Minify)
	}
	return t
}

func (t *TemplateRenderer) Render(w io.Writer, view string, data map[string]interface{}) error {
	cv, err := t.lookup(view)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := cv.tmpl.ExecuteTemplate(&buf, cv.entry, data); err != nil {
		return errors.Wrapf(err, "execute view %s", view)
	}

	if t.minifier != nil {
		return t.minifier.Minify("text/html", w, &buf)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

// ViewNames lists the top-level views, layouts included.
func (t *TemplateRenderer) ViewNames() ([]string, error) {
	matches, err := fs.Glob(t.views, "*.html")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, ".html"))
	}
	sort.Strings(names)
	return names, nil
}

func (t *TemplateRenderer) lookup(view string) (*compiledView, error) {
	if !t.reload {
		t.mu.RLock()
		cv, ok := t.cache[view]
		t.mu.RUnlock()
		if ok {
			return cv, nil
		}
	}

	cv, err := t.compile(view)
	if err != nil {
		return nil, err
	}

	if !t.reload {
		t.mu.Lock()
		t.cache[view] = cv
		t.mu.Unlock()
	}
	return cv, nil
}

func (t *TemplateRenderer) compile(view string) (*compiledView, error) {
	name := view + ".html"
	if !fs.ValidPath(name) {
		return nil, errors.Wrapf(ErrViewNotFound, "%s", view)
	}

	content, err := fs.ReadFile(t.views, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrViewNotFound, "%s", view)
		}
		return nil, errors.Wrapf(err, "read view %s", view)
	}

	tmpl := template.New(name).Funcs(t.funcs)

	components, err := fs.Glob(t.views, "components/*.html")
	if err != nil {
		return nil, err
	}
	for _, c := range components {
		if err := t.parseInto(tmpl, c); err != nil {
			return nil, err
		}
	}

	entry := name
	if layout := layoutDirective(content); layout != "" {
		if err := t.parseInto(tmpl, path.Clean(layout)); err != nil {
			return nil, err
		}
		entry = "layout"
	}

	if _, err := tmpl.Parse(string(content)); err != nil {
		return nil, errors.Wrapf(err, "parse view %s", view)
	}

	return &compiledView{tmpl: tmpl, entry: entry}, nil
}

func (t *TemplateRenderer) parseInto(tmpl *template.Template, file string) error {
	content, err := fs.ReadFile(t.views, file)
	if err != nil {
		return errors.Wrapf(err, "read %s", file)
	}
	if _, err := tmpl.New(file).Parse(string(content)); err != nil {
		return errors.Wrapf(err, "parse %s", file)
	}
	return nil
}

func layoutDirective(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "<!-- layout:") && strings.HasSuffix(line, "-->") {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, "<!-- layout:"), "-->"))
		}
		return ""
	}
	return ""
}
