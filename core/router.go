package core

import (
	"bytes"
	"net/http"
	"os"
	"strings"
)

// PageFunc returns the view to render for a request and its data context.
type PageFunc func(r *http.Request) (string, map[string]interface{}, error)

// Route is one entry of the route table. Exactly one of Page and Handler is set.
// An empty Method matches every method; GET routes also answer HEAD.
type Route struct {
	Method    string
	Path      string
	Name      string
	Page      PageFunc
	Handler   http.Handler
	Cacheable bool
}

type RuntimeContext struct {
	Env           string
	LiveTemplates bool
}

type Router struct {
	config   Config
	env      string
	renderer Renderer
	routes   []Route
}

// DefaultRoutes is the site's route table.
func DefaultRoutes(calc *Calculator) []Route {
	return []Route{
		{Path: "/", Name: "greeting", Handler: http.HandlerFunc(GreetingHandler)},
		{Method: http.MethodGet, Path: "/Calculator", Name: "calculator", Page: calc.Page, Cacheable: true},
		{Method: http.MethodGet, Path: "/calculate", Name: "calculate", Page: calc.Calculate},
		{Method: http.MethodGet, Path: "/api/calculate", Name: "api.calculate", Handler: http.HandlerFunc(calc.CalculateJSON)},
	}
}

var NewRouter = func(config Config, ctx RuntimeContext) http.Handler {
	return newRouter(config, ctx, DefaultRoutes(NewCalculator(Add)))
}

func newRouter(config Config, ctx RuntimeContext, routes []Route) *Router {
	renderer := NewTemplateRenderer(RendererConfig{
		Views:      config.ViewsFS(),
		Funcs:      TemplateFuncs(ctx.Env, config.OutputDir, config.PublicFS()),
		Reload:     ctx.LiveTemplates,
		MinifyHTML: config.MinifyHTML && ctx.Env == "prod",
	})
	return &Router{
		config:   config,
		env:      ctx.Env,
		renderer: renderer,
		routes:   routes,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	route, allowed := r.match(req)
	if route == nil {
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
			r.serveError(w, req, http.StatusMethodNotAllowed, "")
			return
		}
		r.serveError(w, req, http.StatusNotFound, "")
		return
	}

	if r.config.DebugHeaders {
		w.Header().Set("X-Sumpage-Route", route.Name)
	}

	if route.Handler != nil {
		route.Handler.ServeHTTP(w, req)
		return
	}
	r.servePage(w, req, *route)
}

func (r *Router) match(req *http.Request) (*Route, []string) {
	var allowed []string
	for i := range r.routes {
		route := &r.routes[i]
		if route.Path != req.URL.Path {
			continue
		}
		if route.Method == "" || route.Method == req.Method ||
			(route.Method == http.MethodGet && req.Method == http.MethodHead) {
			return route, nil
		}
		allowed = append(allowed, route.Method)
		if route.Method == http.MethodGet {
			allowed = append(allowed, http.MethodHead)
		}
	}
	return nil, allowed
}

func (r *Router) servePage(w http.ResponseWriter, req *http.Request, route Route) {
	cacheable := route.Cacheable && r.config.CacheEnabled
	key := RouteKey(route.Path)

	if cacheable {
		if html, ok := GetCachedHTML(r.config, key); ok {
			r.serveCached(w, req, key, html)
			return
		}
	}

	view, data, err := route.Page(req)
	if err != nil {
		if IsBindError(err) {
			requestLog(req).WithError(err).Debug("parameter binding failed")
			r.serveError(w, req, http.StatusBadRequest, err.Error())
			return
		}
		requestLog(req).WithError(err).Error("page handler failed")
		r.serveError(w, req, http.StatusInternalServerError, "")
		return
	}

	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, view, data); err != nil {
		requestLog(req).WithError(err).WithField("view", view).Error("render failed")
		r.serveError(w, req, http.StatusInternalServerError, "")
		return
	}
	html := buf.Bytes()

	if cacheable {
		if err := SaveCachedHTML(r.config, key, html); err != nil {
			requestLog(req).WithError(err).Warn("failed to cache page")
		}
	}

	if r.config.DebugHeaders {
		w.Header().Set("X-Sumpage-View", view)
	}
	r.writeHTML(w, req, html)
}

func (r *Router) serveCached(w http.ResponseWriter, req *http.Request, key string, html []byte) {
	if r.config.DebugHeaders {
		w.Header().Set("X-Sumpage-Cache", "HIT")
	}

	gzPath, ok := CachedGzipPath(r.config, key)
	if !ok || !acceptsGzip(req) {
		r.writeHTML(w, req, html)
		return
	}

	gz, err := os.ReadFile(gzPath)
	if err != nil {
		r.writeHTML(w, req, html)
		return
	}

	etag := generateETag(html)
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", etag)
	if req.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Encoding", "gzip")
	_, _ = w.Write(gz)
}

func (r *Router) writeHTML(w http.ResponseWriter, req *http.Request, html []byte) {
	etag := generateETag(html)
	w.Header().Set("ETag", etag)
	if req.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

// serveError renders the error view, falling back to plain text.
func (r *Router) serveError(w http.ResponseWriter, req *http.Request, status int, message string) {
	data := map[string]interface{}{
		"status":     status,
		"statusText": http.StatusText(status),
	}
	if message != "" {
		data["message"] = message
	}

	var buf bytes.Buffer
	if err := r.renderer.Render(&buf, ErrorView, data); err != nil {
		requestLog(req).WithError(err).Debug("error view unavailable")
		if message == "" {
			message = http.StatusText(status)
		}
		http.Error(w, message, status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
