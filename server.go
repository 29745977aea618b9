package sumpage

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-barry/sumpage/core"
	"github.com/sirupsen/logrus"
)

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
	ConfigPath  string
}

func (c RuntimeConfig) configPath() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return core.ConfigFile
}

const shutdownTimeout = 5 * time.Second

// ListenAndServe serves until SIGINT or SIGTERM, then drains in-flight requests.
var ListenAndServe = func(addr string, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

var Exit = os.Exit

var Start = func(cfg RuntimeConfig) {
	fmt.Println("Starting sumpage in", cfg.Env, "mode...")

	addr, handler := BuildServer(cfg)

	fmt.Printf("✅ sumpage running at http://localhost%s\n", addr)
	if err := ListenAndServe(addr, handler); err != nil && err != http.ErrServerClosed {
		fmt.Fprintln(os.Stderr, "❌ Server failed:", err)
		Exit(1)
	}
}

func BuildServer(cfg RuntimeConfig) (string, http.Handler) {
	config := core.LoadConfig(cfg.configPath())
	// prod turns the cache on; the config file or SUMPAGE_CACHE can turn it on in dev too.
	config.CacheEnabled = config.CacheEnabled || cfg.EnableCache
	core.ConfigureLogging(config)

	public := config.PublicFS()
	cacheStaticDir := filepath.Join(config.OutputDir, "static")

	mux := http.NewServeMux()
	dev := cfg.Env == "dev"

	if dev {
		setupDevStaticRoutes(mux, public)

		reloader := core.NewLiveReloader()
		mux.HandleFunc(core.ReloadPath, reloader.Handler)

		if dirs := config.WatchDirs(); len(dirs) > 0 {
			if _, err := core.WatchDirs(dirs, reloader.BroadcastReload); err != nil {
				logrus.WithError(err).Warn("live reload watcher disabled")
			}
		}
	} else {
		mux.Handle("/static/", makeStaticHandler(public, cacheStaticDir))
		for _, name := range []string{"favicon.ico", "robots.txt"} {
			mux.HandleFunc("/"+name, publicFileHandler(public, name, "public, max-age=31536000, immutable"))
		}
	}

	router := core.NewRouter(config, core.RuntimeContext{
		Env:           cfg.Env,
		LiveTemplates: dev,
	})
	mux.Handle("/", router)

	return fmt.Sprintf(":%d", cfg.Port), core.RequestLogger(mux)
}

func setupDevStaticRoutes(mux *http.ServeMux, public fs.FS) {
	files := http.FileServer(http.FS(public))
	mux.Handle("/static/", http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})))

	for _, name := range []string{"favicon.ico", "robots.txt"} {
		mux.HandleFunc("/"+name, publicFileHandler(public, name, "no-store"))
	}
}

func publicFileHandler(public fs.FS, name, cacheControl string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := fs.Stat(public, name); err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cacheControl)
		http.ServeFileFS(w, r, public, name)
	}
}

// makeStaticHandler prefers minified copies under cacheDir (gzipped when the
// client accepts it) and falls back to the public assets.
func makeStaticHandler(public fs.FS, cacheDir string) http.Handler {
	const cacheControl = "public, max-age=31536000, immutable"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trimmed := strings.TrimPrefix(r.URL.Path, "/static/")
		if strings.Contains(trimmed, "..") {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
		trimmed = path.Clean(trimmed)

		cachedFile := filepath.Join(cacheDir, filepath.FromSlash(trimmed))
		gzipFile := cachedFile + ".gz"

		if acceptsGzip(r) {
			if _, err := os.Stat(gzipFile); err == nil {
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Cache-Control", cacheControl)
				http.ServeFile(w, r, gzipFile)
				return
			}
		}

		if _, err := os.Stat(cachedFile); err == nil {
			serveFileWithHeaders(w, r, cachedFile, cacheControl)
			return
		}

		if fs.ValidPath(trimmed) {
			if info, err := fs.Stat(public, trimmed); err == nil && !info.IsDir() {
				w.Header().Set("Content-Type", detectMimeType(trimmed))
				w.Header().Set("Cache-Control", cacheControl)
				http.ServeFileFS(w, r, public, trimmed)
				return
			}
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, file, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(file))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, file)
}

func detectMimeType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".ico":
		return "image/x-icon"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
