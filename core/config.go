package core

import (
	"io/fs"
	"os"

	"github.com/go-barry/sumpage/web"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const ConfigFile = "sumpage.config.yml"

type Config struct {
	OutputDir    string `yaml:"outputDir"`
	CacheEnabled bool   `yaml:"cache"`
	DebugHeaders bool   `yaml:"debugHeaders"`
	DebugLogs    bool   `yaml:"debugLogs"`
	ViewsDir     string `yaml:"viewsDir"`
	PublicDir    string `yaml:"publicDir"`
	MinifyHTML   bool   `yaml:"minifyHTML"`
}

func defaultConfig() Config {
	return Config{
		OutputDir:    "./cache",
		CacheEnabled: false,
		DebugHeaders: false,
		DebugLogs:    false,
	}
}

var LoadConfig = func(path string) Config {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("invalid config file, using defaults")
			cfg = defaultConfig()
		}
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "./cache"
	}

	applyEnv(&cfg)
	return cfg
}

// applyEnv lets SUMPAGE_* variables override the file. Unparseable values are ignored.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("SUMPAGE_OUTPUT_DIR"); ok && v != "" {
		cfg.OutputDir = v
	}
	envBool("SUMPAGE_CACHE", &cfg.CacheEnabled)
	envBool("SUMPAGE_DEBUG_HEADERS", &cfg.DebugHeaders)
	envBool("SUMPAGE_DEBUG_LOGS", &cfg.DebugLogs)
	envBool("SUMPAGE_MINIFY_HTML", &cfg.MinifyHTML)
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		logrus.WithField("env", key).WithError(err).Warn("ignoring invalid boolean")
		return
	}
	*dst = b
}

// ViewsFS returns the configured views directory, or the embedded views.
func (c Config) ViewsFS() fs.FS {
	if c.ViewsDir != "" {
		return os.DirFS(c.ViewsDir)
	}
	return web.Views()
}

// PublicFS returns the configured static directory, or the embedded assets.
func (c Config) PublicFS() fs.FS {
	if c.PublicDir != "" {
		return os.DirFS(c.PublicDir)
	}
	return web.Public()
}

// WatchDirs lists the on-disk directories worth watching in dev mode.
func (c Config) WatchDirs() []string {
	var dirs []string
	for _, d := range []string{c.ViewsDir, c.PublicDir} {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}
