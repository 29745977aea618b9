package core

import (
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

var minifiedAssets sync.Map

// MinifyAsset writes a minified, gzipped copy of a /static/ css or js file
// into cacheDir/static and returns its versioned URL. Outside prod, or on
// any failure, the original path is returned.
func MinifyAsset(env, path, cacheDir string, public fs.FS) string {
	if env != "prod" {
		return path
	}

	ext := filepath.Ext(path)
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, ext)

	if ext != ".css" && ext != ".js" {
		return path
	}

	if strings.Contains(name, ".min") {
		return path
	}

	key := cacheDir + "|" + path
	if v, ok := minifiedAssets.Load(key); ok {
		return v.(string)
	}

	src := strings.TrimPrefix(path, "/static/")
	original, err := fs.ReadFile(public, src)
	if err != nil {
		return path
	}

	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)

	mediaType := "text/css"
	if ext == ".js" {
		mediaType = "application/javascript"
	}

	var buf bytes.Buffer
	if err := m.Minify(mediaType, &buf, bytes.NewReader(original)); err != nil {
		return path
	}
	minified := buf.Bytes()

	out := filepath.Join(cacheDir, "static", fmt.Sprintf("%s.min%s", name, ext))
	if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
		return path
	}
	if err := os.WriteFile(out, minified, 0644); err != nil {
		return path
	}
	if err := writeGzip(out+".gz", minified); err != nil {
		return path
	}

	url := fmt.Sprintf("/static/%s.min%s?v=%s", name, ext, shortHash(minified))
	minifiedAssets.Store(key, url)
	return url
}

// TemplateFuncs is the func map available to every view: sprig's HTML-safe
// set plus the asset helpers.
func TemplateFuncs(env, cacheDir string, public fs.FS) template.FuncMap {
	funcs := sprig.HtmlFuncMap()

	funcs["minify"] = func(path string) string {
		return MinifyAsset(env, path, cacheDir, public)
	}
	funcs["props"] = func(values ...interface{}) map[string]interface{} {
		if len(values)%2 != 0 {
			panic("props must be called with even number of arguments")
		}
		m := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				panic("props keys must be strings")
			}
			m[key] = values[i+1]
		}
		return m
	}
	funcs["safeHTML"] = func(s interface{}) template.HTML {
		switch val := s.(type) {
		case template.HTML:
			return val
		case string:
			return template.HTML(val)
		default:
			return ""
		}
	}
	funcs["versioned"] = func(path string) string {
		if !strings.HasPrefix(path, "/static/") {
			return path
		}

		rel := strings.TrimPrefix(path, "/static/")
		if content, err := fs.ReadFile(public, rel); err == nil {
			return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
		}
		if content, err := os.ReadFile(filepath.Join(cacheDir, "static", rel)); err == nil {
			return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
		}
		return path
	}
	funcs["liveReload"] = func() bool {
		return env == "dev"
	}

	return funcs
}

func shortHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])[:6]
}

func writeGzip(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		return err
	}
	return gz.Close()
}
