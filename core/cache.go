package core

import (
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// RouteKey maps a request path to its directory under the output dir.
func RouteKey(path string) string {
	key := strings.Trim(path, "/")
	if key == "" {
		return "index"
	}
	return key
}

func GetCachedHTML(config Config, route string) ([]byte, bool) {
	cachePath := filepath.Join(config.OutputDir, route, "index.html")

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	return content, true
}

// CachedGzipPath returns the precompressed copy of a cached page, if present.
func CachedGzipPath(config Config, route string) (string, bool) {
	gzPath := filepath.Join(config.OutputDir, route, "index.html.gz")
	if _, err := os.Stat(gzPath); err != nil {
		return "", false
	}
	return gzPath, true
}

func SaveCachedHTML(config Config, routeKey string, html []byte) error {
	outDir := filepath.Join(config.OutputDir, routeKey)
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "create cache dir %s", outDir)
	}

	htmlPath := filepath.Join(outDir, "index.html")
	if err := writeFileAtomic(htmlPath, html); err != nil {
		return errors.Wrapf(err, "write %s", htmlPath)
	}

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	if _, err := zw.Write(html); err != nil {
		return errors.Wrapf(err, "compress %s", htmlPath)
	}
	if err := zw.Close(); err != nil {
		return errors.Wrapf(err, "compress %s", htmlPath)
	}
	return errors.Wrapf(writeFileAtomic(htmlPath+".gz", gz.Bytes()), "write %s.gz", htmlPath)
}

// writeFileAtomic writes to a temp file in the same directory and renames it
// into place, so concurrent readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ClearCache removes one cached route, or the whole output dir when route is empty.
// It returns ErrNotFound if there was nothing to remove.
func ClearCache(config Config, route string) (string, error) {
	target := config.OutputDir
	if route = strings.Trim(route, "/"); route != "" {
		target = filepath.Join(config.OutputDir, route)
		rel, err := filepath.Rel(config.OutputDir, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return target, errors.Wrapf(ErrInvalidRoute, "%s", route)
		}
	}

	info, err := os.Stat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return target, ErrNotFound
		}
		return target, errors.Wrap(err, "failed to access path")
	}
	if !info.IsDir() {
		return target, errors.Errorf("not a directory: %s", target)
	}

	if err := os.RemoveAll(target); err != nil {
		return target, errors.Wrap(err, "failed to clean cache")
	}
	return target, nil
}

func generateETag(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
