package static

import (
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/dmitrymomot/galleri/core/handler"
)

type fsConfig struct {
	subPath     string
	stripPrefix string
	maxAge      time.Duration
}

// FSOption configures FS.
type FSOption func(*fsConfig)

// WithSubFS serves files from a subdirectory of the filesystem.
func WithSubFS(dir string) FSOption {
	return func(c *fsConfig) { c.subPath = dir }
}

// WithStripPrefix removes prefix from the URL path before lookup.
func WithStripPrefix(prefix string) FSOption {
	return func(c *fsConfig) { c.stripPrefix = prefix }
}

// WithMaxAge sets a public Cache-Control max-age on served files.
func WithMaxAge(d time.Duration) FSOption {
	return func(c *fsConfig) { c.maxAge = d }
}

// FS returns an http.Handler serving files from fsys with directory
// listings disabled. It panics when the filesystem or sub-path is unusable,
// which surfaces embed mistakes at startup.
func FS(fsys fs.FS, opts ...FSOption) http.Handler {
	cfg := &fsConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	fsys = sub(fsys, cfg.subPath)

	var h http.Handler = http.FileServer(neuteredFileSystem{http.FS(fsys)})
	if cfg.stripPrefix != "" {
		h = http.StripPrefix(cfg.stripPrefix, h)
	}
	if cfg.maxAge > 0 {
		h = withCacheControl(h, cfg.maxAge)
	}
	return h
}

// File serves a single file from fsys, e.g. /favicon.ico.
func File[C handler.Context](fsys fs.FS, name string) handler.HandlerFunc[C] {
	if _, err := fs.Stat(fsys, name); err != nil {
		panic("static.File: " + err.Error())
	}
	return func(ctx C) handler.Response {
		return func(w http.ResponseWriter, r *http.Request) error {
			http.ServeFileFS(w, r, fsys, name)
			return nil
		}
	}
}

func sub(fsys fs.FS, dir string) fs.FS {
	if dir != "" {
		s, err := fs.Sub(fsys, dir)
		if err != nil {
			panic("static.FS: invalid sub-path '" + dir + "': " + err.Error())
		}
		fsys = s
	}
	if _, err := fs.Stat(fsys, "."); err != nil {
		panic("static.FS: filesystem is not accessible: " + err.Error())
	}
	return fsys
}

func withCacheControl(next http.Handler, maxAge time.Duration) http.Handler {
	value := "public, max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", value)
		next.ServeHTTP(w, r)
	})
}

// neuteredFileSystem hides directories that have no index.html.
type neuteredFileSystem struct {
	http.FileSystem
}

func (nfs neuteredFileSystem) Open(name string) (http.File, error) {
	f, err := nfs.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}

	s, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	if s.IsDir() {
		index, err := nfs.FileSystem.Open(path.Join(name, "index.html"))
		if err != nil {
			_ = f.Close()
			return nil, fs.ErrNotExist
		}
		_ = index.Close()
	}

	return f, nil
}
