package http

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/jmehdipour/custdir/internal/config"
	"github.com/jmehdipour/custdir/internal/web"
	"github.com/labstack/echo/v4"
)

const (
	indexFile    = "index.html"
	notFoundFile = "404.html"
)

// staticFiles serves the SPA build, then the public directory, then the embedded assets.
type staticFiles struct {
	spa    fs.FS
	layers []fs.FS
}

func newStaticFiles(cfg config.StaticConfig) (*staticFiles, error) {
	s := &staticFiles{}

	if cfg.SPADir != "" && isFile(os.DirFS(cfg.SPADir), indexFile) {
		s.spa = os.DirFS(cfg.SPADir)
		s.layers = append(s.layers, s.spa)
	}
	if cfg.PublicDir != "" {
		info, err := os.Stat(cfg.PublicDir)
		switch {
		case err == nil && info.IsDir():
			s.layers = append(s.layers, os.DirFS(cfg.PublicDir))
		case err == nil:
			return nil, fmt.Errorf("public_dir %s is not a directory", cfg.PublicDir)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("public_dir: %w", err)
		}
	}
	s.layers = append(s.layers, web.Public())

	return s, nil
}

func (s *staticFiles) hasSPA() bool { return s.spa != nil }

// serve answers with the first layer holding the requested file, or the 404 page.
func (s *staticFiles) serve(c echo.Context) error {
	method := c.Request().Method
	if method == http.MethodGet || method == http.MethodHead {
		if name, fsys, ok := s.lookup(c.Request().URL.Path); ok {
			return echo.StaticFileHandler(name, fsys)(c)
		}
	}
	return s.notFound(c)
}

func (s *staticFiles) lookup(urlPath string) (string, fs.FS, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = indexFile
	}
	if !fs.ValidPath(name) {
		return "", nil, false
	}

	for _, fsys := range s.layers {
		info, err := fs.Stat(fsys, name)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			return name, fsys, true
		}
		if idx := path.Join(name, indexFile); isFile(fsys, idx) {
			return idx, fsys, true
		}
	}
	return "", nil, false
}

func (s *staticFiles) notFound(c echo.Context) error {
	for _, fsys := range s.layers {
		if fsys == s.spa {
			continue
		}
		if body, err := fs.ReadFile(fsys, notFoundFile); err == nil {
			return c.HTMLBlob(http.StatusNotFound, body)
		}
	}
	return c.NoContent(http.StatusNotFound)
}

func isFile(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && !info.IsDir()
}
