package static

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	IndexFile = "index.html"
	AssetsDir = "assets"
)

var errOutsideRoot = errors.New("path escapes static root")

// Server Serves the built SPA. Every file access goes through an os.Root, so symlinks and `..` cannot leave the root.
type Server struct {
	Dir string

	root   *os.Root
	assets bool
}

// New A missing static or assets directory is logged and tolerated; affected routes fall back or 404.
func New(dir string) *Server {
	s := &Server{Dir: dir}

	root, err := os.OpenRoot(dir)
	if err != nil {
		log.Warn().Err(err).Msgf("Could not open static directory %s", dir)
		return s
	}
	s.root = root

	if info, err := root.Stat(AssetsDir); err != nil || !info.IsDir() {
		log.Warn().Err(err).Msgf("Could not mount assets directory %s/%s", dir, AssetsDir)
	} else {
		s.assets = true
	}
	return s
}

func (s *Server) Close() error {
	if s.root == nil {
		return nil
	}
	return s.root.Close()
}

// Routes Registers `/`, `/assets/*` and the catch-all SPA fallback. Must be mounted after all API routes.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.serveIndex)
	if s.assets {
		r.Get("/"+AssetsDir+"/*", s.serveAsset)
	}
	r.Get("/*", s.serveFallback)
}

// CheckIndex Readiness: the SPA cannot be served without its entry document
func (s *Server) CheckIndex() error {
	if s.root == nil {
		return fmt.Errorf("static directory %s is not available", s.Dir)
	}
	info, err := s.root.Stat(IndexFile)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", IndexFile)
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if !s.serveFile(w, r, IndexFile) {
		log.Error().Msgf("SPA entry document %s/%s is missing", s.Dir, IndexFile)
		http.NotFound(w, r)
	}
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	name, err := resolve(AssetsDir + "/" + chi.URLParam(r, "*"))
	if err != nil {
		rejectTraversal(w, r, err)
		return
	}
	if !s.serveFile(w, r, name) {
		http.NotFound(w, r)
	}
}

func (s *Server) serveFallback(w http.ResponseWriter, r *http.Request) {
	name, err := resolve(chi.URLParam(r, "*"))
	if err != nil {
		rejectTraversal(w, r, err)
		return
	}
	if name != "" && s.serveFile(w, r, name) {
		return
	}
	s.serveIndex(w, r)
}

// serveFile Reports false, writing nothing, when name is not a regular file under the root
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	if s.root == nil {
		return false
	}

	f, err := s.root.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", name).Msg("Static file open failed")
		}
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

// resolve Maps a URL wildcard to a root-relative slash path. Any `..` segment is rejected outright rather than cleaned.
func resolve(urlPath string) (string, error) {
	if unescaped, err := url.PathUnescape(urlPath); err == nil {
		urlPath = unescaped
	}
	for _, segment := range strings.FieldsFunc(urlPath, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return "", errOutsideRoot
		}
	}
	return strings.TrimPrefix(path.Clean("/"+urlPath), "/"), nil
}

func rejectTraversal(w http.ResponseWriter, r *http.Request, err error) {
	log.Warn().Err(err).Str("path", r.URL.Path).Str("remote", r.RemoteAddr).Msg("Rejected static path")
	http.NotFound(w, r)
}
