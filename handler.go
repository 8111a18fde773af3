package lessgo

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"net/http"

	"github.com/dellyoung/lessgo/internal/strings"
)

// Error types for LESS compilation and serving
var (
	ErrNotFound          = errors.New("not found")
	ErrCompilationFailed = errors.New("compilation failed")
)

// Handler handles LESS file compilation and serving
type Handler struct {
	pathPrefix string
	fileSystem fs.FS
}

// NewHandler creates a new LESS compilation handler.
// fileSystem is where to read .less files from
// pathPrefix is the URL path prefix to match and strip (e.g., "/assets/css")
func NewHandler(fileSystem fs.FS, pathPrefix string) http.Handler {
	return &Handler{
		pathPrefix: pathPrefix,
		fileSystem: fileSystem,
	}
}

// ServeHTTP implements http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle GET and HEAD requests
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Check if request path starts with pathPrefix and ends with .less
	if h.pathPrefix != "" && !strings.HasPrefix(r.URL.Path, h.pathPrefix) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if !strings.HasSuffix(r.URL.Path, ".less") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	// Extract the relative path within the prefix
	lessPath := strings.TrimPrefix(r.URL.Path, h.pathPrefix)
	// If pathPrefix is "/", don't remove leading slash again
	if h.pathPrefix != "/" {
		lessPath = strings.TrimPrefix(lessPath, "/")
	}

	// Check if file exists
	info, err := fs.Stat(h.fileSystem, lessPath)
	if err != nil || info.IsDir() {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	// Open and read the LESS file
	file, err := h.fileSystem.Open(lessPath)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	defer file.Close()

	source, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	css, err := Compile(string(source), Options{Filename: lessPath})
	if err != nil {
		log.Printf("lessgo: %s: %v", ErrCompilationFailed, err)
		http.Error(w, "Compilation Error", http.StatusInternalServerError)
		return
	}

	// Send the compiled CSS
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if r.Method != http.MethodHead {
		w.Write([]byte(css))
	}
}
