//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Handler serves static files from the source tree so stylesheet edits
// show up without a rebuild.
func Handler() http.Handler {
	dir := StaticDirectoryPath
	if _, file, _, ok := runtime.Caller(0); ok {
		dir = filepath.Join(filepath.Dir(file), "static")
	}
	slog.Info("static assets served from filesystem", "path", dir)

	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(dir))))
}
