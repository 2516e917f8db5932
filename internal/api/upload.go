package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"vaachak/pkg/config"
)

// UploadHandler serves POST /api/upload. Uploaded files land in the
// configured upload directory under a unique name; the returned path can be
// passed to /api/summarize as file_path.
type UploadHandler struct {
	cfg config.UploadConfig
}

// NewUploadHandler creates an UploadHandler and ensures the upload
// directory exists.
func NewUploadHandler(cfg config.UploadConfig) (*UploadHandler, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &UploadHandler{cfg: cfg}, nil
}

func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.cfg.MaxSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d MB limit", h.cfg.MaxSizeMB))
			return
		}
		writeError(w, http.StatusBadRequest, "missing multipart field \"file\"")
		return
	}
	defer file.Close()

	name := sanitizeFilename(header.Filename)
	dst := filepath.Join(h.cfg.Dir, uuid.NewString()+"_"+name)

	out, err := os.Create(dst)
	if err != nil {
		slog.Error("Failed to create upload file", "path", dst, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}
	defer out.Close()

	written, err := io.Copy(out, file)
	if err != nil {
		os.Remove(dst)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds the %d MB limit", h.cfg.MaxSizeMB))
			return
		}
		slog.Error("Failed to write upload file", "path", dst, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	slog.Info("Stored upload", "name", name, "bytes", written, "path", dst)
	writeJSON(w, http.StatusOK, map[string]any{
		"file_path": dst,
		"size":      written,
	})
}

// Discard removes a consumed upload unless the configuration keeps uploads
// on disk. Paths outside the upload directory are left alone.
func (h *UploadHandler) Discard(path string) {
	if h.cfg.KeepOnDisk {
		return
	}

	absDir, err := filepath.Abs(h.cfg.Dir)
	if err != nil {
		return
	}
	absPath, err := filepath.Abs(path)
	if err != nil || filepath.Dir(absPath) != absDir {
		return
	}

	if err := os.Remove(absPath); err != nil {
		slog.Warn("Failed to remove consumed upload", "path", path, "error", err)
		return
	}
	slog.Debug("Removed consumed upload", "path", path)
}

// sanitizeFilename strips any path components and characters that could
// escape the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}
