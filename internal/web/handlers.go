package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/bcre/estate-import/internal/core"
	"github.com/bcre/estate-import/internal/logging"
)

// entityResponse is the wire shape for GET /api/entities.
type entityResponse struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Columns []string `json:"columns"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.pool.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	out := make([]entityResponse, len(defs))
	for i, def := range defs {
		out[i] = entityResponse{
			Key:     def.Info.Key,
			Label:   def.Info.Label,
			Columns: def.Info.Columns,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleImport accepts a multipart CSV upload and runs it through the
// import pipeline synchronously, returning the run summary.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	entityKey := chi.URLParam(r, "entityKey")
	if _, ok := core.Get(entityKey); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown entity kind: " + entityKey})
		return
	}

	// Cap the request body before anything is spooled to disk.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload exceeds size limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	// The importer reads from a path, so spool the upload to disk first.
	tmp, err := os.CreateTemp("", "import-*.csv")
	if err != nil {
		logger.Error("create temp file", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "temp file"})
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	_, err = io.Copy(tmp, file)
	tmp.Close()
	if err != nil {
		logger.Error("spool upload", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "read upload"})
		return
	}

	logger.Info("import requested", "entity", entityKey, "file", filepath.Base(header.Filename))

	result, err := s.service.ImportFile(r.Context(), entityKey, tmpPath)
	result.FileName = filepath.Base(header.Filename)
	if err != nil {
		// Run aborted; the partial counters still go back to the caller.
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
