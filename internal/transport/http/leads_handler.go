package http

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "leadscli/internal/errors"
	"leadscli/internal/exporter"
	"leadscli/internal/services"
)

// LeadsHandler handles upload, processing and download requests.
type LeadsHandler struct {
	service      LeadServiceInterface
	store        *services.Store
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
}

// NewLeadsHandler creates a new leads handler.
func NewLeadsHandler(service LeadServiceInterface, store *services.Store, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUpload int64) *LeadsHandler {
	return &LeadsHandler{
		service:      service,
		store:        store,
		logger:       logger.With(slog.String("component", "leads_handler")),
		errorHandler: errorHandler,
		maxUpload:    maxUpload,
	}
}

// Routes returns the leads routes.
func (h *LeadsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/download/{session}/{filename}", h.Download)
	r.Get("/archive/{session}", h.Archive)
	r.Delete("/session/{session}", h.Reset)

	r.Route("/{mode}", func(r chi.Router) {
		r.Use(h.ModeCtx)
		r.Post("/", h.Process)
	})

	return r
}

// ModeCtx validates the mode parameter.
func (h *LeadsHandler) ModeCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mode := chi.URLParam(r, "mode")
		if !services.ValidMode(mode) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("mode",
				fmt.Sprintf("unknown mode %q; expected one of combine, clean, check, split", mode)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Process handles POST /api/leads/{mode}: a multipart form with one or more
// files under the "files" field and, for check mode, reference files under
// "reference". Produced downloads replace whatever the session held before.
func (h *LeadsHandler) Process(w http.ResponseWriter, r *http.Request) {
	mode := chi.URLParam(r, "mode")
	reqID := middleware.GetReqID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "INVALID_REQUEST", "Invalid multipart form", err.Error()))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files, err := readUploads(r.MultipartForm.File["files"])
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if len(files) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("files", "at least one file is required"))
		return
	}

	h.logger.InfoContext(r.Context(), "processing upload",
		slog.String("request_id", reqID),
		slog.String("mode", mode),
		slog.Int("files", len(files)))

	var result *services.Result
	switch mode {
	case services.ModeCombine:
		result, err = h.service.CombineAndClean(r.Context(), files)
	case services.ModeClean:
		result, err = h.service.CleanEach(r.Context(), files)
	case services.ModeCheck:
		reference, refErr := readUploads(r.MultipartForm.File["reference"])
		if refErr != nil {
			h.errorHandler.HandleError(w, r, refErr)
			return
		}
		if len(reference) == 0 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("reference", "at least one reference file is required"))
			return
		}
		result, err = h.service.CheckAgainstReference(r.Context(), reference, files)
	case services.ModeSplit:
		result, err = h.service.Split(r.Context(), files)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	session := r.FormValue("session")
	if session == "" {
		session = h.store.NewSession()
	}

	stored := result.Files
	if result.Archive != nil {
		stored = append(stored, *result.Archive)
	}
	h.store.Put(session, stored)

	response := map[string]interface{}{
		"status":  "success",
		"session": session,
		"reports": result.Reports,
	}
	downloads := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		downloads = append(downloads, downloadURL(session, f.Name))
	}
	response["downloads"] = downloads
	if result.Archive != nil {
		response["archive"] = downloadURL(session, result.Archive.Name)
	}

	render.JSON(w, r, response)
}

// Download handles GET /api/leads/download/{session}/{filename}.
func (h *LeadsHandler) Download(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	filename := chi.URLParam(r, "filename")

	data, ok := h.store.Get(session, filename)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError(filename))
		return
	}

	h.logger.InfoContext(r.Context(), "serving download",
		slog.String("session", session),
		slog.String("filename", filename),
		slog.Int("size_bytes", len(data)))

	serveBlob(w, filename, data)
}

// Archive handles GET /api/leads/archive/{session}: everything the session
// currently holds, bundled as AllFiles.zip.
func (h *LeadsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")

	files := h.store.Files(session)
	if len(files) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrSessionNotFound)
		return
	}

	// Reuse a stored archive when the last action already produced one;
	// otherwise bundle the session's files on the fly.
	for _, f := range files {
		if f.Name == "AllFiles.zip" {
			serveBlob(w, f.Name, f.Data)
			return
		}
	}

	data, err := buildSessionArchive(files)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	serveBlob(w, "AllFiles.zip", data)
}

// Reset handles DELETE /api/leads/session/{session}: drop the session's
// buffers and return the UI to its initial state.
func (h *LeadsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	h.store.Clear(session)

	h.logger.InfoContext(r.Context(), "session reset", slog.String("session", session))
	w.WriteHeader(http.StatusNoContent)
}

// readUploads drains the multipart file headers into memory. Buffers are
// released with the multipart form once the request finishes.
func readUploads(headers []*multipart.FileHeader) ([]services.UploadedFile, error) {
	files := make([]services.UploadedFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, apierrors.NewWithDetails(
				http.StatusBadRequest, "INVALID_REQUEST",
				fmt.Sprintf("failed to read uploaded file %s", header.Filename), err.Error())
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apierrors.NewWithDetails(
				http.StatusBadRequest, "INVALID_REQUEST",
				fmt.Sprintf("failed to read uploaded file %s", header.Filename), err.Error())
		}
		files = append(files, services.UploadedFile{Name: path.Base(header.Filename), Data: data})
	}
	return files, nil
}

// serveBlob writes a named byte blob as an attachment.
func serveBlob(w http.ResponseWriter, filename string, data []byte) {
	contentType := "text/csv; charset=utf-8"
	if strings.HasSuffix(filename, ".zip") {
		contentType = "application/zip"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

// buildSessionArchive bundles the session's files into one ZIP.
func buildSessionArchive(files []services.OutputFile) ([]byte, error) {
	entries := make([]exporter.ArchiveEntry, len(files))
	for i, f := range files {
		entries[i] = exporter.ArchiveEntry{Name: f.Name, Data: f.Data}
	}
	return exporter.BuildArchive(entries)
}

func downloadURL(session, filename string) string {
	return fmt.Sprintf("/api/leads/download/%s/%s", session, filename)
}
