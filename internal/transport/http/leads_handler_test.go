package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "leadscli/internal/errors"
	"leadscli/internal/services"
)

func newTestRouter(t *testing.T) (*chi.Mux, *services.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := services.NewStore(0)
	service := services.NewLeadService(logger, nil, 2)
	handler := NewLeadsHandler(service, store, logger, apierrors.NewErrorHandler(logger), 8<<20)

	r := chi.NewRouter()
	r.Mount("/api/leads", handler.Routes())
	return r, store
}

type upload struct {
	field, name, content string
}

func multipartBody(t *testing.T, uploads []upload) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, u := range uploads {
		part, err := w.CreateFormFile(u.field, u.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(u.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postMode(t *testing.T, router *chi.Mux, mode string, uploads []upload) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, uploads)
	req := httptest.NewRequest(http.MethodPost, "/api/leads/"+mode, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestProcess_CleanEach(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postMode(t, router, "clean", []upload{
		{"files", "leads.csv", "full_name,linkedin\nA,x\nA,x\n"},
		{"files", "notes.txt", "not a table"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.Equal(t, "success", resp["status"])
	assert.NotEmpty(t, resp["session"])

	// The .txt file is reported as skipped; the CSV still produced output.
	reports := resp["reports"].([]interface{})
	require.Len(t, reports, 2)
	first := reports[0].(map[string]interface{})
	second := reports[1].(map[string]interface{})
	assert.Equal(t, "cleaned", first["status"])
	assert.Equal(t, "skipped", second["status"])
	assert.Contains(t, second["error"], "notes.txt")

	downloads := resp["downloads"].([]interface{})
	require.Len(t, downloads, 1)

	// The cleaned file is downloadable and deduplicated.
	req := httptest.NewRequest(http.MethodGet, downloads[0].(string), nil)
	dl := httptest.NewRecorder()
	router.ServeHTTP(dl, req)
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, "text/csv; charset=utf-8", dl.Header().Get("Content-Type"))
	assert.Contains(t, dl.Header().Get("Content-Disposition"), "leads_CLEAN.csv")
	assert.Equal(t, 1, bytes.Count(dl.Body.Bytes(), []byte("A,x")))
}

func TestProcess_CombineAbortsOnBadFile(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postMode(t, router, "combine", []upload{
		{"files", "leads.csv", "full_name\nA\n"},
		{"files", "notes.txt", "junk"},
	})

	// A single unparseable file aborts the whole combine.
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "notes.txt")
}

func TestProcess_CheckRequiresReference(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postMode(t, router, "check", []upload{
		{"files", "leads.csv", "full_name\nA\n"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestProcess_CheckAgainstReference(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postMode(t, router, "check", []upload{
		{"reference", "used.csv", "full_name,linkedin\nA,x\n"},
		{"files", "new.csv", "full_name,linkedin\nA,x\nB,y\n"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	downloads := resp["downloads"].([]interface{})
	require.Len(t, downloads, 1)
	assert.Contains(t, downloads[0], "new_CHECKED_CLEANED.csv")
	assert.Contains(t, resp["archive"], "CHECKED_CLEANED_LEADS_")
}

func TestProcess_UnknownMode(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postMode(t, router, "scramble", []upload{
		{"files", "leads.csv", "full_name\nA\n"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcess_NoFiles(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postMode(t, router, "clean", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownload_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/download/nosuch/none.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSplit_ArchiveAndReset(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postMode(t, router, "split", []upload{
		{"files", "leads.csv", "full_name,open\nA,true\nB,false\nC,true\n"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	session := resp["session"].(string)
	downloads := resp["downloads"].([]interface{})
	require.Len(t, downloads, 2)
	assert.Contains(t, downloads[0], "leads_Inmail.csv")
	assert.Contains(t, downloads[1], "leads_Invite.csv")

	// The session archive bundles every produced file.
	req := httptest.NewRequest(http.MethodGet, "/api/leads/archive/"+session, nil)
	ar := httptest.NewRecorder()
	router.ServeHTTP(ar, req)
	require.Equal(t, http.StatusOK, ar.Code)
	assert.Equal(t, "application/zip", ar.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(ar.Body.Bytes()), int64(ar.Body.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "leads_Inmail.csv")
	assert.Contains(t, names, "leads_Invite.csv")

	// Reset clears the session's buffers.
	del := httptest.NewRecorder()
	router.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/api/leads/session/"+session, nil))
	assert.Equal(t, http.StatusNoContent, del.Code)

	gone := httptest.NewRecorder()
	router.ServeHTTP(gone, httptest.NewRequest(http.MethodGet, downloads[0].(string), nil))
	assert.Equal(t, http.StatusNotFound, gone.Code)
}
