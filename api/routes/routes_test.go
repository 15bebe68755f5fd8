package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pdftext/api/handlers"
	"github.com/feichai0017/pdftext/internal/agent"
	"github.com/feichai0017/pdftext/internal/agent/document"
	"github.com/feichai0017/pdftext/internal/service/job"
	"github.com/feichai0017/pdftext/internal/utils/validator"
	"github.com/feichai0017/pdftext/pkg/logger"
	"github.com/feichai0017/pdftext/pkg/store"
)

const minimalPDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, path string) (*agent.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &agent.Result{Text: s.text}, nil
}

type testServer struct {
	router    *gin.Engine
	service   *job.Service
	extractor *stubExtractor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewTestLogger()
	ex := &stubExtractor{text: "Native text\n\n[OCR] <scanned>"}
	svc := job.NewService(ex, store.NewMemoryStore(), validator.NewUploadValidator(log, 1<<20), t.TempDir(), log)

	r := gin.New()
	require.NoError(t, SetupRoutes(r, handlers.NewHandlers(svc, log), []string{"*"}, log))
	return &testServer{router: r, service: svc, extractor: ex}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, path, filename, content string) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func (s *testServer) upload(t *testing.T) string {
	t.Helper()
	w := s.do(uploadRequest(t, "/upload", "report.pdf", minimalPDF))
	require.Equal(t, http.StatusFound, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/preview/"))
	return strings.TrimPrefix(loc, "/preview/")
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/upload"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestUploadPreviewDownloadFlow(t *testing.T) {
	s := newTestServer(t)
	id := s.upload(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/status/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var status map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, map[string]string{"status": "completed", "file_id": id}, status)

	w = s.do(httptest.NewRequest(http.MethodGet, "/preview/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "[OCR] &lt;scanned&gt;")
	assert.Contains(t, w.Body.String(), "/download/"+id)

	w = s.do(httptest.NewRequest(http.MethodGet, "/download/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Native text\n\n[OCR] <scanned>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), id+".txt")
}

func TestUploadErrors(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	w := s.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file part in the request")

	w = s.do(uploadRequest(t, "/upload", "", minimalPDF))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No file selected for uploading")

	w = s.do(uploadRequest(t, "/upload", "notes.txt", "hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.extractor.err = document.ErrExtractionFailed
	w = s.do(uploadRequest(t, "/upload", "blank.pdf", minimalPDF))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to extract text from the PDF")
}

func TestUnknownIDsAreNotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/status/nope", "/preview/nope", "/download/nope", "/redo/nope"} {
		w := s.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := s.do(httptest.NewRequest(http.MethodGet, "/status/nope", nil))
	assert.JSONEq(t, `{"status":"not found"}`, w.Body.String())
}

func TestRedo(t *testing.T) {
	s := newTestServer(t)
	id := s.upload(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/redo/"+id, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/preview/"+id, w.Header().Get("Location"))

	s.extractor.err = document.ErrExtractionFailed
	w = s.do(httptest.NewRequest(http.MethodGet, "/redo/"+id, nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	j, err := s.service.Get(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, os.Remove(j.PDFPath))
	w = s.do(httptest.NewRequest(http.MethodGet, "/redo/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewWhenTextVanished(t *testing.T) {
	s := newTestServer(t)
	id := s.upload(t)

	j, err := s.service.Get(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, os.Remove(j.TextPath))

	w := s.do(httptest.NewRequest(http.MethodGet, "/preview/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(httptest.NewRequest(http.MethodGet, "/download/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitWithoutQueue(t *testing.T) {
	s := newTestServer(t)

	w := s.do(uploadRequest(t, "/api/v1/jobs", "report.pdf", minimalPDF))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := s.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
