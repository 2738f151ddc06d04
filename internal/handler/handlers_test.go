package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/service"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	resumeHandler := NewResumeHandler(nil)
	jobHandler := NewJobHandler(nil)
	// Unconfigured Groq client and no Gemini: AI endpoints return 503
	tailor := service.NewTailor(service.NewGroqClient("", "http://localhost", "m"), nil)
	tailorHandler := NewTailorHandler(nil, tailor, nil)
	fileHandler := NewFileHandler(nil, nil, nil, 0, 0)

	r.POST("/upload-resume", resumeHandler.Upload)
	r.POST("/analyze-job", jobHandler.AnalyzeJob)
	r.POST("/tailor-resume/:sessionId", tailorHandler.TailorResume)
	r.POST("/generate-files/:sessionId", fileHandler.Generate)
	r.GET("/download/:sessionId/:format", fileHandler.Download)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpload_Validation(t *testing.T) {
	r := testRouter()

	t.Run("no file", func(t *testing.T) {
		w := postJSON(r, "/upload-resume", "{}")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		w := uploadFile(t, r, "resume.odt", []byte("text"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Unsupported file type")
	})

	t.Run("pdf magic bytes mismatch", func(t *testing.T) {
		w := uploadFile(t, r, "resume.pdf", []byte("not a pdf at all"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "does not match")
	})

	t.Run("docx magic bytes mismatch", func(t *testing.T) {
		w := uploadFile(t, r, "resume.docx", []byte("not a zip"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func uploadFile(t *testing.T, r *gin.Engine, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/upload-resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeJob(t *testing.T) {
	r := testRouter()

	t.Run("requires text or url", func(t *testing.T) {
		w := postJSON(r, "/analyze-job", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		w := postJSON(r, "/analyze-job", `not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("analyzes pasted text", func(t *testing.T) {
		w := postJSON(r, "/analyze-job", `{"text":"Senior Go engineer with 5+ years of experience in PostgreSQL and Docker."}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"technicalSkills"`)
		assert.Contains(t, w.Body.String(), "postgresql")
	})

	t.Run("invalid session id", func(t *testing.T) {
		w := postJSON(r, "/analyze-job", `{"text":"some job description","sessionId":"not-a-uuid"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTailorResume_Validation(t *testing.T) {
	r := testRouter()

	t.Run("invalid session id", func(t *testing.T) {
		w := postJSON(r, "/tailor-resume/not-a-uuid", `{"jobDescription":"a long enough job description"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing job description", func(t *testing.T) {
		w := postJSON(r, "/tailor-resume/7b7b5f06-6a1c-4d08-9b36-9bb4f0e1a111", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("job description too short", func(t *testing.T) {
		w := postJSON(r, "/tailor-resume/7b7b5f06-6a1c-4d08-9b36-9bb4f0e1a111", `{"jobDescription":"short"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no AI backend", func(t *testing.T) {
		w := postJSON(r, "/tailor-resume/7b7b5f06-6a1c-4d08-9b36-9bb4f0e1a111",
			`{"jobDescription":"a long enough job description for validation"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGenerateFiles_Validation(t *testing.T) {
	r := testRouter()

	t.Run("invalid format", func(t *testing.T) {
		w := postJSON(r, "/generate-files/7b7b5f06-6a1c-4d08-9b36-9bb4f0e1a111", `{"format":"rtf"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Format must be")
	})

	t.Run("invalid style", func(t *testing.T) {
		w := postJSON(r, "/generate-files/7b7b5f06-6a1c-4d08-9b36-9bb4f0e1a111", `{"format":"pdf","style":"neon"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Style must be")
	})
}

func TestDownload_Validation(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/download/7b7b5f06-6a1c-4d08-9b36-9bb4f0e1a111/rtf", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInputCaps(t *testing.T) {
	assert.Equal(t, "short", capResume("short"))
	assert.Len(t, capResume(strings.Repeat("a", maxResumeChars+100)), maxResumeChars)

	assert.Equal(t, "short", capJob("short"))
	assert.Len(t, capJob(strings.Repeat("a", maxJobChars+100)), maxJobChars)
}

func TestUploadResponse_ReportsCounts(t *testing.T) {
	session := &model.Session{
		ID:        uuid.New(),
		Filename:  "resume.txt",
		FileType:  ".txt",
		WordCount: 42,
	}
	parsed := &model.ParsedResume{
		FormattedText: "Jane Doe, backend engineer.",
		WordCount:     42,
		CharCount:     271,
	}

	resp := uploadResponse(session, parsed)
	assert.Equal(t, 42, resp["wordCount"])
	assert.Equal(t, 271, resp["charCount"])
	assert.Equal(t, "Jane Doe, backend engineer.", resp["preview"])
}

func TestValidMagicBytes(t *testing.T) {
	assert.True(t, validMagicBytes("a.pdf", []byte("%PDF-1.7 rest")))
	assert.False(t, validMagicBytes("a.pdf", []byte("PK\x03\x04")))
	assert.True(t, validMagicBytes("a.docx", []byte("PK\x03\x04")))
	assert.False(t, validMagicBytes("a.docx", []byte("%PDF")))
	assert.True(t, validMagicBytes("a.txt", []byte("hello")))
	assert.False(t, validMagicBytes("a.txt", nil))
}
