package handler

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/parser"
	"github.com/yourusername/smartresume-api/internal/repository"
)

type ResumeHandler struct {
	sessions *repository.SessionRepo
}

func NewResumeHandler(sessions *repository.SessionRepo) *ResumeHandler {
	return &ResumeHandler{sessions: sessions}
}

// Upload handles POST /upload-resume
// Accepts a PDF, DOCX, or TXT file via multipart form, extracts and sections
// the text, and creates a session for the later tailoring calls.
func (h *ResumeHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer file.Close()

	if !parser.Supported(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unsupported file type. Upload a PDF, DOCX, or TXT file.",
		})
		return
	}

	// Limit to 10MB
	if header.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 10MB."})
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	if !validMagicBytes(header.Filename, fileBytes) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File content does not match its extension"})
		return
	}

	parsed, err := parser.ExtractResume(header.Filename, fileBytes)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to extract resume text")
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Could not extract text from this file. It may be image-based or corrupted.",
		})
		return
	}

	if len(strings.TrimSpace(parsed.FormattedText)) < 50 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Very little text was extracted. This file may be image-based (scanned). Try a text-based file.",
		})
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), &model.Session{
		Filename:   header.Filename,
		FileType:   parsed.FileType,
		RawText:    parsed.RawText,
		ResumeText: parsed.FormattedText,
		Sections:   parsed.Sections,
		WordCount:  parsed.WordCount,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	log.Info().
		Str("session", session.ID.String()).
		Str("filename", header.Filename).
		Int("bytes", len(fileBytes)).
		Int("words", parsed.WordCount).
		Msg("Resume uploaded")

	c.JSON(http.StatusOK, uploadResponse(session, parsed))
}

func uploadResponse(session *model.Session, parsed *model.ParsedResume) gin.H {
	return gin.H{
		"sessionId": session.ID,
		"filename":  session.Filename,
		"fileType":  session.FileType,
		"wordCount": session.WordCount,
		"charCount": parsed.CharCount,
		"sections":  session.Sections,
		"preview":   truncateStr(parsed.FormattedText, 500),
	}
}

// GetSession handles GET /session/:sessionId
func (h *ResumeHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	session, ok := loadSession(c, h.sessions, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":     session,
		"hasTailored": session.TailoredText != "",
	})
}

// validMagicBytes checks the file signature against the claimed extension.
// Plain text has no signature, so .txt passes as long as it is not empty.
func validMagicBytes(filename string, data []byte) bool {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return len(data) >= 4 && string(data[:4]) == "%PDF"
	case strings.HasSuffix(lower, ".docx"):
		// DOCX is a zip archive
		return len(data) >= 2 && bytes.HasPrefix(data, []byte("PK"))
	default:
		return len(data) > 0
	}
}
