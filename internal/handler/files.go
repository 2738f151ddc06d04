package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/generator"
	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/repository"
)

type FileHandler struct {
	sessions   *repository.SessionRepo
	files      *repository.FileRepo
	gen        *generator.Generator
	fileTTL    time.Duration
	sessionTTL time.Duration
}

func NewFileHandler(sessions *repository.SessionRepo, files *repository.FileRepo, gen *generator.Generator, fileTTL, sessionTTL time.Duration) *FileHandler {
	return &FileHandler{
		sessions:   sessions,
		files:      files,
		gen:        gen,
		fileTTL:    fileTTL,
		sessionTTL: sessionTTL,
	}
}

// Generate handles POST /generate-files/:sessionId
// Renders the tailored resume as PDF, DOCX, or both in a chosen style.
func (h *FileHandler) Generate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		Format string `json:"format"`
		Style  string `json:"style"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Format == "" {
		req.Format = generator.FormatBoth
	}
	if !generator.ValidFormat(req.Format) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format must be 'pdf', 'docx', or 'both'"})
		return
	}
	if req.Style != "" && !generator.ValidStyle(req.Style) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Style must be 'modern', 'classic', or 'minimal'"})
		return
	}

	session, ok := loadSession(c, h.sessions, id)
	if !ok {
		return
	}
	if session.TailoredText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No tailored resume for this session. Run tailoring first."})
		return
	}

	outputs, err := h.gen.Generate(session.ID, session.TailoredText, req.Format, req.Style)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("File generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "File generation failed. Please try again."})
		return
	}

	style := generator.StyleByName(req.Style)
	records := make([]*model.GeneratedFile, 0, len(outputs))
	for _, out := range outputs {
		rec, err := h.files.Upsert(c.Request.Context(), &model.GeneratedFile{
			SessionID: session.ID,
			Format:    out.Format,
			Style:     style.Name,
			Filename:  out.Filename,
			Path:      out.Path,
			SizeBytes: out.Size,
		})
		if err != nil {
			log.Error().Err(err).Str("session", session.ID.String()).Msg("Failed to record generated file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record generated file"})
			return
		}
		records = append(records, rec)
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"files":     records,
	})
}

// Download handles GET /download/:sessionId/:format
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	format := c.Param("format")
	if format != generator.FormatPDF && format != generator.FormatDOCX {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format must be 'pdf' or 'docx'"})
		return
	}

	file, err := h.files.FindBySessionFormat(c.Request.Context(), id, format)
	if err != nil {
		log.Error().Err(err).Str("session", id.String()).Msg("Failed to look up generated file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up file"})
		return
	}
	if file == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No generated file found. Call generate-files first."})
		return
	}

	contentType := "application/pdf"
	if format == generator.FormatDOCX {
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	c.Header("Content-Type", contentType)
	c.FileAttachment(file.Path, file.Filename)
}

// Cleanup handles DELETE /cleanup
// Removes expired sessions and generated files past their TTL.
func (h *FileHandler) Cleanup(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	expired, err := h.files.ListOlderThan(ctx, now.Add(-h.fileTTL))
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expired files")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}

	paths := make([]string, 0, len(expired))
	ids := make([]uuid.UUID, 0, len(expired))
	for _, f := range expired {
		paths = append(paths, f.Path)
		ids = append(ids, f.ID)
	}
	h.gen.Remove(paths)
	if err := h.files.Delete(ctx, ids); err != nil {
		log.Error().Err(err).Msg("Failed to delete expired file records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}

	sessionIDs, err := h.sessions.DeleteOlderThan(ctx, now.Add(-h.sessionTTL))
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete expired sessions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cleanup failed"})
		return
	}

	log.Info().
		Int("files", len(expired)).
		Int("sessions", len(sessionIDs)).
		Msg("Cleanup completed")

	c.JSON(http.StatusOK, gin.H{
		"filesRemoved":    len(expired),
		"sessionsRemoved": len(sessionIDs),
	})
}
