package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/rag"
	"github.com/yourusername/smartresume-api/internal/repository"
	"github.com/yourusername/smartresume-api/internal/service"
)

// Top-k chunks retrieved for RAG-enhanced tailoring.
const ragTopK = 8

type TailorHandler struct {
	sessions *repository.SessionRepo
	tailor   *service.Tailor
	engine   *rag.Engine // nil when no embedding backend is configured
}

func NewTailorHandler(sessions *repository.SessionRepo, tailor *service.Tailor, engine *rag.Engine) *TailorHandler {
	return &TailorHandler{sessions: sessions, tailor: tailor, engine: engine}
}

type tailorRequest struct {
	JobDescription string   `json:"jobDescription" binding:"required"`
	Tone           string   `json:"tone"`
	FocusAreas     []string `json:"focusAreas"`
}

// bindTailorRequest loads the session and validates the request body shared
// by the tailoring endpoints.
func (h *TailorHandler) bindTailorRequest(c *gin.Context) (*model.Session, *tailorRequest, bool) {
	id, ok := sessionID(c)
	if !ok {
		return nil, nil, false
	}

	var req tailorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobDescription is required"})
		return nil, nil, false
	}
	if len(strings.TrimSpace(req.JobDescription)) < 20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Job description is too short"})
		return nil, nil, false
	}
	req.JobDescription = capJob(req.JobDescription)

	if !h.tailor.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No AI backend is configured"})
		return nil, nil, false
	}

	session, ok := loadSession(c, h.sessions, id)
	if !ok {
		return nil, nil, false
	}
	return session, &req, true
}

// TailorResume handles POST /tailor-resume/:sessionId
func (h *TailorHandler) TailorResume(c *gin.Context) {
	session, req, ok := h.bindTailorRequest(c)
	if !ok {
		return
	}

	result, err := h.tailor.TailorResume(
		c.Request.Context(),
		capResume(session.ResumeText), req.JobDescription, req.Tone, req.FocusAreas,
	)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("Tailoring failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI tailoring failed. Please try again."})
		return
	}

	h.respondTailored(c, session, req.JobDescription, result)
}

// TailorResumeRAG handles POST /tailor-resume-rag/:sessionId
// Indexes the resume on first use, then tailors using the chunks most
// similar to the job description. Degrades to standard tailoring when no
// embedding backend is available.
func (h *TailorHandler) TailorResumeRAG(c *gin.Context) {
	session, req, ok := h.bindTailorRequest(c)
	if !ok {
		return
	}

	if h.engine == nil {
		log.Warn().Msg("No embedding backend configured, using standard tailoring")
		h.TailorResumeStandardFallback(c, session, req)
		return
	}

	ctx := c.Request.Context()

	indexed, err := h.engine.Indexed(ctx, session.ID)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("Failed to check index state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vector store unavailable"})
		return
	}
	if !indexed {
		parsed := &model.ParsedResume{
			RawText:       session.RawText,
			FormattedText: session.ResumeText,
			Sections:      session.Sections,
			FileType:      session.FileType,
			WordCount:     session.WordCount,
		}
		if _, err := h.engine.IndexResume(ctx, session.ID, parsed); err != nil {
			log.Error().Err(err).Str("session", session.ID.String()).Msg("Failed to index resume")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not index resume for retrieval"})
			return
		}
	}

	retrieval, err := h.engine.Retrieve(ctx, session.ID, req.JobDescription, ragTopK)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("Retrieval failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Retrieval failed. Please try again."})
		return
	}

	result, err := h.tailor.TailorResumeRAG(
		ctx,
		capResume(session.ResumeText), req.JobDescription, req.Tone, req.FocusAreas,
		retrieval,
	)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("RAG tailoring failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI tailoring failed. Please try again."})
		return
	}

	h.respondTailored(c, session, req.JobDescription, result)
}

// TailorResumeStandardFallback runs standard tailoring for a request that
// asked for RAG but cannot get it.
func (h *TailorHandler) TailorResumeStandardFallback(c *gin.Context, session *model.Session, req *tailorRequest) {
	result, err := h.tailor.TailorResume(
		c.Request.Context(),
		capResume(session.ResumeText), req.JobDescription, req.Tone, req.FocusAreas,
	)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("Tailoring failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI tailoring failed. Please try again."})
		return
	}
	h.respondTailored(c, session, req.JobDescription, result)
}

// TailorResumeAgents handles POST /tailor-resume-agents/:sessionId
func (h *TailorHandler) TailorResumeAgents(c *gin.Context) {
	session, req, ok := h.bindTailorRequest(c)
	if !ok {
		return
	}

	result, err := h.tailor.TailorResumeAgents(
		c.Request.Context(),
		capResume(session.ResumeText), req.JobDescription,
	)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("Multi-stage tailoring failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI tailoring failed. Please try again."})
		return
	}

	h.respondTailored(c, session, req.JobDescription, result)
}

func (h *TailorHandler) respondTailored(c *gin.Context, session *model.Session, jobDescription string, result *model.TailorResult) {
	if err := h.sessions.SaveTailored(
		c.Request.Context(), session.ID, jobDescription, result.TailoredResume, result.Method,
	); err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("Failed to save tailored resume")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tailored resume"})
		return
	}

	log.Info().
		Str("session", session.ID.String()).
		Str("method", result.Method).
		Str("model", result.Model).
		Int("tokens", result.TokensUsed).
		Msg("Resume tailored")

	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"result":    result,
	})
}

// AnalyzeATS handles POST /analyze-ats/:sessionId
// Scores the tailored resume when one exists, otherwise the original.
func (h *TailorHandler) AnalyzeATS(c *gin.Context) {
	session, req, ok := h.bindTailorRequest(c)
	if !ok {
		return
	}

	resumeText := session.ResumeText
	if session.TailoredText != "" {
		resumeText = session.TailoredText
	}

	analysis, err := h.tailor.AnalyzeATS(c.Request.Context(), capResume(resumeText), req.JobDescription)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("ATS analysis failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ATS analysis failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId": session.ID,
		"analysis":  analysis,
	})
}

// GenerateCoverLetter handles POST /cover-letter/:sessionId
func (h *TailorHandler) GenerateCoverLetter(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		JobDescription string `json:"jobDescription" binding:"required"`
		CompanyName    string `json:"companyName"`
		PositionTitle  string `json:"positionTitle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobDescription is required"})
		return
	}

	if !h.tailor.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No AI backend is configured"})
		return
	}

	session, ok := loadSession(c, h.sessions, id)
	if !ok {
		return
	}

	req.JobDescription = capJob(req.JobDescription)
	if req.CompanyName == "" {
		req.CompanyName = "the company"
	}
	if req.PositionTitle == "" {
		req.PositionTitle = "the position"
	}

	letter, err := h.tailor.GenerateCoverLetter(
		c.Request.Context(),
		capResume(session.ResumeText), req.JobDescription, req.CompanyName, req.PositionTitle,
	)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID.String()).Msg("Cover letter generation failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cover letter generation failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":   session.ID,
		"coverLetter": letter,
	})
}
