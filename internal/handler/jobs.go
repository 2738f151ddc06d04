package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/parser"
	"github.com/yourusername/smartresume-api/internal/repository"
	"github.com/yourusername/smartresume-api/internal/service"
)

type JobHandler struct {
	sessions *repository.SessionRepo
}

func NewJobHandler(sessions *repository.SessionRepo) *JobHandler {
	return &JobHandler{sessions: sessions}
}

// AnalyzeJob handles POST /analyze-job
// Accepts either raw job description text or a URL, extracts keywords,
// skills, and requirements, and optionally scores a session's resume
// against the posting.
func (h *JobHandler) AnalyzeJob(c *gin.Context) {
	var req struct {
		Text      string `json:"text"`      // Raw pasted job description
		URL       string `json:"url"`       // Or a URL to fetch first
		SessionID string `json:"sessionId"` // Optional: score this session's resume
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" && strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide either 'text' or 'url'"})
		return
	}

	content := req.Text

	// If URL provided, fetch its content first
	if req.URL != "" {
		log.Info().Str("url", req.URL).Msg("Fetching job posting URL")

		fetched, err := service.FetchURLContent(c.Request.Context(), req.URL)
		if err != nil {
			log.Warn().Err(err).Str("url", req.URL).Msg("Failed to fetch URL")
			// If URL fetch fails but we also have text, fall back to text
			if content == "" {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Could not fetch URL. Try pasting the job description text instead.",
				})
				return
			}
		} else if content != "" {
			content = content + "\n\nPage content:\n" + fetched
		} else {
			content = fetched
		}
	}

	// Truncate to ~50K chars to keep analysis bounded
	if len(content) > 50000 {
		content = content[:50000]
	}

	analysis := parser.AnalyzeJob(content)

	resp := gin.H{"analysis": analysis}

	// Score the resume when a session is given
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
			return
		}
		session, ok := loadSession(c, h.sessions, id)
		if !ok {
			return
		}
		resp["matchScore"] = parser.ScoreMatch(session.ResumeText, analysis)
	}

	log.Info().
		Int("contentLength", len(content)).
		Int("keywords", len(analysis.Keywords)).
		Str("experienceLevel", analysis.ExperienceLevel).
		Msg("Job description analyzed")

	c.JSON(http.StatusOK, resp)
}
