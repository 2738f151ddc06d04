package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/repository"
)

// Input is capped before prompting to stay within model context limits.
const (
	maxResumeChars = 30000
	maxJobChars    = 50000
)

// sessionID parses the :sessionId path param, writing a 400 on failure.
func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}

// loadSession fetches a session, writing a 404 or 500 on failure.
func loadSession(c *gin.Context, sessions *repository.SessionRepo, id uuid.UUID) (*model.Session, bool) {
	session, err := sessions.FindByID(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("session", id.String()).Msg("Failed to load session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return nil, false
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found. Upload a resume first."})
		return nil, false
	}
	return session, true
}

func capResume(text string) string {
	if len(text) > maxResumeChars {
		return text[:maxResumeChars]
	}
	return text
}

func capJob(text string) string {
	if len(text) > maxJobChars {
		return text[:maxJobChars]
	}
	return text
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
