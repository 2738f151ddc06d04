package rag

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/parser"
)

func TestChunkResume(t *testing.T) {
	sessionID := uuid.New()
	parsed := &model.ParsedResume{
		Sections: model.ResumeSections{
			ContactInfo:    "jane@example.com | 555-123-4567",
			Summary:        "Backend engineer with 6 years of experience.",
			Skills:         "Go, PostgreSQL, Docker",
			Experience:     "Senior Engineer at Acme\nLed platform team.\n\nEngineer at Widgets\nBuilt APIs.",
			Education:      "B.S. Computer Science",
			Certifications: "AWS Certified Solutions Architect",
		},
	}

	chunks := ChunkResume(sessionID, parsed)

	byType := make(map[string][]model.Chunk)
	for _, c := range chunks {
		assert.Equal(t, sessionID, c.SessionID)
		assert.NotEqual(t, uuid.Nil, c.ID)
		byType[c.Type] = append(byType[c.Type], c)
	}

	assert.Len(t, byType[ChunkContact], 1)
	assert.Len(t, byType[ChunkSummary], 1)
	assert.Len(t, byType[ChunkSkills], 1)
	assert.Len(t, byType[ChunkEducation], 1)
	assert.Len(t, byType[ChunkCertifications], 1)

	// Blank-line separated experience entries become separate chunks
	require.Len(t, byType[ChunkExperience], 2)
	assert.Contains(t, byType[ChunkExperience][0].Text, "Acme")
	assert.Contains(t, byType[ChunkExperience][1].Text, "Widgets")
	assert.Equal(t, "0", byType[ChunkExperience][0].Metadata["position"])
	assert.Equal(t, "1", byType[ChunkExperience][1].Metadata["position"])

	// Chunk text carries a type prefix for embedding context
	assert.Contains(t, byType[ChunkSummary][0].Text, "Professional Summary: ")
}

func TestChunkResume_FromRawText(t *testing.T) {
	raw := `SUMMARY
Engineer focused on search infrastructure.

EXPERIENCE
Software Engineer at Acme
Built APIs.

Data Analyst at Beta Corp
Analyzed funnels.

PROJECTS
Resume ranker using vector search.
`
	parsed := &model.ParsedResume{Sections: parser.ParseSections(raw)}
	chunks := ChunkResume(uuid.New(), parsed)

	byType := make(map[string][]model.Chunk)
	for _, c := range chunks {
		byType[c.Type] = append(byType[c.Type], c)
	}

	// Each role is its own chunk
	require.Len(t, byType[ChunkExperience], 2)
	assert.Contains(t, byType[ChunkExperience][0].Text, "Acme")
	assert.NotContains(t, byType[ChunkExperience][0].Text, "Beta Corp")
	assert.Contains(t, byType[ChunkExperience][1].Text, "Beta Corp")

	// Project content is indexed, not dropped
	require.Len(t, byType[ChunkProjects], 1)
	assert.Contains(t, byType[ChunkProjects][0].Text, "Resume ranker")
}

func TestChunkResume_SkipsEmptySections(t *testing.T) {
	chunks := ChunkResume(uuid.New(), &model.ParsedResume{
		Sections: model.ResumeSections{Skills: "Go"},
	})
	require.Len(t, chunks, 1)
	assert.Equal(t, ChunkSkills, chunks[0].Type)
}

func TestChunkResume_FallbackWholeResume(t *testing.T) {
	chunks := ChunkResume(uuid.New(), &model.ParsedResume{
		FormattedText: "Unstructured resume text with no recognizable sections.",
	})
	require.Len(t, chunks, 1)
	assert.Equal(t, ChunkOther, chunks[0].Type)
	assert.Contains(t, chunks[0].Text, "Unstructured resume")
}

func TestSplitEntries(t *testing.T) {
	t.Run("no blank lines is one entry", func(t *testing.T) {
		entries := splitEntries("line one\nline two")
		require.Len(t, entries, 1)
		assert.Equal(t, "line one\nline two", entries[0])
	})

	t.Run("empty section", func(t *testing.T) {
		assert.Nil(t, splitEntries("   \n  "))
	})

	t.Run("multiple blank lines between entries", func(t *testing.T) {
		entries := splitEntries("a\n\n\n\nb")
		assert.Len(t, entries, 2)
	})
}
