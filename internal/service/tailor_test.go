package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/smartresume-api/internal/model"
)

// fakeGroqServer returns a Groq-compatible server that always responds with
// the given content.
func fakeGroqServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
			"usage": map[string]any{"total_tokens": 10},
		})
	}))
}

func TestTailor_Available(t *testing.T) {
	assert.True(t, NewTailor(NewGroqClient("key", "http://x", "m"), nil).Available())
	assert.False(t, NewTailor(NewGroqClient("", "http://x", "m"), nil).Available())
}

func TestTailor_TailorResume(t *testing.T) {
	srv := fakeGroqServer(t, "PROFESSIONAL SUMMARY:\nGo engineer focused on backend systems.\n\nSKILLS:\n• Go\n• PostgreSQL")
	defer srv.Close()

	tailor := NewTailor(NewGroqClient("key", srv.URL, "test-model"), nil)
	result, err := tailor.TailorResume(context.Background(),
		"Jane Doe, engineer. Python and SQL.",
		"Looking for a Go engineer with PostgreSQL experience.",
		"", nil)
	require.NoError(t, err)

	assert.Equal(t, MethodStandard, result.Method)
	assert.Equal(t, "test-model", result.Model)
	assert.Equal(t, 10, result.TokensUsed)
	assert.Contains(t, result.TailoredResume, "PROFESSIONAL SUMMARY:")
	assert.Greater(t, result.Metrics.WordCountTailored, 0)
}

func TestTailor_TailorResumeRAG_FallsBackWithoutContext(t *testing.T) {
	srv := fakeGroqServer(t, "SUMMARY:\nEngineer.")
	defer srv.Close()

	tailor := NewTailor(NewGroqClient("key", srv.URL, "test-model"), nil)
	result, err := tailor.TailorResumeRAG(context.Background(),
		"resume text here", "job description here", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, MethodStandard, result.Method)
}

func TestTailor_TailorResumeRAG(t *testing.T) {
	srv := fakeGroqServer(t, "SUMMARY:\nEngineer.")
	defer srv.Close()

	retrieval := &model.RetrievalContext{
		Chunks: []model.RetrievedChunk{
			{Chunk: model.Chunk{Type: "experience", Text: "Engineer at Acme"}, Similarity: 0.91},
		},
		Summary: "Retrieved: most relevant experience (1 positions)",
	}

	tailor := NewTailor(NewGroqClient("key", srv.URL, "test-model"), nil)
	result, err := tailor.TailorResumeRAG(context.Background(),
		"resume text here", "job description here", "", nil, retrieval)
	require.NoError(t, err)
	assert.Equal(t, MethodRAG, result.Method)
	assert.Equal(t, retrieval.Summary, result.ContextSummary)
}

func TestTailor_NoBackend(t *testing.T) {
	tailor := NewTailor(NewGroqClient("", "http://x", "m"), nil)
	_, err := tailor.TailorResume(context.Background(), "resume", "job", "", nil)
	assert.Error(t, err)
}

func TestTailoringPrompt(t *testing.T) {
	t.Run("defaults tone to professional", func(t *testing.T) {
		prompt := tailoringPrompt("resume", "job", "", nil, "")
		assert.Contains(t, prompt, "professional tone")
	})

	t.Run("includes focus areas", func(t *testing.T) {
		prompt := tailoringPrompt("resume", "job", "confident", []string{"cloud", "leadership"}, "")
		assert.Contains(t, prompt, "confident tone")
		assert.Contains(t, prompt, "cloud, leadership")
	})

	t.Run("includes retrieval context when present", func(t *testing.T) {
		prompt := tailoringPrompt("resume", "job", "", nil, "[experience | relevance 0.91]\nAcme")
		assert.Contains(t, prompt, "MOST RELEVANT RESUME CONTENT")
		assert.Contains(t, prompt, "Acme")
	})

	t.Run("omits context block when absent", func(t *testing.T) {
		prompt := tailoringPrompt("resume", "job", "", nil, "")
		assert.NotContains(t, prompt, "MOST RELEVANT RESUME CONTENT")
	})
}

func TestImprovementMetrics(t *testing.T) {
	job := "go postgresql docker kubernetes"
	original := "python developer"
	tailored := "go developer with postgresql and docker"

	m := improvementMetrics(original, tailored, job)

	assert.Equal(t, 2, m.WordCountOriginal)
	assert.Equal(t, 6, m.WordCountTailored)
	assert.Greater(t, m.TailoredKeywordMatch, m.OriginalKeywordMatch)
	assert.InDelta(t, m.TailoredKeywordMatch-m.OriginalKeywordMatch, m.ImprovementPercentage, 0.02)
}

func TestImprovementMetrics_EmptyJob(t *testing.T) {
	m := improvementMetrics("one two", "one two three", "")
	assert.Zero(t, m.ImprovementPercentage)
	assert.Equal(t, 2, m.WordCountOriginal)
	assert.Equal(t, 3, m.WordCountTailored)
}

func TestParseATSResponse(t *testing.T) {
	t.Run("clean JSON", func(t *testing.T) {
		analysis := parseATSResponse(`{
			"overall_score": 78,
			"keyword_score": 70,
			"structure_score": 85,
			"skills_score": 80,
			"experience_score": 75,
			"matched_keywords": ["go", "sql"],
			"missing_keywords": ["docker"],
			"recommendations": ["Add Docker experience"]
		}`)

		assert.False(t, analysis.Partial)
		assert.InDelta(t, 78, analysis.OverallScore, 0.001)
		assert.Equal(t, []string{"go", "sql"}, analysis.MatchedKeywords)
		assert.Equal(t, []string{"docker"}, analysis.MissingKeywords)
		assert.Len(t, analysis.Recommendations, 1)
	})

	t.Run("fenced JSON", func(t *testing.T) {
		analysis := parseATSResponse("```json\n{\"overall_score\": 60}\n```")
		assert.False(t, analysis.Partial)
		assert.InDelta(t, 60, analysis.OverallScore, 0.001)
	})

	t.Run("scores as strings degrade to partial", func(t *testing.T) {
		analysis := parseATSResponse(`{"overall_score": "55", "matched_keywords": ["go"]}`)
		assert.True(t, analysis.Partial)
		assert.InDelta(t, 55, analysis.OverallScore, 0.001)
		assert.Equal(t, []string{"go"}, analysis.MatchedKeywords)
	})

	t.Run("garbage yields empty partial", func(t *testing.T) {
		analysis := parseATSResponse("I could not produce the analysis.")
		assert.True(t, analysis.Partial)
		assert.Zero(t, analysis.OverallScore)
	})
}

func TestTailor_TailorResumeAgents(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "SUMMARY:\nStage output"}},
			},
			"usage": map[string]any{"total_tokens": 5},
		})
	}))
	defer srv.Close()

	tailor := NewTailor(NewGroqClient("key", srv.URL, "test-model"), nil)
	result, err := tailor.TailorResumeAgents(context.Background(), "resume", "job")
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, MethodAgents, result.Method)
	assert.Equal(t, 15, result.TokensUsed)
	require.Len(t, result.Notes, 3)
	assert.True(t, strings.HasPrefix(result.Notes[0], "content stage completed"))
	assert.True(t, strings.HasPrefix(result.Notes[1], "formatting stage completed"))
	assert.True(t, strings.HasPrefix(result.Notes[2], "document stage completed"))
}
