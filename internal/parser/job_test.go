package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJob = `Senior Backend Engineer

We are looking for a senior engineer to join our platform team.

Requirements:
- 5+ years of experience with Python and Go
- Experience with PostgreSQL and Redis
- Knowledge of Docker and Kubernetes
- Strong communication and leadership skills

Must have: a degree in computer science or equivalent experience.
`

func TestAnalyzeJob(t *testing.T) {
	analysis := AnalyzeJob(sampleJob)

	assert.Contains(t, analysis.TechnicalSkills, "python")
	assert.Contains(t, analysis.TechnicalSkills, "go")
	assert.Contains(t, analysis.TechnicalSkills, "postgresql")
	assert.Contains(t, analysis.TechnicalSkills, "docker")

	assert.Contains(t, analysis.SoftSkills, "communication")
	assert.Contains(t, analysis.SoftSkills, "leadership")

	assert.Equal(t, "senior", analysis.ExperienceLevel)
	assert.NotEmpty(t, analysis.Requirements)
	assert.Greater(t, analysis.WordCount, 20)
}

func TestExtractKeywords(t *testing.T) {
	t.Run("ranks by frequency", func(t *testing.T) {
		keywords := ExtractKeywords("kubernetes kubernetes kubernetes python python golang", 10)
		require.NotEmpty(t, keywords)
		assert.Equal(t, "kubernetes", keywords[0])
		assert.Equal(t, "python", keywords[1])
	})

	t.Run("filters stop words and short words", func(t *testing.T) {
		keywords := ExtractKeywords("the and for with a an is engineer", 10)
		assert.Equal(t, []string{"engineer"}, keywords)
	})

	t.Run("respects topN", func(t *testing.T) {
		keywords := ExtractKeywords("alpha beta gamma delta epsilon", 3)
		assert.Len(t, keywords, 3)
	})
}

func TestDetermineExperienceLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"explicit senior", "we need a senior engineer", "senior"},
		{"explicit junior", "junior developer, entry level position", "entry"},
		{"years fallback entry", "2 years of programming", "entry"},
		{"years fallback mid", "4 years of backend work", "mid"},
		{"years fallback senior", "8 years of experience", "senior"},
		{"no signal", "great team, fun office", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := AnalyzeJob(tt.text)
			assert.Equal(t, tt.want, analysis.ExperienceLevel)
		})
	}
}

func TestExtractRequirements(t *testing.T) {
	analysis := AnalyzeJob(sampleJob)

	found := false
	for _, r := range analysis.Requirements {
		if strings.Contains(strings.ToLower(r), "degree") {
			found = true
		}
	}
	assert.True(t, found, "expected a degree requirement, got %v", analysis.Requirements)
	assert.LessOrEqual(t, len(analysis.Requirements), 15)
}

func TestScoreMatch(t *testing.T) {
	job := AnalyzeJob(sampleJob)

	t.Run("full tech coverage", func(t *testing.T) {
		score := ScoreMatch(sampleJob, job)
		assert.InDelta(t, 100, score.TechnicalSkillsScore, 0.01)
		assert.Empty(t, score.MissingTechnicalSkills)
	})

	t.Run("partial coverage", func(t *testing.T) {
		score := ScoreMatch("I know Python and PostgreSQL.", job)
		assert.Contains(t, score.MatchedTechnicalSkills, "python")
		assert.Contains(t, score.MissingTechnicalSkills, "docker")
		assert.Greater(t, score.TechnicalSkillsScore, 0.0)
		assert.Less(t, score.TechnicalSkillsScore, 100.0)
	})

	t.Run("weighting", func(t *testing.T) {
		score := ScoreMatch(sampleJob, job)
		expected := round2(score.TechnicalSkillsScore*0.6 + score.KeywordScore*0.4)
		assert.InDelta(t, expected, score.OverallScore, 0.02)
	})

	t.Run("empty job", func(t *testing.T) {
		score := ScoreMatch("anything", AnalyzeJob(""))
		assert.Zero(t, score.TechnicalSkillsScore)
		assert.Zero(t, score.OverallScore)
	})
}
