package model

import (
	"time"

	"github.com/google/uuid"
)

// ── Resume parsing types ───────────────────────────────

// ResumeSections holds the text of each recognized resume section.
type ResumeSections struct {
	ContactInfo string `json:"contactInfo"`
	Summary     string `json:"summary"`
	Skills      string `json:"skills"`
	Experience  string `json:"experience"`
	Education   string `json:"education"`
	// Projects and certifications get their own fields; anything under an
	// unrecognized header lands in Other.
	Projects       string `json:"projects"`
	Certifications string `json:"certifications"`
	Other          string `json:"other"`
}

// ParsedResume is the result of extracting text from an uploaded file.
type ParsedResume struct {
	RawText       string         `json:"rawText"`
	FormattedText string         `json:"formattedText"`
	Sections      ResumeSections `json:"sections"`
	FileType      string         `json:"fileType"`
	WordCount     int            `json:"wordCount"`
	CharCount     int            `json:"charCount"`
}

// ── Job analysis types ─────────────────────────────────

// JobAnalysis is the structured breakdown of a job description.
type JobAnalysis struct {
	Keywords        []string `json:"keywords"`
	TechnicalSkills []string `json:"technicalSkills"`
	SoftSkills      []string `json:"softSkills"`
	Requirements    []string `json:"requirements"`
	ExperienceLevel string   `json:"experienceLevel"`
	WordCount       int      `json:"wordCount"`
}

// MatchScore is a deterministic keyword/skill match between a resume and a job.
type MatchScore struct {
	OverallScore           float64  `json:"overallScore"`
	TechnicalSkillsScore   float64  `json:"technicalSkillsScore"`
	KeywordScore           float64  `json:"keywordScore"`
	MatchedTechnicalSkills []string `json:"matchedTechnicalSkills"`
	MatchedKeywords        []string `json:"matchedKeywords"`
	MissingTechnicalSkills []string `json:"missingTechnicalSkills"`
}

// ── Session ────────────────────────────────────────────

// Session tracks one uploaded resume and everything derived from it.
type Session struct {
	ID             uuid.UUID      `json:"id"`
	Filename       string         `json:"filename"`
	FileType       string         `json:"fileType"`
	RawText        string         `json:"-"`
	ResumeText     string         `json:"-"`
	Sections       ResumeSections `json:"sections"`
	WordCount      int            `json:"wordCount"`
	JobDescription string         `json:"-"`
	TailoredText   string         `json:"-"`
	TailorMethod   string         `json:"tailorMethod,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ── RAG types ──────────────────────────────────────────

// Chunk is one embeddable unit of resume content.
type Chunk struct {
	ID        uuid.UUID         `json:"id"`
	SessionID uuid.UUID         `json:"sessionId"`
	Type      string            `json:"type"` // contact_info, summary, experience, skills, education, projects, certifications, other
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// RetrievedChunk is a chunk returned from similarity search.
type RetrievedChunk struct {
	Chunk
	Similarity float64 `json:"similarityScore"`
	Rank       int     `json:"rank"`
}

// RetrievalContext is the grouped result of a RAG query.
type RetrievalContext struct {
	Chunks  []RetrievedChunk            `json:"relevantContent"`
	Grouped map[string][]RetrievedChunk `json:"groupedContent"`
	Summary string                      `json:"contextSummary"`
}

// ── Tailoring types ────────────────────────────────────

// ImprovementMetrics quantifies keyword alignment before and after tailoring.
type ImprovementMetrics struct {
	OriginalKeywordMatch  float64 `json:"originalKeywordMatch"`
	TailoredKeywordMatch  float64 `json:"tailoredKeywordMatch"`
	ImprovementPercentage float64 `json:"improvementPercentage"`
	WordCountOriginal     int     `json:"wordCountOriginal"`
	WordCountTailored     int     `json:"wordCountTailored"`
}

// TailorResult is the output of one tailoring run.
type TailorResult struct {
	TailoredResume string             `json:"tailoredResume"`
	Metrics        ImprovementMetrics `json:"improvementMetrics"`
	TokensUsed     int                `json:"tokensUsed"`
	Model          string             `json:"modelUsed"`
	Method         string             `json:"method"`
	ContextSummary string             `json:"ragContextSummary,omitempty"`
	Notes          []string           `json:"improvementNotes,omitempty"`
}

// ATSAnalysis is the structured ATS compatibility report.
type ATSAnalysis struct {
	OverallScore    float64  `json:"overallScore"`
	KeywordScore    float64  `json:"keywordScore"`
	StructureScore  float64  `json:"structureScore"`
	SkillsScore     float64  `json:"skillsScore"`
	ExperienceScore float64  `json:"experienceScore"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
	Recommendations []string `json:"recommendations"`
	Partial         bool     `json:"partial,omitempty"`
}

// CoverLetter is a generated cover letter.
type CoverLetter struct {
	Text       string `json:"coverLetter"`
	Company    string `json:"companyName"`
	Position   string `json:"positionTitle"`
	TokensUsed int    `json:"tokensUsed"`
}

// ── Generated files ────────────────────────────────────

// GeneratedFile records one rendered output document.
type GeneratedFile struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"sessionId"`
	Format    string    `json:"format"` // pdf or docx
	Style     string    `json:"style"`  // modern, classic, minimal
	Filename  string    `json:"filename"`
	Path      string    `json:"-"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}
