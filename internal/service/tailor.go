package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/textproc"
)

// Tailoring method names reported in results.
const (
	MethodStandard = "standard"
	MethodRAG      = "rag_enhanced"
	MethodAgents   = "multi_agent"
)

const tailorSystemPrompt = `You are an expert resume writer and ATS optimization specialist with over 10 years of experience.
Your task is to tailor resumes to match specific job descriptions while maintaining professionalism and authenticity.

Key principles:
1. Emphasize relevant experiences and skills that match the job requirements
2. Use keywords from the job description naturally throughout the resume
3. Reorder and rewrite content to highlight the most relevant qualifications
4. Maintain a professional, consistent tone and format
5. Ensure the resume is ATS-friendly with clear sections and formatting
6. Use provided contextual information to focus on the most relevant experiences
7. Keep content truthful - enhance and reframe existing experiences rather than fabricating
8. Optimize for both human readers and ATS systems

FORMATTING REQUIREMENTS:
- Use clear section headers in ALL CAPS followed by a colon (e.g., "PROFESSIONAL SUMMARY:", "SKILLS:", "EXPERIENCE:")
- Add a blank line after each section header and between sections
- Use bullet points for experience achievements, each with quantifiable results where possible
- Organize skills into clear categories, one category per line
- Keep sentences clear and avoid cramming text together

Structure the output with these exact sections in order:
1. PROFESSIONAL SUMMARY:
2. SKILLS:
3. EXPERIENCE:
4. EDUCATION:
5. Any other relevant sections (CERTIFICATIONS:, PROJECTS:, etc.)`

const atsSystemPrompt = `You are an ATS analysis expert. Provide accurate, detailed analysis in JSON format.`

const coverLetterSystemPrompt = `You are an expert career counselor and professional writer specializing in cover letters.`

// Tailor orchestrates LLM calls for resume tailoring, ATS analysis, and
// cover letters. Groq is the primary backend; Gemini is the fallback.
type Tailor struct {
	groq   *GroqClient
	gemini *GeminiClient // nil when no Gemini key is configured
}

func NewTailor(groq *GroqClient, gemini *GeminiClient) *Tailor {
	return &Tailor{groq: groq, gemini: gemini}
}

// Available reports whether at least one LLM backend is configured.
func (t *Tailor) Available() bool {
	return t.groq.Configured() || t.gemini != nil
}

// complete tries Groq first and falls back to Gemini on failure.
func (t *Tailor) complete(ctx context.Context, system, user, roleHint string, maxTokens int, temperature float64) (string, int, string, error) {
	if t.groq.Configured() {
		text, tokens, err := t.groq.Complete(ctx, system, user, maxTokens, temperature)
		if err == nil {
			return text, tokens, t.groq.Model(), nil
		}
		log.Warn().Err(err).Msg("Groq completion failed, trying Gemini fallback")
	}

	if t.gemini != nil {
		text, err := t.gemini.Generate(ctx, system, user, roleHint, temperature)
		if err != nil {
			return "", 0, "", err
		}
		return text, 0, "gemini", nil
	}

	return "", 0, "", fmt.Errorf("no LLM backend available")
}

// TailorResume rewrites a resume for a job description.
func (t *Tailor) TailorResume(ctx context.Context, resumeText, jobDescription, tone string, focusAreas []string) (*model.TailorResult, error) {
	prompt := tailoringPrompt(resumeText, jobDescription, tone, focusAreas, "")
	return t.runTailoring(ctx, resumeText, jobDescription, prompt, MethodStandard, "")
}

// TailorResumeRAG rewrites a resume using only the retrieved top-k chunks as
// resume context, biasing the output toward the most relevant content.
func (t *Tailor) TailorResumeRAG(ctx context.Context, resumeText, jobDescription, tone string, focusAreas []string, retrieval *model.RetrievalContext) (*model.TailorResult, error) {
	if retrieval == nil || len(retrieval.Chunks) == 0 {
		// Nothing indexed or retrieved; degrade to full-resume tailoring.
		log.Warn().Msg("No RAG context retrieved, falling back to standard tailoring")
		return t.TailorResume(ctx, resumeText, jobDescription, tone, focusAreas)
	}

	var sb strings.Builder
	for _, c := range retrieval.Chunks {
		fmt.Fprintf(&sb, "[%s | relevance %.2f]\n%s\n\n", c.Type, c.Similarity, c.Text)
	}

	prompt := tailoringPrompt(resumeText, jobDescription, tone, focusAreas, sb.String())
	result, err := t.runTailoring(ctx, resumeText, jobDescription, prompt, MethodRAG, retrieval.Summary)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *Tailor) runTailoring(ctx context.Context, resumeText, jobDescription, prompt, method, contextSummary string) (*model.TailorResult, error) {
	text, tokens, modelName, err := t.complete(ctx, tailorSystemPrompt, prompt, jobDescription, 4000, 0.3)
	if err != nil {
		return nil, fmt.Errorf("tailoring resume: %w", err)
	}

	tailored := textproc.Normalize(text)

	return &model.TailorResult{
		TailoredResume: tailored,
		Metrics:        improvementMetrics(resumeText, tailored, jobDescription),
		TokensUsed:     tokens,
		Model:          modelName,
		Method:         method,
		ContextSummary: contextSummary,
	}, nil
}

func tailoringPrompt(resumeText, jobDescription, tone string, focusAreas []string, ragContext string) string {
	if tone == "" {
		tone = "professional"
	}

	focusInstruction := ""
	if len(focusAreas) > 0 {
		focusInstruction = "\nPay special attention to highlighting: " + strings.Join(focusAreas, ", ")
	}

	contextBlock := ""
	if ragContext != "" {
		contextBlock = fmt.Sprintf(`
**MOST RELEVANT RESUME CONTENT (retrieved by similarity to the job description, prioritize this material):**
%s`, ragContext)
	}

	return fmt.Sprintf(`Please tailor the following resume to match the job description provided.

**INSTRUCTIONS:**
1. Analyze the job description to identify key requirements, skills, and keywords
2. Rewrite the resume to emphasize relevant experiences and skills
3. Incorporate job-specific keywords naturally throughout the content
4. Reorder bullet points to put the most relevant experiences first
5. Optimize the summary section to align with the target role
6. Ensure all technical skills mentioned in the job description are highlighted if present in the original resume
7. Maintain the same basic structure but enhance content for relevance
8. Use a %s tone throughout
9. Ensure ATS compatibility with clear section headers and bullet points%s
%s
**JOB DESCRIPTION:**
%s

**ORIGINAL RESUME:**
%s

**TAILORED RESUME:**
`, tone, focusInstruction, contextBlock, jobDescription, resumeText)
}

// improvementMetrics measures job-keyword coverage before and after tailoring.
func improvementMetrics(original, tailored, jobDescription string) model.ImprovementMetrics {
	jobWords := wordSet(jobDescription)
	if len(jobWords) == 0 {
		return model.ImprovementMetrics{
			WordCountOriginal: len(strings.Fields(original)),
			WordCountTailored: len(strings.Fields(tailored)),
		}
	}

	originalOverlap := overlap(jobWords, wordSet(original)) / float64(len(jobWords)) * 100
	tailoredOverlap := overlap(jobWords, wordSet(tailored)) / float64(len(jobWords)) * 100

	return model.ImprovementMetrics{
		OriginalKeywordMatch:  round2(originalOverlap),
		TailoredKeywordMatch:  round2(tailoredOverlap),
		ImprovementPercentage: round2(tailoredOverlap - originalOverlap),
		WordCountOriginal:     len(strings.Fields(original)),
		WordCountTailored:     len(strings.Fields(tailored)),
	}
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

func overlap(a, b map[string]bool) float64 {
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return float64(n)
}

func round2(f float64) float64 {
	if f < 0 {
		return -float64(int(-f*100+0.5)) / 100
	}
	return float64(int(f*100+0.5)) / 100
}

// ── ATS analysis ──────────────────────────────────────

// AnalyzeATS scores a resume's ATS compatibility against a job description.
// A malformed LLM response degrades to a partial result instead of an error.
func (t *Tailor) AnalyzeATS(ctx context.Context, resumeText, jobDescription string) (*model.ATSAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze the following resume for ATS (Applicant Tracking System) compatibility and provide a detailed score.

**EVALUATION CRITERIA:**
1. Keyword matching with job description (40%%)
2. Resume structure and formatting (20%%)
3. Skills alignment (20%%)
4. Experience relevance (20%%)

**JOB DESCRIPTION:**
%s

**RESUME:**
%s

Respond with ONLY a JSON object (no markdown, no backticks) with these exact keys:
{
  "overall_score": 0-100,
  "keyword_score": 0-100,
  "structure_score": 0-100,
  "skills_score": 0-100,
  "experience_score": 0-100,
  "matched_keywords": ["up to 10 keywords found in both"],
  "missing_keywords": ["up to 10 important keywords missing from the resume"],
  "recommendations": ["up to 5 specific improvements"]
}`, jobDescription, resumeText)

	text, tokens, _, err := t.complete(ctx, atsSystemPrompt, prompt, jobDescription, 2000, 0.2)
	if err != nil {
		return nil, fmt.Errorf("analyzing ATS score: %w", err)
	}
	_ = tokens

	return parseATSResponse(text), nil
}

// parseATSResponse decodes the analysis JSON. Strict unmarshal first; when
// the model wraps or mangles the JSON, gjson pulls out whatever fields are
// recoverable and the result is marked partial.
func parseATSResponse(text string) *model.ATSAnalysis {
	text = stripCodeFences(text)

	var raw struct {
		OverallScore    float64  `json:"overall_score"`
		KeywordScore    float64  `json:"keyword_score"`
		StructureScore  float64  `json:"structure_score"`
		SkillsScore     float64  `json:"skills_score"`
		ExperienceScore float64  `json:"experience_score"`
		MatchedKeywords []string `json:"matched_keywords"`
		MissingKeywords []string `json:"missing_keywords"`
		Recommendations []string `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		return &model.ATSAnalysis{
			OverallScore:    raw.OverallScore,
			KeywordScore:    raw.KeywordScore,
			StructureScore:  raw.StructureScore,
			SkillsScore:     raw.SkillsScore,
			ExperienceScore: raw.ExperienceScore,
			MatchedKeywords: raw.MatchedKeywords,
			MissingKeywords: raw.MissingKeywords,
			Recommendations: raw.Recommendations,
		}
	}

	log.Warn().Msg("ATS response was not clean JSON, extracting fields tolerantly")
	analysis := &model.ATSAnalysis{
		OverallScore:    gjson.Get(text, "overall_score").Float(),
		KeywordScore:    gjson.Get(text, "keyword_score").Float(),
		StructureScore:  gjson.Get(text, "structure_score").Float(),
		SkillsScore:     gjson.Get(text, "skills_score").Float(),
		ExperienceScore: gjson.Get(text, "experience_score").Float(),
		Partial:         true,
	}
	for _, r := range gjson.Get(text, "matched_keywords").Array() {
		analysis.MatchedKeywords = append(analysis.MatchedKeywords, r.String())
	}
	for _, r := range gjson.Get(text, "missing_keywords").Array() {
		analysis.MissingKeywords = append(analysis.MissingKeywords, r.String())
	}
	for _, r := range gjson.Get(text, "recommendations").Array() {
		analysis.Recommendations = append(analysis.Recommendations, r.String())
	}
	return analysis
}

// ── Cover letter ──────────────────────────────────────

// GenerateCoverLetter writes a cover letter from the resume and job posting.
func (t *Tailor) GenerateCoverLetter(ctx context.Context, resumeText, jobDescription, company, position string) (*model.CoverLetter, error) {
	prompt := fmt.Sprintf(`Write a professional, compelling cover letter for the following position.

**INSTRUCTIONS:**
1. Write a personalized cover letter that highlights relevant experience from the resume
2. Address specific requirements mentioned in the job description
3. Show enthusiasm for the role and company
4. Keep it concise (3-4 paragraphs)
5. Use a professional but engaging tone
6. Include specific examples from the resume that demonstrate qualifications

**POSITION:** %s
**COMPANY:** %s

**JOB DESCRIPTION:**
%s

**RESUME:**
%s

**COVER LETTER:**
`, position, company, jobDescription, resumeText)

	text, tokens, _, err := t.complete(ctx, coverLetterSystemPrompt, prompt, position, 1500, 0.4)
	if err != nil {
		return nil, fmt.Errorf("generating cover letter: %w", err)
	}

	return &model.CoverLetter{
		Text:       text,
		Company:    company,
		Position:   position,
		TokensUsed: tokens,
	}, nil
}
