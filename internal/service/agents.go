package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/model"
	"github.com/yourusername/smartresume-api/internal/textproc"
)

// The staged pipeline runs three specialized passes over the resume. Each
// pass is a separate LLM call with a narrow job, which produces cleaner
// formatting than asking one prompt to do everything.

const contentStagePrompt = `You are a resume content specialist. Your ONLY job is rewriting resume content for relevance.

Rewrite the resume content to match the job description:
- Emphasize experiences and skills the job asks for
- Weave in job-description keywords naturally
- Reorder bullets so the most relevant achievements come first
- Quantify achievements where the original gives numbers
- Never invent experience that is not in the original

Do NOT worry about section headers or layout yet. Output the rewritten content only.`

const formattingStagePrompt = `You are a resume formatting specialist. Your ONLY job is structure and layout.

Reformat the resume content you are given:
- Section headers in ALL CAPS followed by a colon (PROFESSIONAL SUMMARY:, SKILLS:, EXPERIENCE:, EDUCATION:)
- A blank line after every header and between sections
- Every achievement on its own bullet line starting with "• "
- Skills grouped into categories, one category per line
- No markdown syntax of any kind

Do not change the wording of the content. Output the reformatted resume only.`

const documentStagePrompt = `You are a document QA specialist. Do a final pass over this resume:
- Verify the section order: PROFESSIONAL SUMMARY, SKILLS, EXPERIENCE, EDUCATION, then any extras
- Remove duplicated lines and stray artifacts
- Make spacing consistent so no text runs together
- Keep every factual detail exactly as given

Output the final resume text only, followed by nothing else.`

// TailorResumeAgents runs the content → formatting → document pipeline and
// returns the final text with per-stage notes.
func (t *Tailor) TailorResumeAgents(ctx context.Context, resumeText, jobDescription string) (*model.TailorResult, error) {
	totalTokens := 0
	notes := []string{}

	run := func(stage, system, user string, temperature float64) (string, error) {
		text, tokens, _, err := t.complete(ctx, system, user, jobDescription, 4000, temperature)
		if err != nil {
			return "", fmt.Errorf("%s stage: %w", stage, err)
		}
		totalTokens += tokens
		notes = append(notes, fmt.Sprintf("%s stage completed (%d tokens)", stage, tokens))
		log.Info().Str("stage", stage).Int("tokens", tokens).Msg("Agent stage finished")
		return text, nil
	}

	contentInput := fmt.Sprintf("JOB DESCRIPTION:\n%s\n\nORIGINAL RESUME:\n%s", jobDescription, resumeText)
	content, err := run("content", contentStagePrompt, contentInput, 0.3)
	if err != nil {
		return nil, err
	}

	formatted, err := run("formatting", formattingStagePrompt, content, 0.1)
	if err != nil {
		return nil, err
	}

	final, err := run("document", documentStagePrompt, formatted, 0.1)
	if err != nil {
		return nil, err
	}

	tailored := textproc.Normalize(final)

	return &model.TailorResult{
		TailoredResume: tailored,
		Metrics:        improvementMetrics(resumeText, tailored, jobDescription),
		TokensUsed:     totalTokens,
		Model:          t.groq.Model(),
		Method:         MethodAgents,
		Notes:          notes,
	}, nil
}
