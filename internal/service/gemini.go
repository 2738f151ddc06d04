package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	geminiFlashModel = "gemini-2.5-flash"
	geminiProModel   = "gemini-2.5-pro"

	// gemini-embedding-001 vectors truncated to match the pgvector column
	embeddingDimensions = 768

	taskTypeDocument = "RETRIEVAL_DOCUMENT"
	taskTypeQuery    = "RETRIEVAL_QUERY"
)

// complexRoleKeywords pushes model selection toward Pro for senior or
// specialized positions.
var complexRoleKeywords = []string{
	"senior", "lead", "principal", "director", "manager", "architect",
	"head of", "chief", "vp", "vice president", "executive",
	"machine learning", "data science", "research",
	"consulting", "strategy",
}

// GeminiClient is the fallback text generator and the embedding provider.
type GeminiClient struct {
	client         *genai.Client
	embeddingModel string
}

func NewGeminiClient(ctx context.Context, apiKey, embeddingModel string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if embeddingModel == "" {
		embeddingModel = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{client: client, embeddingModel: embeddingModel}, nil
}

// selectModel picks Flash for routine prompts and Pro for senior roles or
// long content.
func selectModel(roleHint string, promptLen int) string {
	lower := strings.ToLower(roleHint)
	for _, kw := range complexRoleKeywords {
		if strings.Contains(lower, kw) {
			return geminiProModel
		}
	}
	if promptLen > 20000 {
		return geminiProModel
	}
	return geminiFlashModel
}

// Generate produces text for a system+user prompt pair. roleHint (usually the
// target job title) steers model selection.
func (c *GeminiClient) Generate(ctx context.Context, system, user, roleHint string, temperature float64) (string, error) {
	model := selectModel(roleHint, len(user))
	log.Debug().Str("model", model).Msg("Gemini fallback generation")

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		TopP:            genai.Ptr(float32(0.8)),
		MaxOutputTokens: 8192,
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

// EmbedDocuments embeds resume chunks with the retrieval-document task type.
func (c *GeminiClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.embed(ctx, texts, taskTypeDocument)
}

// EmbedQuery embeds a job-description query.
func (c *GeminiClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.embed(ctx, []string{text}, taskTypeQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (c *GeminiClient) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := c.client.Models.EmbedContent(ctx,
		c.embeddingModel,
		contents,
		&genai.EmbedContentConfig{
			TaskType:             taskType,
			OutputDimensionality: genai.Ptr(int32(embeddingDimensions)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini embed failed: %w", err)
	}
	if len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(result.Embeddings))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (c *GeminiClient) Dimensions() int {
	return embeddingDimensions
}
