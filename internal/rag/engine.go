// Package rag implements the chunk → embed → retrieve pipeline that biases
// tailoring toward the most relevant parts of the uploaded resume.
package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/smartresume-api/internal/model"
)

// Embedder turns text into vectors. Documents and queries use different
// task types, so they are separate calls.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store persists chunk vectors and answers nearest-neighbor queries.
type Store interface {
	ReplaceChunks(ctx context.Context, sessionID uuid.UUID, chunks []model.Chunk, embeddings [][]float32) error
	Search(ctx context.Context, sessionID uuid.UUID, query []float32, topK int) ([]model.RetrievedChunk, error)
	CountChunks(ctx context.Context, sessionID uuid.UUID) (int, error)
}

// Engine coordinates chunking, embedding, and retrieval for one vector store.
type Engine struct {
	embedder Embedder
	store    Store
}

func NewEngine(embedder Embedder, store Store) *Engine {
	return &Engine{embedder: embedder, store: store}
}

// IndexResume chunks a parsed resume, embeds the chunks, and stores the
// vectors. Re-indexing a session replaces its previous vectors.
func (e *Engine) IndexResume(ctx context.Context, sessionID uuid.UUID, parsed *model.ParsedResume) (int, error) {
	chunks := ChunkResume(sessionID, parsed)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no chunks produced from resume")
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding resume chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}

	if err := e.store.ReplaceChunks(ctx, sessionID, chunks, embeddings); err != nil {
		return 0, fmt.Errorf("storing resume vectors: %w", err)
	}

	log.Info().Str("session", sessionID.String()).Int("chunks", len(chunks)).Msg("Resume vectorized")
	return len(chunks), nil
}

// Indexed reports whether a session already has stored vectors.
func (e *Engine) Indexed(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := e.store.CountChunks(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Retrieve returns the top-k resume chunks most similar to the job
// description, grouped by chunk type with a one-line context summary.
func (e *Engine) Retrieve(ctx context.Context, sessionID uuid.UUID, jobDescription string, topK int) (*model.RetrievalContext, error) {
	query, err := e.embedder.EmbedQuery(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	chunks, err := e.store.Search(ctx, sessionID, query, topK)
	if err != nil {
		return nil, fmt.Errorf("searching resume vectors: %w", err)
	}

	grouped := make(map[string][]model.RetrievedChunk)
	for i := range chunks {
		chunks[i].Rank = i + 1
		grouped[chunks[i].Type] = append(grouped[chunks[i].Type], chunks[i])
	}

	return &model.RetrievalContext{
		Chunks:  chunks,
		Grouped: grouped,
		Summary: summarize(grouped),
	}, nil
}

func summarize(grouped map[string][]model.RetrievedChunk) string {
	if len(grouped) == 0 {
		return ""
	}

	types := make([]string, 0, len(grouped))
	for t := range grouped {
		types = append(types, t)
	}
	sort.Strings(types)

	parts := make([]string, 0, len(types))
	for _, t := range types {
		n := len(grouped[t])
		switch t {
		case ChunkExperience:
			parts = append(parts, fmt.Sprintf("most relevant experience (%d positions)", n))
		case ChunkEducation:
			parts = append(parts, fmt.Sprintf("relevant education (%d entries)", n))
		default:
			parts = append(parts, "relevant "+strings.ReplaceAll(t, "_", " "))
		}
	}
	return "Retrieved: " + strings.Join(parts, ", ")
}
