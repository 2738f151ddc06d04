package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/yourusername/smartresume-api/internal/model"
)

// ChunkRepo stores resume chunk vectors in pgvector. It implements rag.Store.
type ChunkRepo struct {
	pool *pgxpool.Pool
}

func NewChunkRepo(pool *pgxpool.Pool) *ChunkRepo {
	return &ChunkRepo{pool: pool}
}

// ReplaceChunks atomically swaps a session's vectors for a new set.
func (r *ChunkRepo) ReplaceChunks(ctx context.Context, sessionID uuid.UUID, chunks []model.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM resume_chunks WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("clearing existing chunks: %w", err)
	}

	batch := &pgx.Batch{}
	for i, c := range chunks {
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling chunk metadata: %w", err)
		}
		batch.Queue(`
			INSERT INTO resume_chunks (id, session_id, chunk_type, chunk_text, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, c.ID, sessionID, c.Type, c.Text, meta, pgvector.NewVector(embeddings[i]))
	}

	br := tx.SendBatch(ctx, batch)
	for range chunks {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("inserting chunk: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("closing batch: %w", err)
	}

	return tx.Commit(ctx)
}

// Search returns the top-k chunks for a session by cosine distance.
func (r *ChunkRepo) Search(ctx context.Context, sessionID uuid.UUID, query []float32, topK int) ([]model.RetrievedChunk, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chunk_type, chunk_text, metadata,
		       1 - (embedding <=> $2) AS similarity
		FROM resume_chunks
		WHERE session_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`, sessionID, pgvector.NewVector(query), topK)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var results []model.RetrievedChunk
	for rows.Next() {
		var (
			rc   model.RetrievedChunk
			meta []byte
		)
		if err := rows.Scan(&rc.ID, &rc.Type, &rc.Text, &meta, &rc.Similarity); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}
		rc.SessionID = sessionID
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &rc.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
			}
		}
		results = append(results, rc)
	}
	return results, rows.Err()
}

// CountChunks returns how many vectors a session has stored.
func (r *ChunkRepo) CountChunks(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM resume_chunks WHERE session_id = $1
	`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}
