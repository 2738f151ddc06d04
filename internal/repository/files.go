package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/smartresume-api/internal/model"
)

type FileRepo struct {
	pool *pgxpool.Pool
}

func NewFileRepo(pool *pgxpool.Pool) *FileRepo {
	return &FileRepo{pool: pool}
}

// Upsert records a generated file, replacing any previous file of the same
// format for the session.
func (r *FileRepo) Upsert(ctx context.Context, f *model.GeneratedFile) (*model.GeneratedFile, error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO generated_files (id, session_id, format, style, filename, path, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id, format) DO UPDATE
		SET style = EXCLUDED.style, filename = EXCLUDED.filename,
		    path = EXCLUDED.path, size_bytes = EXCLUDED.size_bytes,
		    created_at = now()
		RETURNING id, created_at
	`, f.ID, f.SessionID, f.Format, f.Style, f.Filename, f.Path, f.SizeBytes).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("recording generated file: %w", err)
	}
	return f, nil
}

// FindBySessionFormat returns a session's file of the given format, or nil.
func (r *FileRepo) FindBySessionFormat(ctx context.Context, sessionID uuid.UUID, format string) (*model.GeneratedFile, error) {
	var f model.GeneratedFile
	err := r.pool.QueryRow(ctx, `
		SELECT id, session_id, format, style, filename, path, size_bytes, created_at
		FROM generated_files
		WHERE session_id = $1 AND format = $2
	`, sessionID, format).Scan(
		&f.ID, &f.SessionID, &f.Format, &f.Style, &f.Filename, &f.Path,
		&f.SizeBytes, &f.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding generated file: %w", err)
	}
	return &f, nil
}

// ListOlderThan returns file records past their TTL so the caller can remove
// them from disk before deleting the rows.
func (r *FileRepo) ListOlderThan(ctx context.Context, cutoff time.Time) ([]model.GeneratedFile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, format, style, filename, path, size_bytes, created_at
		FROM generated_files
		WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing expired files: %w", err)
	}
	defer rows.Close()

	var files []model.GeneratedFile
	for rows.Next() {
		var f model.GeneratedFile
		if err := rows.Scan(&f.ID, &f.SessionID, &f.Format, &f.Style, &f.Filename,
			&f.Path, &f.SizeBytes, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Delete removes file records by id.
func (r *FileRepo) Delete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM generated_files WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("deleting file records: %w", err)
	}
	return nil
}
