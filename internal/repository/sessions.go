package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/smartresume-api/internal/model"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

// Create inserts a new session for an uploaded resume.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) (*model.Session, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}

	sections, err := json.Marshal(s.Sections)
	if err != nil {
		return nil, fmt.Errorf("marshaling sections: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO sessions (id, filename, file_type, raw_text, resume_text,
		                      sections, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, s.ID, s.Filename, s.FileType, s.RawText, s.ResumeText, sections, s.WordCount).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return s, nil
}

// FindByID returns a session, or nil when it does not exist.
func (r *SessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var (
		s        model.Session
		sections []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, filename, file_type, raw_text, resume_text, sections,
		       word_count, job_description, tailored_text, tailor_method,
		       created_at, updated_at
		FROM sessions
		WHERE id = $1
	`, id).Scan(
		&s.ID, &s.Filename, &s.FileType, &s.RawText, &s.ResumeText, &sections,
		&s.WordCount, &s.JobDescription, &s.TailoredText, &s.TailorMethod,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding session: %w", err)
	}

	if err := json.Unmarshal(sections, &s.Sections); err != nil {
		return nil, fmt.Errorf("unmarshaling sections: %w", err)
	}
	return &s, nil
}

// SaveTailored stores the latest tailored output on the session.
func (r *SessionRepo) SaveTailored(ctx context.Context, id uuid.UUID, jobDescription, tailoredText, method string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sessions
		SET job_description = $2, tailored_text = $3, tailor_method = $4,
		    updated_at = now()
		WHERE id = $1
	`, id, jobDescription, tailoredText, method)
	if err != nil {
		return fmt.Errorf("saving tailored resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found", id)
	}
	return nil
}

// DeleteOlderThan removes expired sessions and returns their IDs. Chunks and
// file records cascade.
func (r *SessionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		DELETE FROM sessions
		WHERE updated_at < $1
		RETURNING id
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("deleting expired sessions: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning deleted session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
