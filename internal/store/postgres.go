package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xeze-org/research-assistant/internal/models"
)

// PostgresStore handles student records in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the students table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS students (
			id          UUID PRIMARY KEY,
			name        VARCHAR(120) NOT NULL,
			email       VARCHAR(120) UNIQUE NOT NULL,
			institution VARCHAR(200),
			created_at  TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

// UpsertStudent inserts a student or refreshes name and institution of the
// existing row with the same email.
func (s *PostgresStore) UpsertStudent(ctx context.Context, name, email, institution string) (*models.Student, error) {
	var st models.Student
	err := s.pool.QueryRow(ctx,
		`INSERT INTO students (id, name, email, institution)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (email) DO UPDATE
		   SET name = EXCLUDED.name, institution = EXCLUDED.institution
		 RETURNING id, name, email, COALESCE(institution, ''), created_at`,
		uuid.NewString(), name, email, institution,
	).Scan(&st.ID, &st.Name, &st.Email, &st.Institution, &st.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert student: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	var st models.Student
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(institution, ''), created_at FROM students WHERE id = $1`, id,
	).Scan(&st.ID, &st.Name, &st.Email, &st.Institution, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return &st, nil
}
