// Package store persists saved generated emails on disk with
// explicit CRUD operations, replacing implicit session state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/bull/email-rag/internal/generator"
)

// ErrNotFound is returned when no saved email has the requested id.
var ErrNotFound = errors.New("saved email not found")

const schema = `
CREATE TABLE IF NOT EXISTS saved_emails (
	id            TEXT PRIMARY KEY,
	subject       TEXT NOT NULL,
	body          TEXT NOT NULL,
	cta           TEXT NOT NULL,
	image_url     TEXT NOT NULL DEFAULT '',
	product_name  TEXT NOT NULL DEFAULT '',
	campaign_type TEXT NOT NULL DEFAULT '',
	generated_at  TIMESTAMP NOT NULL,
	saved_at      TIMESTAMP NOT NULL
);
`

// SavedEmail is one persisted generated email plus the brief fields
// worth listing it by.
type SavedEmail struct {
	ID           string
	Subject      string
	Body         string
	CTA          string
	ImageURL     string
	ProductName  string
	CampaignType string
	GeneratedAt  time.Time
	SavedAt      time.Time
}

// Store is a SQLite-backed store for saved emails.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the saved-emails database under
// dataDir. If dataDir is empty, defaults to ~/.email-rag/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".email-rag", "data")
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "emails.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save persists a generated email and returns its new id.
func (s *Store) Save(ctx context.Context, email generator.Email, brief generator.Brief) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_emails
			(id, subject, body, cta, image_url, product_name, campaign_type, generated_at, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, email.Subject, email.Body, email.CTA, email.ImageURL,
		brief.ProductName, brief.CampaignType,
		email.GeneratedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("saving email: %w", err)
	}
	return id, nil
}

// List returns all saved emails, most recently saved first.
func (s *Store) List(ctx context.Context) ([]SavedEmail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, body, cta, image_url, product_name, campaign_type, generated_at, saved_at
		FROM saved_emails ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing emails: %w", err)
	}
	defer rows.Close()

	var emails []SavedEmail
	for rows.Next() {
		var e SavedEmail
		err := rows.Scan(&e.ID, &e.Subject, &e.Body, &e.CTA, &e.ImageURL,
			&e.ProductName, &e.CampaignType, &e.GeneratedAt, &e.SavedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// Get returns one saved email by id.
func (s *Store) Get(ctx context.Context, id string) (*SavedEmail, error) {
	var e SavedEmail
	err := s.db.QueryRowContext(ctx, `
		SELECT id, subject, body, cta, image_url, product_name, campaign_type, generated_at, saved_at
		FROM saved_emails WHERE id = ?`, id).
		Scan(&e.ID, &e.Subject, &e.Body, &e.CTA, &e.ImageURL,
			&e.ProductName, &e.CampaignType, &e.GeneratedAt, &e.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting email: %w", err)
	}
	return &e, nil
}

// Delete removes a saved email by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM saved_emails WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting email: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting email: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
