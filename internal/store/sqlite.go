package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"stratboard/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface check.
var _ ForkStore = (*SQLiteStore)(nil)

// SQLiteStore implements ForkStore backed by a SQLite database. Each
// fork is stored as a JSON blob with indexed identity columns for
// listing without full deserialization.
type SQLiteStore struct {
	db *sql.DB
}

const forkSchema = `
CREATE TABLE IF NOT EXISTS forks (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL,
	forked_from TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	data        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_forks_forked_from ON forks(forked_from);
CREATE INDEX IF NOT EXISTS idx_forks_created_at  ON forks(created_at);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, applies
// the schema, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(forkSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveFork inserts or replaces a forked template.
func (s *SQLiteStore) SaveFork(ctx context.Context, t *domain.StrategyTemplate) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshalling fork %s: %w", t.ID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO forks (id, name, category, forked_from, created_at, data)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, string(t.Category), t.ForkedFrom,
		t.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"), string(data))
	if err != nil {
		return fmt.Errorf("saving fork %s: %w", t.ID, err)
	}
	return nil
}

// GetFork retrieves a forked template by id.
func (s *SQLiteStore) GetFork(ctx context.Context, id string) (*domain.StrategyTemplate, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM forks WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %q", ErrForkNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading fork %s: %w", id, err)
	}

	var t domain.StrategyTemplate
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, fmt.Errorf("unmarshalling fork %s: %w", id, err)
	}
	return &t, nil
}

// ListForks returns all forked templates, newest first.
func (s *SQLiteStore) ListForks(ctx context.Context) ([]domain.StrategyTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM forks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing forks: %w", err)
	}
	defer rows.Close()

	var forks []domain.StrategyTemplate
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var t domain.StrategyTemplate
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("unmarshalling fork row: %w", err)
		}
		forks = append(forks, t)
	}
	return forks, rows.Err()
}

// DeleteFork removes a forked template by id.
func (s *SQLiteStore) DeleteFork(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM forks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting fork %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrForkNotFound, id)
	}
	return nil
}
