package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the journal database afterwards.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrLocked indicates another organize or undo invocation currently holds
// the journal.
var ErrLocked = errors.New("journal is locked by another invocation")

// Move pairs the path a file was moved to with the path it came from.
type Move struct {
	NewPath      string
	OriginalPath string
}

// Batch is the ordered journal of one completed organize run.
type Batch struct {
	ID        string
	Root      string
	CreatedAt time.Time
	Moves     []Move
}

// NewBatch allocates a batch for the given root with a fresh identifier.
func NewBatch(root string, moves []Move) Batch {
	return Batch{
		ID:        uuid.NewString(),
		Root:      root,
		CreatedAt: time.Now().UTC(),
		Moves:     moves,
	}
}

// Store manages journal persistence backed by SQLite. Opening a store
// acquires an exclusive lock file beside the database so only one
// invocation touches the journal at a time.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire journal lock: %w", err)
	}
	if !held {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

// Close releases the database connection and the invocation lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var closeErr error
	if s.db != nil {
		closeErr = s.db.Close()
	}
	if s.lock != nil {
		if err := s.lock.Unlock(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Replace writes the batch as the one and only persisted journal,
// discarding any previous batch in the same transaction.
func (s *Store) Replace(ctx context.Context, batch Batch) error {
	if batch.ID == "" {
		return errors.New("replace journal: batch has no id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin journal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM batches"); err != nil {
		return fmt.Errorf("clear previous journal: %w", err)
	}

	createdAt := batch.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO batches (id, root, created_at) VALUES (?, ?, ?)",
		batch.ID, batch.Root, createdAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for seq, move := range batch.Moves {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO moves (batch_id, seq, new_path, original_path) VALUES (?, ?, ?, ?)",
			batch.ID, seq, move.NewPath, move.OriginalPath,
		); err != nil {
			return fmt.Errorf("insert move %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal: %w", err)
	}
	return nil
}

// Load returns the persisted batch, or nil when no journal exists.
func (s *Store) Load(ctx context.Context) (*Batch, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, root, created_at FROM batches LIMIT 1")

	var batch Batch
	var createdAt string
	if err := row.Scan(&batch.ID, &batch.Root, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load batch: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		batch.CreatedAt = ts
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT new_path, original_path FROM moves WHERE batch_id = ? ORDER BY seq",
		batch.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("load moves: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var move Move
		if err := rows.Scan(&move.NewPath, &move.OriginalPath); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		batch.Moves = append(batch.Moves, move)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate moves: %w", err)
	}
	return &batch, nil
}

// Clear erases any persisted journal. Clearing an empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM batches"); err != nil {
		return fmt.Errorf("clear journal: %w", err)
	}
	return nil
}
