package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/corvid-labs/askdoc/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.askdoc/data/askdoc.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".askdoc", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "askdoc.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// UserStore returns a UserStore interface backed by this store.
func (s *Store) UserStore() driven.UserStore {
	return &userStore{store: s}
}

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== User Store ====================

// userStore implements driven.UserStore.
type userStore struct {
	store *Store
}

var _ driven.UserStore = (*userStore)(nil)

// SaveUser stores a new account.
func (s *userStore) SaveUser(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return fmt.Errorf("%w: email is empty", domain.ErrInvalidInput)
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
	`, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking insert result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: user %q", domain.ErrAlreadyExists, user.Email)
	}
	return nil
}

// GetUser retrieves an account by email.
func (s *userStore) GetUser(ctx context.Context, email string) (*domain.User, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT email, password_hash, created_at
		FROM users WHERE email = ?
	`, email)

	var user domain.User
	if err := row.Scan(&user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

// ==================== Session Store ====================

// sessionStore implements driven.SessionStore.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// SaveSession stores or updates a session's metadata. History rows are
// written one at a time through SaveExchange.
func (s *sessionStore) SaveSession(ctx context.Context, sess *domain.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("%w: session id is empty", domain.ErrInvalidInput)
	}

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, email, language, state, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			language = excluded.language,
			state = excluded.state
	`, sess.ID, sess.Email, string(sess.Language), string(sess.State), sess.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID with its history in position order.
func (s *sessionStore) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, email, language, state, created_at
		FROM sessions WHERE id = ?
	`, id)

	var sess domain.Session
	var language, state string
	if err := row.Scan(&sess.ID, &sess.Email, &language, &state, &sess.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	sess.Language = domain.Language(language)
	sess.State = domain.SessionState(state)

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT position, query, answer, created_at
		FROM exchanges WHERE session_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ex domain.Exchange
		if err := rows.Scan(&ex.Position, &ex.Query, &ex.Answer, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		sess.History = append(sess.History, ex)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating exchanges: %w", err)
	}

	return &sess, nil
}

// SaveExchange appends one completed exchange to a session's transcript.
func (s *sessionStore) SaveExchange(ctx context.Context, sessionID string, ex domain.Exchange) error {
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO exchanges (session_id, position, query, answer, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, position) DO UPDATE SET
			query = excluded.query,
			answer = excluded.answer
	`, sessionID, ex.Position, ex.Query, ex.Answer, ex.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving exchange: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its transcript.
func (s *sessionStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
