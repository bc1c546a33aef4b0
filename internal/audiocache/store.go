package audiocache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"speechsync/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Entry describes a cached payload without its audio.
type Entry struct {
	Key        string
	Title      string
	TextChars  int
	SizeBytes  int64
	CreatedAt  time.Time
	LastUsedAt time.Time
	Hits       int
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int
	TotalBytes int64
	MaxEntries int
}

// Store manages cached audio backed by SQLite.
type Store struct {
	db         *sql.DB
	path       string
	maxEntries int
	now        func() time.Time
}

// Open initializes or connects to the audio cache database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.AudioCachePath(), cfg.AudioCache.MaxEntries)
}

// OpenPath opens the cache database at dbPath keeping at most maxEntries
// entries. A non-positive limit disables automatic pruning.
func OpenPath(dbPath string, maxEntries int) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, maxEntries: maxEntries, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Key derives the cache key for a narration request.
func Key(title, text string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

// Get returns cached audio for title and text and marks it as used.
func (s *Store) Get(ctx context.Context, title, text string) ([]byte, bool, error) {
	ctx = ensureContext(ctx)
	key := Key(title, text)

	var audio []byte
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT audio FROM audio_entries WHERE key = ?", key).Scan(&audio)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached audio: %w", err)
	}

	if err := s.exec(ctx,
		"UPDATE audio_entries SET last_used_at = ?, hits = hits + 1 WHERE key = ?",
		s.now().UnixNano(), key,
	); err != nil {
		return nil, false, fmt.Errorf("touch cached audio: %w", err)
	}
	return audio, true, nil
}

// Put stores audio for title and text, replacing any previous entry, then
// enforces the entry limit.
func (s *Store) Put(ctx context.Context, title, text string, audio []byte) error {
	ctx = ensureContext(ctx)
	if len(audio) == 0 {
		return errors.New("audio cache put: empty audio")
	}
	now := s.now().UnixNano()
	err := s.exec(ctx, `
INSERT INTO audio_entries (key, title, text_chars, audio, size_bytes, created_at, last_used_at, hits)
VALUES (?, ?, ?, ?, ?, ?, ?, 0)
ON CONFLICT(key) DO UPDATE SET
    audio = excluded.audio,
    size_bytes = excluded.size_bytes,
    last_used_at = excluded.last_used_at`,
		Key(title, text), strings.TrimSpace(title), len([]rune(text)), audio, len(audio), now, now,
	)
	if err != nil {
		return fmt.Errorf("write cached audio: %w", err)
	}
	if s.maxEntries > 0 {
		if _, err := s.Prune(ctx, s.maxEntries); err != nil {
			return err
		}
	}
	return nil
}

// Evict deletes the entry for title and text and reports whether one existed.
func (s *Store) Evict(ctx context.Context, title, text string) (bool, error) {
	res, err := s.execResult(ensureContext(ctx), "DELETE FROM audio_entries WHERE key = ?", Key(title, text))
	if err != nil {
		return false, fmt.Errorf("evict cached audio: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("evict cached audio: %w", err)
	}
	return n > 0, nil
}

// List returns cached entries, most recently used first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
SELECT key, title, text_chars, size_bytes, created_at, last_used_at, hits
FROM audio_entries
ORDER BY last_used_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("list cached audio: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry            Entry
			created, touched int64
		)
		if err := rows.Scan(&entry.Key, &entry.Title, &entry.TextChars, &entry.SizeBytes, &created, &touched, &entry.Hits); err != nil {
			return nil, fmt.Errorf("scan cached audio: %w", err)
		}
		entry.CreatedAt = time.Unix(0, created)
		entry.LastUsedAt = time.Unix(0, touched)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Stats reports entry count and total payload size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{MaxEntries: s.maxEntries}
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(size_bytes), 0) FROM audio_entries",
	).Scan(&stats.Entries, &stats.TotalBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execResult(ensureContext(ctx), "DELETE FROM audio_entries")
	if err != nil {
		return 0, fmt.Errorf("clear audio cache: %w", err)
	}
	return res.RowsAffected()
}

// Prune keeps the keep most recently used entries and deletes the rest.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.execResult(ensureContext(ctx), `
DELETE FROM audio_entries
WHERE key NOT IN (
    SELECT key FROM audio_entries ORDER BY last_used_at DESC, key LIMIT ?
)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune audio cache: %w", err)
	}
	return res.RowsAffected()
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
		return fmt.Errorf("%w: database has version %d, expected %d (run 'speechsync cache clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
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

func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	_, err := s.execResult(ctx, query, args...)
	return err
}

func (s *Store) execResult(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
