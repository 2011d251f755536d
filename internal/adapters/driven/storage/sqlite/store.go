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
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/domain"
	"github.com/MuhammadMaazA/hatchmark-authenticity-service/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// ledger and job queue interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.hatchmark/data/ledger.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".hatchmark", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ledger.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// Ledger returns a Ledger interface backed by this store.
func (s *Store) Ledger() driven.Ledger {
	return &ledgerStore{store: s}
}

// JobQueue returns a JobQueue interface backed by this store.
func (s *Store) JobQueue(config QueueConfig) driven.JobQueue {
	if config.Visibility <= 0 {
		config.Visibility = DefaultQueueConfig().Visibility
	}
	if config.MaxReceives <= 0 {
		config.MaxReceives = DefaultQueueConfig().MaxReceives
	}
	return &jobQueue{store: s, config: config}
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

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Ledger ====================

// ledgerStore implements driven.Ledger.
type ledgerStore struct {
	store *Store
}

var _ driven.Ledger = (*ledgerStore)(nil)

// Insert appends a registration record. The seq column is assigned by
// the database; the caller's value is ignored.
func (l *ledgerStore) Insert(ctx context.Context, record domain.RegistrationRecord) (string, error) {
	if record.ArtifactID == "" {
		return "", domain.ErrInvalidInput
	}

	_, err := l.store.db.ExecContext(ctx, `
		INSERT INTO registrations
			(artifact_id, fingerprint, object_key, filename, width, height, format, registered_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ArtifactID, record.Fingerprint.Hex(), record.ObjectKey, record.Filename,
		record.Width, record.Height, record.Format, record.Timestamp, string(record.Status))

	if err != nil {
		return "", fmt.Errorf("inserting registration: %w", err)
	}
	return record.ArtifactID, nil
}

// FindByFingerprint returns all records with an exactly matching
// fingerprint, in insertion order.
func (l *ledgerStore) FindByFingerprint(ctx context.Context, fp domain.Fingerprint) ([]domain.RegistrationRecord, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT seq, artifact_id, fingerprint, object_key, filename, width, height, format, registered_at, status
		FROM registrations WHERE fingerprint = ?
		ORDER BY seq
	`, fp.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying registrations: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// All returns every record in insertion order.
func (l *ledgerStore) All(ctx context.Context) ([]domain.RegistrationRecord, error) {
	rows, err := l.store.db.QueryContext(ctx, `
		SELECT seq, artifact_id, fingerprint, object_key, filename, width, height, format, registered_at, status
		FROM registrations
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying registrations: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// scanRecords scans multiple registration rows.
func scanRecords(rows *sql.Rows) ([]domain.RegistrationRecord, error) {
	var records []domain.RegistrationRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.RegistrationRecord
		var fpHex, status string
		if err := rows.Scan(&r.Seq, &r.ArtifactID, &fpHex, &r.ObjectKey, &r.Filename,
			&r.Width, &r.Height, &r.Format, &r.Timestamp, &status); err != nil {
			return nil, fmt.Errorf("scanning registration: %w", err)
		}

		fp, err := domain.ParseFingerprint(fpHex)
		if err != nil {
			return nil, fmt.Errorf("parsing stored fingerprint: %w", err)
		}
		r.Fingerprint = fp
		r.Status = domain.RegistrationStatus(status)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registrations: %w", err)
	}

	return records, nil
}

// ==================== Job Queue ====================

// pollInterval is how often Receive re-checks for visible jobs while
// waiting.
const pollInterval = 25 * time.Millisecond

// QueueConfig tunes the durable queue's delivery semantics.
type QueueConfig struct {
	// Visibility is how long a received job stays hidden from other
	// consumers before redelivery.
	Visibility time.Duration

	// MaxReceives is the delivery budget before a job is dead-lettered.
	MaxReceives int
}

// DefaultQueueConfig returns the semantics used outside tests.
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Visibility:  30 * time.Second,
		MaxReceives: 5,
	}
}

// jobQueue implements driven.JobQueue on the jobs table. Visibility
// windows are stored as unix-millisecond deadlines; claiming runs in a
// transaction so racing consumers never receive the same delivery.
type jobQueue struct {
	store  *Store
	config QueueConfig
}

var _ driven.JobQueue = (*jobQueue)(nil)

// Enqueue makes a job available for delivery.
func (q *jobQueue) Enqueue(ctx context.Context, job domain.WatermarkJob) error {
	_, err := q.store.db.ExecContext(ctx, `
		INSERT INTO jobs (artifact_id, object_key, fingerprint, receive_count, visible_at, dead)
		VALUES (?, ?, ?, 0, ?, 0)
	`, job.ArtifactID, job.ObjectKey, job.Fingerprint.Hex(), time.Now().UnixMilli())

	if err != nil {
		return fmt.Errorf("enqueuing job: %w", err)
	}
	return nil
}

// Receive returns up to maxItems visible jobs, waiting up to wait for
// at least one. Jobs over their delivery budget are dead-lettered
// instead of returned.
func (q *jobQueue) Receive(ctx context.Context, maxItems int, wait time.Duration) ([]domain.WatermarkJob, error) {
	deadline := time.Now().Add(wait)
	for {
		jobs, err := q.claim(ctx, maxItems)
		if err != nil {
			return nil, err
		}
		if len(jobs) > 0 {
			return jobs, nil
		}
		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// claim transactionally marks up to maxItems visible jobs as in flight.
func (q *jobQueue) claim(ctx context.Context, maxItems int) ([]domain.WatermarkJob, error) {
	tx, err := q.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UnixMilli()
	rows, err := tx.QueryContext(ctx, `
		SELECT id, artifact_id, object_key, fingerprint, receive_count
		FROM jobs WHERE dead = 0 AND visible_at <= ?
		ORDER BY id LIMIT ?
	`, now, maxItems)
	if err != nil {
		return nil, fmt.Errorf("querying visible jobs: %w", err)
	}

	type candidate struct {
		id       int64
		job      domain.WatermarkJob
		receives int
	}
	var candidates []candidate //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c candidate
		var fpHex string
		if err := rows.Scan(&c.id, &c.job.ArtifactID, &c.job.ObjectKey, &fpHex, &c.receives); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		fp, err := domain.ParseFingerprint(fpHex)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing stored fingerprint: %w", err)
		}
		c.job.Fingerprint = fp
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	rows.Close()

	var claimed []domain.WatermarkJob
	for _, c := range candidates {
		c.receives++
		if c.receives > q.config.MaxReceives {
			if _, err := tx.ExecContext(ctx, "UPDATE jobs SET dead = 1 WHERE id = ?", c.id); err != nil {
				return nil, fmt.Errorf("dead-lettering job: %w", err)
			}
			continue
		}

		visibleAt := now + q.config.Visibility.Milliseconds()
		if _, err := tx.ExecContext(ctx,
			"UPDATE jobs SET receive_count = ?, visible_at = ? WHERE id = ?",
			c.receives, visibleAt, c.id); err != nil {
			return nil, fmt.Errorf("claiming job: %w", err)
		}

		c.job.ID = strconv.FormatInt(c.id, 10)
		c.job.ReceiveCount = c.receives
		claimed = append(claimed, c.job)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing claim: %w", err)
	}
	return claimed, nil
}

// Acknowledge removes a delivered job. Unknown IDs are a no-op: a
// racing consumer may have acknowledged first.
func (q *jobQueue) Acknowledge(ctx context.Context, job domain.WatermarkJob) error {
	id, err := strconv.ParseInt(job.ID, 10, 64)
	if err != nil {
		return nil
	}

	_, err = q.store.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ? AND dead = 0", id)
	if err != nil {
		return fmt.Errorf("acknowledging job: %w", err)
	}
	return nil
}

// DeadLetters returns jobs that exhausted their delivery budget.
func (q *jobQueue) DeadLetters(ctx context.Context) ([]domain.WatermarkJob, error) {
	rows, err := q.store.db.QueryContext(ctx, `
		SELECT id, artifact_id, object_key, fingerprint, receive_count
		FROM jobs WHERE dead = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying dead letters: %w", err)
	}
	defer rows.Close()

	var dead []domain.WatermarkJob //nolint:prealloc // size unknown from query
	for rows.Next() {
		var job domain.WatermarkJob
		var id int64
		var fpHex string
		if err := rows.Scan(&id, &job.ArtifactID, &job.ObjectKey, &fpHex, &job.ReceiveCount); err != nil {
			return nil, fmt.Errorf("scanning dead letter: %w", err)
		}
		fp, err := domain.ParseFingerprint(fpHex)
		if err != nil {
			return nil, fmt.Errorf("parsing stored fingerprint: %w", err)
		}
		job.Fingerprint = fp
		job.ID = strconv.FormatInt(id, 10)
		dead = append(dead, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dead letters: %w", err)
	}

	return dead, nil
}

// Pending returns the number of unacknowledged live jobs.
func (q *jobQueue) Pending(ctx context.Context) (int, error) {
	var count int
	err := q.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs WHERE dead = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting pending jobs: %w", err)
	}
	return count, nil
}
