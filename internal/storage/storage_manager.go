package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// StorageManager persists an audit trail of processed frame jobs and
// the crossing events/resets they produced. It is explicitly NOT where
// the cumulative in/out counters live — those stay in the caller-owned
// Counter state (internal/counting); this is a Postgres write-behind
// log for observability and later analysis.
type StorageManager struct {
	db *sql.DB
}

// NewStorageManager opens a PostgreSQL connection, tunes the pool, and
// ensures the audit schema exists.
func NewStorageManager(postgresURL string) (*StorageManager, error) {
	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	sm := &StorageManager{db: db}

	if err := sm.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return sm, nil
}

// initSchema creates the audit tables and indexes if they don't exist.
func (sm *StorageManager) initSchema() error {
	tableSchema := `
	CREATE SCHEMA IF NOT EXISTS counting;

	-- One row per pipeline invocation (a frame job dispatched off the queue).
	CREATE TABLE IF NOT EXISTS counting.jobs (
		job_id VARCHAR(255) PRIMARY KEY,
		stream_id VARCHAR(255) NOT NULL,
		frame_number INT NOT NULL,
		tracks_active INT NOT NULL,
		in_count INT NOT NULL,
		out_count INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- One row per completed IN/OUT traversal.
	CREATE TABLE IF NOT EXISTS counting.crossing_events (
		id SERIAL PRIMARY KEY,
		stream_id VARCHAR(255) NOT NULL,
		track_id INT NOT NULL,
		direction VARCHAR(10) NOT NULL,
		in_count INT NOT NULL,
		out_count INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- One row per daily-reset supervisor firing.
	CREATE TABLE IF NOT EXISTS counting.resets (
		id SERIAL PRIMARY KEY,
		stream_id VARCHAR(255) NOT NULL,
		reset_hour INT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err := sm.db.Exec(tableSchema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	indexStatements := []string{
		`CREATE INDEX IF NOT EXISTS idx_jobs_stream_id ON counting.jobs(stream_id)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON counting.jobs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_crossing_stream_id ON counting.crossing_events(stream_id)`,
		`CREATE INDEX IF NOT EXISTS idx_crossing_created_at ON counting.crossing_events(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_resets_stream_id ON counting.resets(stream_id)`,
	}
	for _, stmt := range indexStatements {
		if _, err := sm.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w (statement: %s)", err, stmt)
		}
	}

	return nil
}

// RecordJob logs one pipeline invocation's snapshot.
func (sm *StorageManager) RecordJob(ctx context.Context, jobID, streamID string, frameNumber, tracksActive int, inCount, outCount int32) error {
	query := `
		INSERT INTO counting.jobs (job_id, stream_id, frame_number, tracks_active, in_count, out_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id) DO UPDATE SET
			tracks_active = EXCLUDED.tracks_active,
			in_count = EXCLUDED.in_count,
			out_count = EXCLUDED.out_count
	`
	_, err := sm.db.ExecContext(ctx, query, jobID, streamID, frameNumber, tracksActive, inCount, outCount)
	return err
}

// RecordCrossing logs one completed IN/OUT traversal.
func (sm *StorageManager) RecordCrossing(ctx context.Context, streamID string, trackID int, direction string, inCount, outCount int32) error {
	query := `
		INSERT INTO counting.crossing_events (stream_id, track_id, direction, in_count, out_count)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := sm.db.ExecContext(ctx, query, streamID, trackID, direction, inCount, outCount)
	return err
}

// RecordReset logs one daily-reset supervisor firing.
func (sm *StorageManager) RecordReset(ctx context.Context, streamID string, resetHour int) error {
	query := `INSERT INTO counting.resets (stream_id, reset_hour) VALUES ($1, $2)`
	_, err := sm.db.ExecContext(ctx, query, streamID, resetHour)
	return err
}

// Close closes the underlying connection pool.
func (sm *StorageManager) Close() error {
	if sm.db != nil {
		return sm.db.Close()
	}
	return nil
}
