// Package audit persists emitted SlowBrokerAnomaly records for operator
// review. It never persists the scoreboard itself (that stays in-memory by
// design); this is a read-only trail of what the detector decided, adapted
// from the teacher's idempotency-key Postgres repository to this domain.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"github.com/TeamTap/cruise-control/internal/domain"
)

// Sink receives every anomaly emitted by a successful round. A nil Sink is
// a documented no-op; RegisterAuditSink is entirely optional.
type Sink interface {
	Record(ctx context.Context, anomaly domain.SlowBrokerAnomaly) error
}

// PostgresSink appends each anomaly as one row. Rows are not deduplicated:
// recording the same anomaly twice stores two rows.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresDB opens a connection pool and runs the audit schema migration.
func NewPostgresDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func runMigrations(db *sql.DB) error {
	migration, err := os.ReadFile("migrations/001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	_, err = db.Exec(string(migration))
	return err
}

// NewPostgresSink wraps an already-connected pool as a Sink.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Record inserts one anomaly row. brokers is stored as a JSON object
// mapping broker id to its first-detected-at epoch ms.
func (s *PostgresSink) Record(ctx context.Context, anomaly domain.SlowBrokerAnomaly) error {
	brokersJSON, err := json.Marshal(anomaly.Brokers)
	if err != nil {
		return fmt.Errorf("marshal brokers: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO slow_broker_anomalies (detection_time_ms, brokers, fixable, remove_slow_broker, description)
		VALUES ($1, $2, $3, $4, $5)
	`, anomaly.DetectionTimeMs, brokersJSON, anomaly.Fixable, anomaly.RemoveSlowBroker, anomaly.Description)
	if err != nil {
		return fmt.Errorf("insert anomaly: %w", err)
	}
	return nil
}
