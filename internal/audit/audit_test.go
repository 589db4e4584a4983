package audit

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/TeamTap/cruise-control/internal/domain"
)

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN not set, skipping integration test")
	}
	db, err := NewPostgresDB(dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgresSink_RecordsAnomaly(t *testing.T) {
	db := getTestDB(t)
	sink := NewPostgresSink(db)

	anomaly := domain.SlowBrokerAnomaly{
		Brokers:          map[domain.BrokerID]int64{"3": 1000},
		Fixable:          true,
		RemoveSlowBroker: false,
		Description:      "{Broker 3's performance degraded at 1970-01-01T00:00:00Z}",
		DetectionTimeMs:  5000,
	}
	if err := sink.Record(context.Background(), anomaly); err != nil {
		t.Fatalf("record: %v", err)
	}

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM slow_broker_anomalies WHERE detection_time_ms = $1", 5000).Scan(&count)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count == 0 {
		t.Error("expected at least one row recorded")
	}
}
