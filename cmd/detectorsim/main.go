// Command detectorsim drives internal/detector against a synthetic fleet
// on a ticker, illustrating the host contract from the outside: it is not
// a shipped control-plane CLI, just a runnable demonstration of the
// detector's external interface.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/TeamTap/cruise-control/internal/audit"
	"github.com/TeamTap/cruise-control/internal/detector"
	"github.com/TeamTap/cruise-control/internal/seedgen"
	"github.com/TeamTap/cruise-control/internal/telemetry"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	metrics := telemetry.New(prometheus.DefaultRegisterer)

	det := detector.New(detector.WithLogger(logger), detector.WithMetrics(metrics))

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		db, err := audit.NewPostgresDB(dsn)
		if err != nil {
			logger.Warn("audit sink unavailable, continuing without it", zap.Error(err))
		} else {
			defer db.Close()
			det.RegisterAuditSink(audit.NewPostgresSink(db))
			logger.Info("audit sink connected")
		}
	}

	fleet := seedgen.DefaultFleet()
	history, current := fleet.Generate(10, []int{3})

	interval := envDuration("DETECTORSIM_INTERVAL", 10*time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("detectorsim running", zap.Duration("interval", interval))
	round := int64(0)
	for {
		select {
		case <-ctx.Done():
			drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer drainCancel()
			<-drainCtx.Done()
			logger.Info("detectorsim stopped")
			return
		case <-ticker.C:
			round++
			nowMs := round * interval.Milliseconds()
			anomalies := det.DetectRound(history, current, nowMs)
			for _, a := range anomalies {
				logger.Info("anomaly emitted",
					zap.Bool("fixable", a.Fixable),
					zap.Bool("remove", a.RemoveSlowBroker),
					zap.String("description", a.Description),
				)
			}
		}
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
