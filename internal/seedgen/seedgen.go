// Package seedgen builds deterministic synthetic broker metric histories
// for demoing the detector without a real metrics pipeline, adapted from
// the teacher's fixture generator (which built realistic payment rows
// instead of broker metric samples).
package seedgen

import (
	"strconv"

	"github.com/TeamTap/cruise-control/internal/domain"
)

// Fleet describes a synthetic cluster: a population of well-behaved
// brokers plus a small set of deliberately degraded ones, for driving
// cmd/detectorsim.
type Fleet struct {
	HistoryLen int
}

// DefaultFleet mirrors the teacher's GenerateSQL ratio of normal activity
// to anomalous cases: mostly healthy traffic with a handful of standouts.
func DefaultFleet() Fleet {
	return Fleet{HistoryLen: 30}
}

// Generate builds history and current snapshots for n brokers with ids
// 0..n-1. The brokers whose index is listed in slow get a current flush
// latency (and so a per-byte ratio) far outside their own history and the
// peer distribution; indices outside 0..n-1 are ignored.
func (f Fleet) Generate(n int, slow []int) (map[domain.BrokerID]domain.MetricHistory, map[domain.BrokerID]domain.MetricSnapshot) {
	history := make(map[domain.BrokerID]domain.MetricHistory, n)
	current := make(map[domain.BrokerID]domain.MetricSnapshot, n)

	slowSet := make(map[int]bool, len(slow))
	for _, id := range slow {
		slowSet[id] = true
	}

	for i := 0; i < n; i++ {
		id := domain.BrokerID(strconv.Itoa(i))
		flushHist := make([]float64, f.HistoryLen)
		leaderHist := make([]float64, f.HistoryLen)
		replHist := make([]float64, f.HistoryLen)
		for j := 0; j < f.HistoryLen; j++ {
			flushHist[j] = 8 + float64((i*7+j*3)%5)
			leaderHist[j] = 2_000_000 + float64((i*11+j*13)%500_000)
			replHist[j] = 500_000 + float64((i*17+j*5)%200_000)
		}
		history[id] = domain.MetricHistory{
			LogFlushP999Ms:     flushHist,
			LeaderBytesIn:      leaderHist,
			ReplicationBytesIn: replHist,
		}

		snap := domain.MetricSnapshot{
			LogFlushP999Ms:     flushHist[f.HistoryLen-1],
			LeaderBytesIn:      leaderHist[f.HistoryLen-1],
			ReplicationBytesIn: replHist[f.HistoryLen-1],
		}
		if slowSet[i] {
			snap.LogFlushP999Ms = flushHist[f.HistoryLen-1] * 100
		}
		current[id] = snap
	}

	return history, current
}
