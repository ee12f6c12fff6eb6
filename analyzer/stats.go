package analyzer

import "sync/atomic"

// counters holds the service's running observability counters. aiCalls and
// batchCalls count vision-tier dispatches, not confirmed provider requests;
// the tier degrades internally without reporting back.
type counters struct {
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	heuristicSkips atomic.Int64
	aiCalls        atomic.Int64
	batchCalls     atomic.Int64
}

// Stats is a point-in-time snapshot of the orchestrator's counters. These
// exist for observability, not correctness.
type Stats struct {
	CacheHits      int64 `json:"cacheHits"`
	CacheMisses    int64 `json:"cacheMisses"`
	HeuristicSkips int64 `json:"heuristicSkips"`
	// AICalls counts dispatches to the vision tier's single-product path.
	// The tier may still degrade internally, for example when no provider
	// is configured, so this is an upper bound on real provider traffic.
	AICalls      int64   `json:"aiCalls"`
	BatchAICalls int64   `json:"batchAiCalls"`
	CacheHitRate float64 `json:"cacheHitRate"`
	CacheSize    int     `json:"cacheSize"`
}

// GetStats returns a snapshot of the running counters plus the derived
// cache hit rate.
func (s *Service) GetStats() Stats {
	hits := s.stats.cacheHits.Load()
	misses := s.stats.cacheMisses.Load()
	stats := Stats{
		CacheHits:      hits,
		CacheMisses:    misses,
		HeuristicSkips: s.stats.heuristicSkips.Load(),
		AICalls:        s.stats.aiCalls.Load(),
		BatchAICalls:   s.stats.batchCalls.Load(),
		CacheSize:      s.cache.Len(),
	}
	if total := hits + misses; total > 0 {
		stats.CacheHitRate = float64(hits) / float64(total)
	}
	return stats
}
