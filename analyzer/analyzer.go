// Package analyzer coordinates the tiered classification pipeline: cached
// results first, keyword heuristics second, vision analysis only when the
// heuristic confidence is too low.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/raine/catalog-vision/cache"
	"github.com/raine/catalog-vision/catalog"
	"github.com/raine/catalog-vision/heuristic"
)

const (
	// DefaultConfidenceThreshold gates escalation to the vision tier.
	DefaultConfidenceThreshold = 0.6
	// DefaultBatchSize is the maximum number of products per provider call.
	DefaultBatchSize = 8
	// DefaultCacheCapacity bounds the result cache.
	DefaultCacheCapacity = 500
	// DefaultCacheTTL bounds the age of served cache entries.
	DefaultCacheTTL = 24 * time.Hour
)

// VisionAnalyzer is the vision tier collaborator. AnalyzeProduct never
// fails (it degrades internally); AnalyzeProducts fails as a whole group
// and the batch coordinator applies per-product fallback.
type VisionAnalyzer interface {
	AnalyzeProduct(ctx context.Context, input catalog.ProductAnalysisInput) catalog.AIAnalysisResult
	AnalyzeProducts(ctx context.Context, inputs []catalog.ProductAnalysisInput) (map[string]catalog.AIAnalysisResult, error)
}

// Config holds the orchestrator's tuning constants. Zero values pick the
// package defaults.
type Config struct {
	ConfidenceThreshold float64
	BatchSize           int
	CacheCapacity       int
	CacheTTL            time.Duration
}

func (c Config) withDefaults() Config {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.CacheCapacity <= 0 {
		c.CacheCapacity = DefaultCacheCapacity
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	return c
}

// Options adjusts a single analysis call.
type Options struct {
	// ForceAI escalates to the vision tier even when the heuristic is
	// confident.
	ForceAI bool
}

// CollectionOptions adjusts an AnalyzeCollection call.
type CollectionOptions struct {
	// UseAI enables the vision tier; otherwise the collection is analyzed
	// with heuristics only.
	UseAI   bool
	ForceAI bool
}

// Service is the analysis orchestrator. Construct one per process or worker
// with New; it owns the cache and all counters.
type Service struct {
	cfg        Config
	cache      *cache.ResultCache
	classifier *heuristic.Classifier
	vision     VisionAnalyzer
	stats      counters
	flight     singleflight.Group
}

// New creates an orchestrator around the given vision tier.
func New(cfg Config, vision VisionAnalyzer) (*Service, error) {
	cfg = cfg.withDefaults()
	resultCache, err := cache.New(cfg.CacheCapacity, cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return &Service{
		cfg:        cfg,
		cache:      resultCache,
		classifier: heuristic.NewClassifier(),
		vision:     vision,
	}, nil
}

// AnalyzeOne classifies a single product. Cached results are served first;
// confident heuristic results skip the provider entirely. Concurrent calls
// for the same content hash share one vision request.
func (s *Service) AnalyzeOne(ctx context.Context, input catalog.ProductAnalysisInput, opts Options) catalog.AIAnalysisResult {
	key := cache.Key(input)

	if cached, ok := s.cache.Get(key); ok {
		s.stats.cacheHits.Add(1)
		log.Debug().Str("productId", input.ProductID).Msg("analysis cache hit")
		return cached
	}
	s.stats.cacheMisses.Add(1)

	h := s.classifier.Classify(input)
	if !opts.ForceAI && h.Confidence >= s.cfg.ConfidenceThreshold {
		s.stats.heuristicSkips.Add(1)
		result := catalog.AIFromHeuristic(h)
		s.cache.Set(key, result)
		log.Debug().
			Str("productId", input.ProductID).
			Float64("confidence", h.Confidence).
			Msg("heuristic confident, skipping vision tier")
		return result
	}

	// Coalesce concurrent resolutions of the same content hash into one
	// provider call. aiCalls counts the dispatch even when the vision tier
	// degrades internally.
	v, _, _ := s.flight.Do(key, func() (interface{}, error) {
		s.stats.aiCalls.Add(1)
		result := s.vision.AnalyzeProduct(ctx, input)
		s.cache.Set(key, result)
		return result, nil
	})
	return v.(catalog.AIAnalysisResult)
}

// AnalyzeBatch classifies many products, escalating the low-confidence
// remainder to the vision tier in bounded groups.
func (s *Service) AnalyzeBatch(ctx context.Context, inputs []catalog.ProductAnalysisInput, opts Options) map[string]catalog.AIAnalysisResult {
	results := make(map[string]catalog.AIAnalysisResult, len(inputs))
	var pending []catalog.ProductAnalysisInput

	for _, input := range inputs {
		key := cache.Key(input)
		if cached, ok := s.cache.Get(key); ok {
			s.stats.cacheHits.Add(1)
			results[input.ProductID] = cached
			continue
		}
		s.stats.cacheMisses.Add(1)

		h := s.classifier.Classify(input)
		if !opts.ForceAI && h.Confidence >= s.cfg.ConfidenceThreshold {
			s.stats.heuristicSkips.Add(1)
			result := catalog.AIFromHeuristic(h)
			s.cache.Set(key, result)
			results[input.ProductID] = result
			continue
		}
		pending = append(pending, input)
	}

	if len(pending) > 0 {
		for id, result := range s.runBatches(ctx, pending) {
			results[id] = result
		}
	}
	return results
}

// ClearCache drops all cached results unconditionally.
func (s *Service) ClearCache() {
	s.cache.Clear()
}
