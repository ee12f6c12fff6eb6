package analyzer

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/raine/catalog-vision/cache"
	"github.com/raine/catalog-vision/catalog"
)

// runBatches partitions pending inputs into groups of at most
// Config.BatchSize, preserving order, and sends each group to the vision
// tier in one provider round trip. Groups are processed sequentially to
// bound outstanding request volume. A failed group falls back per-product
// to degraded heuristic results; other groups are unaffected.
func (s *Service) runBatches(ctx context.Context, pending []catalog.ProductAnalysisInput) map[string]catalog.AIAnalysisResult {
	results := make(map[string]catalog.AIAnalysisResult, len(pending))

	for start := 0; start < len(pending); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(pending) {
			end = len(pending)
		}
		group := pending[start:end]

		s.stats.batchCalls.Add(1)
		groupResults, err := s.vision.AnalyzeProducts(ctx, group)
		if err != nil {
			log.Warn().Err(err).
				Int("groupSize", len(group)).
				Msg("batch vision call failed, falling back per product")
			groupResults = s.fallbackGroup(group)
		}

		for _, input := range group {
			result, ok := groupResults[input.ProductID]
			if !ok {
				result = catalog.DegradedAIFromHeuristic(s.classifier.Classify(input))
			}
			s.cache.Set(cache.Key(input), result)
			results[input.ProductID] = result
		}
	}
	return results
}

// fallbackGroup resolves every product of a failed group from the keyword
// heuristic with degraded confidence. No product is left unresolved.
func (s *Service) fallbackGroup(group []catalog.ProductAnalysisInput) map[string]catalog.AIAnalysisResult {
	results := make(map[string]catalog.AIAnalysisResult, len(group))
	for _, input := range group {
		results[input.ProductID] = catalog.DegradedAIFromHeuristic(s.classifier.Classify(input))
	}
	return results
}
