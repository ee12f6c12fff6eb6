package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/raine/catalog-vision/catalog"
)

const (
	maxSuggestedStyles     = 5
	maxInspirationKeywords = 10
)

// AnalyzeCollection analyzes a set of products and computes collection-level
// statistics for the generation pipeline. With UseAI set, low-confidence
// items go through the vision tier and its values take precedence over the
// heuristic baseline; otherwise the collection is heuristics-only.
func (s *Service) AnalyzeCollection(ctx context.Context, inputs []catalog.ProductAnalysisInput, opts CollectionOptions) catalog.BatchAnalysisResult {
	products := make([]catalog.ProductAnalysisResult, len(inputs))
	for i, input := range inputs {
		products[i] = s.classifier.Classify(input)
	}

	if opts.UseAI {
		aiResults := s.AnalyzeBatch(ctx, inputs, Options{ForceAI: opts.ForceAI})
		for i := range products {
			if ai, ok := aiResults[products[i].ProductID]; ok {
				mergeAIResult(&products[i], ai)
			}
		}
	}

	return aggregate(inputs, products)
}

// mergeAIResult overlays vision-tier values onto the heuristic baseline.
// AI values win wherever present; heuristic fields without an AI
// counterpart (prompt keywords, suggestions) are kept.
func mergeAIResult(base *catalog.ProductAnalysisResult, ai catalog.AIAnalysisResult) {
	if len(ai.SceneTypes) > 0 {
		base.SceneType = ai.SceneTypes[0]
		base.SuggestedSceneTypes = ai.SceneTypes
	}
	if ai.ProductType != "" {
		base.ProductType = ai.ProductType
	}
	if len(ai.Styles) > 0 {
		base.Style = ai.Styles
		base.SuggestedStyles = ai.Styles
	}
	if len(ai.Materials) > 0 {
		base.Materials = ai.Materials
	}
	if len(ai.ColorSchemes) > 0 && len(ai.ColorSchemes[0].Colors) > 0 {
		base.Colors.Primary = ai.ColorSchemes[0].Colors[0]
	}
	base.Confidence = ai.Confidence
}

// aggregate computes the collection-level statistics over per-item results.
func aggregate(inputs []catalog.ProductAnalysisInput, products []catalog.ProductAnalysisResult) catalog.BatchAnalysisResult {
	distribution := make(map[catalog.SceneType]int)
	assignments := make(map[string]catalog.SceneType, len(products))
	styleCounts := make(map[catalog.Style]int)
	typeSet := make(map[string]bool)
	var productTypes []string

	for _, p := range products {
		distribution[p.SceneType]++
		assignments[p.ProductID] = p.SceneType
		for _, style := range p.Style {
			styleCounts[style]++
		}
		if !typeSet[p.ProductType] {
			typeSet[p.ProductType] = true
			productTypes = append(productTypes, p.ProductType)
		}
	}

	return catalog.BatchAnalysisResult{
		SceneTypeDistribution:          distribution,
		ProductTypes:                   productTypes,
		DominantCategory:               dominantCategory(inputs, distribution),
		SuggestedStyles:                topStyles(styleCounts, maxSuggestedStyles),
		RecommendedInspirationKeywords: inspirationKeywords(products),
		ProductRoomAssignments:         assignments,
		Products:                       products,
		AnalyzedAt:                     time.Now(),
	}
}

// dominantCategory is the most frequent caller-supplied category, falling
// back to the most common scene type when no input carries a category.
func dominantCategory(inputs []catalog.ProductAnalysisInput, distribution map[catalog.SceneType]int) string {
	counts := make(map[string]int)
	for _, input := range inputs {
		if input.Category != "" {
			counts[input.Category]++
		}
	}
	if len(counts) > 0 {
		best, bestCount := "", 0
		for category, count := range counts {
			if count > bestCount || (count == bestCount && category < best) {
				best, bestCount = category, count
			}
		}
		return best
	}

	best, bestCount := catalog.SceneLivingRoom, 0
	for _, scene := range catalog.KnownSceneTypes {
		if distribution[scene] > bestCount {
			best, bestCount = scene, distribution[scene]
		}
	}
	return string(best)
}

// topStyles returns at most n styles ordered by descending frequency, with
// canonical order breaking ties.
func topStyles(counts map[catalog.Style]int, n int) []catalog.Style {
	styles := make([]catalog.Style, 0, len(counts))
	for style := range counts {
		styles = append(styles, style)
	}
	order := make(map[catalog.Style]int, len(catalog.KnownStyles))
	for i, s := range catalog.KnownStyles {
		order[s] = i
	}
	sort.Slice(styles, func(i, j int) bool {
		if counts[styles[i]] != counts[styles[j]] {
			return counts[styles[i]] > counts[styles[j]]
		}
		return order[styles[i]] < order[styles[j]]
	})
	if len(styles) > n {
		styles = styles[:n]
	}
	return styles
}

// inspirationKeywords collects the distinct prompt keywords across the
// collection, capped to keep downstream prompts short.
func inspirationKeywords(products []catalog.ProductAnalysisResult) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, p := range products {
		for _, kw := range p.PromptKeywords {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			keywords = append(keywords, kw)
			if len(keywords) >= maxInspirationKeywords {
				return keywords
			}
		}
	}
	return keywords
}
