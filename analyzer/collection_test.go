package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raine/catalog-vision/catalog"
)

func TestAnalyzeCollectionHeuristicsOnly(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	inputs := []catalog.ProductAnalysisInput{
		{ProductID: "p1", Name: "Oak Dining Table", Description: "solid oak, 6 seats", Category: "Tables"},
		{ProductID: "p2", Name: "Velvet Sofa", Description: "green velvet sofa", Category: "Seating"},
		{ProductID: "p3", Name: "Walnut Sideboard", Description: "dining room sideboard", Category: "Tables"},
	}
	result := s.AnalyzeCollection(context.Background(), inputs, CollectionOptions{})

	assert.Equal(t, 0, vision.batchCalls, "heuristics-only collection must not call the provider")
	assert.Len(t, result.Products, 3)
	assert.Equal(t, 2, result.SceneTypeDistribution[catalog.SceneDiningRoom])
	assert.Equal(t, 1, result.SceneTypeDistribution[catalog.SceneLivingRoom])
	assert.Equal(t, "Tables", result.DominantCategory)
	assert.Equal(t, catalog.SceneDiningRoom, result.ProductRoomAssignments["p1"])
	assert.Equal(t, catalog.SceneLivingRoom, result.ProductRoomAssignments["p2"])
	assert.NotEmpty(t, result.SuggestedStyles)
	assert.NotEmpty(t, result.RecommendedInspirationKeywords)
	assert.False(t, result.AnalyzedAt.IsZero())
}

func TestAnalyzeCollectionMergesAIResults(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	inputs := []catalog.ProductAnalysisInput{
		ambiguousInput("p1"),
		ambiguousInput("p2"),
	}
	result := s.AnalyzeCollection(context.Background(), inputs, CollectionOptions{UseAI: true})

	require.Len(t, result.Products, 2)
	for _, p := range result.Products {
		// fakeVision classifies everything as an Office item.
		assert.Equal(t, catalog.SceneOffice, p.SceneType)
		assert.Equal(t, "batch", p.ProductType)
		assert.Equal(t, []catalog.Style{catalog.StyleIndustrial}, p.Style)
		assert.Equal(t, 0.85, p.Confidence)
		assert.Equal(t, "#36454F", p.Colors.Primary)
	}
	assert.Equal(t, 2, result.SceneTypeDistribution[catalog.SceneOffice])
	assert.Equal(t, catalog.SceneOffice, result.ProductRoomAssignments["p1"])
}

func TestAnalyzeCollectionTopStylesBounded(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	inputs := []catalog.ProductAnalysisInput{
		{ProductID: "p1", Name: "sofa", Description: "modern scandinavian industrial rustic minimalist traditional bohemian retro"},
	}
	result := s.AnalyzeCollection(context.Background(), inputs, CollectionOptions{})

	assert.LessOrEqual(t, len(result.SuggestedStyles), 5)
}

func TestAnalyzeCollectionDominantCategoryFallsBackToScene(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	inputs := []catalog.ProductAnalysisInput{
		{ProductID: "p1", Name: "Oak Dining Table", Description: "solid oak, 6 seats"},
	}
	result := s.AnalyzeCollection(context.Background(), inputs, CollectionOptions{})

	assert.Equal(t, string(catalog.SceneDiningRoom), result.DominantCategory)
}
