package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raine/catalog-vision/catalog"
	"github.com/raine/catalog-vision/llm"
)

// fakeVision counts provider calls and returns canned results. Group calls
// can be made to fail selectively for failure-isolation tests.
type fakeVision struct {
	mu          sync.Mutex
	singleCalls int
	batchCalls  int
	batchSizes  []int
	batchIDs    [][]string
	failBatches map[int]bool // batch call index (0-based) -> fail
}

func aiResult(productType string) catalog.AIAnalysisResult {
	return catalog.AIAnalysisResult{
		ProductType:    productType,
		SceneTypes:     []catalog.SceneType{catalog.SceneOffice},
		ColorSchemes:   []catalog.ColorScheme{{Name: "Primary", Colors: []string{"#36454F"}}},
		Materials:      []catalog.Material{catalog.MaterialMetal},
		Size:           catalog.SizeInfo{Type: catalog.SizeMedium},
		Styles:         []catalog.Style{catalog.StyleIndustrial},
		Confidence:     0.85,
		AnalysisMethod: catalog.MethodAI,
	}
}

func (f *fakeVision) AnalyzeProduct(ctx context.Context, input catalog.ProductAnalysisInput) catalog.AIAnalysisResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.singleCalls++
	return aiResult("single")
}

func (f *fakeVision) AnalyzeProducts(ctx context.Context, inputs []catalog.ProductAnalysisInput) (map[string]catalog.AIAnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.batchCalls
	f.batchCalls++
	f.batchSizes = append(f.batchSizes, len(inputs))
	ids := make([]string, len(inputs))
	for i, input := range inputs {
		ids[i] = input.ProductID
	}
	f.batchIDs = append(f.batchIDs, ids)

	if f.failBatches[call] {
		return nil, errors.New("provider unavailable")
	}
	results := make(map[string]catalog.AIAnalysisResult, len(inputs))
	for _, input := range inputs {
		results[input.ProductID] = aiResult("batch")
	}
	return results, nil
}

func newTestService(t *testing.T, vision VisionAnalyzer) *Service {
	t.Helper()
	s, err := New(Config{}, vision)
	require.NoError(t, err)
	return s
}

func confidentInput(id string) catalog.ProductAnalysisInput {
	return catalog.ProductAnalysisInput{
		ProductID:   id,
		Name:        "Oak Dining Table",
		Description: "solid oak, 6 seats",
	}
}

func ambiguousInput(id string) catalog.ProductAnalysisInput {
	return catalog.ProductAnalysisInput{
		ProductID: id,
		Name:      "Item " + id,
		ImageURL:  "https://example.com/" + id + ".jpg",
	}
}

func TestAnalyzeOneConfidentHeuristicSkipsProvider(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	result := s.AnalyzeOne(context.Background(), confidentInput("p1"), Options{})

	assert.Equal(t, catalog.MethodFallback, result.AnalysisMethod)
	assert.Equal(t, catalog.SceneDiningRoom, result.SceneTypes[0])
	assert.Equal(t, 0, vision.singleCalls, "confident heuristic must not call the provider")

	stats := s.GetStats()
	assert.Equal(t, int64(1), stats.HeuristicSkips)
	assert.Equal(t, int64(0), stats.AICalls)
}

func TestAnalyzeOneForceAI(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	result := s.AnalyzeOne(context.Background(), confidentInput("p1"), Options{ForceAI: true})

	assert.Equal(t, catalog.MethodAI, result.AnalysisMethod)
	assert.Equal(t, 1, vision.singleCalls)
}

func TestAnalyzeOneAmbiguousEscalates(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	result := s.AnalyzeOne(context.Background(), ambiguousInput("p1"), Options{})

	assert.Equal(t, catalog.MethodAI, result.AnalysisMethod)
	assert.Equal(t, 1, vision.singleCalls)
	assert.Equal(t, int64(1), s.GetStats().AICalls)
}

func TestStatsCountVisionTierDispatches(t *testing.T) {
	// A vision client without provider credentials degrades internally.
	// The dispatch still counts: aiCalls is an upper bound on provider
	// traffic, not a confirmation of it.
	vision := llm.NewClient(llm.ClientOpts{})
	s := newTestService(t, vision)

	result := s.AnalyzeOne(context.Background(), ambiguousInput("p1"), Options{})

	assert.Equal(t, catalog.MethodFallback, result.AnalysisMethod)
	assert.Equal(t, int64(1), s.GetStats().AICalls)
}

func TestAnalyzeOneCachesResults(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	first := s.AnalyzeOne(context.Background(), ambiguousInput("p1"), Options{})

	// Same content under a different product ID must hit the cache.
	input := ambiguousInput("p1")
	input.ProductID = "p2"
	second := s.AnalyzeOne(context.Background(), input, Options{})

	assert.Equal(t, first, second)
	assert.Equal(t, 1, vision.singleCalls, "second call must be served from cache")

	stats := s.GetStats()
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)
	assert.InDelta(t, 0.5, stats.CacheHitRate, 1e-9)
}

func TestClearCache(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	s.AnalyzeOne(context.Background(), ambiguousInput("p1"), Options{})
	s.ClearCache()
	s.AnalyzeOne(context.Background(), ambiguousInput("p1"), Options{})

	assert.Equal(t, 2, vision.singleCalls, "cleared cache must trigger a fresh provider call")
}

func TestAnalyzeOneCoalescesConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	vision := &slowVision{release: release, entered: make(chan struct{}, 2)}
	s := newTestService(t, vision)

	var wg sync.WaitGroup
	results := make([]catalog.AIAnalysisResult, 2)
	start := func(i int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.AnalyzeOne(context.Background(), ambiguousInput("p1"), Options{})
		}()
	}

	start(0)
	// The first caller is inside the provider, holding the flight key open.
	<-vision.entered

	start(1)
	// Both callers have passed the cache check once the miss counter hits
	// two; the second then joins the in-flight call.
	require.Eventually(t, func() bool {
		return s.GetStats().CacheMisses == 2
	}, 5*time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), vision.calls.Load(), "identical concurrent calls should share one provider request")
	assert.Equal(t, results[0], results[1])
}

func TestAnalyzeBatchTiersPerItem(t *testing.T) {
	vision := &fakeVision{}
	s := newTestService(t, vision)

	inputs := []catalog.ProductAnalysisInput{
		confidentInput("p1"),
		ambiguousInput("p2"),
		ambiguousInput("p3"),
	}
	results := s.AnalyzeBatch(context.Background(), inputs, Options{})

	require.Len(t, results, 3)
	assert.Equal(t, catalog.MethodFallback, results["p1"].AnalysisMethod)
	assert.Equal(t, catalog.MethodAI, results["p2"].AnalysisMethod)
	assert.Equal(t, catalog.MethodAI, results["p3"].AnalysisMethod)
	assert.Equal(t, 1, vision.batchCalls)
	assert.Equal(t, []int{2}, vision.batchSizes)
}

// slowVision blocks AnalyzeProduct until released, to hold concurrent
// callers inside the singleflight window. Each call signals entered before
// blocking.
type slowVision struct {
	release chan struct{}
	entered chan struct{}
	calls   atomic.Int32
}

func (v *slowVision) AnalyzeProduct(ctx context.Context, input catalog.ProductAnalysisInput) catalog.AIAnalysisResult {
	v.calls.Add(1)
	v.entered <- struct{}{}
	<-v.release
	return aiResult("slow")
}

func (v *slowVision) AnalyzeProducts(ctx context.Context, inputs []catalog.ProductAnalysisInput) (map[string]catalog.AIAnalysisResult, error) {
	return nil, fmt.Errorf("not used")
}
