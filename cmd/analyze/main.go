package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raine/catalog-vision/analyzer"
	"github.com/raine/catalog-vision/cache"
	"github.com/raine/catalog-vision/catalog"
	"github.com/raine/catalog-vision/config"
	"github.com/raine/catalog-vision/llm"
	"github.com/raine/catalog-vision/storage"
)

func main() {
	inputPath := flag.String("input", "", "path to JSON file with an array of product inputs")
	useAI := flag.Bool("use-ai", false, "escalate low-confidence items to the vision provider")
	forceAI := flag.Bool("force-ai", false, "send every item to the vision provider")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *inputPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -input products.json [-use-ai] [-force-ai]\n", os.Args[0])
		os.Exit(1)
	}

	config.LoadEnvFile()
	cfg := config.FromEnv()

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read input file")
	}
	var inputs []catalog.ProductAnalysisInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		log.Fatal().Err(err).Msg("failed to parse input file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var generator llm.ContentGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiGenerator(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize gemini client")
		}
		generator = gemini
		log.Info().Msg("gemini vision analyzer initialized")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, vision tier disabled")
	}

	visionClient := llm.NewClient(llm.ClientOpts{Generator: generator})

	service, err := analyzer.New(analyzer.Config{
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		BatchSize:           cfg.BatchSize,
		CacheCapacity:       cfg.CacheCapacity,
		CacheTTL:            cfg.CacheTTL,
	}, visionClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize analyzer")
	}

	var store storage.HistoryStore
	if cfg.DBPath != "" {
		sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize history store")
		}
		defer sqliteStore.Close()
		store = sqliteStore
		log.Info().Str("dbPath", cfg.DBPath).Msg("history store initialized")
	}

	result := service.AnalyzeCollection(ctx, inputs, analyzer.CollectionOptions{
		UseAI:   *useAI || *forceAI,
		ForceAI: *forceAI,
	})

	if store != nil {
		recordHistory(ctx, service, store, inputs, result.Products, *useAI || *forceAI)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to marshal result")
	}
	fmt.Println(string(out))

	logStats(service, visionClient)
}

// recordHistory appends one history record per input. Vision-assisted runs
// read results back through AnalyzeOne, which AnalyzeBatch has already
// cached; heuristics-only runs persist the collection's own baselines, so
// persistence never triggers a provider call the user did not ask for.
func recordHistory(ctx context.Context, service *analyzer.Service, store storage.HistoryStore, inputs []catalog.ProductAnalysisInput, products []catalog.ProductAnalysisResult, usedAI bool) {
	for i, input := range inputs {
		var result catalog.AIAnalysisResult
		if usedAI {
			result = service.AnalyzeOne(ctx, input, analyzer.Options{})
		} else {
			result = catalog.AIFromHeuristic(products[i])
		}
		record := &storage.Record{
			ProductID:  input.ProductID,
			ContentKey: cache.Key(input),
			Result:     result,
		}
		if err := store.Save(record); err != nil {
			log.Warn().Err(err).Str("productId", input.ProductID).Msg("failed to record analysis")
		}
	}
}

func logStats(service *analyzer.Service, visionClient *llm.Client) {
	stats := service.GetStats()
	usage := visionClient.TotalUsage()
	log.Info().
		Int64("cacheHits", stats.CacheHits).
		Int64("cacheMisses", stats.CacheMisses).
		Int64("heuristicSkips", stats.HeuristicSkips).
		Int64("aiCalls", stats.AICalls).
		Int64("batchAiCalls", stats.BatchAICalls).
		Float64("cacheHitRate", stats.CacheHitRate).
		Float64("costUSD", usage.CostUSD).
		Msg("analysis complete")
}
