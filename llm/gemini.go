package llm

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	// GeminiModel is the primary vision model.
	GeminiModel = "gemini-3-flash-preview"
	// GeminiFallbackModel is used for the single retry after a primary
	// model failure.
	GeminiFallbackModel = "gemini-2.5-flash-lite"
)

// Gemini pricing (per million tokens)
const (
	geminiInputPricePerMillion      = 0.50 // $0.50 per 1M input tokens (text/image/video)
	geminiOutputPricePerMillion     = 3.00 // $3.00 per 1M output tokens (including thinking)
	geminiLiteInputPricePerMillion  = 0.075
	geminiLiteOutputPricePerMillion = 0.30
)

// Usage contains token usage and cost information for one provider call.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	CostUSD      float64
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.CostUSD += other.CostUSD
}

// totalUsage is a thread-safe usage accumulator.
type totalUsage struct {
	mu sync.Mutex
	u  Usage
}

func (t *totalUsage) add(u Usage) {
	t.mu.Lock()
	t.u.Add(u)
	t.mu.Unlock()
}

func (t *totalUsage) snapshot() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.u
}

// ContentGenerator abstracts the vision provider transport: send a prompt
// plus inline images under a model id, get response text back.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, parts []*genai.Part) (string, Usage, error)
}

// GeminiGenerator implements ContentGenerator over the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini-backed generator. It uses the
// GEMINI_API_KEY environment variable for authentication.
func NewGeminiGenerator(ctx context.Context) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

// GenerateContent implements ContentGenerator.
func (g *GeminiGenerator) GenerateContent(ctx context.Context, model string, parts []*genai.Part) (string, Usage, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", Usage{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", Usage{}, fmt.Errorf("no response from Gemini")
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
		usage.CostUSD = calculateGeminiCost(model, usage.InputTokens, usage.OutputTokens)
	}

	log.Info().
		Str("model", model).
		Int64("inputTokens", usage.InputTokens).
		Int64("outputTokens", usage.OutputTokens).
		Float64("costUSD", usage.CostUSD).
		Msg("vision llm call")

	return result.Text(), usage, nil
}

func calculateGeminiCost(model string, inputTokens, outputTokens int64) float64 {
	inputPrice, outputPrice := geminiInputPricePerMillion, geminiOutputPricePerMillion
	if model == GeminiFallbackModel {
		inputPrice, outputPrice = geminiLiteInputPricePerMillion, geminiLiteOutputPricePerMillion
	}
	inputCost := float64(inputTokens) / 1_000_000 * inputPrice
	outputCost := float64(outputTokens) / 1_000_000 * outputPrice
	return inputCost + outputCost
}
