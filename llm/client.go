// Package llm turns product metadata and images into structured vision
// analyses via the Gemini API. All failure paths degrade to keyword-derived
// results; nothing here returns an error to the orchestrator's callers.
package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/raine/catalog-vision/catalog"
	"github.com/raine/catalog-vision/heuristic"
	"github.com/raine/catalog-vision/images"
)

// ImageSource resolves an image reference to raw bytes and a MIME type.
type ImageSource interface {
	Resolve(ctx context.Context, ref string) (*images.Image, error)
}

// Client builds provider requests from product inputs and parses the
// structured responses back into validated results.
type Client struct {
	gen           ContentGenerator
	source        ImageSource
	classifier    *heuristic.Classifier
	primaryModel  string
	fallbackModel string

	usage totalUsage
}

// ClientOpts configures a vision client. Zero values pick defaults; a nil
// Generator short-circuits every request to the heuristic fallback (used
// when no provider credentials are configured).
type ClientOpts struct {
	Generator     ContentGenerator
	Source        ImageSource
	PrimaryModel  string
	FallbackModel string
}

// NewClient creates a vision analysis client.
func NewClient(opts ClientOpts) *Client {
	c := &Client{
		gen:           opts.Generator,
		source:        opts.Source,
		classifier:    heuristic.NewClassifier(),
		primaryModel:  GeminiModel,
		fallbackModel: GeminiFallbackModel,
	}
	if opts.Source == nil {
		c.source = images.NewFetcher()
	}
	if opts.PrimaryModel != "" {
		c.primaryModel = opts.PrimaryModel
	}
	if opts.FallbackModel != "" {
		c.fallbackModel = opts.FallbackModel
	}
	return c
}

// TotalUsage returns the accumulated token usage and cost across all
// provider calls made by this client.
func (c *Client) TotalUsage() Usage {
	return c.usage.snapshot()
}

// AnalyzeProduct analyzes a single product with its image. Missing images,
// provider failures (after one retry on the fallback model) and parse
// failures all resolve to a degraded heuristic result.
func (c *Client) AnalyzeProduct(ctx context.Context, input catalog.ProductAnalysisInput) catalog.AIAnalysisResult {
	if c.gen == nil {
		log.Warn().Str("productId", input.ProductID).Msg("no vision provider configured, using heuristic fallback")
		return c.degraded(input)
	}

	img := c.resolveImage(ctx, input)
	if img == nil {
		log.Info().Str("productId", input.ProductID).Msg("no usable image, using heuristic fallback")
		return c.degraded(input)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(singlePrompt(input)),
		{InlineData: &genai.Blob{Data: img.Data, MIMEType: img.MIMEType}},
	}

	result, err := c.requestSingle(ctx, c.primaryModel, parts)
	if err != nil {
		log.Warn().Err(err).
			Str("productId", input.ProductID).
			Str("model", c.primaryModel).
			Msg("vision analysis failed, retrying with fallback model")
		result, err = c.requestSingle(ctx, c.fallbackModel, parts)
	}
	if err != nil {
		log.Warn().Err(err).
			Str("productId", input.ProductID).
			Str("model", c.fallbackModel).
			Msg("vision analysis failed on fallback model, using heuristic fallback")
		return c.degraded(input)
	}
	return result
}

func (c *Client) requestSingle(ctx context.Context, model string, parts []*genai.Part) (catalog.AIAnalysisResult, error) {
	text, usage, err := c.gen.GenerateContent(ctx, model, parts)
	c.usage.add(usage)
	if err != nil {
		return catalog.AIAnalysisResult{}, err
	}
	result, coercions, err := parseSingleResponse(text)
	if err != nil {
		return catalog.AIAnalysisResult{}, err
	}
	if len(coercions) > 0 {
		log.Debug().Strs("fields", coercions).Msg("coerced vision response fields to defaults")
	}
	return result, nil
}

// AnalyzeProducts analyzes a group of products in one provider round trip.
// A request or parse failure fails the whole group; the caller applies
// per-product fallback. Products missing from an otherwise valid response
// are filled in with degraded heuristic results here.
func (c *Client) AnalyzeProducts(ctx context.Context, inputs []catalog.ProductAnalysisInput) (map[string]catalog.AIAnalysisResult, error) {
	if c.gen == nil {
		return nil, fmt.Errorf("no vision provider configured")
	}
	if len(inputs) == 0 {
		return map[string]catalog.AIAnalysisResult{}, nil
	}

	parts := []*genai.Part{
		genai.NewPartFromText(batchPrompt(inputs)),
	}
	imageCount := 0
	for _, input := range inputs {
		if img := c.resolveImage(ctx, input); img != nil {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{Data: img.Data, MIMEType: img.MIMEType},
			})
			imageCount++
		}
	}

	text, usage, err := c.gen.GenerateContent(ctx, c.primaryModel, parts)
	c.usage.add(usage)
	if err != nil {
		return nil, fmt.Errorf("batch vision request failed: %w", err)
	}

	items, err := parseBatchResponse(text)
	if err != nil {
		return nil, fmt.Errorf("batch vision response unusable: %w", err)
	}

	log.Info().
		Int("products", len(inputs)).
		Int("images", imageCount).
		Int("parsed", len(items)).
		Msg("batch vision analysis complete")

	return c.matchBatchResults(inputs, items), nil
}

// matchBatchResults maps response entries back to inputs, primarily by the
// returned productId and positionally for entries without one. Unmatched
// products get a degraded heuristic result.
func (c *Client) matchBatchResults(inputs []catalog.ProductAnalysisInput, items []batchItem) map[string]catalog.AIAnalysisResult {
	byID := make(map[string]batchItem, len(items))
	for _, item := range items {
		if item.ProductID != "" {
			byID[item.ProductID] = item
		}
	}

	results := make(map[string]catalog.AIAnalysisResult, len(inputs))
	for i, input := range inputs {
		item, ok := byID[input.ProductID]
		if !ok && i < len(items) && items[i].ProductID == "" {
			// Positional fallback for entries the model left untagged.
			item, ok = items[i], true
		}
		if !ok {
			log.Warn().Str("productId", input.ProductID).Msg("product missing from batch response, using heuristic fallback")
			results[input.ProductID] = c.degraded(input)
			continue
		}
		if len(item.Coercions) > 0 {
			log.Debug().
				Str("productId", input.ProductID).
				Strs("fields", item.Coercions).
				Msg("coerced vision response fields to defaults")
		}
		results[input.ProductID] = item.Result
	}
	return results
}

// resolveImage fetches and prepares the input's image. Returns nil when the
// input has no image or resolution fails; vision analysis then degrades
// rather than erroring.
func (c *Client) resolveImage(ctx context.Context, input catalog.ProductAnalysisInput) *images.Image {
	if input.ImageURL == "" {
		return nil
	}
	img, err := c.source.Resolve(ctx, input.ImageURL)
	if err != nil {
		log.Warn().Err(err).Str("productId", input.ProductID).Msg("failed to resolve product image")
		return nil
	}
	return images.Downscale(img)
}

func (c *Client) degraded(input catalog.ProductAnalysisInput) catalog.AIAnalysisResult {
	return catalog.DegradedAIFromHeuristic(c.classifier.Classify(input))
}
