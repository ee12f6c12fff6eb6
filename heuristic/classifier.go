package heuristic

import (
	"strings"

	"github.com/raine/catalog-vision/catalog"
)

const (
	baseConfidence    = 0.5
	perHitConfidence  = 0.1
	maxConfidence     = 0.9
	maxStyleSuggested = 3
)

// Classifier scores catalog items against static keyword tables. It is
// stateless, never fails and always returns a usable result, possibly with
// low confidence.
type Classifier struct{}

// NewClassifier creates a keyword classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify derives a scene type, styles, materials and a confidence score
// from the item's textual metadata alone.
func (c *Classifier) Classify(input catalog.ProductAnalysisInput) catalog.ProductAnalysisResult {
	search := strings.ToLower(input.Name + " " + input.Description + " " + input.Category)

	bestScene := catalog.SceneLivingRoom
	bestScore := 0
	var sceneHits []string
	for _, entry := range sceneKeywords {
		score := 0
		var hits []string
		for _, kw := range entry.Keywords {
			if strings.Contains(search, kw) {
				score++
				hits = append(hits, kw)
			}
		}
		// Strict comparison keeps the earliest table entry on ties.
		if score > bestScore {
			bestScore = score
			bestScene = entry.Scene
			sceneHits = hits
		}
	}

	styles, styleHits := matchStyles(search)
	materials, materialHits := matchMaterials(search)

	confidence := baseConfidence
	if bestScore > 0 {
		confidence = min(maxConfidence, baseConfidence+perHitConfidence*float64(bestScore))
	}

	suggested := []catalog.SceneType{bestScene}
	if adj, ok := sceneAdjacency[bestScene]; ok {
		suggested = append(suggested, adj)
	}

	suggestedStyles := styles
	if len(suggestedStyles) > maxStyleSuggested {
		suggestedStyles = suggestedStyles[:maxStyleSuggested]
	}

	keywords := make([]string, 0, len(sceneHits)+len(styleHits)+len(materialHits))
	keywords = append(keywords, sceneHits...)
	keywords = append(keywords, styleHits...)
	keywords = append(keywords, materialHits...)

	return catalog.ProductAnalysisResult{
		ProductID:           input.ProductID,
		SceneType:           bestScene,
		ProductType:         matchProductType(search, input.Category),
		Style:               styles,
		Materials:           materials,
		Colors:              catalog.ColorSelection{Primary: matchPrimaryColor(search)},
		SuggestedSceneTypes: suggested,
		SuggestedStyles:     suggestedStyles,
		PromptKeywords:      keywords,
		Confidence:          confidence,
	}
}

// matchStyles collects every style with at least one keyword hit, defaulting
// to Modern when nothing matches.
func matchStyles(search string) ([]catalog.Style, []string) {
	var styles []catalog.Style
	var hits []string
	for _, entry := range styleKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(search, kw) {
				styles = append(styles, entry.Style)
				hits = append(hits, kw)
				break
			}
		}
	}
	if len(styles) == 0 {
		styles = []catalog.Style{catalog.StyleModern}
	}
	return styles, hits
}

// matchMaterials collects every material with at least one keyword hit.
func matchMaterials(search string) ([]catalog.Material, []string) {
	var materials []catalog.Material
	var hits []string
	for _, entry := range materialKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(search, kw) {
				materials = append(materials, entry.Material)
				hits = append(hits, kw)
				break
			}
		}
	}
	return materials, hits
}

// matchProductType picks a product type label from item nouns, falling back
// to the caller-supplied category and finally a generic label.
func matchProductType(search, category string) string {
	for _, entry := range productTypeKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(search, kw) {
				return entry.Type
			}
		}
	}
	if category != "" {
		return strings.ToLower(category)
	}
	return "furniture"
}

// matchPrimaryColor returns the first color name found in the search text,
// normalized to hex. Neutral gray when no color is mentioned.
func matchPrimaryColor(search string) string {
	for _, entry := range colorNames {
		if strings.Contains(search, entry.Name) {
			return entry.Hex
		}
	}
	return fallbackColor
}
