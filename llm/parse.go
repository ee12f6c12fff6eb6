package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raine/catalog-vision/catalog"
	"github.com/raine/catalog-vision/heuristic"
)

// aiConfidence is the fixed confidence assigned to successfully parsed
// provider results.
const aiConfidence = 0.85

// batchItem is one parsed entry of a batch response.
type batchItem struct {
	ProductID string
	Result    catalog.AIAnalysisResult
	Coercions []string
}

// stripFences removes markdown code blocks the model may wrap around JSON.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseSingleResponse parses one provider response into a validated result
// plus the list of fields that had to be coerced to defaults.
func parseSingleResponse(text string) (catalog.AIAnalysisResult, []string, error) {
	text = stripFences(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return catalog.AIAnalysisResult{}, nil, fmt.Errorf("no JSON object found in response: %s", text)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &fields); err != nil {
		return catalog.AIAnalysisResult{}, nil, fmt.Errorf("failed to parse response JSON: %w (response: %s)", err, text)
	}

	result, coercions := validateResult(fields)
	return result, coercions, nil
}

// parseBatchResponse parses a JSON array response into per-product entries.
// Entries keep their returned productId for matching; entries without one
// are matched positionally by the caller.
func parseBatchResponse(text string) ([]batchItem, error) {
	text = stripFences(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array found in response: %s", text)
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &rawItems); err != nil {
		return nil, fmt.Errorf("failed to parse batch response JSON: %w (response: %s)", err, text)
	}

	items := make([]batchItem, 0, len(rawItems))
	for _, raw := range rawItems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			// One malformed entry should not sink the batch; the caller
			// falls back per-product for anything left unmatched.
			continue
		}
		var productID string
		if idRaw, ok := fields["productId"]; ok {
			_ = json.Unmarshal(idRaw, &productID)
		}
		result, coercions := validateResult(fields)
		items = append(items, batchItem{
			ProductID: productID,
			Result:    result,
			Coercions: coercions,
		})
	}
	return items, nil
}

// validateResult checks every field of a provider response against the
// closed enumerations and coerces anything unexpected to a documented
// default. It never fails: the worst malformed object validates to a
// default-shaped result with every field listed as coerced.
func validateResult(fields map[string]json.RawMessage) (catalog.AIAnalysisResult, []string) {
	var coercions []string
	coerce := func(field string) {
		coercions = append(coercions, field)
	}

	result := catalog.AIAnalysisResult{
		Confidence:     aiConfidence,
		AnalysisMethod: catalog.MethodAI,
	}

	if !decodeField(fields, "productType", &result.ProductType) || result.ProductType == "" {
		result.ProductType = "furniture"
		coerce("productType")
	}

	var scenes []catalog.SceneType
	decodeField(fields, "sceneTypes", &scenes)
	for _, s := range scenes {
		if s.Known() {
			result.SceneTypes = append(result.SceneTypes, s)
		}
	}
	if len(result.SceneTypes) != len(scenes) || len(result.SceneTypes) == 0 {
		coerce("sceneTypes")
	}
	if len(result.SceneTypes) == 0 {
		result.SceneTypes = []catalog.SceneType{catalog.SceneLivingRoom}
	}
	if len(result.SceneTypes) > 3 {
		result.SceneTypes = result.SceneTypes[:3]
	}

	var schemes []catalog.ColorScheme
	decodeField(fields, "colorSchemes", &schemes)
	for i := range schemes {
		if schemes[i].Name == "" {
			schemes[i].Name = "Primary"
			coerce(fmt.Sprintf("colorSchemes[%d].name", i))
		}
		for j, color := range schemes[i].Colors {
			schemes[i].Colors[j] = heuristic.NormalizeColor(color)
		}
	}
	if len(schemes) == 0 {
		schemes = []catalog.ColorScheme{{Name: "Primary", Colors: []string{"#808080"}}}
		coerce("colorSchemes")
	}
	result.ColorSchemes = schemes

	var materials []catalog.Material
	decodeField(fields, "materials", &materials)
	for _, m := range materials {
		if m.Known() {
			result.Materials = append(result.Materials, m)
		}
	}
	if len(result.Materials) != len(materials) {
		coerce("materials")
	}

	var size catalog.SizeInfo
	decodeField(fields, "size", &size)
	if !size.Type.Known() {
		size.Type = catalog.SizeMedium
		coerce("size.type")
	}
	result.Size = size

	var styles []catalog.Style
	decodeField(fields, "styles", &styles)
	for _, s := range styles {
		if s.Known() {
			result.Styles = append(result.Styles, s)
		}
	}
	if len(result.Styles) != len(styles) || len(result.Styles) == 0 {
		coerce("styles")
	}
	if len(result.Styles) == 0 {
		result.Styles = []catalog.Style{catalog.StyleModern}
	}
	if len(result.Styles) > 3 {
		result.Styles = result.Styles[:3]
	}

	return result, coercions
}

// decodeField unmarshals one field into dst, reporting whether the field was
// present and well-formed. dst is left at its zero value otherwise.
func decodeField(fields map[string]json.RawMessage, name string, dst interface{}) bool {
	raw, ok := fields[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}
