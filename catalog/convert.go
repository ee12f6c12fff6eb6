package catalog

// degradedConfidenceFactor scales heuristic confidence down when a result
// stands in for a failed vision call.
const degradedConfidenceFactor = 0.7

// AIFromHeuristic shapes a keyword-tier result like a vision-tier result so
// both tiers share one downstream contract. The heuristic confidence is
// carried over unchanged.
func AIFromHeuristic(h ProductAnalysisResult) AIAnalysisResult {
	scenes := h.SuggestedSceneTypes
	if len(scenes) == 0 {
		scenes = []SceneType{SceneLivingRoom}
	}
	if len(scenes) > 3 {
		scenes = scenes[:3]
	}

	styles := h.SuggestedStyles
	if len(styles) == 0 {
		styles = []Style{StyleModern}
	}
	if len(styles) > 3 {
		styles = styles[:3]
	}

	primary := h.Colors.Primary
	if primary == "" {
		primary = "#808080"
	}

	return AIAnalysisResult{
		ProductType: h.ProductType,
		SceneTypes:  scenes,
		ColorSchemes: []ColorScheme{
			{Name: "Primary", Colors: []string{primary}},
		},
		Materials:      h.Materials,
		Size:           SizeInfo{Type: SizeMedium},
		Styles:         styles,
		Confidence:     h.Confidence,
		AnalysisMethod: MethodFallback,
	}
}

// DegradedAIFromHeuristic is AIFromHeuristic with confidence scaled down.
// Used when the vision tier was attempted and failed.
func DegradedAIFromHeuristic(h ProductAnalysisResult) AIAnalysisResult {
	res := AIFromHeuristic(h)
	res.Confidence = h.Confidence * degradedConfidenceFactor
	return res
}
