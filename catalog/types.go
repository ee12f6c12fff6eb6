package catalog

import "time"

// AnalysisMethod indicates which tier produced a result.
type AnalysisMethod string

const (
	// MethodAI marks results parsed from a vision provider response.
	MethodAI AnalysisMethod = "ai"
	// MethodFallback marks results derived from the keyword heuristic,
	// either because the heuristic was confident enough or because the
	// vision tier failed.
	MethodFallback AnalysisMethod = "fallback"
)

// SceneType is a room or scene an item can be staged in.
type SceneType string

const (
	SceneLivingRoom SceneType = "Living Room"
	SceneBedroom    SceneType = "Bedroom"
	SceneDiningRoom SceneType = "Dining Room"
	SceneKitchen    SceneType = "Kitchen"
	SceneOffice     SceneType = "Office"
	SceneBathroom   SceneType = "Bathroom"
	SceneKidsRoom   SceneType = "Kids Room"
	SceneOutdoor    SceneType = "Outdoor"
)

// KnownSceneTypes lists every scene type in canonical order.
var KnownSceneTypes = []SceneType{
	SceneLivingRoom,
	SceneBedroom,
	SceneDiningRoom,
	SceneKitchen,
	SceneOffice,
	SceneBathroom,
	SceneKidsRoom,
	SceneOutdoor,
}

// Known reports whether s is one of the canonical scene types.
func (s SceneType) Known() bool {
	for _, k := range KnownSceneTypes {
		if s == k {
			return true
		}
	}
	return false
}

// Style is a design style label.
type Style string

const (
	StyleModern       Style = "Modern"
	StyleScandinavian Style = "Scandinavian"
	StyleIndustrial   Style = "Industrial"
	StyleRustic       Style = "Rustic"
	StyleMinimalist   Style = "Minimalist"
	StyleTraditional  Style = "Traditional"
	StyleBohemian     Style = "Bohemian"
	StyleMidCentury   Style = "Mid-Century"
)

// KnownStyles lists every style in canonical order.
var KnownStyles = []Style{
	StyleModern,
	StyleScandinavian,
	StyleIndustrial,
	StyleRustic,
	StyleMinimalist,
	StyleTraditional,
	StyleBohemian,
	StyleMidCentury,
}

// Known reports whether s is one of the canonical styles.
func (s Style) Known() bool {
	for _, k := range KnownStyles {
		if s == k {
			return true
		}
	}
	return false
}

// Material is a product material label.
type Material string

const (
	MaterialWood    Material = "Wood"
	MaterialMetal   Material = "Metal"
	MaterialGlass   Material = "Glass"
	MaterialFabric  Material = "Fabric"
	MaterialLeather Material = "Leather"
	MaterialPlastic Material = "Plastic"
	MaterialRattan  Material = "Rattan"
	MaterialStone   Material = "Stone"
	MaterialVelvet  Material = "Velvet"
)

// KnownMaterials lists every material in canonical order.
var KnownMaterials = []Material{
	MaterialWood,
	MaterialMetal,
	MaterialGlass,
	MaterialFabric,
	MaterialLeather,
	MaterialPlastic,
	MaterialRattan,
	MaterialStone,
	MaterialVelvet,
}

// Known reports whether m is one of the canonical materials.
func (m Material) Known() bool {
	for _, k := range KnownMaterials {
		if m == k {
			return true
		}
	}
	return false
}

// SizeClass buckets an item's physical size.
type SizeClass string

const (
	SizeSmall    SizeClass = "small"
	SizeMedium   SizeClass = "medium"
	SizeLarge    SizeClass = "large"
	SizeSpecific SizeClass = "specific"
)

// Known reports whether s is a valid size class.
func (s SizeClass) Known() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeSpecific:
		return true
	}
	return false
}

// ProductAnalysisInput describes one catalog item to analyze.
// It is supplied by the caller and never mutated.
type ProductAnalysisInput struct {
	ProductID   string   `json:"productId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// ColorSelection holds the heuristic tier's single color pick.
type ColorSelection struct {
	Primary string `json:"primary"`
}

// ProductAnalysisResult is the keyword tier's classification of one item.
type ProductAnalysisResult struct {
	ProductID           string         `json:"productId"`
	SceneType           SceneType      `json:"sceneType"`
	ProductType         string         `json:"productType"`
	Style               []Style        `json:"style"`
	Materials           []Material     `json:"materials"`
	Colors              ColorSelection `json:"colors"`
	SuggestedSceneTypes []SceneType    `json:"suggestedSceneTypes"`
	SuggestedStyles     []Style        `json:"suggestedStyles"`
	PromptKeywords      []string       `json:"promptKeywords"`
	Confidence          float64        `json:"confidence"`
}

// ColorScheme is a named group of hex colors.
type ColorScheme struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// SizeInfo describes an item's size bucket with optional exact dimensions.
type SizeInfo struct {
	Type       SizeClass `json:"type"`
	Dimensions string    `json:"dimensions,omitempty"`
}

// AIAnalysisResult is the vision tier's classification of one item. Results
// synthesized from the heuristic tier share this shape with
// AnalysisMethod set to MethodFallback.
type AIAnalysisResult struct {
	ProductType    string         `json:"productType"`
	SceneTypes     []SceneType    `json:"sceneTypes"`
	ColorSchemes   []ColorScheme  `json:"colorSchemes"`
	Materials      []Material     `json:"materials"`
	Size           SizeInfo       `json:"size"`
	Styles         []Style        `json:"styles"`
	Confidence     float64        `json:"confidence"`
	AnalysisMethod AnalysisMethod `json:"analysisMethod"`
}

// BatchAnalysisResult aggregates an analyzed collection of items.
type BatchAnalysisResult struct {
	SceneTypeDistribution          map[SceneType]int       `json:"sceneTypeDistribution"`
	ProductTypes                   []string                `json:"productTypes"`
	DominantCategory               string                  `json:"dominantCategory"`
	SuggestedStyles                []Style                 `json:"suggestedStyles"`
	RecommendedInspirationKeywords []string                `json:"recommendedInspirationKeywords"`
	ProductRoomAssignments         map[string]SceneType    `json:"productRoomAssignments"`
	Products                       []ProductAnalysisResult `json:"products"`
	AnalyzedAt                     time.Time               `json:"analyzedAt"`
}
