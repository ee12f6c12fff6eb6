package heuristic

import "github.com/raine/catalog-vision/catalog"

// Keyword tables are ordered slices so ties resolve to the earliest entry
// deterministically.

type sceneEntry struct {
	Scene    catalog.SceneType
	Keywords []string
}

var sceneKeywords = []sceneEntry{
	{catalog.SceneLivingRoom, []string{
		"sofa", "couch", "sectional", "loveseat", "coffee table", "tv stand",
		"armchair", "media console", "ottoman", "recliner",
	}},
	{catalog.SceneBedroom, []string{
		"bed", "mattress", "nightstand", "dresser", "wardrobe", "headboard",
		"bedside", "duvet", "vanity",
	}},
	{catalog.SceneDiningRoom, []string{
		"dining", "table", "sideboard", "buffet", "bar stool", "seats",
		"tableware", "placemat",
	}},
	{catalog.SceneKitchen, []string{
		"kitchen", "counter", "cabinet", "pantry", "island", "cookware",
		"cutting board",
	}},
	{catalog.SceneOffice, []string{
		"desk", "office", "bookshelf", "bookcase", "filing", "monitor stand",
		"workstation", "ergonomic",
	}},
	{catalog.SceneBathroom, []string{
		"bathroom", "bath", "shower", "towel", "sink", "mirror cabinet",
		"toilet",
	}},
	{catalog.SceneKidsRoom, []string{
		"kids", "crib", "nursery", "bunk", "toy", "playroom", "children",
	}},
	{catalog.SceneOutdoor, []string{
		"outdoor", "patio", "garden", "balcony", "deck", "parasol",
		"sun lounger", "terrace",
	}},
}

type styleEntry struct {
	Style    catalog.Style
	Keywords []string
}

var styleKeywords = []styleEntry{
	{catalog.StyleModern, []string{"modern", "contemporary", "sleek"}},
	{catalog.StyleScandinavian, []string{"scandinavian", "nordic", "scandi"}},
	{catalog.StyleIndustrial, []string{"industrial", "loft", "factory"}},
	{catalog.StyleRustic, []string{"rustic", "farmhouse", "country", "reclaimed"}},
	{catalog.StyleMinimalist, []string{"minimalist", "minimal", "clean lines"}},
	{catalog.StyleTraditional, []string{"traditional", "classic", "antique", "vintage"}},
	{catalog.StyleBohemian, []string{"bohemian", "boho", "eclectic"}},
	{catalog.StyleMidCentury, []string{"mid-century", "midcentury", "retro"}},
}

type materialEntry struct {
	Material catalog.Material
	Keywords []string
}

var materialKeywords = []materialEntry{
	{catalog.MaterialWood, []string{
		"wood", "wooden", "oak", "pine", "walnut", "teak", "birch", "mahogany",
		"ash", "beech",
	}},
	{catalog.MaterialMetal, []string{
		"metal", "steel", "iron", "aluminium", "aluminum", "brass", "chrome",
	}},
	{catalog.MaterialGlass, []string{"glass", "tempered", "mirrored"}},
	{catalog.MaterialFabric, []string{
		"fabric", "upholstered", "linen", "cotton", "textile", "wool",
	}},
	{catalog.MaterialLeather, []string{"leather", "suede"}},
	{catalog.MaterialPlastic, []string{"plastic", "acrylic", "polypropylene"}},
	{catalog.MaterialRattan, []string{"rattan", "wicker", "bamboo", "cane"}},
	{catalog.MaterialStone, []string{"stone", "marble", "granite", "concrete"}},
	{catalog.MaterialVelvet, []string{"velvet"}},
}

// sceneAdjacency maps each scene type to one complementary scene, used to
// pad suggestedSceneTypes with a second option.
var sceneAdjacency = map[catalog.SceneType]catalog.SceneType{
	catalog.SceneLivingRoom: catalog.SceneOffice,
	catalog.SceneOffice:     catalog.SceneLivingRoom,
	catalog.SceneBedroom:    catalog.SceneLivingRoom,
	catalog.SceneDiningRoom: catalog.SceneKitchen,
	catalog.SceneKitchen:    catalog.SceneDiningRoom,
	catalog.SceneBathroom:   catalog.SceneBedroom,
	catalog.SceneKidsRoom:   catalog.SceneBedroom,
	catalog.SceneOutdoor:    catalog.SceneLivingRoom,
}

// productTypeKeywords maps item nouns to a product type label. Ordered so
// more specific nouns win over generic ones.
var productTypeKeywords = []struct {
	Type     string
	Keywords []string
}{
	{"sofa", []string{"sofa", "couch", "sectional", "loveseat"}},
	{"table", []string{"table", "desk"}},
	{"chair", []string{"chair", "stool", "armchair", "recliner"}},
	{"bed", []string{"bed", "mattress"}},
	{"storage", []string{"shelf", "bookcase", "cabinet", "dresser", "wardrobe", "sideboard"}},
	{"lighting", []string{"lamp", "light", "chandelier", "sconce"}},
	{"rug", []string{"rug", "carpet"}},
	{"decor", []string{"mirror", "vase", "artwork", "cushion", "curtain"}},
}
