package llm

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"

	"github.com/raine/catalog-vision/catalog"
)

// deindent trims and dedents a prompt template before interpolation.
func deindent(text string, a ...interface{}) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

const singlePromptTemplate = `
	Analyze this product for staging in generated interior scenes.

	Product metadata:
	%s

	Respond in JSON format with these fields:
	- productType: a short lowercase noun for the product (e.g. "sofa", "table", "lighting")
	- sceneTypes: 1-3 room types this product suits best, ordered best first. Allowed values: %s
	- colorSchemes: list of {"name": string, "colors": [hex strings]} describing the product's palette. Colors MUST be 6-digit hex codes like "#3B2005", never color names.
	- materials: the product's visible materials. Allowed values: %s
	- size: {"type": one of "small", "medium", "large", "specific", "dimensions": optional string with exact measurements}
	- styles: 1-3 design styles, ordered best first. Allowed values: %s

	Example response:
	{"productType": "sofa", "sceneTypes": ["Living Room", "Office"], "colorSchemes": [{"name": "Earth", "colors": ["#8B4513", "#F5F5DC"]}], "materials": ["Fabric", "Wood"], "size": {"type": "large"}, "styles": ["Scandinavian", "Minimalist"]}

	Respond ONLY with the JSON object, no markdown or other text.`

const batchPromptTemplate = `
	Analyze these products for staging in generated interior scenes. Each
	product has a metadata block tagged with its productId; images follow in
	the same order for products that have one.

	Products:
	%s

	Respond with a JSON array containing one entry per product, in the same
	order as the metadata blocks. Each entry must include the "productId"
	field copied from the metadata plus:
	- productType: a short lowercase noun for the product
	- sceneTypes: 1-3 room types, ordered best first. Allowed values: %s
	- colorSchemes: list of {"name": string, "colors": [hex strings]}. Colors MUST be 6-digit hex codes, never color names.
	- materials: visible materials. Allowed values: %s
	- size: {"type": one of "small", "medium", "large", "specific", "dimensions": optional string}
	- styles: 1-3 design styles, ordered best first. Allowed values: %s

	Respond ONLY with the JSON array, no markdown or other text.`

func singlePrompt(input catalog.ProductAnalysisInput) string {
	return deindent(singlePromptTemplate,
		metadataBlock(input),
		joinSceneTypes(),
		joinMaterials(),
		joinStyles(),
	)
}

func batchPrompt(inputs []catalog.ProductAnalysisInput) string {
	blocks := make([]string, len(inputs))
	for i, input := range inputs {
		blocks[i] = metadataBlock(input)
	}
	return deindent(batchPromptTemplate,
		strings.Join(blocks, "\n\n"),
		joinSceneTypes(),
		joinMaterials(),
		joinStyles(),
	)
}

// metadataBlock renders one product's textual metadata for the prompt.
func metadataBlock(input catalog.ProductAnalysisInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "productId: %s\n", input.ProductID)
	fmt.Fprintf(&b, "Name: %s\n", input.Name)
	if input.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", input.Description)
	}
	if input.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", input.Category)
	}
	if len(input.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(input.Tags, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func joinSceneTypes() string {
	names := make([]string, len(catalog.KnownSceneTypes))
	for i, s := range catalog.KnownSceneTypes {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func joinStyles() string {
	names := make([]string, len(catalog.KnownStyles))
	for i, s := range catalog.KnownStyles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func joinMaterials() string {
	names := make([]string, len(catalog.KnownMaterials))
	for i, m := range catalog.KnownMaterials {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
