package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/marchcraft/drover/pkg/work"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&work.WorkItem{})
	schema.Title = "Drover Work Item"
	schema.Description = "Schema for drover work item frontmatter in markdown files."

	// Frontmatter should not require all fields
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling item schema: %v", err)
	}
	if err := os.WriteFile("drover-item.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing item schema file: %v", err)
	}
	log.Printf("Successfully generated item schema at drover-item.schema.json")

	settingsSchema := r.Reflect(&work.Settings{})
	settingsSchema.Title = "Drover Settings"
	settingsSchema.Description = "Schema for the .drover/settings.yml file."
	settingsSchema.Required = nil

	settingsData, err := json.MarshalIndent(settingsSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling settings schema: %v", err)
	}
	if err := os.WriteFile("drover-settings.schema.json", settingsData, 0644); err != nil {
		log.Fatalf("Error writing settings schema file: %v", err)
	}
	log.Printf("Successfully generated settings schema at drover-settings.schema.json")
}
