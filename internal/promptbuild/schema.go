package promptbuild

import "encoding/json"

// DefaultSchema is the JSON Schema the LLM's task list must conform
// to, mirroring docmodel.Task's fields and docmodel.TaskKind/Locator's
// closed enums.
var DefaultSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"tasks": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"id", "type", "locator", "instruction"},
				"properties": map[string]any{
					"id":                   map[string]any{"type": "string"},
					"source_annotation_id": map[string]any{"type": []string{"string", "null"}},
					"type": map[string]any{
						"type": "string",
						"enum": []string{
							"rewrite", "insert", "delete", "refresh_toc_numbers",
							"set_paragraph_style", "set_heading_level",
							"apply_template", "replace_hyperlink",
							"rebuild_toc", "update_toc_levels",
						},
					},
					"locator": map[string]any{
						"type":     "object",
						"required": []string{"by", "value"},
						"properties": map[string]any{
							"by":    map[string]any{"type": "string", "enum": []string{"bookmark", "range", "heading", "find"}},
							"value": map[string]any{"type": "string"},
						},
					},
					"instruction": map[string]any{"type": "string"},
					"dependencies": map[string]any{
						"type":    "array",
						"items":   map[string]any{"type": "string"},
						"default": []string{},
					},
					"risk": map[string]any{
						"type":    "string",
						"enum":    []string{"low", "medium", "high"},
						"default": "low",
					},
					"requires_user_review": map[string]any{"type": "boolean", "default": false},
					"notes":                 map[string]any{"type": "string"},
				},
			},
		},
	},
	"required": []string{"tasks"},
}

// DefaultSchemaJSON renders DefaultSchema as indented JSON for
// embedding directly in the user prompt.
func DefaultSchemaJSON() (string, error) {
	b, err := json.MarshalIndent(DefaultSchema, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
