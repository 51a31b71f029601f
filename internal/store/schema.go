package store

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const recordSchemaURL = "schema://score-record.json"

// recordSchema describes one history line.
const recordSchema = `{
	"type": "object",
	"required": ["wpm", "accuracy", "duration", "awpm", "date_time"],
	"properties": {
		"wpm": {"type": "number", "minimum": 0},
		"accuracy": {"type": "number", "minimum": 0, "maximum": 1},
		"duration": {"type": "number", "exclusiveMinimum": 0},
		"awpm": {"type": "number", "minimum": 0},
		"date_time": {"type": "string", "minLength": 1}
	}
}`

func compileRecordSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(recordSchema))
	if err != nil {
		return nil, fmt.Errorf("parse record schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(recordSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add record schema: %w", err)
	}
	schema, err := c.Compile(recordSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	return schema, nil
}
