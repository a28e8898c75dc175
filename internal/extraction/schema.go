package extraction

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed result.schema.json
var resultSchemaJSON string

var resultSchema = jsonschema.MustCompileString("result.schema.json", resultSchemaJSON)

// Validate checks r against the JSON schema of the output contract.
func Validate(r *Result) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	if err := resultSchema.Validate(v); err != nil {
		return fmt.Errorf("result does not match schema: %w", err)
	}
	return nil
}
