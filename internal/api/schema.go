package api

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed actions_schema.json
var actionsSchemaJSON string

// actionsSchema validates POST /api/v1/actions bodies before they reach the
// session. Compiled once at startup; a broken embedded schema is a build
// defect.
var actionsSchema = jsonschema.MustCompileString("actions_schema.json", actionsSchemaJSON)

// validateSubmission checks raw JSON against the action submission schema.
func validateSubmission(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := actionsSchema.Validate(doc); err != nil {
		return fmt.Errorf("submission rejected: %w", err)
	}
	return nil
}
