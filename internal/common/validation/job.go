package validation

import (
	"encoding/json"
	"fmt"

	"creator-campaign-workers/internal/common/errors"
)

// DecodeVariables checks raw job variables against schema and decodes them
// into out. A nil schema skips the check. Failures are INVALID_JOB_INPUT.
func DecodeVariables(schema *Schema, variables string, out interface{}) error {
	if variables == "" {
		variables = "{}"
	}
	if schema != nil {
		result, err := schema.Validate(variables)
		if err != nil {
			return errors.NewInvalidJobInputError(err.Error())
		}
		if !result.Valid {
			return errors.NewInvalidJobInputError(result.Summary())
		}
	}
	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewInvalidJobInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return nil
}
