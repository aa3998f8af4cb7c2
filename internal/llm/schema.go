package llm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
)

// FunctionSchema describes a function the model is asked to call.
type FunctionSchema struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// FunctionSchemaFor reflects the JSON schema of v's type into a FunctionSchema.
func FunctionSchemaFor(name, description string, v any) (*FunctionSchema, error) {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: false,
	}
	schema := r.Reflect(v)
	if schema == nil {
		return nil, errors.New("generated JSON Schema is nil")
	}
	// Providers reject the $schema/$id keys inside tool parameters.
	schema.Version = ""
	schema.ID = ""

	params, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema for %s: %w", name, err)
	}
	return &FunctionSchema{Name: name, Description: description, Parameters: params}, nil
}

// DecodeArguments unmarshals the function arguments of resp into v. When the
// provider returned plain JSON content instead, the content is decoded.
func DecodeArguments(resp *CompletionResponse, v any) error {
	raw := resp.Arguments
	if len(raw) == 0 {
		raw = json.RawMessage(resp.Content)
	}
	if len(raw) == 0 {
		return errors.New("response carries no function arguments")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode function arguments: %w", err)
	}
	return nil
}
