// Package tools adapts the skill registry to a tool-calling runtime: each
// tool takes JSON parameters, validates them against a generated schema,
// and returns rendered text for the model. The hosting runtime owns tool
// registration and transport; these adapters only bridge parameters to
// registry operations.
package tools

import (
	"context"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
)

// Tool is the contract the hosting runtime consumes.
type Tool interface {
	Name() string
	Description() string
	GenerateSchema() *jsonschema.Schema
	ValidateInput(parameters string) error
	TracingKVs(parameters string) ([]attribute.KeyValue, error)
	Execute(ctx context.Context, parameters string) (string, error)
}

// GenerateSchema builds a JSON schema for a tool input type.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
