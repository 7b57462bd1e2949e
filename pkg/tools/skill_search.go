package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/promptops/skillhub/pkg/renderers"
	"github.com/promptops/skillhub/pkg/skills"
	"go.opentelemetry.io/otel/attribute"
)

// SkillSearchTool searches the registry by query string.
type SkillSearchTool struct {
	registry  *skills.Registry
	renderers *renderers.Registry
}

// SkillSearchInput defines the input parameters for the skill_search tool.
type SkillSearchInput struct {
	Query string `json:"query" jsonschema:"description=Search terms; prefix a term with - to exclude it"`
}

// NewSkillSearchTool creates a skill_search tool.
func NewSkillSearchTool(registry *skills.Registry, rr *renderers.Registry) *SkillSearchTool {
	return &SkillSearchTool{registry: registry, renderers: rr}
}

// Name returns the tool name.
func (t *SkillSearchTool) Name() string { return "skill_search" }

// Description returns the tool description.
func (t *SkillSearchTool) Description() string {
	return `Search available skills by name and description.

Terms are matched case-insensitively against skill names and descriptions.
All terms must match; prefix a term with "-" to exclude skills matching it.`
}

// GenerateSchema generates the JSON schema for the tool's input.
func (t *SkillSearchTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[SkillSearchInput]()
}

// ValidateInput validates the input parameters.
func (t *SkillSearchTool) ValidateInput(parameters string) error {
	var input SkillSearchInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if input.Query == "" {
		return errors.New("query is required")
	}
	return nil
}

// TracingKVs returns tracing key-value pairs for observability.
func (t *SkillSearchTool) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input SkillSearchInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}
	return []attribute.KeyValue{attribute.String("query", input.Query)}, nil
}

// Execute runs the search and renders the result.
func (t *SkillSearchTool) Execute(ctx context.Context, parameters string) (string, error) {
	var input SkillSearchInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return "", errors.Wrap(err, "invalid input")
	}
	result, err := t.registry.Search(ctx, input.Query)
	if err != nil {
		return "", err
	}
	return t.renderers.RenderFor(t.Name(), result)
}
