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

// SkillResourceTool resolves a resource file inside a skill bundle and
// returns its content.
type SkillResourceTool struct {
	registry  *skills.Registry
	renderers *renderers.Registry
}

// SkillResourceInput defines the input parameters for the skill_resource
// tool.
type SkillResourceInput struct {
	SkillName    string `json:"skill_name" jsonschema:"description=Name or tool name of the skill"`
	Type         string `json:"type,omitempty" jsonschema:"description=Resource type such as script/reference/asset/workflow/tool"`
	RelativePath string `json:"relative_path,omitempty" jsonschema:"description=Bundle-relative path of the resource"`
}

// NewSkillResourceTool creates a skill_resource tool.
func NewSkillResourceTool(registry *skills.Registry, rr *renderers.Registry) *SkillResourceTool {
	return &SkillResourceTool{registry: registry, renderers: rr}
}

// Name returns the tool name.
func (t *SkillResourceTool) Name() string { return "skill_resource" }

// Description returns the tool description.
func (t *SkillResourceTool) Description() string {
	return `Read a resource file from a skill bundle.

Resources are addressed by type (script, reference, asset, workflow, tool)
and a bundle-relative path. Paths are matched case-insensitively and never
escape the bundle directory.`
}

// GenerateSchema generates the JSON schema for the tool's input.
func (t *SkillResourceTool) GenerateSchema() *jsonschema.Schema {
	return GenerateSchema[SkillResourceInput]()
}

// ValidateInput validates the input parameters.
func (t *SkillResourceTool) ValidateInput(parameters string) error {
	var input SkillResourceInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if input.SkillName == "" {
		return errors.New("skill_name is required")
	}
	if input.Type == "" && input.RelativePath == "" {
		return errors.New("either type or relative_path is required")
	}
	return nil
}

// TracingKVs returns tracing key-value pairs for observability.
func (t *SkillResourceTool) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input SkillResourceInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}
	return []attribute.KeyValue{
		attribute.String("skill_name", input.SkillName),
		attribute.String("type", input.Type),
		attribute.String("relative_path", input.RelativePath),
	}, nil
}

// Execute resolves the resource and renders its content.
func (t *SkillResourceTool) Execute(ctx context.Context, parameters string) (string, error) {
	var input SkillResourceInput
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return "", errors.Wrap(err, "invalid input")
	}
	resource, err := t.registry.Resolve(ctx, input.SkillName, input.Type, input.RelativePath)
	if err != nil {
		return "", err
	}
	return t.renderers.RenderFor(t.Name(), resource)
}
