// Package renderers formats typed registry payloads (skills, search
// results, resolved resources) into strings for prompt injection or CLI
// output. Renderers are registered by format name in a registry that
// supports a configured default plus per-tool overrides; the rest of the
// system treats rendering as opaque.
package renderers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/promptops/skillhub/pkg/skills"
)

// Renderer turns a typed payload into a string.
type Renderer interface {
	Render(data any) (string, error)
}

// Registry maps format names to renderers with a default format and
// per-tool overrides.
type Registry struct {
	formats       map[string]Renderer
	overrides     map[string]string
	defaultFormat string
}

// NewRegistry creates a registry with the built-in markdown, json, and
// text renderers registered.
func NewRegistry(defaultFormat string, overrides map[string]string) *Registry {
	r := &Registry{
		formats:       make(map[string]Renderer),
		overrides:     overrides,
		defaultFormat: defaultFormat,
	}
	r.Register("markdown", &MarkdownRenderer{})
	r.Register("json", &JSONRenderer{})
	r.Register("text", &TextRenderer{})
	return r
}

// Register adds a renderer for a format name.
func (r *Registry) Register(format string, renderer Renderer) {
	r.formats[format] = renderer
}

// RenderFor renders data using the format configured for tool, falling
// back to the default format.
func (r *Registry) RenderFor(tool string, data any) (string, error) {
	format := r.defaultFormat
	if override, ok := r.overrides[tool]; ok && override != "" {
		format = override
	}
	renderer, ok := r.formats[format]
	if !ok {
		return "", errors.Errorf("unknown output format %q", format)
	}
	return renderer.Render(data)
}

// JSONRenderer renders any payload as indented JSON.
type JSONRenderer struct{}

// Render implements Renderer.
func (*JSONRenderer) Render(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal payload")
	}
	return string(out), nil
}

// MarkdownRenderer renders registry payloads as markdown suitable for
// placement in an LLM context.
type MarkdownRenderer struct{}

// Render implements Renderer.
func (*MarkdownRenderer) Render(data any) (string, error) {
	switch payload := data.(type) {
	case *skills.Skill:
		return renderSkillMarkdown(payload), nil
	case *skills.SearchResult:
		return renderSearchMarkdown(payload), nil
	case *skills.ResolvedResource:
		return renderResourceMarkdown(payload), nil
	default:
		return "", errors.Errorf("unsupported payload type %T", data)
	}
}

func renderSkillMarkdown(skill *skills.Skill) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Skill: %s\n\n", skill.Name)
	fmt.Fprintf(&sb, "The skill directory is located at: %s\n\n", skill.FullPath)
	sb.WriteString("## Instructions\n\n")
	sb.WriteString(skill.Content)
	return sb.String()
}

func renderSearchMarkdown(result *skills.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("## Skill Search Results\n\n")
	fmt.Fprintf(&sb, "%s\n\n", result.Feedback)
	for _, match := range result.Matches {
		fmt.Fprintf(&sb, "### %s\n", match.Skill.Name)
		fmt.Fprintf(&sb, "- **Description**: %s\n", match.Skill.Description)
		fmt.Fprintf(&sb, "- **Tool name**: `%s`\n\n", match.Skill.ToolName)
	}
	return sb.String()
}

func renderResourceMarkdown(resource *skills.ResolvedResource) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Resource: %s (%s)\n\n", resource.AbsolutePath, resource.MIMEType)
	sb.Write(resource.Content)
	return sb.String()
}

// TextRenderer renders registry payloads as plain text.
type TextRenderer struct{}

// Render implements Renderer.
func (*TextRenderer) Render(data any) (string, error) {
	switch payload := data.(type) {
	case *skills.Skill:
		return fmt.Sprintf("%s: %s\n%s", payload.Name, payload.Description, payload.Content), nil
	case *skills.SearchResult:
		var sb strings.Builder
		sb.WriteString(payload.Feedback)
		for _, match := range payload.Matches {
			fmt.Fprintf(&sb, "\n%s\t%s", match.Skill.Name, match.Skill.Description)
		}
		return sb.String(), nil
	case *skills.ResolvedResource:
		return string(payload.Content), nil
	default:
		return "", errors.Errorf("unsupported payload type %T", data)
	}
}
