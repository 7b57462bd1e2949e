package skills

import (
	"bytes"
	"context"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// minDescriptionLength is the minimum accepted length for the description
// frontmatter field after trimming whitespace.
const minDescriptionLength = 10

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// manifestFields is the typed view of the frontmatter map.
type manifestFields struct {
	Name         string            `mapstructure:"name"`
	Description  string            `mapstructure:"description"`
	License      string            `mapstructure:"license"`
	Metadata     map[string]string `mapstructure:"metadata"`
	AllowedTools any               `mapstructure:"allowed-tools"`
}

// ParseSkill parses raw manifest text into a Skill rooted at bundleRoot.
// The pipeline strips a UTF-8 BOM and any generated banner comments
// prepended by tooling, requires a frontmatter block with name and
// description, extracts the markdown body, derives the tool name, and
// populates resource maps via the indexer.
func ParseSkill(ctx context.Context, rawText []byte, bundleRoot, manifestPath string, ix *Indexer) (*Skill, error) {
	text := stripLeadingNoise(string(bytes.TrimPrefix(rawText, utf8BOM)))
	if !strings.HasPrefix(text, "---") {
		return nil, &ManifestFormatError{Path: manifestPath}
	}

	fields, err := parseFrontmatter(text)
	if err != nil {
		return nil, &ManifestFormatError{Path: manifestPath}
	}

	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, &ManifestValidationError{Path: manifestPath, Field: "name", Reason: "is required"}
	}
	description := strings.TrimSpace(fields.Description)
	if len(description) < minDescriptionLength {
		return nil, &ManifestValidationError{
			Path: manifestPath, Field: "description",
			Reason: "must be at least 10 characters",
		}
	}
	toolName := DeriveToolName(name)
	if toolName == "" {
		return nil, &ManifestValidationError{
			Path: manifestPath, Field: "name",
			Reason: "contains no usable identifier characters",
		}
	}

	skill := &Skill{
		Name:         name,
		ToolName:     toolName,
		Description:  description,
		Content:      extractBody(text),
		Path:         manifestPath,
		FullPath:     bundleRoot,
		Metadata:     fields.Metadata,
		License:      strings.TrimSpace(fields.License),
		AllowedTools: parseAllowedTools(fields.AllowedTools),
	}

	idx := ix.Index(ctx, bundleRoot, manifestPath)
	skill.Scripts = idx.Scripts
	skill.References = idx.References
	skill.Assets = idx.Assets
	skill.Resources = idx.Resources

	return skill, nil
}

// parseFrontmatter runs the goldmark frontmatter extension over text and
// decodes the resulting metadata map into typed fields.
func parseFrontmatter(text string) (*manifestFields, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(text), &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	fields := &manifestFields{}
	if err := mapstructure.WeakDecode(metaData, fields); err != nil {
		return nil, errors.Wrap(err, "failed to decode frontmatter fields")
	}
	return fields, nil
}

// stripLeadingNoise removes leading blank lines and HTML comment blocks
// from the start of the document, including comment blocks separated only
// by blank lines. A comment block preceded by real content is left intact.
func stripLeadingNoise(text string) string {
	for {
		trimmed := strings.TrimLeft(text, " \t\r\n")
		if !strings.HasPrefix(trimmed, "<!--") {
			return trimmed
		}
		end := strings.Index(trimmed, "-->")
		if end == -1 {
			// unterminated comment, leave for the frontmatter check to reject
			return trimmed
		}
		text = trimmed[end+len("-->"):]
	}
}

// extractBody returns the markdown body following the closing frontmatter
// delimiter.
func extractBody(text string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return ""
}

// parseAllowedTools accepts either a comma-separated string or a YAML list.
func parseAllowedTools(v any) []string {
	var raw []string
	switch value := v.(type) {
	case string:
		raw = strings.Split(value, ",")
	case []any:
		for _, item := range value {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = value
	default:
		return nil
	}

	tools := make([]string, 0, len(raw))
	for _, tool := range raw {
		if trimmed := strings.TrimSpace(tool); trimmed != "" {
			tools = append(tools, trimmed)
		}
	}
	if len(tools) == 0 {
		return nil
	}
	return tools
}

// DeriveToolName derives the callable identifier for a skill name:
// lower-cased, separator runs collapsed to a single underscore, characters
// outside [a-z0-9_] dropped. The derivation folds simple case and
// separator variants of the same logical name onto one identifier.
func DeriveToolName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/' || r == ':':
			pendingSep = true
		}
	}
	return b.String()
}

// NormalizeAlias is the pure normalization applied to alias keys at both
// write and read time: lower-case with hyphens and spaces folded to
// underscores.
func NormalizeAlias(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.ReplaceAll(key, "-", "_")
	return strings.ReplaceAll(key, " ", "_")
}
