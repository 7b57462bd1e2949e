package renderers

import (
	"encoding/json"
	"testing"

	"github.com/promptops/skillhub/pkg/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSkill() *skills.Skill {
	return &skills.Skill{
		Name:        "pdf-tools",
		ToolName:    "pdf_tools",
		Description: "Extract text from PDF files",
		Content:     "Use the bundled scripts to extract text.",
		FullPath:    "/bundles/pdf-tools",
	}
}

func sampleResult() *skills.SearchResult {
	return &skills.SearchResult{
		Matches: []skills.SkillMatch{
			{Skill: sampleSkill(), NameMatches: 1, TotalScore: 10},
		},
		TotalMatches: 1,
		TotalSkills:  3,
		Feedback:     "Found 1 skill matching \"pdf\"",
	}
}

func TestMarkdownRendererSkill(t *testing.T) {
	out, err := (&MarkdownRenderer{}).Render(sampleSkill())
	require.NoError(t, err)
	assert.Contains(t, out, "# Skill: pdf-tools")
	assert.Contains(t, out, "/bundles/pdf-tools")
	assert.Contains(t, out, "## Instructions")
	assert.Contains(t, out, "Use the bundled scripts")
}

func TestMarkdownRendererSearchResult(t *testing.T) {
	out, err := (&MarkdownRenderer{}).Render(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, out, "## Skill Search Results")
	assert.Contains(t, out, "### pdf-tools")
	assert.Contains(t, out, "`pdf_tools`")
}

func TestMarkdownRendererResource(t *testing.T) {
	resource := &skills.ResolvedResource{
		AbsolutePath: "/bundles/pdf-tools/references/guide.md",
		Content:      []byte("# Guide\n"),
		MIMEType:     "text/markdown",
	}
	out, err := (&MarkdownRenderer{}).Render(resource)
	require.NoError(t, err)
	assert.Contains(t, out, "text/markdown")
	assert.Contains(t, out, "# Guide")
}

func TestMarkdownRendererUnsupportedPayload(t *testing.T) {
	_, err := (&MarkdownRenderer{}).Render(42)
	assert.Error(t, err)
}

func TestJSONRenderer(t *testing.T) {
	out, err := (&JSONRenderer{}).Render(sampleSkill())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "pdf-tools", decoded["name"])
}

func TestTextRenderer(t *testing.T) {
	out, err := (&TextRenderer{}).Render(sampleResult())
	require.NoError(t, err)
	assert.Contains(t, out, "pdf-tools")
	assert.Contains(t, out, "Extract text from PDF files")

	raw, err := (&TextRenderer{}).Render(&skills.ResolvedResource{Content: []byte("plain body")})
	require.NoError(t, err)
	assert.Equal(t, "plain body", raw)
}

func TestRegistryRenderFor(t *testing.T) {
	registry := NewRegistry("markdown", map[string]string{"skill_search": "json"})

	out, err := registry.RenderFor("skill_search", sampleResult())
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	fallback, err := registry.RenderFor("skill_resource", sampleSkill())
	require.NoError(t, err)
	assert.Contains(t, fallback, "# Skill: pdf-tools")
}

func TestRegistryRenderForUnknownFormat(t *testing.T) {
	registry := NewRegistry("bogus", nil)
	_, err := registry.RenderFor("anything", sampleSkill())
	assert.Error(t, err)
}
