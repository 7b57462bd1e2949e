// Package skills implements the skill registry core: discovery and parsing
// of SKILL.md manifest bundles, alias-aware registration, ranked search over
// skill names and descriptions, and traversal-safe resolution of bundle
// resources for injection into an LLM prompt. Skills are packaged as
// directories containing a SKILL.md file with YAML frontmatter plus
// supporting scripts, references, assets, and free-form resource trees.
package skills

import "strings"

// ResourceEntry describes one indexed file inside a skill bundle.
type ResourceEntry struct {
	AbsolutePath string `json:"absolute_path"`
	MIMEType     string `json:"mime_type"`
}

// ResourceMap maps normalized bundle-relative paths (forward slashes, no
// leading or trailing slash) to resource entries. Keys preserve the on-disk
// case; lookups fall back to a case-insensitive pass.
type ResourceMap map[string]ResourceEntry

// Lookup returns the entry for rel, trying an exact match first and a
// case-insensitive scan second.
func (m ResourceMap) Lookup(rel string) (ResourceEntry, bool) {
	if entry, ok := m[rel]; ok {
		return entry, true
	}
	lower := strings.ToLower(rel)
	for key, entry := range m {
		if strings.ToLower(key) == lower {
			return entry, true
		}
	}
	return ResourceEntry{}, false
}

// Has reports whether rel resolves to an indexed entry.
func (m ResourceMap) Has(rel string) bool {
	_, ok := m.Lookup(rel)
	return ok
}

// Skill is one parsed manifest bundle. A Skill is immutable once
// constructed; re-registration replaces the record wholesale.
type Skill struct {
	Name         string            `json:"name"`      // declared id from frontmatter
	ToolName     string            `json:"tool_name"` // sanitized callable identifier derived from Name
	Description  string            `json:"description"`
	Content      string            `json:"content"`            // markdown body following the frontmatter
	Path         string            `json:"path"`               // manifest file location
	FullPath     string            `json:"full_path"`          // bundle root directory
	Metadata     map[string]string `json:"metadata,omitempty"` // free-form frontmatter metadata
	License      string            `json:"license,omitempty"`
	AllowedTools []string          `json:"allowed_tools,omitempty"` // informational only, not enforced here

	Scripts    ResourceMap `json:"scripts,omitempty"`
	References ResourceMap `json:"references,omitempty"`
	Assets     ResourceMap `json:"assets,omitempty"`
	Resources  ResourceMap `json:"resources,omitempty"` // unified bundle-wide index
}

// sameSkill reports whether two records describe the same logical skill,
// i.e. the same declared name rooted at the same bundle directory. Used to
// distinguish an idempotent refresh from an alias collision.
func sameSkill(a, b *Skill) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.FullPath == b.FullPath
}
