package skills

import (
	"os"
	"regexp"
	"strings"
)

// ResolvedResource is a successfully resolved bundle resource with its
// content read from disk.
type ResolvedResource struct {
	AbsolutePath string `json:"absolute_path"`
	Content      []byte `json:"content"`
	MIMEType     string `json:"mime_type"`
}

var drivePrefixRe = regexp.MustCompile(`^[a-zA-Z]:`)

// legacy type tokens accepted case-insensitively, singular and plural
var legacyTypes = map[string]string{
	"script": legacyDirScripts, "scripts": legacyDirScripts,
	"reference": legacyDirReferences, "references": legacyDirReferences,
	"asset": legacyDirAssets, "assets": legacyDirAssets,
}

// resourceProbe is one pure lookup strategy, evaluated in order until one
// succeeds.
type resourceProbe func(skill *Skill, resType, relPath string) (ResourceEntry, bool)

var resourceProbes = []resourceProbe{
	probeLegacyTyped,
	probeUnified,
	probeInferredLegacyPrefix,
}

// ResolveResource resolves a resource of a skill by type and relative path
// and reads its bytes. The path safety gate runs first, unconditionally:
// empty, absolute, drive-letter, and parent-escaping paths are rejected
// with ResourceNotFoundError. Lookup tries legacy typed maps, the unified
// map with Workflows/Tools conventions, an inferred legacy prefix, and
// finally the type argument itself as a path when no relative path was
// supplied. A hit whose file read fails yields ResourceReadError.
func ResolveResource(skill *Skill, resType, relPath string) (*ResolvedResource, error) {
	notFound := &ResourceNotFoundError{Skill: skill.Name, Type: resType, Path: relPath}

	if relPath == "" {
		// Last resort: the type argument itself may carry the path, as long
		// as it is not a recognized type token.
		if resType == "" || isTypeToken(resType) {
			return nil, notFound
		}
		candidate, ok := normalizeRequestPath(resType)
		if !ok {
			return nil, notFound
		}
		if entry, ok := probeTypeAsPath(skill, candidate); ok {
			return readEntry(skill, candidate, entry)
		}
		return nil, notFound
	}

	candidate, ok := normalizeRequestPath(relPath)
	if !ok {
		return nil, notFound
	}

	for _, probe := range resourceProbes {
		if entry, ok := probe(skill, resType, candidate); ok {
			return readEntry(skill, candidate, entry)
		}
	}
	return nil, notFound
}

// normalizeRequestPath converts backslashes to forward slashes, collapses
// redundant slashes and "." segments, and rejects unsafe candidates:
// empty paths, absolute paths, drive-letter paths, and any remaining ".."
// segment. Case is never folded here.
func normalizeRequestPath(p string) (string, bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "/") || drivePrefixRe.MatchString(p) {
		return "", false
	}

	segments := strings.Split(p, "/")
	normalized := segments[:0]
	for _, segment := range segments {
		switch segment {
		case "", ".":
			continue
		case "..":
			return "", false
		default:
			normalized = append(normalized, segment)
		}
	}
	if len(normalized) == 0 {
		return "", false
	}
	return strings.Join(normalized, "/"), true
}

func isTypeToken(resType string) bool {
	t := strings.ToLower(resType)
	if _, ok := legacyTypes[t]; ok {
		return true
	}
	switch t {
	case "workflow", "workflows", "tool", "tools", "resource", "resources", "doc", "docs":
		return true
	}
	return false
}

// probeLegacyTyped matches the type against a legacy map and tries the
// path as-is and prefixed with the type directory.
func probeLegacyTyped(skill *Skill, resType, relPath string) (ResourceEntry, bool) {
	dir, ok := legacyTypes[strings.ToLower(resType)]
	if !ok {
		return ResourceEntry{}, false
	}
	m := legacyMap(skill, dir)
	if entry, ok := m.Lookup(relPath); ok {
		return entry, true
	}
	return m.Lookup(dir + "/" + relPath)
}

// probeUnified looks the path up in the unified map, applying the
// Workflows/ and Tools/ prefix conventions for the corresponding types and
// prefix fallbacks for generic types.
func probeUnified(skill *Skill, resType, relPath string) (ResourceEntry, bool) {
	if skill.Resources == nil {
		return ResourceEntry{}, false
	}
	var candidates []string
	switch strings.ToLower(resType) {
	case "workflow", "workflows":
		candidates = []string{relPath, "Workflows/" + relPath}
	case "tool", "tools":
		candidates = []string{relPath, "Tools/" + relPath}
	case "", "resource", "resources", "doc", "docs":
		candidates = []string{relPath, "Workflows/" + relPath, "Tools/" + relPath}
	default:
		return ResourceEntry{}, false
	}
	for _, candidate := range candidates {
		if entry, ok := skill.Resources.Lookup(candidate); ok {
			return entry, true
		}
	}
	return ResourceEntry{}, false
}

// probeInferredLegacyPrefix retries the legacy lookup when the path itself
// carries a recognizable legacy directory prefix.
func probeInferredLegacyPrefix(skill *Skill, _, relPath string) (ResourceEntry, bool) {
	prefix, _, found := strings.Cut(relPath, "/")
	if !found {
		return ResourceEntry{}, false
	}
	dir, ok := legacyTypes[strings.ToLower(prefix)]
	if !ok {
		return ResourceEntry{}, false
	}
	return legacyMap(skill, dir).Lookup(relPath)
}

// probeTypeAsPath probes the unified map and then each legacy map with the
// bare candidate path.
func probeTypeAsPath(skill *Skill, candidate string) (ResourceEntry, bool) {
	if skill.Resources != nil {
		if entry, ok := skill.Resources.Lookup(candidate); ok {
			return entry, true
		}
	}
	for _, m := range []ResourceMap{skill.Scripts, skill.References, skill.Assets} {
		if entry, ok := m.Lookup(candidate); ok {
			return entry, true
		}
	}
	return ResourceEntry{}, false
}

func legacyMap(skill *Skill, dir string) ResourceMap {
	switch dir {
	case legacyDirScripts:
		return skill.Scripts
	case legacyDirReferences:
		return skill.References
	default:
		return skill.Assets
	}
}

func readEntry(skill *Skill, relPath string, entry ResourceEntry) (*ResolvedResource, error) {
	content, err := os.ReadFile(entry.AbsolutePath)
	if err != nil {
		return nil, &ResourceReadError{Skill: skill.Name, Path: relPath, Err: err}
	}
	return &ResolvedResource{
		AbsolutePath: entry.AbsolutePath,
		Content:      content,
		MIMEType:     entry.MIMEType,
	}, nil
}
