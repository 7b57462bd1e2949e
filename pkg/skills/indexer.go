package skills

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/promptops/skillhub/pkg/logger"
)

// ManifestFileName is the canonical manifest filename inside a skill bundle.
const ManifestFileName = "SKILL.md"

// legacy resource categories with fixed subdirectory names
const (
	legacyDirScripts    = "scripts"
	legacyDirReferences = "references"
	legacyDirAssets     = "assets"
)

// excludedPrefixes are bundle-relative path prefixes that never appear in
// the unified resource map.
var excludedPrefixes = []string{"USER/", "WORK/", "node_modules/"}

var mimeByExtension = map[string]string{
	".md":   "text/markdown",
	".txt":  "text/plain",
	".sh":   "application/x-sh",
	".bash": "application/x-sh",
	".py":   "text/x-python",
	".js":   "text/javascript",
	".ts":   "text/typescript",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".toml": "application/toml",
	".html": "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".xml":  "application/xml",
	".svg":  "image/svg+xml",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
}

const defaultMIMEType = "application/octet-stream"

// MIMETypeFor derives a MIME type from the file extension, defaulting to
// application/octet-stream for unknown extensions.
func MIMETypeFor(path string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return defaultMIMEType
}

// Index holds the resource maps built for one skill bundle: the three
// legacy typed maps plus the unified bundle-wide map.
type Index struct {
	Scripts    ResourceMap
	References ResourceMap
	Assets     ResourceMap
	Resources  ResourceMap
}

// Indexer walks skill bundle directories and builds resource maps. Beyond
// the fixed exclusion set (USER/, WORK/, node_modules/, dot-directories)
// it honors additional glob exclusion patterns matched against
// bundle-relative paths.
type Indexer struct {
	extraExcludes []glob.Glob
}

// NewIndexer creates an Indexer. Exclusion patterns use gobwas/glob syntax
// with '/' as the separator, e.g. "tmp/**" or "**/*.bak".
func NewIndexer(excludePatterns ...string) (*Indexer, error) {
	ix := &Indexer{}
	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid exclusion pattern %q", pattern)
		}
		ix.extraExcludes = append(ix.extraExcludes, g)
	}
	return ix, nil
}

// Index builds resource maps for the bundle rooted at root. The manifest
// file itself is never indexed into the unified map. A directory branch
// that cannot be listed yields an empty map for that branch and is not
// fatal to the bundle.
func (ix *Indexer) Index(ctx context.Context, root, manifestPath string) *Index {
	idx := &Index{
		Scripts:    ix.indexLegacyDir(ctx, root, legacyDirScripts),
		References: ix.indexLegacyDir(ctx, root, legacyDirReferences),
		Assets:     ix.indexLegacyDir(ctx, root, legacyDirAssets),
	}
	idx.Resources = ix.indexUnified(ctx, root, manifestPath)
	return idx
}

// indexLegacyDir recursively lists one canonical subdirectory, storing keys
// relative to the bundle root (e.g. "scripts/build.sh").
func (ix *Indexer) indexLegacyDir(ctx context.Context, root, dir string) ResourceMap {
	m := make(ResourceMap)
	base := filepath.Join(root, dir)
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			logger.G(ctx).WithError(err).WithField("path", path).Debug("skipping unreadable branch")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		m[key] = ResourceEntry{AbsolutePath: path, MIMEType: MIMETypeFor(path)}
		return nil
	})
	if err != nil {
		logger.G(ctx).WithError(err).WithField("dir", base).Debug("legacy directory listing failed")
	}
	return m
}

// indexUnified walks the entire bundle tree, excluding the manifest file,
// the fixed exclusion prefixes, dot-directories, and any configured extra
// patterns. Case is preserved in keys.
func (ix *Indexer) indexUnified(ctx context.Context, root, manifestPath string) ResourceMap {
	m := make(ResourceMap)
	manifestAbs := filepath.Clean(manifestPath)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.G(ctx).WithError(err).WithField("path", path).Debug("skipping unreadable branch")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		key := filepath.ToSlash(rel)
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || ix.excluded(key+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Clean(path) == manifestAbs || ix.excluded(key) {
			return nil
		}
		m[key] = ResourceEntry{AbsolutePath: path, MIMEType: MIMETypeFor(path)}
		return nil
	})
	if err != nil {
		logger.G(ctx).WithError(err).WithField("root", root).Debug("bundle walk failed")
	}
	return m
}

func (ix *Indexer) excluded(rel string) bool {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	for _, g := range ix.extraExcludes {
		if g.Match(strings.TrimSuffix(rel, "/")) {
			return true
		}
	}
	return false
}
