package skills

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkillBundle(t *testing.T, base, dir, name string) string {
	t.Helper()
	bundleDir := filepath.Join(base, dir)
	require.NoError(t, os.MkdirAll(bundleDir, 0o755))
	content := fmt.Sprintf(`---
name: %s
description: Description for skill %s
---

# %s

Instructions for %s.
`, name, name, name, name)
	require.NoError(t, os.WriteFile(filepath.Join(bundleDir, ManifestFileName), []byte(content), 0o644))
	return bundleDir
}

func newTestRegistry(t *testing.T, basePaths ...string) *Registry {
	t.Helper()
	registry, err := NewRegistry(WithBasePaths(basePaths...))
	require.NoError(t, err)
	return registry
}

func TestRegistryInitialize(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	writeSkillBundle(t, base, "alpha", "alpha-skill")
	writeSkillBundle(t, base, "beta", "beta-skill")

	registry := newTestRegistry(t, base)
	assert.Equal(t, StateIdle, registry.State())

	require.NoError(t, registry.Initialize(ctx))
	assert.Equal(t, StateReady, registry.State())
	assert.Equal(t, 2, registry.Controller().Len())

	// a second call is a cheap no-op: bundles added after the ready
	// transition are not picked up
	writeSkillBundle(t, base, "gamma", "gamma-skill")
	require.NoError(t, registry.Initialize(ctx))
	assert.Equal(t, 2, registry.Controller().Len())
}

func TestRegistryDiscoveryStopsAtBundleBoundary(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	writeSkillBundle(t, base, "outer", "outer-skill")
	// manifests nested under bundle subdirectories sorting both before and
	// after SKILL.md must not register as separate skills
	writeSkillBundle(t, base, filepath.Join("outer", "Assets", "inner"), "inner-a")
	writeSkillBundle(t, base, filepath.Join("outer", "Workflows", "inner"), "inner-b")
	writeSkillBundle(t, base, "sibling", "sibling-skill")

	registry := newTestRegistry(t, base)
	require.NoError(t, registry.Initialize(ctx))

	assert.Equal(t, 2, registry.Controller().Len())
	assert.True(t, registry.Controller().Has("outer-skill"))
	assert.True(t, registry.Controller().Has("sibling-skill"))
	assert.False(t, registry.Controller().Has("inner-a"))
	assert.False(t, registry.Controller().Has("inner-b"))
}

func TestRegistryInitializeConcurrent(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	writeSkillBundle(t, base, "alpha", "alpha-skill")

	registry := newTestRegistry(t, base)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = registry.Initialize(ctx)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, StateReady, registry.State())
	assert.Equal(t, 1, registry.Controller().Len())
}

func TestRegistryInitializeNoUsableBasePaths(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t, "/nonexistent/one", "/nonexistent/two")

	err := registry.Initialize(ctx)
	var initErr *InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, StateFailed, registry.State())

	// the failed state is terminal and keeps failing fast
	err = registry.Initialize(ctx)
	require.True(t, errors.As(err, &initErr))

	_, err = registry.Search(ctx, "anything")
	require.True(t, errors.As(err, &initErr))
}

func TestRegistrySearchBeforeInitialize(t *testing.T) {
	registry := newTestRegistry(t, t.TempDir())
	_, err := registry.Search(context.Background(), "anything")
	assert.Error(t, err)
}

func TestRegistryRegisterDebugInfo(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	good := writeSkillBundle(t, base, "good", "good-skill")

	badDir := filepath.Join(base, "bad")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, ManifestFileName), []byte("no frontmatter\n"), 0o644))

	registry := newTestRegistry(t, base)
	info, err := registry.Register(ctx, good, badDir)
	require.NoError(t, err)

	assert.Equal(t, 2, info.Discovered)
	assert.Equal(t, 1, info.Parsed)
	assert.Equal(t, 1, info.Rejected)
	require.Len(t, info.Errors, 1)
	assert.Error(t, info.Err())

	clean, err := registry.Register(ctx, good)
	require.NoError(t, err)
	assert.NoError(t, clean.Err())
}

func TestRegistryRegisterCollisionIsFatal(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	first := writeSkillBundle(t, base, "one", "foo-bar")
	second := writeSkillBundle(t, base, "two", "foo_bar")

	registry := newTestRegistry(t, base)
	_, err := registry.Register(ctx, first)
	require.NoError(t, err)

	_, err = registry.Register(ctx, second)
	var collisionErr *AliasCollisionError
	require.True(t, errors.As(err, &collisionErr))
}

func TestRegistryRegisterIdempotentRefresh(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	bundle := writeSkillBundle(t, base, "refresh", "refresh-skill")

	registry := newTestRegistry(t, base)
	_, err := registry.Register(ctx, bundle)
	require.NoError(t, err)
	_, err = registry.Register(ctx, bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, registry.Controller().Len())
}

func TestRegistrySearchEndToEnd(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	writeSkillBundle(t, base, "auth", "auth-skill")
	writeSkillBundle(t, base, "pdf", "pdf-skill")

	registry := newTestRegistry(t, base)
	require.NoError(t, registry.Initialize(ctx))

	result, err := registry.Search(ctx, "auth")
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "auth-skill", result.Matches[0].Skill.Name)
	assert.Equal(t, 2, result.TotalSkills)
}

func TestRegistryResolveEndToEnd(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	bundleDir := writeSkillBundle(t, base, "test-skill", "test_skill")
	require.NoError(t, os.MkdirAll(filepath.Join(bundleDir, "references"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bundleDir, "references", "guide.md"), []byte("# Guide\n"), 0o644))

	registry := newTestRegistry(t, base)
	require.NoError(t, registry.Initialize(ctx))

	// no references/ prefix supplied: resolved via the legacy type
	// directory fallback
	resolved, err := registry.Resolve(ctx, "test_skill", "reference", "guide.md")
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n", string(resolved.Content))

	direct, err := registry.Resolve(ctx, "test_skill", "reference", "references/guide.md")
	require.NoError(t, err)
	assert.Equal(t, resolved.Content, direct.Content)

	_, err = registry.Resolve(ctx, "missing-skill", "reference", "guide.md")
	var notFoundErr *ResourceNotFoundError
	require.True(t, errors.As(err, &notFoundErr))
}

func TestIsSkillPath(t *testing.T) {
	assert.True(t, IsSkillPath("/bundles/foo/SKILL.md"))
	assert.True(t, IsSkillPath("/bundles/foo/skill.md"))
	assert.False(t, IsSkillPath("/bundles/foo/README.md"))
	assert.False(t, IsSkillPath("/bundles/foo"))
}

func TestToolNameFromSkillPath(t *testing.T) {
	toolName, ok := ToolNameFromSkillPath("/bundles/Foo-Bar/SKILL.md")
	require.True(t, ok)
	assert.Equal(t, "foo_bar", toolName)

	_, ok = ToolNameFromSkillPath("/bundles/foo/notes.md")
	assert.False(t, ok)

	_, ok = ToolNameFromSkillPath("SKILL.md")
	assert.False(t, ok)
}
