package skills

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSkill(name, fullPath string) *Skill {
	return &Skill{
		Name:        name,
		ToolName:    DeriveToolName(name),
		Description: "Description for " + name,
		FullPath:    fullPath,
	}
}

func TestControllerSetAndGet(t *testing.T) {
	c := NewController()
	skill := testSkill("Foo-Bar", "/bundles/foo-bar")
	require.NoError(t, c.Set(skill.ToolName, skill))

	for _, key := range []string{"foo_bar", "foo-bar", "Foo-Bar", "FOO_BAR"} {
		got, ok := c.Get(key)
		require.True(t, ok, "lookup under %q", key)
		assert.Same(t, skill, got)
	}

	_, ok := c.Get("unknown")
	assert.False(t, ok)
}

func TestControllerAliasCollision(t *testing.T) {
	c := NewController()
	first := testSkill("foo-bar", "/bundles/a")
	second := testSkill("foo_bar", "/bundles/b")

	require.NoError(t, c.Set(first.ToolName, first))

	err := c.Set(second.ToolName, second)
	var collisionErr *AliasCollisionError
	require.True(t, errors.As(err, &collisionErr))
	assert.NotEmpty(t, collisionErr.Alias)
	assert.Equal(t, "foo-bar", collisionErr.Existing)
	assert.Equal(t, "foo_bar", collisionErr.Incoming)

	// the failed registration leaves the store unchanged
	assert.Equal(t, 1, c.Len())
	got, ok := c.Get("foo-bar")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestControllerIdempotentReregistration(t *testing.T) {
	c := NewController()
	skill := testSkill("refresh-me", "/bundles/refresh-me")
	require.NoError(t, c.Set(skill.ToolName, skill))

	// a refresh replaces the record wholesale
	refreshed := testSkill("refresh-me", "/bundles/refresh-me")
	refreshed.Description = "Updated description for refresh-me"
	require.NoError(t, c.Set(refreshed.ToolName, refreshed))

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get("refresh_me")
	require.True(t, ok)
	assert.Same(t, refreshed, got)
}

func TestControllerSetSupersedesOtherKey(t *testing.T) {
	c := NewController()
	skill := testSkill("move-me", "/bundles/move-me")
	require.NoError(t, c.Set("old-key", skill))

	// the same logical skill registered under a new primary key replaces
	// the old record instead of listing it twice
	rebound := testSkill("move-me", "/bundles/move-me")
	require.NoError(t, c.Set("new-key", rebound))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"new-key"}, c.IDs())

	got, ok := c.Get("move_me")
	require.True(t, ok)
	assert.Same(t, rebound, got)

	_, ok = c.Get("old-key")
	assert.False(t, ok)
}

func TestControllerDeleteRemovesAliases(t *testing.T) {
	c := NewController()
	skill := testSkill("delete-me", "/bundles/delete-me")
	require.NoError(t, c.Set(skill.ToolName, skill))

	require.True(t, c.Delete("Delete-Me"))

	for _, key := range []string{"delete_me", "delete-me", "Delete-Me"} {
		assert.False(t, c.Has(key), "alias %q should not dangle", key)
	}
	assert.False(t, c.Delete("delete-me"))
	assert.Equal(t, 0, c.Len())

	// the freed aliases are bindable again
	replacement := testSkill("delete_me", "/bundles/other")
	require.NoError(t, c.Set(replacement.ToolName, replacement))
}

func TestControllerClear(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Set("a", testSkill("a-skill", "/bundles/a")))
	require.NoError(t, c.Set("b", testSkill("b-skill", "/bundles/b")))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Skills())
	assert.Empty(t, c.IDs())
	assert.False(t, c.Has("a-skill"))
}

func TestControllerOrdering(t *testing.T) {
	c := NewController()
	names := []string{"gamma", "alpha", "beta"}
	for _, name := range names {
		require.NoError(t, c.Set(name, testSkill(name, "/bundles/"+name)))
	}

	ids := c.IDs()
	assert.Equal(t, names, ids)

	skills := c.Skills()
	require.Len(t, skills, 3)
	for i, name := range names {
		assert.Equal(t, name, skills[i].Name)
	}

	// re-registration keeps the original position
	refreshed := testSkill("alpha", "/bundles/alpha")
	require.NoError(t, c.Set("alpha", refreshed))
	assert.Equal(t, names, c.IDs())
}
