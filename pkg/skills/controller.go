package skills

import (
	"sort"
	"strings"
	"sync"
)

// controllerEntry is one registered skill with the alias keys that point
// at it.
type controllerEntry struct {
	key     string // primary key
	skill   *Skill
	aliases []string
}

// Controller is the in-memory skill store. Skills are keyed by a canonical
// primary key and reachable under a derived alias set (case and separator
// variants of the primary key, skill name, and tool name). Every alias maps
// to at most one skill; binding an alias already held by a different skill
// is a collision. All operations are safe for concurrent use and each
// mutation is applied atomically.
type Controller struct {
	mu      sync.RWMutex
	aliases map[string]*controllerEntry
	entries map[string]*controllerEntry // by primary key
	order   []string                    // primary keys in insertion order
}

// NewController creates an empty controller.
func NewController() *Controller {
	return &Controller{
		aliases: make(map[string]*controllerEntry),
		entries: make(map[string]*controllerEntry),
	}
}

// aliasSet derives all keys under which a skill is reachable: the primary
// key, the skill name, the tool name, and the lower-cased plus kebab/snake
// folded variants of each.
func aliasSet(key string, skill *Skill) []string {
	seen := make(map[string]struct{})
	var aliases []string
	add := func(alias string) {
		if alias == "" {
			return
		}
		if _, ok := seen[alias]; ok {
			return
		}
		seen[alias] = struct{}{}
		aliases = append(aliases, alias)
	}

	for _, base := range []string{key, skill.Name, skill.ToolName} {
		add(base)
		add(strings.ToLower(base))
		normalized := NormalizeAlias(base)
		add(normalized)
		add(strings.ReplaceAll(normalized, "_", "-"))
	}
	sort.Strings(aliases)
	return aliases
}

// Set registers skill under key and its derived alias set. Re-registering
// the same logical skill under the same key replaces the stored record in
// place; under a different key it supersedes the old record entirely, so a
// skill is never listed twice. An alias already bound to a different skill
// fails with AliasCollisionError and leaves the controller unchanged.
func (c *Controller) Set(key string, skill *Skill) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	aliases := aliasSet(key, skill)
	for _, alias := range aliases {
		existing, ok := c.aliases[alias]
		if ok && !sameSkill(existing.skill, skill) {
			return &AliasCollisionError{
				Alias:    alias,
				Existing: existing.skill.Name,
				Incoming: skill.Name,
			}
		}
	}
	if existing, ok := c.entries[key]; ok && !sameSkill(existing.skill, skill) {
		return &AliasCollisionError{Alias: key, Existing: existing.skill.Name, Incoming: skill.Name}
	}

	// same-skill records held under other primary keys are superseded
	for _, alias := range aliases {
		if existing, ok := c.aliases[alias]; ok && existing.key != key {
			c.deleteEntryLocked(existing)
		}
	}

	entry := &controllerEntry{key: key, skill: skill, aliases: aliases}
	if previous, ok := c.entries[key]; ok {
		c.removeAliasesLocked(previous)
	} else {
		c.order = append(c.order, key)
	}
	c.entries[key] = entry
	for _, alias := range aliases {
		c.aliases[alias] = entry
	}
	return nil
}

// Get looks up a skill by exact key first, then by the normalized alias
// forms. It never fails; absence is reported via the boolean.
func (c *Controller) Get(key string) (*Skill, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.lookupLocked(key)
	if !ok {
		return nil, false
	}
	return entry.skill, true
}

// Has reports whether key resolves to a registered skill.
func (c *Controller) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Delete removes the skill that key resolves to, along with every alias
// pointing at it. It reports whether a skill was removed.
func (c *Controller) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lookupLocked(key)
	if !ok {
		return false
	}
	c.deleteEntryLocked(entry)
	return true
}

// Clear removes all skills and aliases.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases = make(map[string]*controllerEntry)
	c.entries = make(map[string]*controllerEntry)
	c.order = nil
}

// Skills returns the distinct registered skills in insertion order.
func (c *Controller) Skills() []*Skill {
	c.mu.RLock()
	defer c.mu.RUnlock()
	skills := make([]*Skill, 0, len(c.order))
	for _, key := range c.order {
		skills = append(skills, c.entries[key].skill)
	}
	return skills
}

// IDs returns the primary keys in insertion order.
func (c *Controller) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Len returns the number of distinct registered skills.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *Controller) lookupLocked(key string) (*controllerEntry, bool) {
	if entry, ok := c.aliases[key]; ok {
		return entry, true
	}
	for _, candidate := range []string{
		strings.ToLower(key),
		NormalizeAlias(key),
		strings.ReplaceAll(NormalizeAlias(key), "_", "-"),
	} {
		if entry, ok := c.aliases[candidate]; ok {
			return entry, true
		}
	}
	return nil, false
}

func (c *Controller) deleteEntryLocked(entry *controllerEntry) {
	c.removeAliasesLocked(entry)
	delete(c.entries, entry.key)
	for i, k := range c.order {
		if k == entry.key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Controller) removeAliasesLocked(entry *controllerEntry) {
	for _, alias := range entry.aliases {
		if current, ok := c.aliases[alias]; ok && current == entry {
			delete(c.aliases, alias)
		}
	}
}
