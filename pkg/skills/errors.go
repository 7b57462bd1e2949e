package skills

import "fmt"

// ManifestFormatError indicates a manifest without a parseable frontmatter
// block.
type ManifestFormatError struct {
	Path string
}

func (e *ManifestFormatError) Error() string {
	return fmt.Sprintf("manifest %s: no frontmatter block found", e.Path)
}

// ManifestValidationError indicates a manifest whose frontmatter is missing
// a required field or fails a length requirement.
type ManifestValidationError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ManifestValidationError) Error() string {
	return fmt.Sprintf("manifest %s: field %q %s", e.Path, e.Field, e.Reason)
}

// AliasCollisionError indicates an alias already bound to a different skill.
type AliasCollisionError struct {
	Alias    string
	Existing string // name of the skill currently bound to the alias
	Incoming string // name of the skill being registered
}

func (e *AliasCollisionError) Error() string {
	return fmt.Sprintf("alias %q already bound to skill %q, cannot register %q",
		e.Alias, e.Existing, e.Incoming)
}

// ResourceNotFoundError indicates that no indexed entry matched the
// requested resource, or that the requested path was rejected as unsafe.
// The message only echoes what the caller supplied.
type ResourceNotFoundError struct {
	Skill string
	Type  string
	Path  string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found: skill=%q type=%q path=%q", e.Skill, e.Type, e.Path)
}

// ResourceReadError indicates that an indexed entry was found but reading
// the underlying file failed.
type ResourceReadError struct {
	Skill string
	Path  string
	Err   error
}

func (e *ResourceReadError) Error() string {
	return fmt.Sprintf("failed to read resource %q of skill %q: %v", e.Path, e.Skill, e.Err)
}

func (e *ResourceReadError) Unwrap() error { return e.Err }

// InitializationError is a fatal registry initialization failure, e.g. no
// usable base path at all. It leaves the registry in a terminal failed
// state.
type InitializationError struct {
	Reason string
	Err    error
}

func (e *InitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry initialization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("registry initialization failed: %s", e.Reason)
}

func (e *InitializationError) Unwrap() error { return e.Err }
