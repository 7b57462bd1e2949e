package skills

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/promptops/skillhub/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// State is the registry readiness state.
type State int

// Readiness states. Initialization moves idle -> initializing -> ready, or
// to the terminal failed state on a configuration-level failure.
const (
	StateIdle State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// registerConcurrency bounds the parser fan-out during registration.
const registerConcurrency = 8

// DebugInfo summarizes one registration pass. Per-bundle parse failures
// are soft rejections recorded here; they never abort sibling bundles.
type DebugInfo struct {
	Discovered int
	Parsed     int
	Rejected   int
	Errors     []string
}

// Err aggregates the recorded rejection messages into a single error, or
// nil when nothing was rejected.
func (d *DebugInfo) Err() error {
	var result *multierror.Error
	for _, msg := range d.Errors {
		result = multierror.Append(result, errors.New(msg))
	}
	return result.ErrorOrNil()
}

// Registry orchestrates skill discovery and serves search and resource
// resolution from the populated controller. Initialization is single
// flight: the first caller triggers discovery, concurrent and later
// callers await the same outcome.
type Registry struct {
	controller *Controller
	indexer    *Indexer
	basePaths  []string
	debug      bool

	mu      sync.Mutex
	state   State
	done    chan struct{}
	initErr error
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry) error

// WithBasePaths sets the directories scanned for skill bundles.
func WithBasePaths(paths ...string) RegistryOption {
	return func(r *Registry) error {
		r.basePaths = paths
		return nil
	}
}

// WithIndexer sets a custom resource indexer.
func WithIndexer(ix *Indexer) RegistryOption {
	return func(r *Registry) error {
		if ix == nil {
			return errors.New("indexer must not be nil")
		}
		r.indexer = ix
		return nil
	}
}

// WithDebug enables verbose registration logging.
func WithDebug(debug bool) RegistryOption {
	return func(r *Registry) error {
		r.debug = debug
		return nil
	}
}

// NewRegistry creates a Registry. Without options it scans ./.skillhub/skills
// and ~/.skillhub/skills.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		controller: NewController(),
		state:      StateIdle,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.indexer == nil {
		ix, err := NewIndexer()
		if err != nil {
			return nil, err
		}
		r.indexer = ix
	}
	if len(r.basePaths) == 0 {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get user home directory")
		}
		r.basePaths = []string{
			"./.skillhub/skills",
			filepath.Join(homeDir, ".skillhub", "skills"),
		}
	}
	return r, nil
}

// Controller returns the underlying skill store.
func (r *Registry) Controller() *Controller { return r.controller }

// State returns the current readiness state.
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Initialize discovers and registers skills from the configured base
// paths. It is idempotent: concurrent callers await the same run, and any
// call after the ready transition returns immediately without re-scanning
// disk. A failed initialization is terminal and keeps failing fast.
func (r *Registry) Initialize(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case StateReady:
		r.mu.Unlock()
		return nil
	case StateFailed:
		err := r.initErr
		r.mu.Unlock()
		return err
	case StateInitializing:
		done := r.done
		r.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		r.mu.Lock()
		err := r.initErr
		r.mu.Unlock()
		return err
	}

	r.state = StateInitializing
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	err := r.runInitialization(ctx)

	r.mu.Lock()
	r.initErr = err
	if err != nil {
		r.state = StateFailed
	} else {
		r.state = StateReady
	}
	r.mu.Unlock()
	close(done)
	return err
}

func (r *Registry) runInitialization(ctx context.Context) error {
	var usable []string
	for _, base := range r.basePaths {
		info, err := os.Stat(base)
		if err != nil || !info.IsDir() {
			logger.G(ctx).WithField("path", base).Debug("skipping unusable base path")
			continue
		}
		usable = append(usable, base)
	}
	if len(usable) == 0 {
		return &InitializationError{Reason: "no usable base paths"}
	}

	var manifests []string
	for _, base := range usable {
		manifests = append(manifests, discoverManifests(ctx, base)...)
	}

	info, err := r.Register(ctx, manifests...)
	if err != nil {
		return err
	}
	logger.G(ctx).WithFields(map[string]interface{}{
		"discovered": info.Discovered,
		"parsed":     info.Parsed,
		"rejected":   info.Rejected,
	}).Debug("skill registry initialized")
	return nil
}

// discoverManifests walks one base path collecting manifest locations,
// skipping VCS and dependency directories. A directory holding a manifest
// is a bundle boundary: nothing beneath it is scanned for further bundles,
// regardless of how its children sort.
func discoverManifests(ctx context.Context, base string) []string {
	var manifests []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" || d.Name() == "node_modules" {
			return filepath.SkipDir
		}
		if name, ok := findManifest(path); ok {
			manifests = append(manifests, filepath.Join(path, name))
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		logger.G(ctx).WithError(err).WithField("base", base).Debug("base path walk failed")
	}
	return manifests
}

// findManifest reports the on-disk manifest filename in dir, matched
// case-insensitively.
func findManifest(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(entry.Name(), ManifestFileName) {
			return entry.Name(), true
		}
	}
	return "", false
}

// Register parses each candidate path (a manifest file or a bundle
// directory) and feeds successes to the controller. Parse failures are
// soft: they increment the rejection counter and registration continues
// with the remaining paths. Alias collisions are fatal to the call since
// they indicate ambiguous naming that breaks lookup. Independent bundles
// parse concurrently; controller writes are applied atomically per skill.
func (r *Registry) Register(ctx context.Context, skillPaths ...string) (*DebugInfo, error) {
	info := &DebugInfo{Discovered: len(skillPaths)}
	var infoMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(registerConcurrency)

	for _, candidate := range skillPaths {
		candidate := candidate
		g.Go(func() error {
			skill, err := r.parseCandidate(gctx, candidate)
			if err != nil {
				infoMu.Lock()
				info.Rejected++
				info.Errors = append(info.Errors, err.Error())
				infoMu.Unlock()
				if r.debug {
					logger.G(gctx).WithError(err).WithField("path", candidate).Warn("skill rejected")
				}
				return nil
			}
			if err := r.controller.Set(skill.ToolName, skill); err != nil {
				return err
			}
			infoMu.Lock()
			info.Parsed++
			infoMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return info, err
	}
	return info, nil
}

func (r *Registry) parseCandidate(ctx context.Context, candidate string) (*Skill, error) {
	manifestPath := candidate
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		manifestPath = filepath.Join(candidate, ManifestFileName)
	}
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", manifestPath)
	}
	return ParseSkill(ctx, raw, filepath.Dir(manifestPath), manifestPath, r.indexer)
}

// awaitReady gates read operations on the readiness state machine.
func (r *Registry) awaitReady(ctx context.Context) error {
	r.mu.Lock()
	switch r.state {
	case StateReady:
		r.mu.Unlock()
		return nil
	case StateFailed:
		err := r.initErr
		r.mu.Unlock()
		return err
	case StateIdle:
		r.mu.Unlock()
		return errors.New("registry not initialized")
	}
	done := r.done
	r.mu.Unlock()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	r.mu.Lock()
	err := r.initErr
	r.mu.Unlock()
	return err
}

// Search ranks registered skills against a raw query string. The registry
// must have been initialized; callers racing initialization await it.
func (r *Registry) Search(ctx context.Context, query string) (*SearchResult, error) {
	if err := r.awaitReady(ctx); err != nil {
		return nil, err
	}
	return RankSkills(r.controller.Skills(), ParseQuery(query)), nil
}

// SearchTerms is Search over an already-tokenized query.
func (r *Registry) SearchTerms(ctx context.Context, terms []string) (*SearchResult, error) {
	if err := r.awaitReady(ctx); err != nil {
		return nil, err
	}
	return RankSkills(r.controller.Skills(), ParseQueryTerms(terms)), nil
}

// Resolve resolves a resource of a registered skill by type and relative
// path and reads its content.
func (r *Registry) Resolve(ctx context.Context, skillID, resType, relPath string) (*ResolvedResource, error) {
	if err := r.awaitReady(ctx); err != nil {
		return nil, err
	}
	skill, ok := r.controller.Get(skillID)
	if !ok {
		return nil, &ResourceNotFoundError{Skill: skillID, Type: resType, Path: relPath}
	}
	return ResolveResource(skill, resType, relPath)
}

// IsSkillPath reports whether path points at a skill manifest location.
func IsSkillPath(path string) bool {
	return strings.EqualFold(filepath.Base(path), ManifestFileName)
}

// ToolNameFromSkillPath derives the tool name from a manifest location
// using the bundle directory name. The boolean is false when the path is
// not recognizable as a skill manifest.
func ToolNameFromSkillPath(path string) (string, bool) {
	if !IsSkillPath(path) {
		return "", false
	}
	bundle := filepath.Base(filepath.Dir(path))
	if bundle == "." || bundle == string(filepath.Separator) {
		return "", false
	}
	toolName := DeriveToolName(bundle)
	if toolName == "" {
		return "", false
	}
	return toolName, true
}
