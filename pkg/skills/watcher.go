package skills

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/promptops/skillhub/pkg/logger"
)

// Watcher re-registers skill bundles when their manifests change on disk.
// Registration replaces the stored Skill wholesale, so a refresh of the
// same bundle is idempotent.
type Watcher struct {
	registry *Registry
	fw       *fsnotify.Watcher
}

// NewWatcher creates a watcher bound to a registry.
func NewWatcher(registry *Registry) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create filesystem watcher")
	}
	return &Watcher{registry: registry, fw: fw}, nil
}

// Watch adds bundle directories and blocks processing events until ctx is
// cancelled. Manifest writes trigger re-registration of the owning bundle;
// event errors are logged and do not stop the loop.
func (w *Watcher) Watch(ctx context.Context, dirs ...string) error {
	for _, dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return errors.Wrapf(err, "failed to watch %s", dir)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !IsSkillPath(event.Name) {
				continue
			}
			bundle := filepath.Dir(event.Name)
			if _, err := w.registry.Register(ctx, bundle); err != nil {
				logger.G(ctx).WithError(err).WithField("bundle", bundle).Warn("bundle refresh failed")
			} else {
				logger.G(ctx).WithField("bundle", bundle).Debug("bundle refreshed")
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			logger.G(ctx).WithError(err).Warn("filesystem watcher error")
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
