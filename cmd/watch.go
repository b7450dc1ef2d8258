package cmd

import (
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/scaletree/project"
	"github.com/pkg/errors"
)

// Reload publishes the project at path. A project that fails to load or
// validate leaves the current engine in effect.
func (s *Server) Reload(path string) error {
	p, err := project.Load(path)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Error("Could not reload project")
		return err
	}
	if _, err := s.store.Publish(p); err != nil {
		s.log.WithError(err).WithField("path", path).Error("Rejected reloaded project")
		return err
	}
	return nil
}

// Watch reloads the project whenever the file at path is written, at most
// once per delay. The returned func stops watching.
func (s *Server) Watch(path string, delay time.Duration) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "could not create file watcher")
	}
	// editors often save by renaming over the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "could not watch %v", path)
	}

	target := filepath.Clean(path)
	debounced := debounce.New(delay)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					debounced(func() {
						s.Reload(path)
					})
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.WithError(err).Error("File watcher error")
			}
		}
	}()

	s.log.WithField("path", path).Info("Watching project file")
	return func() { watcher.Close() }, nil
}
