package engine

import (
	"sync"
	"sync/atomic"

	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/sirupsen/logrus"
)

// Store holds the engine in effect. Readers load it without locking and
// keep using the engine they loaded, so a publish never tears a frame.
type Store struct {
	current atomic.Pointer[Engine]
	version uint64
	mutex   sync.Mutex
	log     logrus.FieldLogger
}

func NewStore(log logrus.FieldLogger) *Store {
	return &Store{log: logger.OrDiscard(log)}
}

// Publish builds an engine for p under the next version and makes it
// current. On error the previous engine stays in effect.
func (s *Store) Publish(p model.Project) (*Engine, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	version := s.version + 1
	e, err := New(p.WithVersion(version), s.log)
	if err != nil {
		return nil, err
	}
	s.version = version
	s.current.Store(e)
	s.log.WithFields(logrus.Fields{
		"version":  version,
		"warnings": len(e.Warnings()),
	}).Info("Published project snapshot")
	return e, nil
}

// Current is the engine in effect, nil before the first Publish.
func (s *Store) Current() *Engine {
	return s.current.Load()
}
