// Package document loads the handbook text lazily and exposes its
// retrieval chunks. The load happens at most once per process; both
// success and failure are latched.
package document

import (
	"context"
	"errors"
	"sync"

	"github.com/contoso-labs/handbook-assistant/common/logger"
	"github.com/contoso-labs/handbook-assistant/schema"
	"github.com/contoso-labs/handbook-assistant/textsplitter"
)

type Store struct {
	name     string
	source   Source
	splitter textsplitter.TextSplitter

	once   sync.Once
	chunks []schema.Chunk
	err    error
}

func NewStore(name string, source Source, splitter textsplitter.TextSplitter) *Store {
	return &Store{name: name, source: source, splitter: splitter}
}

func (s *Store) Name() string { return s.name }

// EnsureLoaded fetches and splits the document on first call and returns
// the cached result afterwards. A missing document yields an empty chunk
// list; any other fetch error is latched and returned on every call.
func (s *Store) EnsureLoaded(ctx context.Context) ([]schema.Chunk, error) {
	s.once.Do(func() {
		text, err := s.source.Fetch(ctx)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				logger.Warnf("document %q not found, serving without excerpts", s.name)
				return
			}
			s.err = err
			logger.Errorf("document %q load failed: %v", s.name, err)
			return
		}
		s.chunks = s.splitter.SplitText(text)
		logger.Infof("document %q loaded: %d chunks", s.name, len(s.chunks))
	})
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks, nil
}
