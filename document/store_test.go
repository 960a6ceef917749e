package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contoso-labs/handbook-assistant/textsplitter"
)

type countingSource struct {
	text  string
	err   error
	calls int32
}

func (s *countingSource) Fetch(context.Context) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.text, s.err
}

func TestStore_LoadsOnce(t *testing.T) {
	src := &countingSource{text: "alpha beta gamma"}
	store := NewStore("handbook", src, textsplitter.NewWhitespaceSplitter(800))

	for i := 0; i < 3; i++ {
		chunks, err := store.EnsureLoaded(context.Background())
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.Equal(t, "alpha beta gamma", chunks[0].Text)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestStore_NotFoundIsSoft(t *testing.T) {
	src := &countingSource{err: ErrNotFound}
	store := NewStore("handbook", src, textsplitter.NewWhitespaceSplitter(800))

	chunks, err := store.EnsureLoaded(context.Background())
	require.NoError(t, err)
	assert.Empty(t, chunks)

	// absence is terminal: no re-read on later calls
	_, err = store.EnsureLoaded(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestStore_FailureIsLatched(t *testing.T) {
	src := &countingSource{err: errors.New("disk on fire")}
	store := NewStore("handbook", src, textsplitter.NewWhitespaceSplitter(800))

	_, err := store.EnsureLoaded(context.Background())
	require.Error(t, err)
	_, err = store.EnsureLoaded(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestStore_ConcurrentLoad(t *testing.T) {
	src := &countingSource{text: "one two three"}
	store := NewStore("handbook", src, textsplitter.NewWhitespaceSplitter(800))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunks, err := store.EnsureLoaded(context.Background())
			assert.NoError(t, err)
			assert.Len(t, chunks, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "handbook.txt")
	require.NoError(t, os.WriteFile(path, []byte("vacation policy"), 0o644))

	text, err := (&FileSource{Path: path}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vacation policy", text)

	_, err = (&FileSource{Path: filepath.Join(dir, "missing.txt")}).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}
