package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/contoso-labs/handbook-assistant/common/httpx"
)

// ErrNotFound reports that the backing document does not exist. Callers
// treat it as an empty corpus rather than a hard failure.
var ErrNotFound = errors.New("document not found")

// Source supplies the raw document text.
type Source interface {
	Fetch(ctx context.Context) (string, error)
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("read document %s: %w", s.Path, err)
	}
	return string(data), nil
}

// HTTPSource fetches the document over HTTP through the shared outbound
// client.
type HTTPSource struct {
	URL    string
	Client *httpx.Client
}

func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("build document request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch document %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch document %s: unexpected status %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read document body: %w", err)
	}
	return string(data), nil
}
