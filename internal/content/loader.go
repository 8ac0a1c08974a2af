package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

var (
	// ErrInvalidDocument reports a payload that is not a content document.
	ErrInvalidDocument = errors.New("invalid content document")
	// ErrStatus reports a non-success HTTP status.
	ErrStatus = errors.New("unexpected status")
)

// LoadError is returned by Load when no document could be produced.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load content %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

const DefaultTimeout = 10 * time.Second

// Loader fetches content documents from files or HTTP URLs.
type Loader struct {
	client *http.Client
}

func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{client: &http.Client{Timeout: timeout}}
}

// Load reads and parses the document at source. On any failure the returned
// document is nil and the error is a *LoadError.
func (l *Loader) Load(ctx context.Context, source string) (*Document, error) {
	data, err := l.fetch(ctx, source)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return doc, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.get(ctx, source)
	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(u.Path)
	default:
		return os.ReadFile(source)
	}
}

func (l *Loader) get(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Parse decodes a content document. Both the sections and the styling keys
// must be present.
func Parse(data []byte) (*Document, error) {
	var raw struct {
		Sections *Sections `json:"sections"`
		Styling  *Styling  `json:"styling"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if raw.Sections == nil {
		return nil, fmt.Errorf("%w: missing sections", ErrInvalidDocument)
	}
	if raw.Styling == nil {
		return nil, fmt.Errorf("%w: missing styling", ErrInvalidDocument)
	}
	return &Document{Sections: *raw.Sections, Styling: *raw.Styling}, nil
}
