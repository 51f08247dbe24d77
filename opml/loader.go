// ABOUTME: HTTP loader for the remote OPML directory
// ABOUTME: Fetches the root catalog and lazily expands link folders

package opml

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultRootURL is the tunein OPML directory root.
const DefaultRootURL = "http://opml.radiotime.com/"

const fetchTimeout = 15 * time.Second

// Loader fetches OPML documents from the remote catalog service.
type Loader struct {
	client  *http.Client
	rootURL string
	debugf  func(string, ...interface{})
}

// NewLoader creates a loader for the given directory root URL.
func NewLoader(rootURL string, debugf func(string, ...interface{})) *Loader {
	if rootURL == "" {
		rootURL = DefaultRootURL
	}

	return &Loader{
		client:  &http.Client{Timeout: fetchTimeout},
		rootURL: rootURL,
		debugf:  debugf,
	}
}

// Root fetches and parses the directory root. It never fails the session: an
// unreachable or malformed catalog yields an empty root folder.
func (l *Loader) Root(ctx context.Context) *Folder {
	root, err := l.fetch(ctx, l.rootURL)
	if err != nil {
		l.debugf("[OPML] Root load failed, continuing with empty tree: %v", err)

		return &Folder{Expanded: true, Loaded: true}
	}

	return root
}

// Expand fetches the children of a link folder in place. Folders that are
// already loaded or carry no URL are left untouched.
func (l *Loader) Expand(f *Folder) error {
	if f.Loaded || f.URL == "" {
		return nil
	}

	l.debugf("[OPML] Loading %s", f.URL)

	sub, err := l.fetch(context.Background(), f.URL)
	if err != nil {
		return err
	}

	f.Children = sub.Children
	f.Loaded = true

	return nil
}

func (l *Loader) fetch(ctx context.Context, url string) (*Folder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	root, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	return root, nil
}
