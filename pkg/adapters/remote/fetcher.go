package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/cartridge/pkg/domain"
)

var (
	// DefaultTimeout bounds every request made by the fetcher.
	DefaultTimeout = 10 * time.Second
	// MaxSourceSize caps the body accepted for a single track source.
	MaxSourceSize int64 = 1 << 20
)

var errSourceTooLarge = errors.New("source exceeds maximum size")

// Fetcher implements ports.SourceFetcher against a host that serves the
// storage listing at basePath and each source at basePath/<file>.
type Fetcher struct {
	baseURL  string
	basePath string
	client   *http.Client
	timeout  time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBasePath overrides the endpoint path (default: domain.DefaultRemotePath).
func WithBasePath(path string) Option {
	return func(f *Fetcher) {
		f.basePath = path
	}
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithTimeout sets the per-request deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// New creates a remote fetcher for the host at baseURL (e.g. "http://player.local:8080").
func New(baseURL string, opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL:  strings.TrimRight(baseURL, "/"),
		basePath: domain.DefaultRemotePath,
		client:   http.DefaultClient,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.basePath = "/" + strings.Trim(f.basePath, "/")
	return f
}

// Fetch retrieves the source text of file from the remote host.
func (f *Fetcher) Fetch(ctx context.Context, file string) (string, error) {
	endpoint := f.listingURL() + "/" + url.PathEscape(file)

	body, status, err := f.get(ctx, endpoint)
	if err != nil {
		return "", &domain.TransportError{File: file, Err: err}
	}
	switch {
	case status == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, file)
	case status < 200 || status > 299:
		return "", &domain.TransportError{File: file, Status: status}
	}
	return string(body), nil
}

// List retrieves the JSON listing of source names. Any failure yields an empty
// listing together with an error matching domain.ErrTransport.
func (f *Fetcher) List(ctx context.Context) ([]string, error) {
	body, status, err := f.get(ctx, f.listingURL())
	if err != nil {
		return []string{}, &domain.TransportError{File: f.basePath, Err: err}
	}
	if status != http.StatusOK {
		return []string{}, &domain.TransportError{File: f.basePath, Status: status}
	}

	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return []string{}, &domain.TransportError{File: f.basePath, Err: fmt.Errorf("malformed listing: %w", err)}
	}
	files := domain.FilterSources(names)
	sort.Strings(files)
	return files, nil
}

func (f *Fetcher) listingURL() string {
	return f.baseURL + f.basePath
}

// get performs a bounded GET. A non-nil error means no usable response was read.
func (f *Fetcher) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body is not needed.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxSourceSize+1))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if int64(len(body)) > MaxSourceSize {
		return nil, resp.StatusCode, errSourceTooLarge
	}
	return body, resp.StatusCode, nil
}
