// Package fetcher retrieves the source document over HTTP or from a local file
// and decodes it.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"schaledb/internal/config"
	"schaledb/internal/document"
	"schaledb/internal/logger"
	"schaledb/pkg/utils"
)

// Fetch errors.
var (
	ErrEmptySource          = errors.New("source is empty")
	ErrUnsupportedScheme    = errors.New("unsupported URL scheme")
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrBodyTooLarge         = errors.New("response body exceeds size limit")
)

// TransportError reports that the document could not be retrieved.
type TransportError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error fetching data from %s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports that the retrieved body is not a JSON object.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON received from %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Fetcher performs a single GET per call. It never retries.
type Fetcher struct {
	client       *http.Client
	httpHelper   *utils.HTTPHelper
	headers      map[string]string
	maxBodyBytes int64
	log          *logger.Logger
}

// NewFetcher creates a fetcher with the default configuration.
func NewFetcher(log *logger.Logger) *Fetcher {
	return NewFetcherWithConfig(config.Default(), log)
}

// NewFetcherWithConfig creates a fetcher from the source settings in cfg.
func NewFetcherWithConfig(cfg *config.Config, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		httpHelper:   utils.NewHTTPHelper(cfg.Source.UserAgent),
		headers:      cfg.Source.Headers,
		maxBodyBytes: cfg.GetMaxBodyBytes(),
		log:          log,
	}
}

// Fetch retrieves source and decodes it as a JSON object. Retrieval failures
// are *TransportError, decoding failures *DecodeError.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*document.Object, error) {
	body, err := f.FetchBytes(ctx, source)
	if err != nil {
		return nil, err
	}

	obj, err := document.Decode(body)
	if err != nil {
		return nil, &DecodeError{Source: source, Err: err}
	}

	f.log.Debug("decoded document", "source", source, "entries", obj.Len())

	return obj, nil
}

// FetchBytes returns the raw body of source. http and https sources are
// fetched with GET; file:// URLs and plain paths are read from disk.
func (f *Fetcher) FetchBytes(ctx context.Context, source string) ([]byte, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, &TransportError{Err: ErrEmptySource}
	}

	if f.httpHelper.IsValidURL(source) {
		return f.get(ctx, source)
	}

	path, err := localPath(source)
	if err != nil {
		return nil, &TransportError{Source: source, Err: err}
	}

	return f.readLocalFile(path)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, &TransportError{Source: rawURL, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header = f.httpHelper.BuildHeaders(f.headers)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{Source: rawURL, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Source:     rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode),
		}
	}

	body, err := f.readLimited(resp.Body)
	if err != nil {
		return nil, &TransportError{Source: rawURL, StatusCode: resp.StatusCode, Err: err}
	}

	f.log.Info("fetched source",
		"url", rawURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(startTime).Round(time.Millisecond),
	)

	return body, nil
}

func (f *Fetcher) readLocalFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &TransportError{Source: path, Err: fmt.Errorf("failed to read local file: %w", err)}
	}
	defer file.Close()

	body, err := f.readLimited(file)
	if err != nil {
		return nil, &TransportError{Source: path, Err: err}
	}

	f.log.Info("read local source", "path", path, "bytes", len(body))

	return body, nil
}

// readLimited reads r fully, failing once more than maxBodyBytes arrive.
func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrBodyTooLarge, f.maxBodyBytes)
	}

	return body, nil
}

func localPath(source string) (string, error) {
	if !strings.Contains(source, "://") {
		return source, nil
	}

	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("invalid source URL: %w", err)
	}

	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	return u.Path, nil
}
