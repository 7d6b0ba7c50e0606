package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// LookupErrorKind classifies failures of the external book search so callers
// can decide how loudly to log them.
type LookupErrorKind string

const (
	LookupTimeout   LookupErrorKind = "timeout"
	LookupNetwork   LookupErrorKind = "network"
	LookupBadStatus LookupErrorKind = "bad_status"
	LookupMalformed LookupErrorKind = "malformed"
)

// LookupError wraps a lookup failure with its kind.
type LookupError struct {
	Kind LookupErrorKind
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Kind, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// AuthorKind tags the shape of the authors value in a search result.
type AuthorKind int

const (
	AuthorAbsent AuthorKind = iota
	AuthorSingle
	AuthorList
)

// AuthorField holds the authors value of a search result. The API usually
// returns a JSON array, occasionally a bare string, and often omits the
// field entirely.
type AuthorField struct {
	Kind   AuthorKind
	Values []string
}

func (a *AuthorField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		a.Kind = AuthorList
		a.Values = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.Kind = AuthorSingle
		a.Values = []string{single}
		return nil
	}

	return fmt.Errorf("authors is neither a list nor a string")
}

// First returns the author to store: the first list entry or the single
// value. ok is false when the field was absent or the list empty.
func (a AuthorField) First() (string, bool) {
	if a.Kind == AuthorAbsent || len(a.Values) == 0 {
		return "", false
	}
	return a.Values[0], true
}

// VolumeMetadata is the best-effort result of a title search. Empty fields
// mean the service had nothing for them; values are never fabricated.
type VolumeMetadata struct {
	Author      AuthorField
	Description string
	CoverURL    string
}

// GoogleBooksClient fetches book metadata from the Google Books volumes API.
type GoogleBooksClient struct {
	httpClient  *http.Client
	baseURL     string
	language    string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewGoogleBooksClient creates a new Google Books API client with rate
// limiting. Results are restricted to the given language.
func NewGoogleBooksClient(baseURL, language string, timeout time.Duration) *GoogleBooksClient {
	return &GoogleBooksClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		language:    language,
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// SearchByTitle queries the volumes endpoint for the single most relevant
// result matching title. A 200 response with zero items is a successful
// lookup that found nothing: all metadata fields stay absent and no error
// is returned. Every failure comes back as a *LookupError.
func (c *GoogleBooksClient) SearchByTitle(ctx context.Context, title string) (*VolumeMetadata, error) {
	if title == "" {
		return nil, &LookupError{Kind: LookupMalformed, Err: errors.New("title is required")}
	}

	c.rateLimiter.wait()

	searchURL := fmt.Sprintf("%s/volumes?q=%s&maxResults=1&orderBy=relevance&langRestrict=%s",
		c.baseURL, url.QueryEscape(title), url.QueryEscape(c.language))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, &LookupError{Kind: LookupMalformed, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", "Bookstore/1.0 (https://github.com/mrlokans/bookstore)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &LookupError{Kind: classifyTransportError(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LookupError{Kind: LookupBadStatus, Err: fmt.Errorf("unexpected status: %d", resp.StatusCode)}
	}

	var result volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &LookupError{Kind: LookupMalformed, Err: fmt.Errorf("decode search response: %w", err)}
	}

	if result.TotalItems == 0 || len(result.Items) == 0 {
		return &VolumeMetadata{}, nil
	}

	info := result.Items[0].VolumeInfo
	return &VolumeMetadata{
		Author:      info.Authors,
		Description: info.Description,
		CoverURL:    info.ImageLinks.Thumbnail,
	}, nil
}

func classifyTransportError(err error) LookupErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return LookupTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return LookupTimeout
	}
	return LookupNetwork
}

// Google Books API response types (internal)

type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title       string      `json:"title"`
	Authors     AuthorField `json:"authors"`
	Description string      `json:"description"`
	ImageLinks  imageLinks  `json:"imageLinks"`
}

type imageLinks struct {
	Thumbnail string `json:"thumbnail"`
}
