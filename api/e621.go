// Package api contains the code required to search for and fetch posts from
// the e621/e926 posts API. Only the small slice of the API this tool needs is
// covered: listing posts by tags and fetching a post's file.
package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	clientTimeout     = time.Minute
	defaultBaseURL    = "https://e621.net"
	defaultSFWBaseURL = "https://e926.net"
	userAgent         = "e6dl: go edition"
)

// MaxPageSize is the hard limit the API enforces on the limit parameter.
const MaxPageSize = 320

// ErrNoFile is returned when a post carries no downloadable file URL.
// The API hides file URLs for posts that match a blacklisted tag.
var ErrNoFile = errors.New("post has no downloadable file (a tag might be blacklisted)")

// Client is used to talk to one of the two API hosts.
type Client struct {
	Posts *PostService

	client *http.Client

	base *url.URL
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.client.Timeout = timeout
	return c
}

func (c *Client) WithBaseURL(u *url.URL) *Client {
	c.base = u
	return c
}

func (c *Client) BaseURL() *url.URL {
	return c.base
}

// SearchOptions describe a single listing request.
type SearchOptions struct {
	Tags  []string
	Limit int
	Page  PageSelector
}

// tagString joins the search tags the way the API expects them. Cursor
// pagination only works with a fixed sort, so the a<id>/b<id> page forms
// force order:id_desc onto the query.
func (o *SearchOptions) tagString() string {
	tags := strings.Join(o.Tags, " ")
	if o.Page.Cursored() {
		if tags != "" {
			tags += " "
		}
		tags += "order:id_desc"
	}
	return tags
}

func (c *Client) searchURL(opts *SearchOptions) string {
	u := c.base.JoinPath("posts.json")

	values := u.Query()
	values.Add("tags", opts.tagString())
	values.Add("limit", fmt.Sprint(opts.Limit))
	values.Add("page", opts.Page.String())

	u.RawQuery = values.Encode()

	return u.String()
}

func (c *Client) get(ctx context.Context, surl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, surl, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Add("User-Agent", userAgent)

	return c.client.Do(req)
}

// GetFile fetches the raw bytes of the post's file.
func (c *Client) GetFile(ctx context.Context, p *Post) ([]byte, error) {
	if !p.HasFile() {
		return nil, ErrNoFile
	}

	res, err := c.get(ctx, p.File.URL)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, newAPIError(res)
	}

	return io.ReadAll(res.Body)
}

// DefaultClient returns a client for the unfiltered host (e621.net).
func DefaultClient() *Client {
	return newClient(defaultBaseURL)
}

// DefaultSFWClient returns a client for the content-filtered host (e926.net).
func DefaultSFWClient() *Client {
	return newClient(defaultSFWBaseURL)
}

func newClient(base string) *Client {
	baseURL, _ := url.Parse(base)
	c := &Client{
		client: &http.Client{
			Transport: &http.Transport{
				TLSNextProto: map[string]func(authority string, c *tls.Conn) http.RoundTripper{},
			},
			Timeout: clientTimeout,
		},
		base: baseURL,
	}
	c.Posts = &PostService{
		client: c,
	}
	return c
}

// APIError is a non-success response from the API, carrying the status code
// and the message the service included in its error body, if any.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api returned HTTP %d", e.StatusCode)
}

func newAPIError(res *http.Response) *APIError {
	var body struct {
		Message string `json:"message"`
	}
	// The body is optional detail, a failure to decode it keeps the status.
	_ = json.NewDecoder(io.LimitReader(res.Body, 4096)).Decode(&body)

	return &APIError{
		Message:    body.Message,
		StatusCode: res.StatusCode,
	}
}

// DecodeError is a listing response whose body was not the expected JSON.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return "unexpected response body: " + e.err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.err
}
