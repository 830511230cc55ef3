package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxPageSize is the largest page the upstream accepts.
const MaxPageSize = 100

// ErrMalformed reports a response that could not be decoded into the
// expected envelope.
var ErrMalformed = errors.New("newsapi: malformed response")

// Client is a minimal NewsAPI v2 client.
// Docs: https://newsapi.org/docs/endpoints
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a new NewsAPI client. baseURL defaults to https://newsapi.org.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://newsapi.org"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Source is the publisher reference attached to every article.
type Source struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article mirrors the upstream article shape. Optional fields are pointers.
type Article struct {
	Source      *Source `json:"source"`
	Author      *string `json:"author"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt *string `json:"publishedAt"`
	Content     *string `json:"content"`
}

// Response is the page envelope. Status and Articles are pointers so a
// missing field can be told apart from an empty one.
type Response struct {
	Status       *string    `json:"status"`
	TotalResults int        `json:"totalResults"`
	Articles     *[]Article `json:"articles"`
	Code         string     `json:"code,omitempty"`
	Message      string     `json:"message,omitempty"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" && e.Message == "" {
		return fmt.Sprintf("newsapi: status %d", e.StatusCode)
	}
	return fmt.Sprintf("newsapi: status %d code=%s message=%s", e.StatusCode, e.Code, e.Message)
}

// TopHeadlines queries GET /v2/top-headlines.
func (c *Client) TopHeadlines(ctx context.Context, params map[string]string, page, pageSize int) (*Response, error) {
	return c.get(ctx, "top-headlines", params, page, pageSize)
}

// Everything queries GET /v2/everything.
func (c *Client) Everything(ctx context.Context, params map[string]string, page, pageSize int) (*Response, error) {
	return c.get(ctx, "everything", params, page, pageSize)
}

// WithAPIKey returns a copy of the client bound to another credential.
func (c *Client) WithAPIKey(apiKey string) *Client {
	c2 := *c
	c2.apiKey = apiKey
	return &c2
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, page, pageSize int) (*Response, error) {
	q := url.Values{}
	for k, v := range params {
		if strings.TrimSpace(v) == "" {
			continue
		}
		q.Set(k, v)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(min(pageSize, MaxPageSize)))
	}
	u := fmt.Sprintf("%s/v2/%s?%s", c.baseURL, endpoint, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope Response
		if json.Unmarshal(b, &envelope) == nil {
			apiErr.Code = envelope.Code
			apiErr.Message = envelope.Message
		}
		return nil, apiErr
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &out, nil
}
