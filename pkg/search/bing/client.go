// Package bing is a client for the Bing Search API covering the web, image,
// news, video, composite, related-search and spelling verticals.
package bing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint  = "https://api.cognitive.microsoft.com/bing/v7.0/"
	DefaultUserAgent = "Bing Search Client for Go"
	DefaultTimeout   = 5000 * time.Millisecond
	DefaultCount     = 50

	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
)

// Config is fixed at construction. Per-call Options are applied to a copy.
type Config struct {
	Endpoint  string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	Count     int
	Offset    int
	// MaxConns caps connections per host; 0 means unbounded.
	MaxConns int
}

// Response carries the HTTP metadata of a completed call.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
}

// Callback receives the outcome of a search exactly once. body holds the
// decoded JSON document on success and the raw body text otherwise.
type Callback func(err error, resp *Response, body any)

// Recorder observes finished requests.
type Recorder interface {
	RecordSearch(vertical, outcome string, duration time.Duration)
}

const (
	OutcomeOK             = "ok"
	OutcomeTransportError = "transport_error"
	OutcomeStatusError    = "status_error"
	OutcomeParseError     = "parse_error"
)

type Client struct {
	cfg      Config
	http     *resty.Client
	logger   *zap.Logger
	recorder Recorder
}

type ClientOption func(*Client)

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

// New never performs I/O and never fails; zero fields take defaults.
func New(cfg Config, opts ...ClientOption) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Count == 0 {
		cfg.Count = DefaultCount
	}

	c := &Client{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxConns > 0 {
		transport.MaxConnsPerHost = cfg.MaxConns
	}

	c.http = resty.New().
		SetTransport(transport).
		SetLogger(c.logger.Sugar())

	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Search runs query against vertical and hands the outcome to cb. Usage
// errors are returned before any network activity and cb is not called.
// Otherwise Search blocks until the request completes, calls cb once and
// returns nil.
func (c *Client) Search(ctx context.Context, vertical Vertical, query string, opts Options, cb Callback) error {
	if cb == nil {
		return ErrCallbackRequired
	}
	cl, err := c.prepare(vertical, query, opts)
	if err != nil {
		return err
	}
	resp, body, _, err := c.do(ctx, cl)
	cb(err, resp, body)
	return nil
}

// Fetch is Search without the callback: usage, transport and protocol errors
// all come back as the error value.
func (c *Client) Fetch(ctx context.Context, vertical Vertical, query string, opts Options) (*Response, any, error) {
	cl, err := c.prepare(vertical, query, opts)
	if err != nil {
		return nil, nil, err
	}
	resp, body, _, err := c.do(ctx, cl)
	return resp, body, err
}

// BuildURI returns the request URI a call would use, without sending it.
func (c *Client) BuildURI(vertical Vertical, query string, opts Options) (string, error) {
	cl, err := c.prepare(vertical, query, opts)
	if err != nil {
		return "", err
	}
	return cl.uri, nil
}

func (c *Client) Web(ctx context.Context, query string, opts Options, cb Callback) error {
	return c.Search(ctx, Web, query, opts, cb)
}

func (c *Client) Images(ctx context.Context, query string, opts Options, cb Callback) error {
	return c.Search(ctx, Images, query, opts, cb)
}

func (c *Client) News(ctx context.Context, query string, opts Options, cb Callback) error {
	return c.Search(ctx, News, query, opts, cb)
}

func (c *Client) Video(ctx context.Context, query string, opts Options, cb Callback) error {
	return c.Search(ctx, Video, query, opts, cb)
}

func (c *Client) Composite(ctx context.Context, query string, opts Options, cb Callback) error {
	return c.Search(ctx, Composite, query, opts, cb)
}

func (c *Client) RelatedSearch(ctx context.Context, query string, opts Options, cb Callback) error {
	return c.Search(ctx, RelatedSearch, query, opts, cb)
}

func (c *Client) Spelling(ctx context.Context, query string, opts Options, cb Callback) error {
	return c.Search(ctx, Spelling, query, opts, cb)
}

func (c *Client) prepare(vertical Vertical, query string, opts Options) (*call, error) {
	if !vertical.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVertical, vertical)
	}
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	cl := &call{
		vertical:  vertical,
		query:     query,
		endpoint:  c.cfg.Endpoint,
		apiKey:    c.cfg.APIKey,
		userAgent: c.cfg.UserAgent,
		method:    http.MethodGet,
		timeout:   c.cfg.Timeout,
		pool:      c.cfg.MaxConns,
		params: map[string]any{
			"count":  c.cfg.Count,
			"offset": c.cfg.Offset,
		},
	}
	if opts != nil {
		for key, v := range opts.Resolve() {
			if err := cl.set(key, v); err != nil {
				return nil, err
			}
		}
	}
	if cl.pool != c.cfg.MaxConns {
		c.logger.Debug("per-call pool size ignored, transport is shared",
			zap.Int("requested", cl.pool),
			zap.Int("configured", c.cfg.MaxConns),
		)
	}

	if err := cl.buildURI(); err != nil {
		return nil, err
	}
	return cl, nil
}

func (c *Client) do(ctx context.Context, cl *call) (*Response, any, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, cl.timeout)
	defer cancel()

	c.logger.Debug("bing request",
		zap.String("vertical", cl.vertical.String()),
		zap.String("method", cl.method),
		zap.String("uri", cl.uri),
	)

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(subscriptionKeyHeader, cl.apiKey).
		SetHeader("User-Agent", cl.userAgent).
		Execute(cl.method, cl.uri)
	if err != nil {
		c.record(cl.vertical, OutcomeTransportError, start)
		c.logger.Debug("bing transport error", zap.Error(err))
		return toResponse(resp), rawBody(resp), nil, err
	}

	raw := resp.Body()
	r := toResponse(resp)

	if resp.StatusCode() != http.StatusOK {
		c.record(cl.vertical, OutcomeStatusError, start)
		c.logger.Debug("bing non-200 response",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", string(raw)),
		)
		return r, string(raw), raw, &StatusError{StatusCode: resp.StatusCode(), Body: string(raw)}
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		c.record(cl.vertical, OutcomeParseError, start)
		return r, string(raw), raw, &ParseError{Body: string(raw), Err: err}
	}

	c.record(cl.vertical, OutcomeOK, start)
	return r, body, raw, nil
}

func (c *Client) record(v Vertical, outcome string, start time.Time) {
	if c.recorder != nil {
		c.recorder.RecordSearch(v.String(), outcome, time.Since(start))
	}
}

func toResponse(resp *resty.Response) *Response {
	if resp == nil || resp.RawResponse == nil {
		return nil
	}
	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Header:     resp.Header(),
	}
}

func rawBody(resp *resty.Response) any {
	if resp == nil || len(resp.Body()) == 0 {
		return nil
	}
	return string(resp.Body())
}
