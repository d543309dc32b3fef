// Package mock provides an in-memory search.SearchClient that pages canned
// results the way the Bing web vertical pages count and offset.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/bing-search/pkg/search"
)

type Client struct {
	mu       sync.Mutex
	fallback []search.SearchResult
	answers  map[string][]search.SearchResult
	err      error
	latency  time.Duration
	calls    []search.SearchRequest
}

var _ search.SearchClient = (*Client)(nil)

// New returns a client that answers every query with results.
func New(results ...search.SearchResult) *Client {
	return &Client{
		fallback: results,
		answers:  make(map[string][]search.SearchResult),
	}
}

// Answer sets the results for one exact query.
func (c *Client) Answer(query string, results ...search.SearchResult) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers[query] = results
	return c
}

// Fail makes every subsequent search return err.
func (c *Client) Fail(err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
	return c
}

// Latency delays each answer by d, or until the context is done.
func (c *Client) Latency(d time.Duration) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latency = d
	return c
}

func (c *Client) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	latency, err := c.latency, c.err
	all, ok := c.answers[req.Query]
	if !ok {
		all = c.fallback
	}
	c.mu.Unlock()

	start := time.Now()
	if latency > 0 {
		timer := time.NewTimer(latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err != nil {
		return nil, err
	}

	page := all
	if req.Offset >= len(page) {
		page = nil
	} else if req.Offset > 0 {
		page = page[req.Offset:]
	}
	if req.MaxResults > 0 && len(page) > req.MaxResults {
		page = page[:req.MaxResults]
	}
	if len(page) == 0 {
		return nil, search.ErrEmptyResults
	}

	return &search.SearchResponse{
		Query:          req.Query,
		Results:        append([]search.SearchResult(nil), page...),
		TotalEstimated: len(all),
		ResponseTime:   time.Since(start).Seconds(),
	}, nil
}

// Calls returns a copy of every request seen so far.
func (c *Client) Calls() []search.SearchRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]search.SearchRequest(nil), c.calls...)
}

// LastCall reports the most recent request.
func (c *Client) LastCall() (search.SearchRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return search.SearchRequest{}, false
	}
	return c.calls[len(c.calls)-1], true
}

// Reset forgets recorded calls. Configured answers stay.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}
