// Package search defines a provider-neutral web search interface.
package search

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized   = errors.New("invalid API key")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrSearchFailed   = errors.New("search request failed")
	ErrEmptyResults   = errors.New("no results found")
)

type SearchClient interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

type SearchRequest struct {
	Query          string
	IncludeDomains []string
	ExcludeDomains []string
	MaxResults     int
	Offset         int
	Market         string
	SafeSearch     string
	// TimeRange is one of "day", "week", "month"; empty means any time.
	TimeRange string
}

type SearchResponse struct {
	Query          string         `json:"query"`
	Results        []SearchResult `json:"results"`
	TotalEstimated int            `json:"total_estimated"`
	ResponseTime   float64        `json:"response_time"`
}

type SearchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	DisplayURL    string `json:"display_url,omitempty"`
	Content       string `json:"content,omitempty"`
	PublishedDate string `json:"published_date,omitempty"`
}
