package bing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/bing-search/pkg/search"
)

// WebSearcher exposes the web vertical through search.SearchClient.
type WebSearcher struct {
	client *Client
}

var _ search.SearchClient = (*WebSearcher)(nil)

func NewWebSearcher(client *Client) *WebSearcher {
	return &WebSearcher{client: client}
}

type webAnswer struct {
	WebPages struct {
		TotalEstimatedMatches int       `json:"totalEstimatedMatches"`
		Value                 []webPage `json:"value"`
	} `json:"webPages"`
}

type webPage struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	DisplayURL      string `json:"displayUrl"`
	Snippet         string `json:"snippet"`
	DateLastCrawled string `json:"dateLastCrawled"`
}

var freshness = map[string]string{
	"day":   "Day",
	"week":  "Week",
	"month": "Month",
}

func (s *WebSearcher) Search(ctx context.Context, req search.SearchRequest) (*search.SearchResponse, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: %w", search.ErrInvalidRequest, ErrEmptyQuery)
	}

	opts := Options{
		"mkt":        req.Market,
		"safeSearch": req.SafeSearch,
	}
	// zero keeps the client's configured count and offset
	if req.MaxResults > 0 {
		opts["count"] = req.MaxResults
	}
	if req.Offset > 0 {
		opts["offset"] = req.Offset
	}
	if req.TimeRange != "" {
		f, ok := freshness[strings.ToLower(req.TimeRange)]
		if !ok {
			return nil, fmt.Errorf("%w: %w: time range %q", search.ErrInvalidRequest, ErrInvalidOption, req.TimeRange)
		}
		opts["freshness"] = f
	}

	cl, err := s.client.prepare(Web, siteQuery(req), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrInvalidRequest, err)
	}

	start := time.Now()
	_, _, raw, err := s.client.do(ctx, cl)
	if err != nil {
		return nil, s.mapError(err)
	}

	var answer webAnswer
	if err := json.Unmarshal(raw, &answer); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(answer.WebPages.Value) == 0 {
		return nil, search.ErrEmptyResults
	}

	return toSearchResponse(req.Query, &answer, time.Since(start)), nil
}

func (s *WebSearcher) mapError(err error) error {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %w", search.ErrSearchFailed, err)
	}

	switch statusErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return search.ErrUnauthorized
	case http.StatusTooManyRequests:
		return search.ErrRateLimit
	case http.StatusBadRequest:
		return search.ErrInvalidRequest
	default:
		s.client.logger.Debug("bing search failed",
			zap.Int("status", statusErr.StatusCode),
			zap.String("body", statusErr.Body),
		)
		return fmt.Errorf("%w: status %d", search.ErrSearchFailed, statusErr.StatusCode)
	}
}

// siteQuery appends site: operators for the domain filters.
func siteQuery(req search.SearchRequest) string {
	q := req.Query
	if len(req.IncludeDomains) > 0 {
		sites := make([]string, len(req.IncludeDomains))
		for i, d := range req.IncludeDomains {
			sites[i] = "site:" + d
		}
		q += " (" + strings.Join(sites, " OR ") + ")"
	}
	for _, d := range req.ExcludeDomains {
		q += " -site:" + d
	}
	return q
}

func toSearchResponse(query string, answer *webAnswer, elapsed time.Duration) *search.SearchResponse {
	results := make([]search.SearchResult, len(answer.WebPages.Value))
	for i, p := range answer.WebPages.Value {
		results[i] = search.SearchResult{
			Title:         p.Name,
			URL:           p.URL,
			DisplayURL:    p.DisplayURL,
			Content:       p.Snippet,
			PublishedDate: p.DateLastCrawled,
		}
	}

	return &search.SearchResponse{
		Query:          query,
		Results:        results,
		TotalEstimated: answer.WebPages.TotalEstimatedMatches,
		ResponseTime:   elapsed.Seconds(),
	}
}
