package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/bing-search/pkg/search"
	"github.com/kitbuilder587/bing-search/pkg/search/bing"
)

// resultsOptions holds CLI flags for results.
type resultsOptions struct {
	count      int
	offset     int
	market     string
	safeSearch string
	freshness  string // day, week, month
	sites      []string
	exclude    []string
	format     string // text, json
}

func newResultsCmd() *cobra.Command {
	var opts resultsOptions

	cmd := &cobra.Command{
		Use:   "results <query>",
		Short: "List web results as titles, links and snippets",
		Long: `List web results in a compact form.

Unlike search, which prints the raw API answer, results reads only the
web pages and can scope them to or away from sites.

Examples:
  bing-search results "fintech regulation" --site bis.org --site ecb.europa.eu
  bing-search results "go generics" -n 5 --freshness week --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := search.SearchRequest{
				Query:          strings.Join(args, " "),
				IncludeDomains: opts.sites,
				ExcludeDomains: opts.exclude,
				MaxResults:     opts.count,
				Offset:         opts.offset,
				Market:         opts.market,
				SafeSearch:     opts.safeSearch,
				TimeRange:      opts.freshness,
			}
			return withSession(cmd, true, func(s *session) error {
				return runResults(cmd.Context(), cmd.OutOrStdout(), bing.NewWebSearcher(s.client), req, opts.format)
			})
		},
	}

	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "Number of results")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Number of results to skip")
	cmd.Flags().StringVar(&opts.market, "market", "", "Market code, e.g. en-US")
	cmd.Flags().StringVar(&opts.safeSearch, "safe-search", "", "Safe search level: Off, Moderate, Strict")
	cmd.Flags().StringVar(&opts.freshness, "freshness", "", "Only pages from the last day, week or month")
	cmd.Flags().StringSliceVar(&opts.sites, "site", nil, "Restrict to a site (repeatable)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude-site", nil, "Leave out a site (repeatable)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runResults(ctx context.Context, w io.Writer, sc search.SearchClient, req search.SearchRequest, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q, want text or json", format)
	}

	resp, err := sc.Search(ctx, req)
	if err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(w, resp)
	}

	fmt.Fprintf(w, "%d of about %d results for %q\n", len(resp.Results), resp.TotalEstimated, resp.Query)
	for i, r := range resp.Results {
		fmt.Fprintf(w, "\n%d. %s\n   %s\n", req.Offset+i+1, r.Title, r.URL)
		if r.Content != "" {
			fmt.Fprintf(w, "   %s\n", r.Content)
		}
	}
	return nil
}
