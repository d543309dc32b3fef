package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/bing-search/pkg/search/bing"
)

type verticalResult struct {
	Vertical string `json:"vertical"`
	Status   int    `json:"status"`
	Body     any    `json:"body"`
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search one or more Bing verticals",
		Long: `Search one or more Bing verticals and print the answers as JSON.

Several verticals are queried concurrently and printed in the order given.

Examples:
  bing-search search xbox
  bing-search search "pizza" -v images --filter size=small --filter color=monochrome
  bing-search search "go release" -v web,news -n 5 --market en-US`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, true, func(s *session) error {
				return runSearch(cmd.Context(), cmd, s.client, strings.Join(args, " "), &opts)
			})
		},
	}

	opts.register(cmd)
	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, client *bing.Client, query string, opts *searchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	verticals, err := opts.parseVerticals()
	if err != nil {
		return err
	}

	calls := make([]bing.Options, len(verticals))
	for i, v := range verticals {
		if calls[i], err = opts.build(cmd, v); err != nil {
			return err
		}
	}

	results := make([]verticalResult, len(verticals))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range verticals {
		g.Go(func() error {
			resp, body, err := client.Fetch(gctx, v, query, calls[i])
			if err != nil {
				return fmt.Errorf("%s: %w", v, err)
			}
			results[i] = verticalResult{Vertical: v.String(), Status: resp.StatusCode, Body: body}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(results) == 1 {
		return writeJSON(cmd.OutOrStdout(), results[0].Body)
	}
	return writeJSON(cmd.OutOrStdout(), results)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
