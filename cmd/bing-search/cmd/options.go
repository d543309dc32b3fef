package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/bing-search/pkg/search/bing"
)

// searchOptions holds the request flags shared by search and uri.
type searchOptions struct {
	verticals  []string
	count      int
	offset     int
	market     string
	safeSearch string
	filters    []string // dimension=value
	params     []string // key=value
}

func (o *searchOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.verticals, "vertical", "v", []string{"web"}, "Verticals to query: web, images, news, video, composite, related, spelling")
	cmd.Flags().IntVarP(&o.count, "count", "n", 0, "Number of results per vertical")
	cmd.Flags().IntVar(&o.offset, "offset", 0, "Number of results to skip")
	cmd.Flags().StringVar(&o.market, "market", "", "Market code, e.g. en-US")
	cmd.Flags().StringVar(&o.safeSearch, "safe-search", "", "Safe search level: Off, Moderate, Strict")
	cmd.Flags().StringArrayVar(&o.filters, "filter", nil, "Image or video filter as dimension=value (repeatable)")
	cmd.Flags().StringArrayVar(&o.params, "param", nil, "Extra query parameter as key=value (repeatable)")
}

func (o *searchOptions) parseVerticals() ([]bing.Vertical, error) {
	out := make([]bing.Vertical, 0, len(o.verticals))
	for _, name := range o.verticals {
		v, err := bing.ParseVertical(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// build turns the flags into per-call options for v. Flags the user did not
// set are left out so the configured defaults apply.
func (o *searchOptions) build(cmd *cobra.Command, v bing.Vertical) (bing.Options, error) {
	opts := bing.Options{}

	for _, p := range o.params {
		k, val, err := parseKV(p)
		if err != nil {
			return nil, err
		}
		opts[k] = val
	}

	if cmd.Flags().Changed("count") {
		opts["count"] = o.count
	}
	if cmd.Flags().Changed("offset") {
		opts["offset"] = o.offset
	}
	if o.market != "" {
		opts["mkt"] = o.market
	}
	if o.safeSearch != "" {
		opts["safeSearch"] = o.safeSearch
	}

	if len(o.filters) > 0 {
		key := v.FilterKey()
		if key == "" {
			return nil, fmt.Errorf("%w: %s has no filters", bing.ErrFilterNotSupported, v)
		}
		var fs bing.Filters
		for _, f := range o.filters {
			dim, val, err := parseKV(f)
			if err != nil {
				return nil, err
			}
			fs = fs.Add(dim, val)
		}
		opts[key] = fs
	}

	return opts, nil
}

func parseKV(s string) (string, string, error) {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("%w: expected key=value, got %q", bing.ErrInvalidOption, s)
	}
	return k, strings.TrimSpace(v), nil
}
