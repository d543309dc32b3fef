package bing

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FilterSpec is a value accepted for imageFilters and videoFilters.
type FilterSpec interface {
	Encode() string
}

// RawFilter is an already encoded filter string. It is forwarded unchanged.
type RawFilter string

func (f RawFilter) Encode() string {
	return string(f)
}

type Filter struct {
	Dimension string
	Value     string
}

// Filters is an ordered filter mapping, encoded as Dim:Val+Dim:Val.
type Filters []Filter

// NewFilters builds Filters from alternating dimension/value arguments.
// A trailing dimension without a value is ignored.
func NewFilters(pairs ...string) Filters {
	f := make(Filters, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		f = append(f, Filter{Dimension: pairs[i], Value: pairs[i+1]})
	}
	return f
}

func (f Filters) Add(dimension, value string) Filters {
	return append(f, Filter{Dimension: dimension, Value: value})
}

func (f Filters) Encode() string {
	parts := make([]string, 0, len(f))
	for _, flt := range f {
		parts = append(parts, capitalize(flt.Dimension)+":"+capitalize(flt.Value))
	}
	return strings.Join(parts, "+")
}

// EncodeFilters encodes any supported filter value. Strings pass through,
// map keys are taken in sorted order since Go maps carry no insertion order.
func EncodeFilters(v any) (string, error) {
	switch f := v.(type) {
	case nil:
		return "", nil
	case string:
		return f, nil
	case FilterSpec:
		return f.Encode(), nil
	case map[string]string:
		keys := make([]string, 0, len(f))
		for k := range f {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Filters, 0, len(keys))
		for _, k := range keys {
			out = append(out, Filter{Dimension: k, Value: f[k]})
		}
		return out.Encode(), nil
	default:
		return "", fmt.Errorf("%w: unsupported filter type %T", ErrInvalidOption, v)
	}
}

// isFilterMapping reports whether v still needs encoding.
func isFilterMapping(v any) bool {
	switch v.(type) {
	case RawFilter, string:
		return false
	case FilterSpec, map[string]string:
		return true
	}
	return false
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
