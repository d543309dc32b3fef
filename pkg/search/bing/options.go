package bing

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Options holds per-call overrides. Keys may use any historical spelling and
// are matched case-insensitively; each folds onto one canonical key before the
// request is built. A nil Options means nothing was supplied.
type Options map[string]any

// Client-only keys configure the request and never reach the query string.
const (
	optEndpoint  = "endpoint"
	optAPIKey    = "key"
	optUserAgent = "userAgent"
	optTimeout   = "timeout"
	optPool      = "pool"
	optMethod    = "method"
)

var clientOnly = map[string]bool{
	optEndpoint:  true,
	optAPIKey:    true,
	optUserAgent: true,
	optTimeout:   true,
	optPool:      true,
	optMethod:    true,
}

// aliases maps lower-cased historical names onto canonical keys.
var aliases = map[string]string{
	"top":                  "count",
	"skip":                 "offset",
	"videosortby":          "videoSortBy",
	"videofilters":         "videoFilters",
	"adult":                "safeSearch",
	"safesearch":           "safeSearch",
	"market":               "mkt",
	"imagefilters":         "imageFilters",
	"newssortby":           "newsSortBy",
	"newscategory":         "newsCategory",
	"newslocationoverride": "newsLocationOverride",

	"rooturi":          optEndpoint,
	"baseendpoint":     optEndpoint,
	"acckey":           optAPIKey,
	"apikey":           optAPIKey,
	"useragentlabel":   optUserAgent,
	"reqtimeout":       optTimeout,
	"requesttimeoutms": optTimeout,
	"maxsockets":       optPool,
	"maxconns":         optPool,
}

type queryParam struct {
	key    string
	filter bool
	encode func(v any) (string, error)
}

// queryParams lists the known canonical query keys in emission order.
// Keys outside this table are passed through verbatim after these, sorted.
var queryParams = []queryParam{
	{key: "count", encode: encodeScalar},
	{key: "offset", encode: encodeScalar},
	{key: "mkt", encode: encodeScalar},
	{key: "safeSearch", encode: encodeScalar},
	{key: "setLang", encode: encodeScalar},
	{key: "cc", encode: encodeScalar},
	{key: "freshness", encode: encodeScalar},
	{key: "responseFilter", encode: encodeScalar},
	{key: "answerCount", encode: encodeScalar},
	{key: "promote", encode: encodeScalar},
	{key: "textDecorations", encode: encodeScalar},
	{key: "textFormat", encode: encodeScalar},
	{key: "imageFilters", filter: true, encode: EncodeFilters},
	{key: "videoFilters", filter: true, encode: EncodeFilters},
	{key: "videoSortBy", encode: encodeScalar},
	{key: "newsSortBy", encode: encodeScalar},
	{key: "newsCategory", encode: encodeScalar},
	{key: "newsLocationOverride", encode: encodeScalar},
	{key: "mode", encode: encodeScalar},
}

// canonical maps every lower-cased known spelling to its canonical key.
var canonical = func() map[string]string {
	m := make(map[string]string, len(queryParams)+len(clientOnly)+len(aliases))
	for _, p := range queryParams {
		m[strings.ToLower(p.key)] = p.key
	}
	for k := range clientOnly {
		m[strings.ToLower(k)] = k
	}
	for old, key := range aliases {
		m[old] = key
	}
	return m
}()

// CanonicalKey returns the canonical key for an option name and whether the
// name already is that exact spelling. Unknown names are their own canonical
// key.
func CanonicalKey(name string) (string, bool) {
	if key, ok := canonical[strings.ToLower(name)]; ok {
		return key, name == key
	}
	return name, true
}

// Resolve folds every option name onto its canonical key. When both a
// canonical and a historical spelling are present, the canonical value wins
// unless it is empty.
func (o Options) Resolve() map[string]any {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)

	current := make(map[string]any, len(o))
	legacy := make(map[string]any)
	for _, name := range names {
		v := o[name]
		key, isCurrent := CanonicalKey(name)
		if isCurrent {
			current[key] = v
			continue
		}
		if prev, seen := legacy[key]; !seen || isEmpty(prev) {
			legacy[key] = v
		}
	}

	for key, v := range legacy {
		if cur, ok := current[key]; !ok || isEmpty(cur) {
			current[key] = v
		}
	}
	return current
}

// call is the fully resolved form of one search invocation.
type call struct {
	vertical  Vertical
	query     string
	endpoint  string
	apiKey    string
	userAgent string
	method    string
	timeout   time.Duration
	pool      int
	params    map[string]any
	uri       string
}

func (c *call) set(key string, v any) error {
	if strings.EqualFold(key, "q") {
		return fmt.Errorf("%w: q is set from the query argument", ErrInvalidOption)
	}
	if !clientOnly[key] {
		c.params[key] = v
		return nil
	}
	if isEmpty(v) {
		return nil
	}

	switch key {
	case optTimeout:
		d, err := toDuration(v)
		if err != nil {
			return err
		}
		if d > 0 {
			c.timeout = d
		}
		return nil
	case optPool:
		n, err := toInt(v)
		if err != nil {
			return err
		}
		c.pool = n
		return nil
	}

	s, err := encodeScalar(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	switch key {
	case optEndpoint:
		c.endpoint = s
	case optAPIKey:
		c.apiKey = s
	case optUserAgent:
		c.userAgent = s
	case optMethod:
		c.method = strings.ToUpper(s)
	}
	return nil
}

func (c *call) buildURI() error {
	query, err := encodeParams(c.vertical, c.params)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(c.endpoint)
	if !strings.HasSuffix(c.endpoint, "/") {
		b.WriteByte('/')
	}
	b.WriteString(c.vertical.Path())
	b.WriteString("?q=")
	b.WriteString(url.QueryEscape(c.query))
	if query != "" {
		b.WriteByte('&')
		b.WriteString(query)
	}
	c.uri = b.String()
	return nil
}

func encodeParams(v Vertical, params map[string]any) (string, error) {
	parts := make([]string, 0, len(params))
	emit := func(key string, val any, encode func(any) (string, error)) error {
		s, err := encode(val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if s != "" {
			parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(s))
		}
		return nil
	}

	known := make(map[string]bool, len(queryParams))
	for _, p := range queryParams {
		known[p.key] = true
		val, ok := params[p.key]
		if !ok {
			continue
		}
		if p.filter && isFilterMapping(val) && p.key != v.FilterKey() {
			return "", fmt.Errorf("%w: %s on %s", ErrFilterNotSupported, p.key, v)
		}
		if err := emit(p.key, val, p.encode); err != nil {
			return "", err
		}
	}

	rest := make([]string, 0)
	for key := range params {
		if !known[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		if err := emit(key, params[key], encodeScalar); err != nil {
			return "", err
		}
	}
	return strings.Join(parts, "&"), nil
}

// encodeScalar renders a query value. False, zero and empty values render as
// "" and are left out of the query.
func encodeScalar(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case RawFilter:
		return string(x), nil
	case bool:
		if x {
			return "true", nil
		}
		return "", nil
	case fmt.Stringer:
		return x.String(), nil
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return "", fmt.Errorf("%w: unsupported value type %T", ErrInvalidOption, v)
	}
	if f == 0 {
		return "", nil
	}
	out, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("%w: unsupported value type %T", ErrInvalidOption, v)
	}
	return out, nil
}

func isEmpty(v any) bool {
	if isFilterMapping(v) {
		s, _ := EncodeFilters(v)
		return s == ""
	}
	s, err := encodeScalar(v)
	return err == nil && s == ""
}

// toDuration reads a timeout. Bare numbers, including numeric strings, are
// milliseconds.
func toDuration(v any) (time.Duration, error) {
	var d time.Duration
	switch x := v.(type) {
	case bool:
		return 0, fmt.Errorf("%w: timeout of type bool", ErrInvalidOption)
	case time.Duration:
		d = x
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			ms, convErr := cast.ToFloat64E(x)
			if convErr != nil {
				return 0, fmt.Errorf("%w: timeout %q", ErrInvalidOption, x)
			}
			parsed = time.Duration(ms * float64(time.Millisecond))
		}
		d = parsed
	default:
		ms, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, fmt.Errorf("%w: timeout of type %T", ErrInvalidOption, v)
		}
		d = time.Duration(ms * float64(time.Millisecond))
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: negative timeout", ErrInvalidOption)
	}
	return d, nil
}

func toInt(v any) (int, error) {
	if _, ok := v.(bool); ok {
		return 0, fmt.Errorf("%w: expected integer, got bool", ErrInvalidOption)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%w: expected integer, got %T", ErrInvalidOption, v)
	}
	return n, nil
}
