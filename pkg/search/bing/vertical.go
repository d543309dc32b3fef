package bing

import (
	"fmt"
	"strings"
)

// Vertical selects the Bing endpoint a query is sent to.
type Vertical int

const (
	Web Vertical = iota + 1
	Images
	News
	Video
	Composite
	RelatedSearch
	Spelling
)

type verticalInfo struct {
	name string
	path string
	// filterKey is the option whose filter mapping this vertical encodes.
	filterKey string
}

var verticals = map[Vertical]verticalInfo{
	Web:           {name: "web", path: "search"},
	Images:        {name: "images", path: "images/search", filterKey: "imageFilters"},
	News:          {name: "news", path: "news/search"},
	Video:         {name: "video", path: "videos/search", filterKey: "videoFilters"},
	Composite:     {name: "composite", path: "search"},
	RelatedSearch: {name: "relatedsearch", path: "search"},
	Spelling:      {name: "spelling", path: "spellcheck"},
}

var verticalNames = map[string]Vertical{
	"web":           Web,
	"search":        Web,
	"images":        Images,
	"image":         Images,
	"news":          News,
	"video":         Video,
	"videos":        Video,
	"composite":     Composite,
	"relatedsearch": RelatedSearch,
	"related":       RelatedSearch,
	"spelling":      Spelling,
	"spell":         Spelling,
	"spellcheck":    Spelling,
}

// ParseVertical resolves a vertical by name, ignoring case.
func ParseVertical(name string) (Vertical, error) {
	v, ok := verticalNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVertical, name)
	}
	return v, nil
}

func (v Vertical) Valid() bool {
	_, ok := verticals[v]
	return ok
}

// Path returns the segment appended to the endpoint root.
func (v Vertical) Path() string {
	return verticals[v].path
}

// FilterKey returns the option key this vertical encodes filter mappings for,
// or "" when it takes none.
func (v Vertical) FilterKey() string {
	return verticals[v].filterKey
}

func (v Vertical) String() string {
	if info, ok := verticals[v]; ok {
		return info.name
	}
	return fmt.Sprintf("vertical(%d)", int(v))
}
