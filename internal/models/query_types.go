// internal/models/query_types.go
package models

import (
	"fmt"
	"strings"
)

// Category tags a research question and the insight persisted from its answer.
type Category string

const (
	CategoryInjury   Category = "injury"
	CategoryMatchup  Category = "matchup"
	CategoryStartSit Category = "start_sit"
	CategoryTrade    Category = "trade"
	CategoryWaiver   Category = "waiver"
	CategoryNews     Category = "news"
)

// Categories lists every known category in declaration order.
var Categories = []Category{
	CategoryInjury,
	CategoryMatchup,
	CategoryStartSit,
	CategoryTrade,
	CategoryWaiver,
	CategoryNews,
}

func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory normalises s and returns the matching category.
// An empty string yields an empty category and no error, meaning "any".
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}
