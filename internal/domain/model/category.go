// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category string does not name a known stat.
var ErrUnknownCategory = errors.New("unknown stat category")

// Category is the stat a line is offered on.
type Category string

// Known stat categories.
const (
	Points    Category = "Points"
	Rebounds  Category = "Rebounds"
	Assists   Category = "Assists"
	Kills     Category = "Kills"
	Headshots Category = "Headshots"
)

// Categories lists every category in canonical order.
var Categories = []Category{Points, Rebounds, Assists, Kills, Headshots}

// BasketballCategories are the categories with sportsbook tables and form rows.
var BasketballCategories = []Category{Points, Rebounds, Assists}

// ParseCategory accepts any casing ("points", "POINTS", "Points").
func ParseCategory(s string) (Category, error) {
	needle := strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), needle) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
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

// FileToken is the lower-case token used in table file names, e.g. "points".
func (c Category) FileToken() string { return strings.ToLower(string(c)) }
