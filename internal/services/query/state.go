// Package query filters and pages the game catalog and round-trips the list
// state through URL query parameters.
package query

import (
	"net/url"
	"strconv"
)

// ViewMode selects how the filtered list is presented
type ViewMode string

const (
	ViewPagination ViewMode = "pagination"
	ViewScroll     ViewMode = "scroll"
)

// URL parameter names
const (
	ParamName     = "name"
	ParamAuthor   = "author"
	ParamMinPrice = "minPrice"
	ParamMaxPrice = "maxPrice"
	ParamView     = "view"
	ParamPage     = "page"
)

// ParseViewMode maps unknown values to pagination
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewScroll {
		return ViewScroll
	}
	return ViewPagination
}

// State is the list page state carried in the URL.
// Price bounds stay raw text so they round-trip exactly as typed.
type State struct {
	Name     string
	Author   string
	MinPrice string
	MaxPrice string
	View     ViewMode
	Page     int
}

// DefaultState is an unfiltered first page in pagination mode
func DefaultState() State {
	return State{View: ViewPagination, Page: 1}
}

// Decode reads a State from URL parameters, falling back to defaults for
// anything absent or malformed
func Decode(values url.Values) State {
	st := State{
		Name:     values.Get(ParamName),
		Author:   values.Get(ParamAuthor),
		MinPrice: values.Get(ParamMinPrice),
		MaxPrice: values.Get(ParamMaxPrice),
		View:     ParseViewMode(values.Get(ParamView)),
		Page:     1,
	}

	if st.View == ViewPagination {
		if p, err := strconv.Atoi(values.Get(ParamPage)); err == nil && p > 0 {
			st.Page = p
		}
	}
	return st
}

// HasState reports whether values carry a list state. Every encoded State
// sets the view, so filters alone or unrelated parameters do not count.
func HasState(values url.Values) bool {
	return values.Has(ParamView) || values.Has(ParamPage)
}

// Encode writes the State as URL parameters.
// Empty filters are omitted and the page is only kept in pagination mode.
func (s State) Encode() url.Values {
	values := url.Values{}
	if s.Name != "" {
		values.Set(ParamName, s.Name)
	}
	if s.Author != "" {
		values.Set(ParamAuthor, s.Author)
	}
	if s.MinPrice != "" {
		values.Set(ParamMinPrice, s.MinPrice)
	}
	if s.MaxPrice != "" {
		values.Set(ParamMaxPrice, s.MaxPrice)
	}

	n := s.Normalize()
	values.Set(ParamView, string(n.View))
	if n.View == ViewPagination {
		values.Set(ParamPage, strconv.Itoa(n.Page))
	}
	return values
}

// Normalize returns the canonical form of s: a known view mode, page 1 in
// scroll mode and a positive page otherwise
func (s State) Normalize() State {
	s.View = ParseViewMode(string(s.View))
	if s.View == ViewScroll || s.Page < 1 {
		s.Page = 1
	}
	return s
}

// WithFilters replaces all filters. In pagination mode the page resets to 1.
func (s State) WithFilters(name, author, minPrice, maxPrice string) State {
	s.Name = name
	s.Author = author
	s.MinPrice = minPrice
	s.MaxPrice = maxPrice
	if s.View == ViewPagination {
		s.Page = 1
	}
	return s
}

// WithPage moves to page p
func (s State) WithPage(p int) State {
	s.Page = p
	return s.Normalize()
}

// WithView switches the view mode, keeping the filters
func (s State) WithView(v ViewMode) State {
	s.View = v
	return s.Normalize()
}

// AfterDelete returns the state to show once a record visible in the current
// window has been deleted: a page left empty steps back by one
func AfterDelete(s State, visibleBefore int) State {
	if s.View == ViewPagination && visibleBefore == 1 && s.Page > 1 {
		s.Page--
	}
	return s
}
