package query

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/cyberstore/internal/model"
)

// PageSize is the number of records per page in pagination mode
const PageSize = 5

// View is the result of applying a State to the catalog
type View struct {
	Items      []model.Game // what is displayed
	Filtered   []model.Game // the full filtered set, used for export
	Total      int
	TotalPages int
	Page       int
	Mode       ViewMode
}

// TotalPages returns the number of pages needed for n records
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// Filter keeps the games matching every filter of s, in stored order.
// Name and author match case-insensitively as substrings; the price must lie
// within the inclusive bounds.
func Filter(games []model.Game, s State) []model.Game {
	lower := cases.Lower(language.Und)
	name := lower.String(s.Name)
	author := lower.String(s.Author)
	minPrice := parseBound(s.MinPrice, 0)
	maxPrice := parseBound(s.MaxPrice, math.Inf(1))

	out := make([]model.Game, 0, len(games))
	for _, g := range games {
		if !strings.Contains(lower.String(g.Name), name) {
			continue
		}
		if !strings.Contains(lower.String(g.Author), author) {
			continue
		}
		if !(g.Price >= minPrice && g.Price <= maxPrice) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Apply filters games and cuts the window selected by s
func Apply(games []model.Game, s State) View {
	filtered := Filter(games, s)
	mode := ParseViewMode(string(s.View))

	v := View{
		Filtered:   filtered,
		Total:      len(filtered),
		TotalPages: TotalPages(len(filtered)),
		Page:       s.Page,
		Mode:       mode,
	}

	if mode == ViewScroll {
		v.Items = filtered
		v.Page = 1
		return v
	}

	v.Items = window(filtered, s.Page)
	return v
}

func window(games []model.Game, page int) []model.Game {
	start := (page - 1) * PageSize
	end := page * PageSize
	if start < 0 {
		start = 0
	}
	if end > len(games) {
		end = len(games)
	}
	if start >= end {
		return []model.Game{}
	}
	return games[start:end]
}

// boundPrefix is the longest leading decimal literal of a price bound
var boundPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// parseBound reads a price bound the way a browser's parseFloat does: leading
// whitespace is skipped and trailing junk after a numeric prefix is ignored.
// An empty bound yields fallback; text without a numeric prefix yields NaN,
// which no price satisfies.
func parseBound(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	literal := boundPrefix.FindString(strings.TrimLeftFunc(raw, unicode.IsSpace))
	if literal == "" {
		return math.NaN()
	}
	// out-of-range literals come back as ±Inf, which is what a browser reads too
	v, _ := strconv.ParseFloat(literal, 64)
	return v
}
