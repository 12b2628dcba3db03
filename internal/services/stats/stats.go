// Package stats computes dashboard figures over the game catalog
package stats

import (
	"math"

	"github.com/mcoot/cyberstore/internal/model"
)

// AuthorCount is the number of games by one author
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// Summary is the dashboard overview
type Summary struct {
	GameCount   int           `json:"gameCount"`
	TotalValue  float64       `json:"totalValue"`
	Authors     []AuthorCount `json:"authors"`
	OnlineCount int           `json:"onlineCount"`
}

// AuthorCounts groups games by author in order of first appearance
func AuthorCounts(games []model.Game) []AuthorCount {
	index := make(map[string]int)
	counts := make([]AuthorCount, 0)

	for _, g := range games {
		i, ok := index[g.Author]
		if !ok {
			index[g.Author] = len(counts)
			counts = append(counts, AuthorCount{Author: g.Author, Count: 1})
			continue
		}
		counts[i].Count++
	}
	return counts
}

// TotalValue sums the prices of all games
func TotalValue(games []model.Game) float64 {
	var total float64
	for _, g := range games {
		total += g.Price
	}
	return total
}

// Round2 rounds v to two decimals for display
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summarize builds the dashboard summary
func Summarize(games []model.Game, online int) Summary {
	return Summary{
		GameCount:   len(games),
		TotalValue:  Round2(TotalValue(games)),
		Authors:     AuthorCounts(games),
		OnlineCount: online,
	}
}
