package response

import (
	"github.com/mcoot/cyberstore/internal/model"
	"github.com/mcoot/cyberstore/internal/services/query"
	"github.com/mcoot/cyberstore/internal/services/stats"
)

// User represents an account in API responses; passwords are never returned
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u model.User) User {
	return User{
		ID:       string(u.ID),
		Username: u.Username,
		Role:     string(u.Role),
	}
}

// Session is the response for the current session
type Session struct {
	User        User `json:"user"`
	OnlineCount int  `json:"onlineCount"`
}

// Game represents a game in API responses
type Game struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Author      string  `json:"author"`
	CoverURL    string  `json:"coverUrl"`
	Description *string `json:"description,omitempty"`
	ReleaseDate string  `json:"releaseDate"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g model.Game) Game {
	return Game{
		ID:          string(g.ID),
		Name:        g.Name,
		Price:       g.Price,
		Author:      g.Author,
		CoverURL:    g.CoverURL,
		Description: g.Description,
		ReleaseDate: g.ReleaseDate,
	}
}

// GamesFromModel converts a slice of games, never returning nil
func GamesFromModel(games []model.Game) []Game {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return out
}

// GameList is the response for a filtered catalog listing
type GameList struct {
	Items      []Game `json:"items"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	Page       int    `json:"page"`
	View       string `json:"view"`
	PageSize   int    `json:"pageSize"`
	// Query is the canonical query string reproducing this listing
	Query string `json:"query"`
}

// GameListFromView builds a listing response
func GameListFromView(v query.View, st query.State) GameList {
	return GameList{
		Items:      GamesFromModel(v.Items),
		Total:      v.Total,
		TotalPages: v.TotalPages,
		Page:       v.Page,
		View:       string(v.Mode),
		PageSize:   query.PageSize,
		Query:      st.Encode().Encode(),
	}
}

// Stats is the dashboard summary response
type Stats = stats.Summary
