package model

// GameID identifies a game record in the catalog
type GameID string

// Game is a single catalog entry
type Game struct {
	ID          GameID  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Author      string  `json:"author"`
	CoverURL    string  `json:"coverUrl"`     // plain URL, data URI, or empty
	Description *string `json:"description,omitempty"`
	ReleaseDate string  `json:"releaseDate"` // YYYY-MM-DD
}

// GetID returns the record identifier
func (g *Game) GetID() string {
	return string(g.ID)
}

// SetID assigns the record identifier
func (g *Game) SetID(id string) {
	g.ID = GameID(id)
}

// DescriptionOr returns the description, or fallback when it is missing or empty
func (g *Game) DescriptionOr(fallback string) string {
	if g.Description == nil || *g.Description == "" {
		return fallback
	}
	return *g.Description
}

// GamePatch is a partial update of a Game.
// Nil fields are left unchanged; the ID can never be patched.
type GamePatch struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Author      *string  `json:"author,omitempty"`
	CoverURL    *string  `json:"coverUrl,omitempty"`
	Description *string  `json:"description,omitempty"`
	ReleaseDate *string  `json:"releaseDate,omitempty"`
}

// Apply merges the non-nil fields of the patch into g
func (p GamePatch) Apply(g *Game) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Price != nil {
		g.Price = *p.Price
	}
	if p.Author != nil {
		g.Author = *p.Author
	}
	if p.CoverURL != nil {
		g.CoverURL = *p.CoverURL
	}
	if p.Description != nil {
		d := *p.Description
		g.Description = &d
	}
	if p.ReleaseDate != nil {
		g.ReleaseDate = *p.ReleaseDate
	}
}

// IsEmpty reports whether the patch changes nothing
func (p GamePatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Author == nil &&
		p.CoverURL == nil && p.Description == nil && p.ReleaseDate == nil
}
