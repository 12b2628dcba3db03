package request

import "github.com/mcoot/cyberstore/internal/model"

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateGameRequest is the request body for adding a game
type CreateGameRequest struct {
	Name        string   `json:"name" validate:"required,notblank"`
	Author      string   `json:"author" validate:"required,notblank"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	CoverURL    string   `json:"coverUrl"`
	Description *string  `json:"description"`
	ReleaseDate string   `json:"releaseDate" validate:"omitempty,datetime=2006-01-02"`
}

// ToModel converts the request into a new game without an id
func (r CreateGameRequest) ToModel() model.Game {
	g := model.Game{
		Name:        r.Name,
		Author:      r.Author,
		CoverURL:    r.CoverURL,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
	}
	if r.Price != nil {
		g.Price = *r.Price
	}
	return g
}

// UpdateGameRequest is the request body for editing a game.
// Absent fields are left unchanged.
type UpdateGameRequest struct {
	Name        *string  `json:"name" validate:"omitnil,notblank"`
	Author      *string  `json:"author" validate:"omitnil,notblank"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	CoverURL    *string  `json:"coverUrl"`
	Description *string  `json:"description"`
	ReleaseDate *string  `json:"releaseDate" validate:"omitnil,datetime=2006-01-02"`
}

// ToPatch converts the request into a game patch
func (r UpdateGameRequest) ToPatch() model.GamePatch {
	return model.GamePatch{
		Name:        r.Name,
		Author:      r.Author,
		Price:       r.Price,
		CoverURL:    r.CoverURL,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
	}
}
