package catalog

import (
	"context"
	"log/slog"

	"github.com/mcoot/cyberstore/internal/dependencies/clock"
	"github.com/mcoot/cyberstore/internal/dependencies/ids"
	"github.com/mcoot/cyberstore/internal/model"
	"github.com/mcoot/cyberstore/internal/records"
	"github.com/mcoot/cyberstore/internal/storage"
)

// dateLayout is the ISO date format used for release dates
const dateLayout = "2006-01-02"

// Service manages the game collection
type Service struct {
	games  *records.Collection[model.Game, *model.Game]
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new catalog Service
func New(store storage.Storage, gen ids.Generator, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		games:  records.New[model.Game](store, storage.GamesKey, gen, model.ErrGameNotFound, logger),
		clock:  clock,
		logger: logger,
	}
}

// GetAll returns every game, newest first
func (s *Service) GetAll(ctx context.Context) ([]model.Game, error) {
	return s.games.GetAll(ctx)
}

// GetByID returns a single game or model.ErrGameNotFound
func (s *Service) GetByID(ctx context.Context, id model.GameID) (model.Game, error) {
	return s.games.GetByID(ctx, string(id))
}

// Add stores a new game at the front of the catalog.
// An empty release date defaults to today.
func (s *Service) Add(ctx context.Context, game model.Game) (model.Game, error) {
	if game.ReleaseDate == "" {
		game.ReleaseDate = s.clock.Now().Format(dateLayout)
	}

	created, err := s.games.Add(ctx, game)
	if err != nil {
		s.logger.Error("failed to add game",
			slog.String("name", game.Name),
			slog.String("error", err.Error()),
		)
		return model.Game{}, err
	}

	s.logger.Info("game added",
		slog.String("game_id", string(created.ID)),
		slog.String("name", created.Name),
	)
	return created, nil
}

// Update applies patch to the game with the given id.
// Unknown ids are ignored and reported as not updated.
func (s *Service) Update(ctx context.Context, id model.GameID, patch model.GamePatch) (model.Game, bool, error) {
	updated, ok, err := s.games.Update(ctx, string(id), patch)
	if err != nil {
		s.logger.Error("failed to update game",
			slog.String("game_id", string(id)),
			slog.String("error", err.Error()),
		)
		return model.Game{}, false, err
	}

	if ok {
		s.logger.Info("game updated", slog.String("game_id", string(id)))
	} else {
		s.logger.Debug("update ignored for unknown game", slog.String("game_id", string(id)))
	}
	return updated, ok, nil
}

// Delete removes the game with the given id; unknown ids are a no-op
func (s *Service) Delete(ctx context.Context, id model.GameID) error {
	removed, err := s.games.Delete(ctx, string(id))
	if err != nil {
		s.logger.Error("failed to delete game",
			slog.String("game_id", string(id)),
			slog.String("error", err.Error()),
		)
		return err
	}

	if removed {
		s.logger.Info("game deleted", slog.String("game_id", string(id)))
	}
	return nil
}

// Seed writes the initial catalog when no game collection has ever been stored.
// An existing collection, even an empty or unreadable one, is left alone.
func (s *Service) Seed(ctx context.Context) (bool, error) {
	exists, err := s.games.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := s.games.Replace(ctx, InitialGames()); err != nil {
		return false, err
	}

	s.logger.Info("catalog seeded", slog.Int("game_count", len(InitialGames())))
	return true, nil
}
