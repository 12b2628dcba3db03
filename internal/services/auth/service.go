package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mcoot/cyberstore/internal/dependencies/ids"
	"github.com/mcoot/cyberstore/internal/model"
	"github.com/mcoot/cyberstore/internal/records"
	"github.com/mcoot/cyberstore/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrNoSession          = errors.New("no active session")
)

const (
	// AdminUsername is the built-in administrator account
	AdminUsername = "admin"
	// AdminPassword is restored on every start
	AdminPassword = "admin"

	adminID = "1"
)

// Seeder writes initial data when it has never been stored
type Seeder interface {
	Seed(ctx context.Context) (bool, error)
}

// Service handles accounts and the single current session
type Service struct {
	storage storage.Storage
	users   *records.Collection[model.User, *model.User]
	seeder  Seeder
	logger  *slog.Logger

	mu      sync.RWMutex
	current *model.User
}

// New creates a new auth Service.
// seeder may be nil when no initial data should be written.
func New(store storage.Storage, gen ids.Generator, seeder Seeder, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		users:   records.New[model.User](store, storage.UsersKey, gen, model.ErrUserNotFound, logger),
		seeder:  seeder,
		logger:  logger,
	}
}

// Initialize prepares persisted state for use.
// The admin account always ends up with the default password, initial data is
// seeded, and any stored session is restored.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.ensureAdmin(ctx); err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	if s.seeder != nil {
		if _, err := s.seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if err := s.restoreSession(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}

func (s *Service) ensureAdmin(ctx context.Context) error {
	return s.users.Mutate(ctx, func(users []model.User) []model.User {
		for i := range users {
			if users[i].Username == AdminUsername {
				users[i].Password = AdminPassword
				return users
			}
		}
		s.logger.Info("creating admin account")
		return append(users, model.User{
			ID:       adminID,
			Username: AdminUsername,
			Password: AdminPassword,
			Role:     model.RoleAdmin,
		})
	})
}

func (s *Service) restoreSession(ctx context.Context) error {
	data, err := s.storage.GetItem(ctx, storage.SessionKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		s.setCurrent(nil)
		return nil
	}
	if err != nil {
		return err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil || user.Username == "" {
		s.logger.Warn("discarding unreadable session")
		s.setCurrent(nil)
		return s.storage.RemoveItem(ctx, storage.SessionKey)
	}

	s.setCurrent(&user)
	s.logger.Info("session restored", slog.String("username", user.Username))
	return nil
}

// Login checks the credentials against every stored account and makes the
// matching user the current session
func (s *Service) Login(ctx context.Context, username, password string) (model.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return model.User{}, err
	}

	for _, u := range users {
		if u.Username != username || u.Password != password {
			continue
		}

		session := u.Redacted()
		data, err := json.Marshal(session)
		if err != nil {
			return model.User{}, err
		}
		if err := s.storage.SetItem(ctx, storage.SessionKey, data); err != nil {
			return model.User{}, err
		}

		s.setCurrent(&session)
		s.logger.Info("user logged in", slog.String("username", username))
		return session, nil
	}

	s.logger.Info("login rejected", slog.String("username", username))
	return model.User{}, ErrInvalidCredentials
}

// Register creates a regular user account. It does not log the user in.
func (s *Service) Register(ctx context.Context, username, password string) (model.User, error) {
	created, err := s.users.AppendUnless(ctx, model.User{
		Username: username,
		Password: password,
		Role:     model.RoleUser,
	}, func(users []model.User) error {
		for _, u := range users {
			if u.Username == username {
				return ErrUsernameExists
			}
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user registered",
		slog.String("user_id", string(created.ID)),
		slog.String("username", username),
	)
	return created.Redacted(), nil
}

// Logout ends the current session; it is a no-op when nobody is logged in
func (s *Service) Logout(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, storage.SessionKey); err != nil {
		return err
	}

	if prev := s.setCurrent(nil); prev != nil {
		s.logger.Info("user logged out", slog.String("username", prev.Username))
	}
	return nil
}

// Current returns the logged-in user or ErrNoSession
func (s *Service) Current() (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return model.User{}, ErrNoSession
	}
	return *s.current, nil
}

// OnlineCount reports the number of online users, which for a single-tenant
// store is always one
func (s *Service) OnlineCount() int {
	return 1
}

func (s *Service) setCurrent(u *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current
	s.current = u
	return prev
}
