package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/engine"
	"svw.info/digitguess/internal/feedback"
	"svw.info/digitguess/internal/ports"
)

var (
	errNotConfigured = errors.New("usecase dependency not configured")

	// ErrUnknownMatch is returned for IDs with no live match.
	ErrUnknownMatch = errors.New("unknown match")
)

// Service holds the live matches and routes persistence to storage.
// Matches themselves are single-threaded; the registry lock only guards
// the map.
type Service struct {
	Storage ports.Storage

	logger  *slog.Logger
	mu      sync.Mutex
	matches map[string]*engine.Match
}

func NewService(st ports.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Storage: st,
		logger:  logger,
		matches: make(map[string]*engine.Match),
	}
}

// Create starts a match and registers it under its ID.
func (u *Service) Create(rules domain.Rules, humanSecret domain.Code, seed int64) (*engine.Match, error) {
	m, err := engine.New(rules, humanSecret, seed, u.logger)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	u.matches[m.ID()] = m
	u.mu.Unlock()
	return m, nil
}

// Get returns the live match for id.
func (u *Service) Get(id string) (*engine.Match, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	m, ok := u.matches[id]
	if !ok {
		return nil, ErrUnknownMatch
	}
	return m, nil
}

// Drop forgets a live match without persisting it.
func (u *Service) Drop(id string) {
	u.mu.Lock()
	delete(u.matches, id)
	u.mu.Unlock()
}

// Score compares any guess/secret pair with the shared feedback function.
func (u *Service) Score(guess, secret domain.Code, rules domain.Rules) (domain.Feedback, error) {
	if err := feedback.Check(guess, rules); err != nil {
		return domain.Feedback{}, err
	}
	if err := feedback.Check(secret, rules); err != nil {
		return domain.Feedback{}, err
	}
	return feedback.Compare(guess, secret), nil
}

// Persistence

func (u *Service) Save(ctx context.Context, id string) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	m, err := u.Get(id)
	if err != nil {
		return err
	}
	return u.Storage.Save(ctx, m.Record())
}

func (u *Service) Load(ctx context.Context, id string) (*domain.Match, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}

func (u *Service) List(ctx context.Context) ([]domain.MatchMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
