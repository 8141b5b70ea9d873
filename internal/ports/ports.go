package ports

import (
	"context"
	"time"

	"svw.info/digitguess/internal/domain"
)

// Stats captures performance characteristics of an operation. Nodes
// counts simulated code comparisons.
type Stats struct {
	Nodes    int
	Duration time.Duration
}

// Opponent is the computer player's decision core: produce a guess, then
// learn from the feedback the engine observed for it.
type Opponent interface {
	MakeGuess(ctx context.Context) (domain.Code, Stats, error)
	Observe(ctx context.Context, guess domain.Code, fb domain.Feedback) error
}

// Storage persists and retrieves finished match records as JSON.
type Storage interface {
	Save(ctx context.Context, m *domain.Match) error
	Load(ctx context.Context, id string) (*domain.Match, error)
	List(ctx context.Context) ([]domain.MatchMeta, error)
}
