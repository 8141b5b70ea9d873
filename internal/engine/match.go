// Package engine runs one turn-based duel: a human and the computer
// opponent each hold a secret and alternate guesses until someone scores
// an exact match or both exhaust the guess limit.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"svw.info/digitguess/internal/candidate"
	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/feedback"
	"svw.info/digitguess/internal/opponent"
	"svw.info/digitguess/internal/ports"
)

// ErrMatchOver is returned for guesses after the match has ended.
var ErrMatchOver = errors.New("match is over")

// Match is the live state of one duel. Not safe for concurrent use.
type Match struct {
	id    string
	seed  int64
	rules domain.Rules

	humanSecret    domain.Code // the computer tries to find this
	computerSecret domain.Code // the human tries to find this

	opp           ports.Opponent
	humanTurns    []domain.Turn
	computerTurns []domain.Turn
	state         domain.MatchState

	rng       *rand.Rand
	logger    *slog.Logger
	createdAt time.Time
}

// New starts a match. humanSecret may be empty, in which case one is
// generated; the computer's secret is always generated. The seed drives
// secret generation, the opponent's strategy, and the thinking delay.
func New(rules domain.Rules, humanSecret domain.Code, seed int64, logger *slog.Logger) (*Match, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	rng := rand.New(rand.NewSource(seed))
	if humanSecret == "" {
		humanSecret = candidate.RandomCode(rules, rng)
	} else if err := feedback.Check(humanSecret, rules); err != nil {
		return nil, err
	}
	computerSecret := candidate.RandomCode(rules, rng)
	opp, err := opponent.New(rules, rng.Int63(), logger)
	if err != nil {
		return nil, err
	}
	return &Match{
		id:             uuid.NewString(),
		seed:           seed,
		rules:          rules,
		humanSecret:    humanSecret,
		computerSecret: computerSecret,
		opp:            opp,
		state:          domain.Active,
		rng:            rng,
		logger:         logger,
		createdAt:      time.Now(),
	}, nil
}

func (m *Match) ID() string               { return m.id }
func (m *Match) Rules() domain.Rules      { return m.rules }
func (m *Match) State() domain.MatchState { return m.state }

// HumanGuess scores a guess against the computer's secret using the
// shared comparison function and advances the match state.
func (m *Match) HumanGuess(code domain.Code) (domain.Feedback, error) {
	if m.state != domain.Active {
		return domain.Feedback{}, ErrMatchOver
	}
	if m.rules.GuessLimit > 0 && len(m.humanTurns) >= m.rules.GuessLimit {
		return domain.Feedback{}, fmt.Errorf("%w: guess limit reached", ErrMatchOver)
	}
	if err := feedback.Check(code, m.rules); err != nil {
		return domain.Feedback{}, err
	}
	fb := feedback.Compare(code, m.computerSecret)
	m.humanTurns = append(m.humanTurns, domain.Turn{Guess: code, Feedback: fb})
	if fb.Kind == domain.ExactMatch {
		m.state = domain.HumanWon
	} else {
		m.checkLimit()
	}
	return fb, nil
}

// ComputerTurn asks the opponent for a guess, scores it against the
// human's secret, and feeds the observation back to the opponent. An
// inconsistent-feedback report is logged and swallowed: the opponent
// keeps playing, just without constraints.
func (m *Match) ComputerTurn(ctx context.Context) (domain.Turn, ports.Stats, error) {
	if m.state != domain.Active {
		return domain.Turn{}, ports.Stats{}, ErrMatchOver
	}
	if m.rules.GuessLimit > 0 && len(m.computerTurns) >= m.rules.GuessLimit {
		return domain.Turn{}, ports.Stats{}, fmt.Errorf("%w: guess limit reached", ErrMatchOver)
	}
	guess, st, err := m.opp.MakeGuess(ctx)
	if err != nil {
		return domain.Turn{}, st, err
	}
	fb := feedback.Compare(guess, m.humanSecret)
	if err := m.opp.Observe(ctx, guess, fb); err != nil && !errors.Is(err, domain.ErrInconsistentFeedback) {
		return domain.Turn{}, st, err
	}
	turn := domain.Turn{Guess: guess, Feedback: fb}
	m.computerTurns = append(m.computerTurns, turn)
	if fb.Kind == domain.ExactMatch {
		m.state = domain.ComputerWon
	} else {
		m.checkLimit()
	}
	return turn, st, nil
}

func (m *Match) checkLimit() {
	if m.rules.GuessLimit <= 0 {
		return
	}
	if len(m.humanTurns) >= m.rules.GuessLimit && len(m.computerTurns) >= m.rules.GuessLimit {
		m.state = domain.Draw
	}
}

// ThinkDelay returns the randomized 1-2.5s pause callers insert before a
// computer turn. Pure UX pacing; it never touches solver state.
func (m *Match) ThinkDelay() time.Duration {
	return time.Second + time.Duration(m.rng.Int63n(int64(1500*time.Millisecond)))
}

// HumanTurns returns the human side's history. Callers must not mutate it.
func (m *Match) HumanTurns() []domain.Turn { return m.humanTurns }

// ComputerTurns returns the computer side's history.
func (m *Match) ComputerTurns() []domain.Turn { return m.computerTurns }

// ComputerSecret exposes the secret the human is hunting. Callers decide
// when revealing it is appropriate (normally after the match ends).
func (m *Match) ComputerSecret() domain.Code { return m.computerSecret }

// HumanSecret exposes the secret the computer is hunting.
func (m *Match) HumanSecret() domain.Code { return m.humanSecret }

// Record snapshots the match for persistence or transport.
func (m *Match) Record() *domain.Match {
	return &domain.Match{
		ID:             m.id,
		Seed:           m.seed,
		Rules:          m.rules,
		State:          m.state,
		HumanSecret:    m.humanSecret,
		ComputerSecret: m.computerSecret,
		HumanTurns:     append([]domain.Turn(nil), m.humanTurns...),
		ComputerTurns:  append([]domain.Turn(nil), m.computerTurns...),
		CreatedAt:      m.createdAt.UnixNano(),
	}
}
