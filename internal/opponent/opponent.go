// Package opponent wires the candidate space and the strategy selector
// into the solver the match engine talks to.
package opponent

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"svw.info/digitguess/internal/candidate"
	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/ports"
	"svw.info/digitguess/internal/strategy"
)

// Opponent owns one candidate space and one guess history for the
// duration of one match. Single-threaded by contract: the engine calls
// MakeGuess and Observe strictly in turn order.
type Opponent struct {
	rules   domain.Rules
	space   *candidate.Space
	sel     *strategy.Selector
	history []domain.Turn
	logger  *slog.Logger
}

// New validates the rules and builds the full candidate space. Fails with
// domain.ErrInvalidRules when no space can exist for the configuration.
func New(rules domain.Rules, seed int64, logger *slog.Logger) (*Opponent, error) {
	sp, err := candidate.New(rules)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if !sp.Materialized() {
		logger.Debug("candidate space too large to materialize, using rejection sampling",
			"length", rules.Length, "allowRepeats", rules.AllowRepeats)
	}
	rng := rand.New(rand.NewSource(seed))
	return &Opponent{
		rules:  rules,
		space:  sp,
		sel:    strategy.New(rules, rng),
		logger: logger,
	}, nil
}

// MakeGuess returns the next guess for the current state. It never
// narrows the space; knowledge only changes through Observe.
func (o *Opponent) MakeGuess(ctx context.Context) (domain.Code, ports.Stats, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return "", ports.Stats{}, err
	}
	code, nodes := o.sel.Next(o.space, o.history)
	return code, ports.Stats{Nodes: nodes, Duration: time.Since(start)}, nil
}

// Observe records the guess and the feedback the engine computed for it,
// then narrows the space. An inconsistent update is reported but leaves
// the opponent playable: the selector degrades to random legal guesses.
func (o *Opponent) Observe(ctx context.Context, guess domain.Code, fb domain.Feedback) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.history = append(o.history, domain.Turn{Guess: guess, Feedback: fb})
	err := o.space.Update(guess, fb)
	if errors.Is(err, domain.ErrInconsistentFeedback) {
		o.logger.Warn("candidate space emptied, feedback disagrees with scorer",
			"guess", string(guess), "kind", fb.Kind.String(), "matched", fb.Matched)
	}
	return err
}

// History returns the turns observed so far. Callers must not mutate it.
func (o *Opponent) History() []domain.Turn { return o.history }

// SpaceSize reports the remaining candidate count, -1 when implicit.
func (o *Opponent) SpaceSize() int { return o.space.Size() }
