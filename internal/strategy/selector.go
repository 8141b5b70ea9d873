// Package strategy picks the opponent's next guess from the candidate
// space according to the difficulty tier.
package strategy

import (
	"math/rand"

	"svw.info/digitguess/internal/candidate"
	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/feedback"
)

const (
	// wildProb is the chance the easy tier ignores the space entirely.
	wildProb = 0.3
	// openerThreshold gates the fixed diversified opener on hard.
	openerThreshold = 100
	// minimaxSpaceMax caps the space size the hard minimax will scan.
	minimaxSpaceMax = 500
	// minimaxSampleMax caps how many candidate guesses minimax evaluates.
	minimaxSampleMax = 50
)

// openerDigits supplies the hard tier's first-guess prefix.
const openerDigits = "1234567890"

// Selector is the per-match guess chooser. The RNG is injected so play is
// reproducible under a fixed seed.
type Selector struct {
	rules domain.Rules
	rng   *rand.Rand
}

func New(rules domain.Rules, rng *rand.Rand) *Selector {
	return &Selector{rules: rules, rng: rng}
}

// Next returns the next guess and the number of simulated comparisons
// spent choosing it. Every path yields a syntactically legal code; an
// empty space degrades to unconstrained random play.
func (s *Selector) Next(sp *candidate.Space, history []domain.Turn) (domain.Code, int) {
	// A lone survivor is a certain win on any tier.
	if sp.Size() == 1 {
		return sp.Candidates()[0], 0
	}
	switch s.rules.Difficulty {
	case domain.Easy:
		return s.easy(sp), 0
	case domain.Hard:
		return s.hard(sp, history)
	default:
		return s.medium(sp), 0
	}
}

// easy deliberately plays below strength: with probability wildProb it
// emits any legal code, space be damned.
func (s *Selector) easy(sp *candidate.Space) domain.Code {
	if s.rng.Float64() < wildProb {
		return candidate.RandomCode(s.rules, s.rng)
	}
	return s.medium(sp)
}

// medium picks uniformly from the space, falling back to a random legal
// code when nothing remains.
func (s *Selector) medium(sp *candidate.Space) domain.Code {
	if c, ok := sp.Pick(s.rng); ok {
		return c
	}
	return candidate.RandomCode(s.rules, s.rng)
}

func (s *Selector) hard(sp *candidate.Space, history []domain.Turn) (domain.Code, int) {
	size := sp.Size()
	if size == 0 {
		return candidate.RandomCode(s.rules, s.rng), 0
	}
	if len(history) == 0 && (size > openerThreshold || size < 0) {
		return s.opener(), 0
	}
	if size > 0 && size <= minimaxSpaceMax {
		return s.minimax(sp)
	}
	// Too large (or implicit) for minimax; constraint-consistent random.
	return s.medium(sp), 0
}

// opener is a fixed digit-diverse first guess; chosen, not computed.
func (s *Selector) opener() domain.Code {
	return domain.Code(openerDigits[:s.rules.Length])
}

// minimax samples up to minimaxSampleMax candidate guesses and keeps the
// one whose worst-case feedback bucket across the whole space is
// smallest, first seen winning ties. Cost is O(sample * |space|).
func (s *Selector) minimax(sp *candidate.Space) (domain.Code, int) {
	codes := sp.Candidates()
	sample := codes
	if len(codes) > minimaxSampleMax {
		idx := s.rng.Perm(len(codes))[:minimaxSampleMax]
		sample = make([]domain.Code, 0, minimaxSampleMax)
		for _, i := range idx {
			sample = append(sample, codes[i])
		}
	}
	nodes := 0
	best := sample[0]
	bestWorst := len(codes) + 1
	for _, g := range sample {
		buckets := make(map[domain.Feedback]int, len(codes))
		for _, c := range codes {
			if c == g {
				continue
			}
			buckets[feedback.Compare(g, c)]++
			nodes++
		}
		worst := 0
		for _, n := range buckets {
			if n > worst {
				worst = n
			}
		}
		if worst < bestWorst {
			bestWorst = worst
			best = g
		}
	}
	return best, nodes
}
