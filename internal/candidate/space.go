// Package candidate owns the set of codes still consistent with every
// piece of feedback observed in one match. The space only shrinks.
package candidate

import (
	"fmt"
	"math/rand"

	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/feedback"
)

// materializeCap bounds how many codes a repeats-allowed space will hold
// in memory (10^6, i.e. length <= 6). Longer codes with repeats switch to
// a constraint-list representation with rejection sampling; see Pick.
const materializeCap = 1_000_000

// sampleAttempts bounds rejection sampling in the un-materialized mode.
const sampleAttempts = 2000

// Space is the candidate set for one opponent instance. Not safe for
// concurrent use; one match owns exactly one Space.
type Space struct {
	rules domain.Rules

	// codes is the materialized set; nil in sampling mode.
	codes []domain.Code

	// constraints accumulates (guess, feedback) pairs in sampling mode so
	// random draws can be tested for consistency.
	constraints []domain.Turn
}

// New builds the full legal space for the rules. Repeats-allowed lengths
// beyond the materialization cap get a sampling-mode space instead of a
// materialized one; everything else is enumerated eagerly.
func New(rules domain.Rules) (*Space, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	s := &Space{rules: rules}
	if rules.AllowRepeats {
		total := 1
		for i := 0; i < rules.Length; i++ {
			total *= 10
			if total > materializeCap {
				return s, nil // sampling mode
			}
		}
		s.codes = make([]domain.Code, 0, total)
		for i := 0; i < total; i++ {
			s.codes = append(s.codes, domain.Code(fmt.Sprintf("%0*d", rules.Length, i)))
		}
		return s, nil
	}
	s.codes = permutations(rules.Length)
	return s, nil
}

// permutations enumerates every length-n arrangement of distinct digits
// using an explicit backtracking stack.
func permutations(n int) []domain.Code {
	total := 1
	for i := 0; i < n; i++ {
		total *= 10 - i
	}
	out := make([]domain.Code, 0, total)
	prefix := make([]byte, 0, n)
	// next[depth] is the digit to try next at that depth.
	next := make([]int, n+1)
	var used [10]bool
	depth := 0
	for {
		if depth == n {
			out = append(out, domain.Code(prefix))
			depth--
			if depth < 0 {
				break
			}
			d := prefix[depth] - '0'
			used[d] = false
			prefix = prefix[:depth]
			continue
		}
		d := next[depth]
		for d < 10 && used[d] {
			d++
		}
		if d >= 10 {
			// exhausted this depth, backtrack
			next[depth] = 0
			depth--
			if depth < 0 {
				break
			}
			u := prefix[depth] - '0'
			used[u] = false
			prefix = prefix[:depth]
			continue
		}
		next[depth] = d + 1
		used[d] = true
		prefix = append(prefix, byte('0'+d))
		depth++
		next[depth] = 0
	}
	return out
}

// Materialized reports whether the space holds an explicit candidate list.
func (s *Space) Materialized() bool { return s.codes != nil }

// Size returns the number of remaining candidates, or -1 in sampling mode
// where the set is implicit.
func (s *Space) Size() int {
	if !s.Materialized() {
		return -1
	}
	return len(s.codes)
}

// Candidates exposes the remaining candidate list. Callers must not
// mutate it. Nil in sampling mode.
func (s *Space) Candidates() []domain.Code { return s.codes }

// Update removes the guess and every candidate whose simulated feedback
// (candidate as secret) differs from what was observed. An ExactMatch
// observation ends the match upstream and is not applied here. Returns
// ErrInconsistentFeedback when the update empties a non-empty space.
func (s *Space) Update(guess domain.Code, fb domain.Feedback) error {
	if fb.Kind == domain.ExactMatch {
		return nil
	}
	if !s.Materialized() {
		s.constraints = append(s.constraints, domain.Turn{Guess: guess, Feedback: fb})
		return nil
	}
	before := len(s.codes)
	kept := s.codes[:0]
	for _, c := range s.codes {
		if c == guess {
			continue
		}
		if feedback.Compare(guess, c) == fb {
			kept = append(kept, c)
		}
	}
	s.codes = kept
	if before > 0 && len(s.codes) == 0 {
		return domain.ErrInconsistentFeedback
	}
	return nil
}

// Retain filters a materialized space in place, keeping only candidates
// the predicate accepts. No-op in sampling mode. Tests and diagnostics
// use it to pin down exact spaces.
func (s *Space) Retain(keep func(domain.Code) bool) {
	if !s.Materialized() {
		return
	}
	kept := s.codes[:0]
	for _, c := range s.codes {
		if keep(c) {
			kept = append(kept, c)
		}
	}
	s.codes = kept
}

// Contains reports whether code is still in the space. In sampling mode
// it tests the code against the accumulated constraints instead.
func (s *Space) Contains(code domain.Code) bool {
	if !s.Materialized() {
		return s.consistent(code)
	}
	for _, c := range s.codes {
		if c == code {
			return true
		}
	}
	return false
}

func (s *Space) consistent(code domain.Code) bool {
	for _, t := range s.constraints {
		if code == t.Guess {
			return false
		}
		if feedback.Compare(t.Guess, code) != t.Feedback {
			return false
		}
	}
	return true
}

// Pick draws a uniformly random candidate. In sampling mode it rejection-
// samples random legal codes against the constraints; ok is false when
// the space is empty or sampling keeps missing.
func (s *Space) Pick(rng *rand.Rand) (domain.Code, bool) {
	if s.Materialized() {
		if len(s.codes) == 0 {
			return "", false
		}
		return s.codes[rng.Intn(len(s.codes))], true
	}
	for i := 0; i < sampleAttempts; i++ {
		c := RandomCode(s.rules, rng)
		if s.consistent(c) {
			return c, true
		}
	}
	return "", false
}

// RandomCode generates a syntactically legal random code for the rules.
func RandomCode(r domain.Rules, rng *rand.Rand) domain.Code {
	buf := make([]byte, r.Length)
	if r.AllowRepeats {
		for i := range buf {
			buf[i] = byte('0' + rng.Intn(10))
		}
		return domain.Code(buf)
	}
	digits := [10]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}
	rng.Shuffle(10, func(i, j int) { digits[i], digits[j] = digits[j], digits[i] })
	copy(buf, digits[:r.Length])
	return domain.Code(buf)
}
