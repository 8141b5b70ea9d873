package domain

import "errors"

// ErrInvalidRules means the rules cannot produce a candidate space
// (length < 1, or length > 10 without repeats). Surfaced at construction
// time; a match must never start with invalid rules.
var ErrInvalidRules = errors.New("invalid rules")

// ErrIllegalCode means a code fails the syntactic legality check for the
// match rules (wrong length, non-digit, forbidden repeat).
var ErrIllegalCode = errors.New("illegal code")

// ErrInconsistentFeedback means an update emptied a non-empty candidate
// space: the reported feedback disagrees with the shared comparison
// function somewhere upstream. Recoverable; the opponent falls back to
// unconstrained random legal play.
var ErrInconsistentFeedback = errors.New("inconsistent feedback")

// MaxLength is the longest code a no-repeats space can support (ten
// distinct digits exist). It also caps the hard opener prefix.
const MaxLength = 10

// Validate checks that the rules describe a playable match.
func (r Rules) Validate() error {
	if r.Length < 1 {
		return ErrInvalidRules
	}
	if !r.AllowRepeats && r.Length > MaxLength {
		// Only ten distinct digits exist.
		return ErrInvalidRules
	}
	if r.Difficulty == Hard && r.Length > MaxLength {
		// The hard opener is undefined past ten digits.
		return ErrInvalidRules
	}
	if r.GuessLimit < 0 {
		return ErrInvalidRules
	}
	if r.Difficulty < Easy || r.Difficulty > Hard {
		return ErrInvalidRules
	}
	return nil
}
