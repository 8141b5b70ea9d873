// Package feedback implements the game's defining comparison rule: two
// codes are scored by the multiset intersection of their digit values,
// never by position. It is the single implementation used both to score
// real guesses and to simulate hypothetical ones during strategy search.
package feedback

import (
	"fmt"

	"svw.info/digitguess/internal/domain"
)

// Compare scores guess against secret. Callers pass equal-length codes;
// the digit count k is symmetric under swapping the arguments.
func Compare(guess, secret domain.Code) domain.Feedback {
	if guess == secret {
		return domain.Feedback{Kind: domain.ExactMatch, Matched: len(guess)}
	}
	var gc, sc [10]int
	for i := 0; i < len(guess); i++ {
		gc[guess[i]-'0']++
	}
	for i := 0; i < len(secret); i++ {
		sc[secret[i]-'0']++
	}
	k := 0
	for d := 0; d < 10; d++ {
		if gc[d] < sc[d] {
			k += gc[d]
		} else {
			k += sc[d]
		}
	}
	switch {
	case k == len(guess) && len(guess) == len(secret):
		return domain.Feedback{Kind: domain.AllCorrectWrongOrder, Matched: k}
	case k == 0:
		return domain.Feedback{Kind: domain.NoneCorrect}
	default:
		return domain.Feedback{Kind: domain.PartialCorrect, Matched: k}
	}
}

// Check reports whether code is a syntactically legal guess under the
// rules: right length, digits only, and no repeats when disallowed.
func Check(code domain.Code, r domain.Rules) error {
	if len(code) != r.Length {
		return fmt.Errorf("%w: code %q must have %d digits", domain.ErrIllegalCode, code, r.Length)
	}
	var seen [10]bool
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: code %q contains non-digit %q", domain.ErrIllegalCode, code, c)
		}
		if !r.AllowRepeats {
			if seen[c-'0'] {
				return fmt.Errorf("%w: code %q repeats digit %q", domain.ErrIllegalCode, code, c)
			}
			seen[c-'0'] = true
		}
	}
	return nil
}
