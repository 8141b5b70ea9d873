package candidate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/feedback"
)

func TestCardinality(t *testing.T) {
	cases := []struct {
		name    string
		length  int
		repeats bool
		want    int
	}{
		{"repeats n=1", 1, true, 10},
		{"repeats n=2", 2, true, 100},
		{"repeats n=4", 4, true, 10000},
		{"no repeats n=1", 1, false, 10},
		{"no repeats n=2", 2, false, 90},
		{"no repeats n=3", 3, false, 720},
		{"no repeats n=4", 4, false, 5040},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sp, err := New(domain.Rules{Length: tc.length, AllowRepeats: tc.repeats})
			require.NoError(t, err)
			require.True(t, sp.Materialized())
			assert.Equal(t, tc.want, sp.Size())
		})
	}
}

func TestInvalidRules(t *testing.T) {
	_, err := New(domain.Rules{Length: 11, AllowRepeats: false})
	assert.ErrorIs(t, err, domain.ErrInvalidRules)

	_, err = New(domain.Rules{Length: 0, AllowRepeats: true})
	assert.ErrorIs(t, err, domain.ErrInvalidRules)
}

func TestPermutationsAreDistinctDigitCodes(t *testing.T) {
	sp, err := New(domain.Rules{Length: 3, AllowRepeats: false})
	require.NoError(t, err)
	seen := make(map[domain.Code]bool, sp.Size())
	for _, c := range sp.Candidates() {
		require.Len(t, string(c), 3)
		var digits [10]bool
		for i := 0; i < len(c); i++ {
			require.False(t, digits[c[i]-'0'], "repeat in %s", c)
			digits[c[i]-'0'] = true
		}
		require.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}

// The true secret must survive any sequence of updates driven by real
// feedback, and the space must never grow.
func TestSecretSurvivesUpdates(t *testing.T) {
	for _, repeats := range []bool{true, false} {
		rules := domain.Rules{Length: 4, AllowRepeats: repeats}
		rng := rand.New(rand.NewSource(42))
		sp, err := New(rules)
		require.NoError(t, err)

		secret := RandomCode(rules, rng)
		prev := sp.Size()
		for i := 0; i < 20; i++ {
			guess := RandomCode(rules, rng)
			if guess == secret {
				continue
			}
			err := sp.Update(guess, feedback.Compare(guess, secret))
			require.NoError(t, err, "real feedback can never empty the space")
			require.LessOrEqual(t, sp.Size(), prev, "space grew")
			prev = sp.Size()
			require.True(t, sp.Contains(secret), "secret fell out after guess %s", guess)
		}
	}
}

func TestUpdateRemovesGuess(t *testing.T) {
	rules := domain.Rules{Length: 3, AllowRepeats: true}
	sp, err := New(rules)
	require.NoError(t, err)

	guess := domain.Code("123")
	fb := feedback.Compare(guess, "321") // anagram: AllCorrectWrongOrder
	require.NoError(t, sp.Update(guess, fb))
	assert.False(t, sp.Contains(guess))
	assert.True(t, sp.Contains("321"))
}

func TestExactMatchObservationIsNoop(t *testing.T) {
	rules := domain.Rules{Length: 2, AllowRepeats: true}
	sp, err := New(rules)
	require.NoError(t, err)
	before := sp.Size()
	require.NoError(t, sp.Update("42", domain.Feedback{Kind: domain.ExactMatch, Matched: 2}))
	assert.Equal(t, before, sp.Size())
}

func TestInconsistentFeedbackEmptiesSpace(t *testing.T) {
	rules := domain.Rules{Length: 3, AllowRepeats: true}
	sp, err := New(rules)
	require.NoError(t, err)

	// Rule out every digit, then contradict: nothing can satisfy all of it.
	for _, g := range []domain.Code{"012", "345", "678"} {
		require.NoError(t, sp.Update(g, domain.Feedback{Kind: domain.NoneCorrect}))
	}
	require.Equal(t, 1, sp.Size()) // only "999" is left
	err = sp.Update("999", domain.Feedback{Kind: domain.NoneCorrect})
	assert.ErrorIs(t, err, domain.ErrInconsistentFeedback)
	assert.Equal(t, 0, sp.Size())

	// Empty space stays usable: picks fail cleanly.
	_, ok := sp.Pick(rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestSamplingModeForLongRepeatCodes(t *testing.T) {
	rules := domain.Rules{Length: 8, AllowRepeats: true}
	sp, err := New(rules)
	require.NoError(t, err)
	require.False(t, sp.Materialized())
	assert.Equal(t, -1, sp.Size())

	rng := rand.New(rand.NewSource(3))
	secret := RandomCode(rules, rng)
	for i := 0; i < 3; i++ {
		guess := RandomCode(rules, rng)
		if guess == secret {
			continue
		}
		require.NoError(t, sp.Update(guess, feedback.Compare(guess, secret)))
	}
	// Draws must be legal and consistent with everything observed.
	c, ok := sp.Pick(rng)
	require.True(t, ok)
	require.NoError(t, feedback.Check(c, rules))
	assert.True(t, sp.Contains(c))
	assert.True(t, sp.Contains(secret))
}

func TestRandomCodeLegality(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, repeats := range []bool{true, false} {
		rules := domain.Rules{Length: 5, AllowRepeats: repeats}
		for i := 0; i < 100; i++ {
			require.NoError(t, feedback.Check(RandomCode(rules, rng), rules))
		}
	}
}
