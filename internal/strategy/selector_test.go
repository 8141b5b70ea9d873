package strategy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/digitguess/internal/candidate"
	"svw.info/digitguess/internal/domain"
	"svw.info/digitguess/internal/feedback"
)

func newSpace(t *testing.T, rules domain.Rules) *candidate.Space {
	t.Helper()
	sp, err := candidate.New(rules)
	require.NoError(t, err)
	return sp
}

// A single surviving candidate must come back verbatim on every tier.
func TestSingletonIsDeterministic(t *testing.T) {
	for _, diff := range []domain.Difficulty{domain.Easy, domain.Medium, domain.Hard} {
		t.Run(diff.String(), func(t *testing.T) {
			rules := domain.Rules{Length: 3, AllowRepeats: false, Difficulty: diff}
			sp := newSpace(t, rules)
			sp.Retain(func(c domain.Code) bool { return c == "907" })
			require.Equal(t, 1, sp.Size())

			for seed := int64(0); seed < 20; seed++ {
				sel := New(rules, rand.New(rand.NewSource(seed)))
				got, _ := sel.Next(sp, []domain.Turn{{Guess: "123"}})
				assert.Equal(t, domain.Code("907"), got, "seed %d", seed)
			}
		})
	}
}

// An emptied space degrades to unconstrained but legal random play.
func TestEmptySpaceFallsBackToLegalRandom(t *testing.T) {
	for _, diff := range []domain.Difficulty{domain.Easy, domain.Medium, domain.Hard} {
		rules := domain.Rules{Length: 4, AllowRepeats: false, Difficulty: diff}
		sp := newSpace(t, rules)
		sp.Retain(func(domain.Code) bool { return false })
		require.Equal(t, 0, sp.Size())

		sel := New(rules, rand.New(rand.NewSource(5)))
		got, _ := sel.Next(sp, nil)
		require.NoError(t, feedback.Check(got, rules), "difficulty %s", diff)
	}
}

func TestMediumAlwaysPicksFromSpace(t *testing.T) {
	rules := domain.Rules{Length: 3, AllowRepeats: true, Difficulty: domain.Medium}
	sp := newSpace(t, rules)
	require.NoError(t, sp.Update("012", domain.Feedback{Kind: domain.NoneCorrect}))

	sel := New(rules, rand.New(rand.NewSource(9)))
	for i := 0; i < 200; i++ {
		got, _ := sel.Next(sp, nil)
		require.True(t, sp.Contains(got), "medium guessed outside the space: %s", got)
	}
}

// Easy plays off-policy roughly 30% of the time: across many draws from a
// heavily narrowed space, some guesses must fall outside it.
func TestEasySometimesIgnoresSpace(t *testing.T) {
	rules := domain.Rules{Length: 3, AllowRepeats: true, Difficulty: domain.Easy}
	sp := newSpace(t, rules)
	for _, g := range []domain.Code{"012", "345"} {
		require.NoError(t, sp.Update(g, domain.Feedback{Kind: domain.NoneCorrect}))
	}
	require.Equal(t, 64, sp.Size()) // codes over digits 6-9 only

	sel := New(rules, rand.New(rand.NewSource(1)))
	wild := 0
	for i := 0; i < 300; i++ {
		got, _ := sel.Next(sp, nil)
		require.NoError(t, feedback.Check(got, rules))
		if !sp.Contains(got) {
			wild++
		}
	}
	// 0.3 of draws ignore the space; most of those land outside the 64
	// remaining codes. Loose bounds keep the test seed-stable.
	assert.Greater(t, wild, 30)
	assert.Less(t, wild, 150)
}

func TestHardOpenerOnFirstGuess(t *testing.T) {
	rules := domain.Rules{Length: 4, AllowRepeats: false, Difficulty: domain.Hard}
	sp := newSpace(t, rules)
	require.Greater(t, sp.Size(), openerThreshold)

	sel := New(rules, rand.New(rand.NewSource(2)))
	got, _ := sel.Next(sp, nil)
	assert.Equal(t, domain.Code("1234"), got)
}

func TestHardSkipsOpenerOnSmallSpace(t *testing.T) {
	rules := domain.Rules{Length: 3, AllowRepeats: false, Difficulty: domain.Hard}
	sp := newSpace(t, rules)
	sp.Retain(func(c domain.Code) bool { return c[0] == '1' }) // 72 codes
	require.LessOrEqual(t, sp.Size(), openerThreshold)

	sel := New(rules, rand.New(rand.NewSource(2)))
	got, _ := sel.Next(sp, nil)
	assert.True(t, sp.Contains(got), "small first guess should be minimax over the space, got %s", got)
}

// With {"123","124","125"} the other two candidates answer any in-space
// guess with the same partial-2 signature, so every guess is tied at a
// worst case of 2; the selection must achieve that bound.
func TestHardMinimaxWorstCaseBound(t *testing.T) {
	rules := domain.Rules{Length: 3, AllowRepeats: false, Difficulty: domain.Hard}
	sp := newSpace(t, rules)
	keep := map[domain.Code]bool{"123": true, "124": true, "125": true}
	sp.Retain(func(c domain.Code) bool { return keep[c] })
	require.Equal(t, 3, sp.Size())

	sel := New(rules, rand.New(rand.NewSource(4)))
	got, nodes := sel.Next(sp, []domain.Turn{{Guess: "678"}})
	require.True(t, keep[got], "minimax must pick from the space here")
	assert.Equal(t, 6, nodes, "3 sampled guesses x 2 simulated secrets each")

	worst := worstBucket(got, sp.Candidates())
	assert.Equal(t, 2, worst)
}

func worstBucket(guess domain.Code, space []domain.Code) int {
	buckets := map[domain.Feedback]int{}
	worst := 0
	for _, c := range space {
		if c == guess {
			continue
		}
		buckets[feedback.Compare(guess, c)]++
		if buckets[feedback.Compare(guess, c)] > worst {
			worst = buckets[feedback.Compare(guess, c)]
		}
	}
	return worst
}

// Minimax beats random play on a crafted space: one candidate guess
// splits the space into strictly smaller worst-case buckets.
func TestHardMinimaxPrefersSmallestWorstCase(t *testing.T) {
	rules := domain.Rules{Length: 2, AllowRepeats: false, Difficulty: domain.Hard}
	sp := newSpace(t, rules)
	// "01","02","03","04": guessing any of them splits the rest into
	// partial-1 buckets of equal size; all are tied, so the result must
	// simply achieve the optimal worst case over the sampled list.
	keep := map[domain.Code]bool{"01": true, "02": true, "03": true, "04": true}
	sp.Retain(func(c domain.Code) bool { return keep[c] })
	require.Equal(t, 4, sp.Size())

	sel := New(rules, rand.New(rand.NewSource(6)))
	got, _ := sel.Next(sp, []domain.Turn{{Guess: "56"}})
	require.True(t, keep[got])

	best := sp.Size()
	for _, g := range sp.Candidates() {
		if w := worstBucket(g, sp.Candidates()); w < best {
			best = w
		}
	}
	assert.Equal(t, best, worstBucket(got, sp.Candidates()))
}

func TestHardLargeSpaceUsesUniformPolicy(t *testing.T) {
	rules := domain.Rules{Length: 4, AllowRepeats: false, Difficulty: domain.Hard}
	sp := newSpace(t, rules)
	require.Greater(t, sp.Size(), minimaxSpaceMax)

	sel := New(rules, rand.New(rand.NewSource(8)))
	// Non-empty history suppresses the opener; the space is too big for
	// minimax, so the guess must still come from the space.
	got, nodes := sel.Next(sp, []domain.Turn{{Guess: "5678"}})
	assert.True(t, sp.Contains(got))
	assert.Zero(t, nodes)
}
