package domain

// Code is a fixed-length string of digits '0'..'9'. The same representation
// serves both secrets and guesses; the distinction is by role in a call.
type Code string

// Rules fixes the shape of one match: code length, duplicate policy,
// opponent difficulty, and the per-side guess limit (0 = unlimited).
type Rules struct {
	Length       int        `json:"length" yaml:"length"`
	AllowRepeats bool       `json:"allowRepeats" yaml:"allow_repeats"`
	Difficulty   Difficulty `json:"difficulty" yaml:"difficulty"`
	GuessLimit   int        `json:"guessLimit,omitempty" yaml:"guess_limit"`
}

// Feedback is the categorized result of comparing a guess to a secret by
// multiset digit intersection. Matched carries k, the number of shared
// digit values counted via minimum frequency; for ExactMatch and
// AllCorrectWrongOrder it equals the code length.
type Feedback struct {
	Kind    FeedbackKind `json:"kind"`
	Matched int          `json:"matched"`
}

// Turn is one (guess, feedback) pair in a side's history.
type Turn struct {
	Guess    Code     `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

// Match is a persisted match record with metadata.
type Match struct {
	ID             string     `json:"id,omitempty"`
	Seed           int64      `json:"seed,omitempty"`
	Rules          Rules      `json:"rules"`
	State          MatchState `json:"state"`
	HumanSecret    Code       `json:"humanSecret,omitempty"`
	ComputerSecret Code       `json:"computerSecret,omitempty"`
	HumanTurns     []Turn     `json:"humanTurns,omitempty"`
	ComputerTurns  []Turn     `json:"computerTurns,omitempty"`
	CreatedAt      int64      `json:"createdAt,omitempty"`
}

// MatchMeta is a lightweight listing entry.
type MatchMeta struct {
	ID         string     `json:"id"`
	Difficulty Difficulty `json:"difficulty"`
	State      MatchState `json:"state"`
	Turns      int        `json:"turns"`
	CreatedAt  int64      `json:"createdAt"`
}
