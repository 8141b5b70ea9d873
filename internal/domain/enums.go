package domain

// Difficulty selects the opponent's guessing policy.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Hard:
		return "hard"
	default:
		return "medium"
	}
}

// FeedbackKind categorizes a comparison outcome.
type FeedbackKind int

const (
	NoneCorrect          FeedbackKind = iota // no shared digit values
	PartialCorrect                           // some but not all digits shared
	AllCorrectWrongOrder                     // full multiset match, wrong order
	ExactMatch                               // identical strings
)

func (k FeedbackKind) String() string {
	switch k {
	case ExactMatch:
		return "exact"
	case AllCorrectWrongOrder:
		return "all-wrong-order"
	case PartialCorrect:
		return "partial"
	default:
		return "none"
	}
}

// MatchState tracks the lifecycle of one match.
type MatchState int

const (
	Active MatchState = iota
	HumanWon
	ComputerWon
	Draw // both sides exhausted the guess limit
)

func (s MatchState) String() string {
	switch s {
	case HumanWon:
		return "human-won"
	case ComputerWon:
		return "computer-won"
	case Draw:
		return "draw"
	default:
		return "active"
	}
}
