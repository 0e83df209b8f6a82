package core

// QuotaState is the state of a QuotaLedger.
type QuotaState int

const (
	// QuotaOpen means some words remain.
	QuotaOpen QuotaState = iota
	// QuotaExhausted means consumed has reached the limit. Only Reset leaves it.
	QuotaExhausted
)

func (s QuotaState) String() string {
	if s == QuotaExhausted {
		return "exhausted"
	}
	return "open"
}

// QuotaLevel is the display band of the usage tracker.
type QuotaLevel string

const (
	LevelOK        QuotaLevel = "ok"
	LevelWarn      QuotaLevel = "warn"
	LevelHigh      QuotaLevel = "high"
	LevelExhausted QuotaLevel = "exhausted"
)

// DefaultWordLimit is the per-session word quota.
const DefaultWordLimit = 40

// QuotaLedger tracks the words consumed by exports in one session and
// gates new exports against a fixed limit.
//
// Consumed only grows through Commit and only shrinks through Reset.
// A Commit that would exceed the limit is rejected without changing state,
// so consumed <= limit holds after every successful call.
type QuotaLedger struct {
	limit    int
	consumed int
}

// NewQuotaLedger creates a ledger with the given word limit.
// A non-positive limit uses DefaultWordLimit.
func NewQuotaLedger(limit int) *QuotaLedger {
	if limit <= 0 {
		limit = DefaultWordLimit
	}
	return &QuotaLedger{limit: limit}
}

// CanAfford reports whether cost more words fit under the limit.
func (q *QuotaLedger) CanAfford(cost int) bool {
	return cost >= 0 && q.consumed+cost <= q.limit
}

// Commit charges cost words. Callers check CanAfford first; an
// unaffordable cost returns *QuotaExceededError and charges nothing.
func (q *QuotaLedger) Commit(cost int) error {
	if !q.CanAfford(cost) {
		return &QuotaExceededError{
			Needed:    cost,
			Remaining: q.Remaining(),
			Limit:     q.limit,
		}
	}
	q.consumed += cost
	return nil
}

// Reset sets consumed back to zero regardless of the current state.
func (q *QuotaLedger) Reset() {
	q.consumed = 0
}

// Consumed returns the words charged since the last reset.
func (q *QuotaLedger) Consumed() int {
	return q.consumed
}

// Limit returns the word limit.
func (q *QuotaLedger) Limit() int {
	return q.limit
}

// Remaining returns limit minus consumed.
func (q *QuotaLedger) Remaining() int {
	return q.limit - q.consumed
}

// State returns QuotaExhausted once the limit has been reached.
func (q *QuotaLedger) State() QuotaState {
	if q.consumed >= q.limit {
		return QuotaExhausted
	}
	return QuotaOpen
}

// Level maps usage to the tracker band: ok up to half the limit, warn up
// to three quarters, high below the limit, exhausted at the limit.
func (q *QuotaLedger) Level() QuotaLevel {
	switch {
	case q.consumed >= q.limit:
		return LevelExhausted
	case q.consumed*4 <= q.limit*2:
		return LevelOK
	case q.consumed*4 <= q.limit*3:
		return LevelWarn
	default:
		return LevelHigh
	}
}
