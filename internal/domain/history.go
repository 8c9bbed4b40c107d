package domain

const defaultHistoryCap = 3

// Turn is one completed exchange. Only finished turns enter the history;
// intermediate pipeline artifacts are discarded with the turn.
type Turn struct {
	User      string
	Assistant string
}

// History is the bounded sliding window of a persona's past turns. Oldest
// entries are evicted once the cap is exceeded.
type History struct {
	cap   int
	turns []Turn
}

// NewHistory builds a history with the given cap. The usable range is 2-5;
// values outside it fall back to the default of 3.
func NewHistory(cap int) *History {
	if cap < 2 || cap > 5 {
		cap = defaultHistoryCap
	}
	return &History{cap: cap}
}

func (h *History) Append(turn Turn) {
	h.turns = append(h.turns, turn)
	if len(h.turns) > h.cap {
		h.turns = h.turns[len(h.turns)-h.cap:]
	}
}

func (h *History) Len() int {
	return len(h.turns)
}

func (h *History) Cap() int {
	return h.cap
}

// Recent returns up to n of the most recent turns, oldest first.
func (h *History) Recent(n int) []Turn {
	if n <= 0 || len(h.turns) == 0 {
		return nil
	}
	if n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]Turn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Turns returns a copy of the full window, oldest first.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}
