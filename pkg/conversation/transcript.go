package conversation

// Transcript is an immutable, ordered sequence of turns.
//
// Append never writes into storage shared with another Transcript value, so a
// snapshot held by a renderer stays valid after the session moves on.
// The zero value is an empty transcript.
type Transcript struct {
	turns []Turn
}

// New returns a transcript seeded with the given turns, in order.
func New(turns ...Turn) Transcript {
	if len(turns) == 0 {
		return Transcript{}
	}
	seeded := make([]Turn, len(turns))
	copy(seeded, turns)
	return Transcript{turns: seeded}
}

// Append returns a new transcript with turn at the end.
func (t Transcript) Append(turn Turn) Transcript {
	// Always reallocate: two appends on the same snapshot must not share a
	// backing array.
	next := make([]Turn, len(t.turns), len(t.turns)+1)
	copy(next, t.turns)
	next = append(next, turn)
	return Transcript{turns: next}
}

// Turns returns the ordered turns. The returned slice is a copy.
func (t Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t Transcript) Len() int {
	return len(t.turns)
}

// Last returns the final turn, if any.
func (t Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}
