package brain

// DefaultPenalty is recorded when a trail is skipped without an explicit weight.
const DefaultPenalty = 0.5

// NoPenalty is reported for trails that were never penalized.
const NoPenalty = 1.0

// Penalty remembers that a trail was skipped.
type Penalty struct {
	Trail   string  `json:"trail"`
	Penalty float64 `json:"penalty"`
}

// PenaltyLog is an append-only record of skipped trails. Entries are never
// merged: a trail can appear many times and lookups return the oldest entry.
type PenaltyLog struct {
	entries []Penalty
}

// Add appends an entry.
func (l *PenaltyLog) Add(trail string, penalty float64) {
	l.entries = append(l.entries, Penalty{Trail: trail, Penalty: penalty})
}

// Lookup returns the penalty of the first entry for trail, or NoPenalty.
func (l *PenaltyLog) Lookup(trail string) float64 {
	for _, e := range l.entries {
		if e.Trail == trail {
			return e.Penalty
		}
	}
	return NoPenalty
}

// Len returns the number of entries.
func (l *PenaltyLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the log, oldest first.
func (l *PenaltyLog) Entries() []Penalty {
	out := make([]Penalty, len(l.entries))
	copy(out, l.entries)
	return out
}
