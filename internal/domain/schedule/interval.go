package schedule

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Clock
	End   Clock
}

func Span(start Clock, duration int) Interval {
	return Interval{Start: start, End: start.Add(duration)}
}

// Overlaps treats touching endpoints as free.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && i.End > o.Start
}

func (i Interval) Contains(c Clock) bool {
	return c >= i.Start && c < i.End
}

// Within reports whether i sits entirely inside outer.
func (i Interval) Within(outer Interval) bool {
	return i.Start >= outer.Start && i.End <= outer.End
}

func (i Interval) Empty() bool {
	return i.End <= i.Start
}

// FirstConflict returns the index of the first busy interval that overlaps
// candidate, or -1.
func FirstConflict(candidate Interval, busy []Interval) int {
	for idx, b := range busy {
		if candidate.Overlaps(b) {
			return idx
		}
	}
	return -1
}
