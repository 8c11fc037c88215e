package schedule

const DefaultStep = 30

// GenerateSlots lists the start times from workStart up to workEnd
// (exclusive) in step increments, leaving out every candidate that falls
// inside a busy interval. The result only depends on the arguments.
func GenerateSlots(workStart, workEnd Clock, busy []Interval, step int) []Clock {
	if step <= 0 {
		step = DefaultStep
	}

	var out []Clock
	for c := workStart; c < workEnd; c = c.Add(step) {
		free := true
		for _, b := range busy {
			if b.Contains(c) {
				free = false
				break
			}
		}
		if free {
			out = append(out, c)
		}
	}
	return out
}

func Strings(cs []Clock) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.String())
	}
	return out
}
