// Package policy decides which usage thresholds fire a notification. It is a
// pure function of the current value and the set of thresholds already
// notified; it never touches storage or the network.
package policy

// Thresholds are the fixed percentage levels that trigger a notification
// when newly crossed.
var Thresholds = []int{25, 50, 75, 90}

// Decision is the outcome of evaluating one metric for one cycle.
type Decision struct {
	// Fire holds the thresholds to actually notify. At most one entry: when
	// several thresholds are crossed in a single jump only the highest fires,
	// so a 10% -> 95% jump produces one alert, not four.
	Fire []int

	// MarkSent holds every newly crossed threshold, including the ones that
	// did not individually fire. All of them are recorded so they cannot
	// re-fire until usage drops back below them.
	MarkSent []int
}

// Reset re-arms thresholds that usage has fallen back below. It returns the
// subset of sent containing exactly the thresholds t with value >= t.
func Reset(value int, sent []int) []int {
	kept := make([]int, 0, len(sent))
	for _, t := range sent {
		if value >= t {
			kept = append(kept, t)
		}
	}
	return kept
}

// Decide returns the thresholds newly crossed at the given value, or nil when
// there is nothing to do. Reset should run first on every cycle.
func Decide(value int, sent []int) *Decision {
	var candidates []int
	for _, t := range Thresholds {
		if value >= t && !contains(sent, t) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Thresholds is ascending, so the last candidate is the highest.
	return &Decision{
		Fire:     []int{candidates[len(candidates)-1]},
		MarkSent: candidates,
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
