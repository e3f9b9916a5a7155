// Package regime provides the advisory entry gate. The trading cycle
// consumes it as a single boolean: may a new position be opened for this
// symbol right now. Implementations are deliberately coarse; the gate advises,
// it does not trade.
package regime

// Gate decides whether entries are advisable for a symbol given its recent
// close history, oldest first.
type Gate interface {
	Allow(symbol string, closes []float64) bool
}

// PassGate allows every entry. Used when regime filtering is disabled.
type PassGate struct{}

func (PassGate) Allow(string, []float64) bool { return true }

// ChopGate blocks entries when the recent window is range-bound: the total
// band of the window is too narrow, relative to its midpoint, for the
// take-profit distance to be reachable before noise stops the trade out.
type ChopGate struct {
	Window      int     // Number of trailing closes examined
	MinRangePct float64 // Minimum (high-low)/mid of the window, as a fraction
}

// NewChopGate creates a gate requiring the trailing window to span at least
// minRangePct of its midpoint.
func NewChopGate(window int, minRangePct float64) *ChopGate {
	return &ChopGate{Window: window, MinRangePct: minRangePct}
}

func (g *ChopGate) Allow(_ string, closes []float64) bool {
	if g.Window <= 1 || len(closes) < g.Window {
		// Not enough history to judge; do not block the entry rule
		return true
	}

	window := closes[len(closes)-g.Window:]
	low, high := window[0], window[0]
	for _, price := range window[1:] {
		if price < low {
			low = price
		}
		if price > high {
			high = price
		}
	}

	mid := (high + low) / 2
	if mid <= 0 {
		return false
	}
	return (high-low)/mid >= g.MinRangePct
}
