package inventory

// Snapshot is a consistent point-in-time view of the counter pair.
type Snapshot struct {
	Initial   int
	Available int
	Sold      int
}

// Consistent reports whether the joint invariant holds:
// available + sold == initial, with neither counter negative.
func (s Snapshot) Consistent() bool {
	return s.Available >= 0 &&
		s.Sold >= 0 &&
		s.Available+s.Sold == s.Initial
}

// SoldOut reports whether no tickets are left.
func (s Snapshot) SoldOut() bool {
	return s.Available <= 0
}

// ExpectedAfter returns the only final state that is reachable after the given number of
// purchase attempts have completed against a counter that started with s.Initial tickets,
// regardless of how the attempts interleaved.
func (s Snapshot) ExpectedAfter(attempts int) Snapshot {
	sold := min(s.Initial, attempts)

	return Snapshot{
		Initial:   s.Initial,
		Available: s.Initial - sold,
		Sold:      sold,
	}
}
