package diag

import (
	"sort"

	"fortio.org/safecast"
)

// Bag collects the diagnostics of one import. The limit only bounds what is
// kept for display; errors past it are still counted so the outcome of the
// unit does not depend on how many diagnostics came first.
type Bag struct {
	items []Diagnostic
	max   uint16 // 0 means unlimited

	droppedErrors int
	dropped       int
}

// NewBag returns a Bag that keeps at most max diagnostics. max <= 0 keeps
// everything; values above the uint16 range are clamped.
func NewBag(max int) *Bag {
	var limit uint16
	if max > 0 {
		var err error
		if limit, err = safecast.Conv[uint16](max); err != nil {
			limit = ^uint16(0)
		}
	}
	return &Bag{
		items: make([]Diagnostic, 0, 16),
		max:   limit,
	}
}

// Add appends a diagnostic unless the limit is reached. Fatal diagnostics are
// always kept; dropped errors are remembered by HasErrors.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= int(b.max) && d.Severity < SevFatal {
		b.dropped++
		if d.Severity >= SevError {
			b.droppedErrors++
		}
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the display limit, 0 when unlimited.
func (b *Bag) Cap() uint16 {
	return b.max
}

// Dropped returns how many diagnostics did not fit under the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors reports whether any diagnostic with Severity >= Error was added,
// kept or not.
func (b *Bag) HasErrors() bool {
	if b.droppedErrors > 0 {
		return true
	}
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasFatal reports whether the unit was aborted.
func (b *Bag) HasFatal() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevFatal {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the backing slice; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders diagnostics by subject, severity (desc) and code so output is
// deterministic. Emission order is kept for equal keys.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Subject != dj.Subject {
			return di.Subject < dj.Subject
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
