package diag

import (
	"strings"
	"sync"
)

type dedupKey struct {
	code   Code
	sev    Severity
	op     int
	gadget string
	msg    string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, severity, site and message. Repeated decode warnings
// across shots collapse to one entry. Safe for concurrent use.
type DedupReporter struct {
	mu    sync.Mutex
	next  Reporter
	seen  map[dedupKey]int
	order []dedupKey
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]int),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary Site, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{
		code:   code,
		sev:    sev,
		op:     primary.Op,
		gadget: primary.Gadget,
		msg:    strings.TrimSpace(msg),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[key]; ok {
		r.seen[key]++
		return
	}
	r.seen[key] = 1
	r.order = append(r.order, key)
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Suppressed is how many reports were swallowed as duplicates.
func (r *DedupReporter) Suppressed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.order {
		n += r.seen[k] - 1
	}
	return n
}
