package diag

import "mesozoic/internal/source"

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter drops a diagnostic when one with the same code, primary span
// and message was already reported. Parser recovery can hit the same broken
// token twice, once per speculative attempt.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter forwards first occurrences to next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}
