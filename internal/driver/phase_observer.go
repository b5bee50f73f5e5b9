package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a build phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a build phase boundary. File is empty for phases that
// cover the whole build (discover, write manifest of outputs).
type PhaseEvent struct {
	Name    string
	File    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events emitted during Build.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) start(name, file string) time.Time {
	if o != nil {
		o(PhaseEvent{Name: name, File: file, Status: PhaseStart})
	}
	return time.Now()
}

func (o PhaseObserver) end(name, file string, began time.Time, err error) {
	if o != nil {
		o(PhaseEvent{Name: name, File: file, Status: PhaseEnd, Elapsed: time.Since(began), Err: err})
	}
}
