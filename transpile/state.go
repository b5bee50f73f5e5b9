package transpile

// State is the position of a call in the pipeline. A call moves forward only:
//
//	Idle -> Parsing -> Parsed -> Transforming -> Transformed -> Emitting -> Emitted
//
// and stops in one of the *Failed states when a phase reports an error.
type State uint8

const (
	StateIdle State = iota
	StateParsing
	StateParseFailed
	StateParsed
	StateTransforming
	StateTransformFailed
	StateTransformed
	StateEmitting
	StateEmitFailed
	StateEmitted
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateParsing:         "parsing",
	StateParseFailed:     "parse failed",
	StateParsed:          "parsed",
	StateTransforming:    "transforming",
	StateTransformFailed: "transform failed",
	StateTransformed:     "transformed",
	StateEmitting:        "emitting",
	StateEmitFailed:      "emit failed",
	StateEmitted:         "emitted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Failed reports whether s is a terminal failure state.
func (s State) Failed() bool {
	return s == StateParseFailed || s == StateTransformFailed || s == StateEmitFailed
}
