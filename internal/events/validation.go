package events

import "time"

// ValidationStart is emitted before a full supergraph validation run.
type ValidationStart struct {
	Subgraphs []string
}

// ValidationFinish is emitted after a full supergraph validation run.
type ValidationFinish struct {
	Subgraphs []string
	Errors    int
	Hints     int
	Duration  time.Duration
}

// SatisfiabilityStart is emitted before the path search for one root
// operation kind.
type SatisfiabilityStart struct {
	RootKind string
}

// SatisfiabilityFinish is emitted after the path search for one root
// operation kind.
type SatisfiabilityFinish struct {
	RootKind string
	Findings int
	Duration time.Duration
}
