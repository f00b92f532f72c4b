package querygraph

import "context"

// ConditionResolution is the outcome of resolving an edge's preconditions.
type ConditionResolution struct {
	Satisfied bool
	// Reason explains an unsatisfied resolution; empty when satisfied.
	Reason string
}

// ConditionSatisfied is the resolution for unconditional edges.
var ConditionSatisfied = ConditionResolution{Satisfied: true}

// ConditionResolver decides whether an edge's preconditions (key fields,
// @requires selections) hold given the walk so far. Implementations never
// cancel; the context is threaded so a host can inject timeout or
// cancellation policy later without changing the search's signature.
type ConditionResolver interface {
	ResolveConditions(ctx context.Context, g *Graph, edge EdgeIndex, path *Path) (ConditionResolution, error)
}
