// Package composition turns satisfiability findings into user-facing
// composition errors and hints, rendered against a witness query that
// demonstrates the problem.
package composition

import (
	"context"
	"fmt"
	"time"

	eventbus "github.com/wiregraph/wiregraph/internal/eventbus"
	events "github.com/wiregraph/wiregraph/internal/events"
	language "github.com/wiregraph/wiregraph/internal/language"
	querygraph "github.com/wiregraph/wiregraph/internal/querygraph"
	satisfy "github.com/wiregraph/wiregraph/internal/satisfy"
	selection "github.com/wiregraph/wiregraph/internal/selection"
	witness "github.com/wiregraph/wiregraph/internal/witness"
)

// Options configures a validation run.
type Options struct {
	// Resolver decides edge preconditions; nil selects the default
	// supergraph-based resolver.
	Resolver querygraph.ConditionResolver
}

// ValidateSatisfiability checks that every operation the supergraph API
// permits can be served by the subgraphs. Problems are appended to the
// caller-owned errors and hints lists; the returned error is reserved for
// internal invariant violations.
func ValidateSatisfiability(ctx context.Context, g *querygraph.Graph, opts Options, errs *[]*Error, hints *[]*Hint) error {
	subgraphs := subgraphNames(g)
	eventbus.Publish(ctx, events.ValidationStart{Subgraphs: subgraphs})
	start := time.Now()
	nerr, nhint := len(*errs), len(*hints)
	defer func() {
		eventbus.Publish(ctx, events.ValidationFinish{
			Subgraphs: subgraphs,
			Errors:    len(*errs) - nerr,
			Hints:     len(*hints) - nhint,
			Duration:  time.Since(start),
		})
	}()

	findings, err := satisfy.Validate(ctx, g, satisfy.Options{Resolver: opts.Resolver})
	if err != nil {
		return err
	}

	for i := range findings {
		f := &findings[i]
		query, err := renderWitness(g, f.Path)
		if err != nil {
			return err
		}
		switch f.Kind {
		case satisfy.FindingUnsatisfiable:
			*errs = append(*errs, satisfiabilityError(query, f.Reasons))
		case satisfy.FindingShareableMismatch:
			*errs = append(*errs, shareableMismatchError(query, f))
		case satisfy.FindingShareableHint:
			*hints = append(*hints, shareableHint(query, f))
		default:
			return fmt.Errorf("unhandled finding kind %d", f.Kind)
		}
	}
	return nil
}

// renderWitness builds the example operation for a finding's path and
// normalizes its selection set before rendering, so the displayed query is in
// canonical form.
func renderWitness(g *querygraph.Graph, p *querygraph.Path) (string, error) {
	op, err := witness.BuildOperation(g, p)
	if err != nil {
		return "", err
	}
	root, err := rootDefinition(op)
	if err != nil {
		return "", err
	}
	normalized, err := selection.Normalize(op.SelectionSet, root, nil, op.Schema, selection.Recursive)
	if err != nil {
		return "", err
	}
	op.SelectionSet = normalized
	return op.Render(), nil
}

func rootDefinition(op *witness.Operation) (*language.Definition, error) {
	var def *language.Definition
	switch op.Kind {
	case language.Query:
		def = op.Schema.Query
	case language.Mutation:
		def = op.Schema.Mutation
	case language.Subscription:
		def = op.Schema.Subscription
	}
	if def == nil {
		return nil, fmt.Errorf("supergraph has no root type for operation %q", op.Kind)
	}
	return def, nil
}

func subgraphNames(g *querygraph.Graph) []string {
	var names []string
	for _, source := range g.Sources() {
		if source == g.SupergraphSource() {
			continue
		}
		names = append(names, source)
	}
	return names
}
