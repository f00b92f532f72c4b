package witness

import (
	"fmt"

	language "github.com/wiregraph/wiregraph/internal/language"
	querygraph "github.com/wiregraph/wiregraph/internal/querygraph"
)

// Operation is a synthesized example query demonstrating where a supergraph
// path stopped being satisfiable. It is a pure rendering artifact: built
// once, never mutated, no variables or directives of its own.
type Operation struct {
	Schema       *language.Schema
	Kind         language.Operation
	Name         string
	SelectionSet language.SelectionSet
}

// BuildOperation converts a supergraph path into a minimal example operation.
// It walks the path's edges last-to-first: the innermost selection marks the
// exact point satisfiability broke down (an empty selection set, rendered as
// an ellipsis, when the tail type is composite), and every edge wraps it in
// the corresponding field or inline fragment.
func BuildOperation(g *querygraph.Graph, p *querygraph.Path) (*Operation, error) {
	edges := p.Edges()
	if len(edges) == 0 {
		return nil, fmt.Errorf("cannot build a witness from an empty path")
	}
	root, err := g.Node(p.Root())
	if err != nil {
		return nil, err
	}
	if root.Root == "" {
		return nil, fmt.Errorf("cannot build a witness from a path that does not start at a root node")
	}
	schema, err := g.Schema(root.Source)
	if err != nil {
		return nil, err
	}

	var current language.SelectionSet
	tail := p.TailNode()
	if language.IsCompositeType(tail.Type) {
		// Non-nil empty set marks the cut-off point; the renderer prints
		// it as an ellipsis.
		current = language.SelectionSet{}
	}

	for i := len(edges) - 1; i >= 0; i-- {
		e, err := g.Edge(edges[i].Edge)
		if err != nil {
			return nil, err
		}
		head, err := g.Node(e.Head)
		if err != nil {
			return nil, err
		}
		switch t := e.Transition.(type) {
		case *querygraph.FieldCollection:
			args, err := requiredArguments(schema, t.Field)
			if err != nil {
				return nil, err
			}
			current = language.SelectionSet{&language.Field{
				Name:             t.Field.Name,
				Arguments:        args,
				SelectionSet:     current,
				Definition:       t.Field,
				ObjectDefinition: head.Type,
			}}
		case *querygraph.Downcast:
			current = language.SelectionSet{&language.InlineFragment{
				TypeCondition:    t.To.Name,
				SelectionSet:     current,
				ObjectDefinition: head.Type,
			}}
		case *querygraph.SubgraphEnter:
			return nil, fmt.Errorf("transition %s cannot appear on a supergraph path", t)
		default:
			return nil, fmt.Errorf("unknown transition kind %s", e.Transition.Kind())
		}
	}

	return &Operation{
		Schema:       schema,
		Kind:         root.Root,
		SelectionSet: current,
	}, nil
}
