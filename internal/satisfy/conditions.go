package satisfy

import (
	"context"
	"fmt"

	language "github.com/wiregraph/wiregraph/internal/language"
	querygraph "github.com/wiregraph/wiregraph/internal/querygraph"
)

// supergraphConditionResolver resolves edge preconditions (key fields,
// @requires selections) by checking that every field of the condition is
// reachable in the supergraph API. This approximates full cross-subgraph
// condition satisfiability: a field reachable in the API is resolvable by at
// least one subgraph, which is what key and requires resolution ultimately
// depends on.
type supergraphConditionResolver struct{}

// NewConditionResolver returns the default resolver used by Validate when
// none is injected.
func NewConditionResolver() querygraph.ConditionResolver {
	return supergraphConditionResolver{}
}

func (supergraphConditionResolver) ResolveConditions(
	ctx context.Context,
	g *querygraph.Graph,
	edge querygraph.EdgeIndex,
	path *querygraph.Path,
) (querygraph.ConditionResolution, error) {
	e, err := g.Edge(edge)
	if err != nil {
		return querygraph.ConditionResolution{}, err
	}
	if len(e.Conditions) == 0 {
		return querygraph.ConditionSatisfied, nil
	}
	head, err := g.Node(e.Head)
	if err != nil {
		return querygraph.ConditionResolution{}, err
	}
	node, ok := g.TypeNode(g.SupergraphSource(), head.Type.Name)
	if !ok {
		return querygraph.ConditionResolution{
			Reason: fmt.Sprintf("type %q is not part of the supergraph API", head.Type.Name),
		}, nil
	}
	return resolveSelection(g, node, e.Conditions)
}

func resolveSelection(g *querygraph.Graph, node querygraph.NodeIndex, sel language.SelectionSet) (querygraph.ConditionResolution, error) {
	n, err := g.Node(node)
	if err != nil {
		return querygraph.ConditionResolution{}, err
	}
	for _, item := range sel {
		switch v := item.(type) {
		case *language.Field:
			next, ok := findFieldEdge(g, node, v.Name)
			if !ok {
				return querygraph.ConditionResolution{
					Reason: fmt.Sprintf("field %q is not reachable in the supergraph API", n.Type.Name+"."+v.Name),
				}, nil
			}
			if len(v.SelectionSet) > 0 {
				res, err := resolveSelection(g, next, v.SelectionSet)
				if err != nil || !res.Satisfied {
					return res, err
				}
			}
		case *language.InlineFragment:
			next, ok := findDowncastEdge(g, node, v.TypeCondition)
			if !ok {
				return querygraph.ConditionResolution{
					Reason: fmt.Sprintf("type %q cannot narrow to %q in the supergraph API", n.Type.Name, v.TypeCondition),
				}, nil
			}
			res, err := resolveSelection(g, next, v.SelectionSet)
			if err != nil || !res.Satisfied {
				return res, err
			}
		default:
			return querygraph.ConditionResolution{}, fmt.Errorf("unexpected selection %T in an edge condition", item)
		}
	}
	return querygraph.ConditionSatisfied, nil
}

func findFieldEdge(g *querygraph.Graph, node querygraph.NodeIndex, fieldName string) (querygraph.NodeIndex, bool) {
	for _, idx := range g.OutEdges(node) {
		e, err := g.Edge(idx)
		if err != nil {
			return 0, false
		}
		if fc, ok := e.Transition.(*querygraph.FieldCollection); ok && fc.Field.Name == fieldName {
			return e.Tail, true
		}
	}
	return 0, false
}

func findDowncastEdge(g *querygraph.Graph, node querygraph.NodeIndex, typeName string) (querygraph.NodeIndex, bool) {
	n, err := g.Node(node)
	if err != nil {
		return 0, false
	}
	if n.Type.Name == typeName {
		return node, true
	}
	for _, idx := range g.OutEdges(node) {
		e, err := g.Edge(idx)
		if err != nil {
			return 0, false
		}
		if dc, ok := e.Transition.(*querygraph.Downcast); ok && dc.To.Name == typeName {
			return e.Tail, true
		}
	}
	return 0, false
}
