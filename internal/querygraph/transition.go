package querygraph

import (
	language "github.com/wiregraph/wiregraph/internal/language"
)

// TransitionKind discriminates the closed set of edge transitions. The
// satisfiability search and the witness builder both switch exhaustively on
// it; a new kind must be handled at both sites.
type TransitionKind uint8

const (
	KindFieldCollection TransitionKind = iota
	KindDowncast
	KindSubgraphEnter
)

func (k TransitionKind) String() string {
	switch k {
	case KindFieldCollection:
		return "FieldCollection"
	case KindDowncast:
		return "Downcast"
	case KindSubgraphEnter:
		return "SubgraphEnter"
	default:
		return "Unknown"
	}
}

// Transition is the tagged union of edge behaviors.
type Transition interface {
	Kind() TransitionKind
	String() string
	transition()
}

// FieldCollection selects a field on the head node's type.
type FieldCollection struct {
	Field *language.FieldDefinition
	// Provides lists fields made resolvable along this edge by @provides.
	Provides language.SelectionSet
}

func (t *FieldCollection) Kind() TransitionKind { return KindFieldCollection }
func (t *FieldCollection) String() string       { return t.Field.Name }
func (t *FieldCollection) transition()          {}

// Downcast narrows an abstract type to one of its runtime object types.
type Downcast struct {
	From *language.Definition
	To   *language.Definition
}

func (t *Downcast) Kind() TransitionKind { return KindDowncast }
func (t *Downcast) String() string       { return "... on " + t.To.Name }
func (t *Downcast) transition()          {}

// SubgraphEnter jumps to the same entity type in another subgraph; the edge's
// conditions carry the target subgraph's @key selection.
type SubgraphEnter struct {
	Type *language.Definition
}

func (t *SubgraphEnter) Kind() TransitionKind { return KindSubgraphEnter }
func (t *SubgraphEnter) String() string       { return "key(" + t.Type.Name + ")" }
func (t *SubgraphEnter) transition()          {}
