package querygraph

import (
	"fmt"

	language "github.com/wiregraph/wiregraph/internal/language"
)

type NodeIndex int

type EdgeIndex int

// Node is "being at type Type in schema Source". Root is set on root
// operation nodes only.
type Node struct {
	Source string
	Type   *language.Definition
	Root   language.Operation
}

// Edge is a directed transition from Head to Tail. Conditions, when present,
// must resolve satisfied before the edge can be taken.
type Edge struct {
	Head       NodeIndex
	Tail       NodeIndex
	Transition Transition
	Conditions language.SelectionSet
}

// Graph is an arena-owned immutable query graph spanning the supergraph API
// schema and every subgraph schema. It is built once and never mutated
// afterwards, so paths and searches may share it freely.
type Graph struct {
	supergraph string
	sources    map[string]*language.Schema
	sourceList []string

	nodes []Node
	edges []Edge
	out   [][]EdgeIndex

	roots     map[string]map[language.Operation]NodeIndex
	typeNodes map[string]map[string]NodeIndex

	fieldSources map[string][]string
	external     map[string]map[string]bool
}

// New creates an empty graph whose supergraph source carries the given name.
func New(supergraphSource string) *Graph {
	return &Graph{
		supergraph:   supergraphSource,
		sources:      map[string]*language.Schema{},
		roots:        map[string]map[language.Operation]NodeIndex{},
		typeNodes:    map[string]map[string]NodeIndex{},
		fieldSources: map[string][]string{},
		external:     map[string]map[string]bool{},
	}
}

// SupergraphSource returns the name of the supergraph API source.
func (g *Graph) SupergraphSource() string { return g.supergraph }

// Sources lists source names in registration order, the supergraph first.
func (g *Graph) Sources() []string { return g.sourceList }

func (g *Graph) AddSource(name string, schema *language.Schema) error {
	if _, ok := g.sources[name]; ok {
		return fmt.Errorf("source %q is already registered", name)
	}
	g.sources[name] = schema
	g.sourceList = append(g.sourceList, name)
	g.typeNodes[name] = map[string]NodeIndex{}
	return nil
}

// Schema returns the schema registered for the source; unknown sources fail.
func (g *Graph) Schema(source string) (*language.Schema, error) {
	schema, ok := g.sources[source]
	if !ok {
		return nil, fmt.Errorf("unknown schema source %q", source)
	}
	return schema, nil
}

// EnsureNode returns the node for (source, type), creating it on first use.
func (g *Graph) EnsureNode(source string, typ *language.Definition) (NodeIndex, error) {
	byType, ok := g.typeNodes[source]
	if !ok {
		return 0, fmt.Errorf("unknown schema source %q", source)
	}
	if idx, ok := byType[typ.Name]; ok {
		return idx, nil
	}
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, Node{Source: source, Type: typ})
	g.out = append(g.out, nil)
	byType[typ.Name] = idx
	return idx, nil
}

// TypeNode looks up the node for (source, typeName) without creating it.
func (g *Graph) TypeNode(source, typeName string) (NodeIndex, bool) {
	byType, ok := g.typeNodes[source]
	if !ok {
		return 0, false
	}
	idx, ok := byType[typeName]
	return idx, ok
}

// SetRoot marks n as the root node of the given operation kind in source.
func (g *Graph) SetRoot(source string, kind language.Operation, n NodeIndex) {
	byKind, ok := g.roots[source]
	if !ok {
		byKind = map[language.Operation]NodeIndex{}
		g.roots[source] = byKind
	}
	byKind[kind] = n
	g.nodes[n].Root = kind
}

// RootNode returns the root node of the operation kind in source, if any.
func (g *Graph) RootNode(source string, kind language.Operation) (NodeIndex, bool) {
	byKind, ok := g.roots[source]
	if !ok {
		return 0, false
	}
	idx, ok := byKind[kind]
	return idx, ok
}

func (g *Graph) AddEdge(head, tail NodeIndex, t Transition, conditions language.SelectionSet) (EdgeIndex, error) {
	if err := g.checkNode(head); err != nil {
		return 0, err
	}
	if err := g.checkNode(tail); err != nil {
		return 0, err
	}
	idx := EdgeIndex(len(g.edges))
	g.edges = append(g.edges, Edge{Head: head, Tail: tail, Transition: t, Conditions: conditions})
	g.out[head] = append(g.out[head], idx)
	return idx, nil
}

// Node fails on indices that do not belong to this graph.
func (g *Graph) Node(i NodeIndex) (Node, error) {
	if i < 0 || int(i) >= len(g.nodes) {
		return Node{}, fmt.Errorf("node index %d is out of range", i)
	}
	return g.nodes[i], nil
}

// Edge fails on indices that do not belong to this graph.
func (g *Graph) Edge(i EdgeIndex) (Edge, error) {
	if i < 0 || int(i) >= len(g.edges) {
		return Edge{}, fmt.Errorf("edge index %d is out of range", i)
	}
	return g.edges[i], nil
}

// OutEdges returns the edges leaving n, in insertion order.
func (g *Graph) OutEdges(n NodeIndex) []EdgeIndex {
	if n < 0 || int(n) >= len(g.out) {
		return nil
	}
	return g.out[n]
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// MarkFieldSource records that the subgraph resolves the field coordinate.
func (g *Graph) MarkFieldSource(coordinate, source string) {
	for _, s := range g.fieldSources[coordinate] {
		if s == source {
			return
		}
	}
	g.fieldSources[coordinate] = append(g.fieldSources[coordinate], source)
}

// FieldSources lists the subgraphs resolving the field coordinate, in
// registration order.
func (g *Graph) FieldSources(coordinate string) []string {
	return g.fieldSources[coordinate]
}

// MarkExternal records that the field is declared but not resolvable in the
// source (federation @external).
func (g *Graph) MarkExternal(source, coordinate string) {
	byCoord, ok := g.external[source]
	if !ok {
		byCoord = map[string]bool{}
		g.external[source] = byCoord
	}
	byCoord[coordinate] = true
}

func (g *Graph) IsExternal(source, coordinate string) bool {
	return g.external[source][coordinate]
}

func (g *Graph) checkNode(i NodeIndex) error {
	if i < 0 || int(i) >= len(g.nodes) {
		return fmt.Errorf("node index %d is out of range", i)
	}
	return nil
}
