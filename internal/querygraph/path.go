package querygraph

import (
	"fmt"
	"strings"
)

// PathEdge is one step of a path: the edge taken and how its preconditions
// were resolved.
type PathEdge struct {
	Edge       EdgeIndex
	Resolution ConditionResolution
}

// Path is an ordered, append-only walk over a query graph. Extension returns
// a new value; the receiver is never mutated, so many candidate continuations
// can share a common prefix without copying it.
type Path struct {
	graph *Graph
	root  NodeIndex

	prev *Path
	last PathEdge
	size int
}

// NewPath starts an empty path at root.
func NewPath(g *Graph, root NodeIndex) (*Path, error) {
	if err := g.checkNode(root); err != nil {
		return nil, err
	}
	return &Path{graph: g, root: root}, nil
}

func (p *Path) Graph() *Graph { return p.graph }

// Root returns the node the path started at.
func (p *Path) Root() NodeIndex { return p.root }

// Size returns the number of edges on the path.
func (p *Path) Size() int { return p.size }

// Add appends one edge, validating that the edge extends the path's tail.
// A mismatch is a graph inconsistency and therefore an internal error.
func (p *Path) Add(edge EdgeIndex, resolution ConditionResolution) (*Path, error) {
	e, err := p.graph.Edge(edge)
	if err != nil {
		return nil, err
	}
	if e.Head != p.Tail() {
		return nil, fmt.Errorf("edge %d starts at node %d but the path ends at node %d", edge, e.Head, p.Tail())
	}
	return &Path{
		graph: p.graph,
		root:  p.root,
		prev:  p,
		last:  PathEdge{Edge: edge, Resolution: resolution},
		size:  p.size + 1,
	}, nil
}

// Head returns the head node of the path's first edge. An empty path has no
// head.
func (p *Path) Head() (NodeIndex, error) {
	if p.size == 0 {
		return 0, fmt.Errorf("empty path has no head")
	}
	return p.root, nil
}

// Tail returns the node the path currently ends at; the root when empty.
func (p *Path) Tail() NodeIndex {
	if p.size == 0 {
		return p.root
	}
	e, _ := p.graph.Edge(p.last.Edge)
	return e.Tail
}

// TailNode returns the full node value at the path's tail.
func (p *Path) TailNode() Node {
	n, _ := p.graph.Node(p.Tail())
	return n
}

// Edges returns the path's edges oldest-first.
func (p *Path) Edges() []PathEdge {
	edges := make([]PathEdge, p.size)
	for cur := p; cur.size > 0; cur = cur.prev {
		edges[cur.size-1] = cur.last
	}
	return edges
}

// LastEdge returns the most recently appended edge, if any.
func (p *Path) LastEdge() (PathEdge, bool) {
	if p.size == 0 {
		return PathEdge{}, false
	}
	return p.last, true
}

// String renders the walk for diagnostics, e.g.
// "Query(api) --t--> T(api) --... on A--> A(api)".
func (p *Path) String() string {
	var b strings.Builder
	root, _ := p.graph.Node(p.root)
	fmt.Fprintf(&b, "%s(%s)", root.Type.Name, root.Source)
	for _, pe := range p.Edges() {
		e, _ := p.graph.Edge(pe.Edge)
		tail, _ := p.graph.Node(e.Tail)
		fmt.Fprintf(&b, " --%s--> %s(%s)", e.Transition.String(), tail.Type.Name, tail.Source)
	}
	return b.String()
}
