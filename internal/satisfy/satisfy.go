package satisfy

import (
	"context"
	"fmt"
	"sort"
	"time"

	eventbus "github.com/wiregraph/wiregraph/internal/eventbus"
	events "github.com/wiregraph/wiregraph/internal/events"
	federation "github.com/wiregraph/wiregraph/internal/federation"
	language "github.com/wiregraph/wiregraph/internal/language"
	querygraph "github.com/wiregraph/wiregraph/internal/querygraph"
)

// FindingKind classifies a satisfiability finding.
type FindingKind int

const (
	// FindingUnsatisfiable: a supergraph path no surviving candidate can
	// mirror end-to-end.
	FindingUnsatisfiable FindingKind = iota
	// FindingShareableMismatch: a shared field whose resolving subgraphs
	// return fully disjoint runtime types.
	FindingShareableMismatch
	// FindingShareableHint: a shared field whose resolving subgraphs return
	// intersecting but unequal runtime types.
	FindingShareableHint
)

// Finding is one independent problem surfaced by the search. Ordinary
// unsatisfiability is collected, not propagated, so a single run reports many
// findings.
type Finding struct {
	Kind    FindingKind
	Path    *querygraph.Path
	Reasons Unadvanceables

	// Shareable findings only.
	Field        string
	ReturnType   string
	Subgraphs    []string
	RuntimeTypes map[string][]string
}

// Options configures a validation run.
type Options struct {
	// Resolver decides edge preconditions; nil selects the default
	// supergraph-based resolver.
	Resolver querygraph.ConditionResolver
}

// Validate proves that every query the supergraph API permits can be routed
// to the subgraphs, running one search per root operation kind. Findings are
// accumulated; the returned error is reserved for internal invariant
// violations, which abort the whole run.
func Validate(ctx context.Context, g *querygraph.Graph, opts Options) ([]Finding, error) {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewConditionResolver()
	}
	s := &searcher{
		graph:         g,
		resolver:      resolver,
		shareableSeen: map[string]bool{},
	}
	for _, kind := range []language.Operation{language.Query, language.Mutation, language.Subscription} {
		eventbus.Publish(ctx, events.SatisfiabilityStart{RootKind: string(kind)})
		before := len(s.findings)
		start := time.Now()
		err := s.run(ctx, kind)
		eventbus.Publish(ctx, events.SatisfiabilityFinish{
			RootKind: string(kind),
			Findings: len(s.findings) - before,
			Duration: time.Since(start),
		})
		if err != nil {
			return nil, err
		}
	}
	return s.findings, nil
}

type searcher struct {
	graph         *querygraph.Graph
	resolver      querygraph.ConditionResolver
	findings      []Finding
	shareableSeen map[string]bool
}

func (s *searcher) run(ctx context.Context, kind language.Operation) error {
	g := s.graph
	rootIdx, ok := g.RootNode(g.SupergraphSource(), kind)
	if !ok {
		return nil
	}
	super, err := querygraph.NewPath(g, rootIdx)
	if err != nil {
		return err
	}

	var candidates []*querygraph.Path
	for _, source := range g.Sources() {
		if source == g.SupergraphSource() {
			continue
		}
		if idx, ok := g.RootNode(source, kind); ok {
			p, err := querygraph.NewPath(g, idx)
			if err != nil {
				return err
			}
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		// A merged supergraph root always has at least one subgraph root;
		// nothing to check otherwise.
		return nil
	}

	stack := []*ValidationState{{Supergraph: super, Candidates: candidates}}
	visited := map[string]bool{}
	visited[stack[0].fingerprint()] = true

	for len(stack) > 0 {
		st := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, edgeIdx := range g.OutEdges(st.Supergraph.Tail()) {
			e, err := g.Edge(edgeIdx)
			if err != nil {
				return err
			}
			switch e.Transition.Kind() {
			case querygraph.KindFieldCollection, querygraph.KindDowncast:
			default:
				return fmt.Errorf("transition %s cannot appear on a supergraph path", e.Transition)
			}

			newSuper, err := st.Supergraph.Add(edgeIdx, querygraph.ConditionSatisfied)
			if err != nil {
				return err
			}
			options, reasons, err := s.advance(ctx, st, e)
			if err != nil {
				return err
			}

			if fc, ok := e.Transition.(*querygraph.FieldCollection); ok {
				head, err := g.Node(e.Head)
				if err != nil {
					return err
				}
				s.checkShareable(head, fc, newSuper, options)
			}

			if len(options) == 0 {
				s.findings = append(s.findings, Finding{
					Kind:    FindingUnsatisfiable,
					Path:    newSuper,
					Reasons: reasons,
				})
				continue
			}

			tail, err := g.Node(e.Tail)
			if err != nil {
				return err
			}
			if !language.IsCompositeType(tail.Type) {
				// Leaf reached with surviving candidates: branch satisfied.
				continue
			}
			next := &ValidationState{Supergraph: newSuper, Candidates: options}
			if fp := next.fingerprint(); !visited[fp] {
				visited[fp] = true
				stack = append(stack, next)
			}
		}
	}
	return nil
}

// advance tries to mirror one supergraph edge in every candidate: each
// candidate first expands through satisfiable key jumps, then looks for a
// matching edge at each reachable position. Dropped candidates leave an
// Unadvanceable behind; reasons are only rendered if the whole edge fails.
func (s *searcher) advance(ctx context.Context, st *ValidationState, superEdge querygraph.Edge) ([]*querygraph.Path, Unadvanceables, error) {
	g := s.graph
	var options []*querygraph.Path
	var reasons Unadvanceables
	seenTails := map[querygraph.NodeIndex]bool{}
	reachedSources := map[string]bool{}
	originSubgraphs := map[string]bool{}
	var originOrder []string

	for _, cand := range st.Candidates {
		origin := CandidateSubgraph(cand)
		if !originSubgraphs[origin] {
			originSubgraphs[origin] = true
			originOrder = append(originOrder, origin)
		}

		positions, err := s.closure(ctx, cand)
		if err != nil {
			return nil, nil, err
		}
		for _, pos := range positions {
			reachedSources[pos.TailNode().Source] = true
			opts, rs, err := s.matchAt(ctx, pos, superEdge)
			if err != nil {
				return nil, nil, err
			}
			reasons = append(reasons, rs...)
			for _, opt := range opts {
				if seenTails[opt.Tail()] {
					continue
				}
				seenTails[opt.Tail()] = true
				options = append(options, opt)
			}
		}
	}

	if len(options) == 0 {
		if fc, ok := superEdge.Transition.(*querygraph.FieldCollection); ok {
			head, err := g.Node(superEdge.Head)
			if err != nil {
				return nil, nil, err
			}
			coord := federation.Coordinate(head.Type.Name, fc.Field.Name)
			for _, target := range g.FieldSources(coord) {
				if reachedSources[target] {
					continue
				}
				for _, origin := range originOrder {
					reasons = append(reasons, reasonNoUsableKey(origin, target, head.Type.Name, fc.Field.Name))
				}
			}
		}
	}
	return options, reasons, nil
}

// matchAt looks for edges mirroring the supergraph edge at one candidate
// position.
func (s *searcher) matchAt(ctx context.Context, pos *querygraph.Path, superEdge querygraph.Edge) ([]*querygraph.Path, Unadvanceables, error) {
	g := s.graph
	node := pos.TailNode()
	var options []*querygraph.Path
	var reasons Unadvanceables

	switch t := superEdge.Transition.(type) {
	case *querygraph.FieldCollection:
		found := false
		for _, idx := range g.OutEdges(pos.Tail()) {
			e, err := g.Edge(idx)
			if err != nil {
				return nil, nil, err
			}
			fc, ok := e.Transition.(*querygraph.FieldCollection)
			if !ok || fc.Field.Name != t.Field.Name {
				continue
			}
			found = true
			res, err := s.resolver.ResolveConditions(ctx, g, idx, pos)
			if err != nil {
				return nil, nil, err
			}
			if !res.Satisfied {
				reasons = append(reasons, reasonUnsatisfiedRequires(node.Source, node.Type.Name, t.Field.Name, res.Reason))
				continue
			}
			next, err := pos.Add(idx, res)
			if err != nil {
				return nil, nil, err
			}
			options = append(options, next)
		}
		if !found {
			coord := federation.Coordinate(node.Type.Name, t.Field.Name)
			if g.IsExternal(node.Source, coord) {
				reasons = append(reasons, reasonExternalField(node.Source, node.Type.Name, t.Field.Name))
			} else {
				reasons = append(reasons, reasonNoField(node.Source, node.Type.Name, t.Field.Name))
			}
		}

	case *querygraph.Downcast:
		if node.Type.Name == t.To.Name {
			// Already at the runtime type; narrowing is a no-op here.
			return []*querygraph.Path{pos}, reasons, nil
		}
		found := false
		for _, idx := range g.OutEdges(pos.Tail()) {
			e, err := g.Edge(idx)
			if err != nil {
				return nil, nil, err
			}
			dc, ok := e.Transition.(*querygraph.Downcast)
			if !ok || dc.To.Name != t.To.Name {
				continue
			}
			found = true
			next, err := pos.Add(idx, querygraph.ConditionSatisfied)
			if err != nil {
				return nil, nil, err
			}
			options = append(options, next)
		}
		if !found {
			schema, err := g.Schema(node.Source)
			if err != nil {
				return nil, nil, err
			}
			if schema.Types[t.To.Name] == nil {
				reasons = append(reasons, reasonNoType(node.Source, t.To.Name))
			} else {
				reasons = append(reasons, reasonNoDowncast(node.Source, node.Type.Name, t.To.Name))
			}
		}

	default:
		return nil, nil, fmt.Errorf("transition %s cannot appear on a supergraph path", superEdge.Transition)
	}
	return options, reasons, nil
}

// closure expands a candidate through zero or more satisfiable key jumps,
// returning every reachable position including the candidate itself.
// Positions are deduplicated by tail node.
func (s *searcher) closure(ctx context.Context, p *querygraph.Path) ([]*querygraph.Path, error) {
	g := s.graph
	result := []*querygraph.Path{p}
	seen := map[querygraph.NodeIndex]bool{p.Tail(): true}
	queue := []*querygraph.Path{p}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, idx := range g.OutEdges(cur.Tail()) {
			e, err := g.Edge(idx)
			if err != nil {
				return nil, err
			}
			if e.Transition.Kind() != querygraph.KindSubgraphEnter || seen[e.Tail] {
				continue
			}
			res, err := s.resolver.ResolveConditions(ctx, g, idx, cur)
			if err != nil {
				return nil, err
			}
			if !res.Satisfied {
				continue
			}
			next, err := cur.Add(idx, res)
			if err != nil {
				return nil, err
			}
			seen[e.Tail] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}
	return result, nil
}

// checkShareable cross-checks the runtime types a shared field returns in
// each subgraph that resolved it on this branch. Fully disjoint sets are a
// hard error; non-empty but inconsistent intersection is a hint. Each field
// coordinate is reported once per run.
func (s *searcher) checkShareable(head querygraph.Node, fc *querygraph.FieldCollection, path *querygraph.Path, options []*querygraph.Path) {
	g := s.graph
	coord := federation.Coordinate(head.Type.Name, fc.Field.Name)
	if len(g.FieldSources(coord)) < 2 || s.shareableSeen[coord] {
		return
	}
	supergraph, err := g.Schema(g.SupergraphSource())
	if err != nil {
		return
	}
	// Runtime-type consistency is only meaningful for composite returns;
	// shared leaf fields have nothing to disagree on.
	if ret := supergraph.Types[fc.Field.Type.Name()]; ret == nil || !language.IsCompositeType(ret) {
		return
	}

	var resolvers []string
	seen := map[string]bool{}
	for _, opt := range options {
		src := opt.TailNode().Source
		if !seen[src] {
			seen[src] = true
			resolvers = append(resolvers, src)
		}
	}
	if len(resolvers) < 2 {
		return
	}
	s.shareableSeen[coord] = true

	returnType := fc.Field.Type.Name()
	runtimeTypes := map[string][]string{}
	var intersection map[string]bool
	consistent := true
	for _, src := range resolvers {
		schema, err := g.Schema(src)
		if err != nil {
			continue
		}
		set := language.RuntimeTypes(schema, schema.Types[returnType])
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
		}
		sort.Strings(names)
		runtimeTypes[src] = names

		if intersection == nil {
			intersection = set
			continue
		}
		if !sameTypeSet(intersection, set) {
			consistent = false
		}
		intersection = intersectTypeSets(intersection, set)
	}

	switch {
	case len(intersection) == 0:
		s.findings = append(s.findings, Finding{
			Kind:         FindingShareableMismatch,
			Path:         path,
			Field:        coord,
			ReturnType:   returnType,
			Subgraphs:    resolvers,
			RuntimeTypes: runtimeTypes,
		})
	case !consistent:
		s.findings = append(s.findings, Finding{
			Kind:         FindingShareableHint,
			Path:         path,
			Field:        coord,
			ReturnType:   returnType,
			Subgraphs:    resolvers,
			RuntimeTypes: runtimeTypes,
		})
	}
}

func sameTypeSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for name := range a {
		if !b[name] {
			return false
		}
	}
	return true
}

func intersectTypeSets(a, b map[string]bool) map[string]bool {
	out := map[string]bool{}
	for name := range a {
		if b[name] {
			out[name] = true
		}
	}
	return out
}
