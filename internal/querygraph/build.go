package querygraph

import (
	"fmt"
	"sort"

	federation "github.com/wiregraph/wiregraph/internal/federation"
	language "github.com/wiregraph/wiregraph/internal/language"
)

// SupergraphSourceName is the reserved source under which the supergraph API
// schema is registered.
const SupergraphSourceName = "supergraph"

// Build assembles the federated query graph: the supergraph API schema plus
// every subgraph, with field and downcast edges per schema, @requires
// selections as field-edge preconditions, and key-based SubgraphEnter edges
// between same-named entity types.
func Build(supergraph *language.Schema, subgraphs []*federation.Subgraph) (*Graph, error) {
	g := New(SupergraphSourceName)
	if err := g.AddSource(SupergraphSourceName, supergraph); err != nil {
		return nil, err
	}
	for _, sub := range subgraphs {
		if sub.Name == SupergraphSourceName {
			return nil, fmt.Errorf("subgraph name %q is reserved", sub.Name)
		}
		if err := g.AddSource(sub.Name, sub.Schema); err != nil {
			return nil, err
		}
	}

	if err := buildSchemaEdges(g, SupergraphSourceName, supergraph, nil); err != nil {
		return nil, err
	}
	for _, sub := range subgraphs {
		if err := buildSchemaEdges(g, sub.Name, sub.Schema, sub); err != nil {
			return nil, err
		}
	}
	if err := buildEntityEdges(g, subgraphs); err != nil {
		return nil, err
	}
	return g, nil
}

// buildSchemaEdges adds one node per named type and the field/downcast edges
// within a single source. sub is nil for the supergraph source.
func buildSchemaEdges(g *Graph, source string, schema *language.Schema, sub *federation.Subgraph) error {
	var provided map[string]bool
	if sub != nil {
		provided = sub.ProvidedCoordinates()
	}

	for _, name := range orderedTypeNames(schema) {
		def := schema.Types[name]
		if !language.IsCompositeType(def) {
			continue
		}
		head, err := g.EnsureNode(source, def)
		if err != nil {
			return err
		}

		for _, field := range def.Fields {
			if isIntrospectionField(field.Name) {
				continue
			}
			coord := federation.Coordinate(def.Name, field.Name)
			if sub != nil && sub.External[coord] && !provided[coord] {
				g.MarkExternal(source, coord)
				continue
			}
			target := schema.Types[field.Type.Name()]
			if target == nil {
				return fmt.Errorf("source %q: field %q has unknown type %q", source, coord, field.Type.Name())
			}
			tail, err := g.EnsureNode(source, target)
			if err != nil {
				return err
			}
			var conditions language.SelectionSet
			var provides language.SelectionSet
			if sub != nil {
				conditions = sub.Requires[coord]
				provides = sub.Provides[coord]
			}
			if _, err := g.AddEdge(head, tail, &FieldCollection{Field: field, Provides: provides}, conditions); err != nil {
				return err
			}
			if sub != nil {
				g.MarkFieldSource(coord, source)
			}
		}

		if language.IsAbstractType(def) {
			for _, possible := range schema.PossibleTypes[def.Name] {
				if possible.Name == def.Name {
					continue
				}
				tail, err := g.EnsureNode(source, possible)
				if err != nil {
					return err
				}
				if _, err := g.AddEdge(head, tail, &Downcast{From: def, To: possible}, nil); err != nil {
					return err
				}
			}
		}
	}

	for kind, def := range map[language.Operation]*language.Definition{
		language.Query:        schema.Query,
		language.Mutation:     schema.Mutation,
		language.Subscription: schema.Subscription,
	} {
		if def == nil {
			continue
		}
		n, err := g.EnsureNode(source, def)
		if err != nil {
			return err
		}
		g.SetRoot(source, kind, n)
	}
	return nil
}

// buildEntityEdges connects every node for an entity type to each subgraph
// that declares a @key for that type, one edge per key selection.
func buildEntityEdges(g *Graph, subgraphs []*federation.Subgraph) error {
	for _, target := range subgraphs {
		for typeName, keys := range target.Keys {
			def := target.Schema.Types[typeName]
			if def == nil {
				continue
			}
			tail, ok := g.TypeNode(target.Name, typeName)
			if !ok {
				continue
			}
			for _, origin := range subgraphs {
				if origin.Name == target.Name {
					continue
				}
				head, ok := g.TypeNode(origin.Name, typeName)
				if !ok {
					continue
				}
				for _, key := range keys {
					if _, err := g.AddEdge(head, tail, &SubgraphEnter{Type: def}, key); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func orderedTypeNames(schema *language.Schema) []string {
	names := make([]string, 0, len(schema.Types))
	for name := range schema.Types {
		if isIntrospectionField(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isIntrospectionField(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}
