package federation

import (
	"fmt"

	language "github.com/wiregraph/wiregraph/internal/language"
)

// Subgraph is one backend service's schema together with the federation
// metadata extracted from its directives.
type Subgraph struct {
	Name   string
	Schema *language.Schema

	// Keys maps a type name to its @key selections, in declaration order.
	Keys map[string][]language.SelectionSet
	// Shareable marks field coordinates declared @shareable (directly or
	// via an @shareable object type).
	Shareable map[string]bool
	// External marks field coordinates declared @external.
	External map[string]bool
	// Requires maps a field coordinate to its @requires selection.
	Requires map[string]language.SelectionSet
	// Provides maps a field coordinate to its @provides selection.
	Provides map[string]language.SelectionSet
}

// Coordinate renders a field coordinate like "User.name".
func Coordinate(typeName, fieldName string) string {
	return typeName + "." + fieldName
}

// directive definitions injected when a subgraph document does not declare
// them itself.
var preludeOrder = []string{"FieldSet", "key", "shareable", "external", "requires", "provides", "override", "tag"}

var federationPrelude = map[string]string{
	"FieldSet":  `scalar FieldSet`,
	"key":       `directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE`,
	"shareable": `directive @shareable repeatable on OBJECT | FIELD_DEFINITION`,
	"external":  `directive @external on OBJECT | FIELD_DEFINITION`,
	"requires":  `directive @requires(fields: FieldSet!) on FIELD_DEFINITION`,
	"provides":  `directive @provides(fields: FieldSet!) on FIELD_DEFINITION`,
	"override":  `directive @override(from: String!) on FIELD_DEFINITION`,
	"tag":       `directive @tag(name: String!) repeatable on FIELD_DEFINITION | OBJECT | INTERFACE | UNION | ARGUMENT_DEFINITION | SCALAR | ENUM | ENUM_VALUE | INPUT_OBJECT | INPUT_FIELD_DEFINITION`,
}

// ParseSubgraph parses a subgraph SDL document and extracts its federation
// metadata. Federation directives the document does not itself declare are
// supplied by a built-in prelude.
func ParseSubgraph(name, sdl string) (*Subgraph, error) {
	doc, err := language.ParseSchema(name, sdl)
	if err != nil {
		return nil, fmt.Errorf("subgraph %q: %w", name, err)
	}

	declared := map[string]bool{}
	for _, d := range doc.Directives {
		declared[d.Name] = true
	}
	for _, d := range doc.Definitions {
		declared[d.Name] = true
	}
	prelude := ""
	for _, n := range preludeOrder {
		if !declared[n] {
			prelude += federationPrelude[n] + "\n"
		}
	}

	schema, err := language.LoadSchema(name, prelude+sdl)
	if err != nil {
		return nil, fmt.Errorf("subgraph %q: %w", name, err)
	}

	sub := &Subgraph{
		Name:      name,
		Schema:    schema,
		Keys:      map[string][]language.SelectionSet{},
		Shareable: map[string]bool{},
		External:  map[string]bool{},
		Requires:  map[string]language.SelectionSet{},
		Provides:  map[string]language.SelectionSet{},
	}
	if err := sub.extract(); err != nil {
		return nil, fmt.Errorf("subgraph %q: %w", name, err)
	}
	return sub, nil
}

func (s *Subgraph) extract() error {
	for _, def := range s.Schema.Types {
		if !language.IsCompositeType(def) || isIntrospectionType(def.Name) {
			continue
		}
		for _, key := range def.Directives.ForNames("key") {
			sel, err := fieldSetArgument(key)
			if err != nil {
				return fmt.Errorf("@key on type %q: %w", def.Name, err)
			}
			s.Keys[def.Name] = append(s.Keys[def.Name], sel)
		}
		typeShareable := def.Directives.ForName("shareable") != nil
		typeExternal := def.Directives.ForName("external") != nil

		for _, field := range def.Fields {
			coord := Coordinate(def.Name, field.Name)
			if typeShareable || field.Directives.ForName("shareable") != nil {
				s.Shareable[coord] = true
			}
			if typeExternal || field.Directives.ForName("external") != nil {
				s.External[coord] = true
			}
			if req := field.Directives.ForName("requires"); req != nil {
				sel, err := fieldSetArgument(req)
				if err != nil {
					return fmt.Errorf("@requires on field %q: %w", coord, err)
				}
				s.Requires[coord] = sel
			}
			if prov := field.Directives.ForName("provides"); prov != nil {
				sel, err := fieldSetArgument(prov)
				if err != nil {
					return fmt.Errorf("@provides on field %q: %w", coord, err)
				}
				s.Provides[coord] = sel
			}
		}
	}
	return nil
}

// IsExternal reports whether the field is declared @external in this subgraph.
func (s *Subgraph) IsExternal(typeName, fieldName string) bool {
	return s.External[Coordinate(typeName, fieldName)]
}

// ProvidedCoordinates resolves every @provides selection in this subgraph to
// the set of field coordinates it makes resolvable. A selection annotated on
// field T.f applies to f's return type, nested selections to the respective
// field return types.
func (s *Subgraph) ProvidedCoordinates() map[string]bool {
	provided := map[string]bool{}
	for coord, sel := range s.Provides {
		fieldName := coord[len(typeNameOf(coord))+1:]
		parent := s.Schema.Types[typeNameOf(coord)]
		if parent == nil {
			continue
		}
		fieldDef := parent.Fields.ForName(fieldName)
		if fieldDef == nil {
			continue
		}
		s.collectProvided(s.Schema.Types[fieldDef.Type.Name()], sel, provided)
	}
	return provided
}

func (s *Subgraph) collectProvided(parent *language.Definition, sel language.SelectionSet, provided map[string]bool) {
	if parent == nil {
		return
	}
	for _, item := range sel {
		switch v := item.(type) {
		case *language.Field:
			provided[Coordinate(parent.Name, v.Name)] = true
			if fieldDef := parent.Fields.ForName(v.Name); fieldDef != nil && len(v.SelectionSet) > 0 {
				s.collectProvided(s.Schema.Types[fieldDef.Type.Name()], v.SelectionSet, provided)
			}
		case *language.InlineFragment:
			s.collectProvided(s.Schema.Types[v.TypeCondition], v.SelectionSet, provided)
		}
	}
}

func typeNameOf(coord string) string {
	for i := 0; i < len(coord); i++ {
		if coord[i] == '.' {
			return coord[:i]
		}
	}
	return coord
}

func fieldSetArgument(d *language.Directive) (language.SelectionSet, error) {
	arg := d.Arguments.ForName("fields")
	if arg == nil {
		return nil, fmt.Errorf("missing 'fields' argument")
	}
	return language.ParseFieldSet(arg.Value.Raw)
}

func isIntrospectionType(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}
