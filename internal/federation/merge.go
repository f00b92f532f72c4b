package federation

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	language "github.com/wiregraph/wiregraph/internal/language"
)

// federation machinery stripped from the merged API schema.
var federationDirectiveNames = map[string]bool{
	"key": true, "shareable": true, "external": true,
	"requires": true, "provides": true, "override": true,
	"tag": true, "link": true, "inaccessible": true,
}

// MergeAPISchema builds the supergraph API schema exposed to clients: the
// union of every subgraph's type and field definitions with federation
// directives stripped. Conflicting redefinitions keep the first subgraph's
// version; real composition resolves such conflicts in an earlier pipeline
// stage.
func MergeAPISchema(subgraphs []*Subgraph) (*language.Schema, error) {
	sdl, err := MergeAPISDL(subgraphs)
	if err != nil {
		return nil, err
	}
	schema, err := language.LoadSchema("supergraph", sdl)
	if err != nil {
		return nil, fmt.Errorf("merged API schema is invalid: %w", err)
	}
	return schema, nil
}

// MergeAPISDL renders the merged API schema as SDL text.
func MergeAPISDL(subgraphs []*Subgraph) (string, error) {
	if len(subgraphs) == 0 {
		return "", fmt.Errorf("no subgraphs to merge")
	}

	merged := map[string]*language.Definition{}
	var order []string
	for _, sub := range subgraphs {
		names := make([]string, 0, len(sub.Schema.Types))
		for name := range sub.Schema.Types {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			def := sub.Schema.Types[name]
			if isIntrospectionType(name) || isBuiltinScalar(name) || name == "FieldSet" {
				continue
			}
			existing, ok := merged[name]
			if !ok {
				merged[name] = copyDefinition(def)
				order = append(order, name)
				continue
			}
			if existing.Kind != def.Kind {
				return "", fmt.Errorf("type %q is a %s in one subgraph and a %s in another", name, existing.Kind, def.Kind)
			}
			mergeInto(existing, def)
		}
	}

	doc := &language.SchemaDocument{}
	sort.Strings(order)
	for _, name := range order {
		doc.Definitions = append(doc.Definitions, merged[name])
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.String(), nil
}

func mergeInto(dst, src *language.Definition) {
	for _, f := range src.Fields {
		if dst.Fields.ForName(f.Name) == nil {
			dst.Fields = append(dst.Fields, copyField(f))
		}
	}
	for _, iface := range src.Interfaces {
		if !containsString(dst.Interfaces, iface) {
			dst.Interfaces = append(dst.Interfaces, iface)
		}
	}
	for _, member := range src.Types {
		if !containsString(dst.Types, member) {
			dst.Types = append(dst.Types, member)
		}
	}
	for _, ev := range src.EnumValues {
		if dst.EnumValues.ForName(ev.Name) == nil {
			dst.EnumValues = append(dst.EnumValues, ev)
		}
	}
}

func copyDefinition(def *language.Definition) *language.Definition {
	out := &language.Definition{
		Kind:        def.Kind,
		Name:        def.Name,
		Description: def.Description,
		Interfaces:  append([]string(nil), def.Interfaces...),
		Types:       append([]string(nil), def.Types...),
		EnumValues:  append(ast.EnumValueList(nil), def.EnumValues...),
	}
	for _, f := range def.Fields {
		out.Fields = append(out.Fields, copyField(f))
	}
	return out
}

func copyField(f *language.FieldDefinition) *language.FieldDefinition {
	out := &language.FieldDefinition{
		Name:         f.Name,
		Description:  f.Description,
		Type:         f.Type,
		DefaultValue: f.DefaultValue,
		Arguments:    f.Arguments,
	}
	for _, d := range f.Directives {
		if !federationDirectiveNames[d.Name] {
			out.Directives = append(out.Directives, d)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func isBuiltinScalar(name string) bool {
	switch name {
	case "Int", "Float", "String", "Boolean", "ID":
		return true
	default:
		return false
	}
}
