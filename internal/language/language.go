package language

import (
	"fmt"

	gqlparser "github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSchema parses and validates an SDL document into a usable schema with
// possible-type and implements indexes populated.
func LoadSchema(name, source string) (*Schema, error) {
	sch, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return sch, nil
}

// ParseFieldSet parses the body of a federation "fields" argument, e.g.
// `id organization { id }`, into a selection set.
func ParseFieldSet(fields string) (SelectionSet, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: "{" + fields + "}"})
	if err != nil {
		return nil, fmt.Errorf("invalid field set %q: %w", fields, err)
	}
	if len(doc.Operations) != 1 {
		return nil, fmt.Errorf("invalid field set %q", fields)
	}
	return doc.Operations[0].SelectionSet, nil
}
