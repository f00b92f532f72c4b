package witness

import (
	"strconv"
	"strings"

	language "github.com/wiregraph/wiregraph/internal/language"
)

// Render produces the operation as GraphQL text. Two-space indentation;
// a non-nil empty selection set renders as an ellipsis marking the point
// where satisfiability broke down.
func (op *Operation) Render() string {
	var b strings.Builder
	if op.Kind != language.Query || op.Name != "" {
		b.WriteString(string(op.Kind))
		if op.Name != "" {
			b.WriteString(" ")
			b.WriteString(op.Name)
		}
		b.WriteString(" ")
	}
	renderSelectionSet(&b, op.SelectionSet, 0)
	return b.String()
}

func renderSelectionSet(b *strings.Builder, ss language.SelectionSet, depth int) {
	b.WriteString("{\n")
	if len(ss) == 0 {
		writeIndent(b, depth+1)
		b.WriteString("...\n")
	}
	for _, sel := range ss {
		writeIndent(b, depth+1)
		renderSelection(b, sel, depth+1)
		b.WriteString("\n")
	}
	writeIndent(b, depth)
	b.WriteString("}")
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func renderSelection(b *strings.Builder, sel language.Selection, depth int) {
	switch v := sel.(type) {
	case *language.Field:
		if v.Alias != "" && v.Alias != v.Name {
			b.WriteString(v.Alias)
			b.WriteString(": ")
		}
		b.WriteString(v.Name)
		renderArguments(b, v.Arguments)
		renderDirectives(b, v.Directives)
		if v.SelectionSet != nil {
			b.WriteString(" ")
			renderSelectionSet(b, v.SelectionSet, depth)
		}
	case *language.InlineFragment:
		b.WriteString("... on ")
		b.WriteString(v.TypeCondition)
		renderDirectives(b, v.Directives)
		b.WriteString(" ")
		renderSelectionSet(b, v.SelectionSet, depth)
	case *language.FragmentSpread:
		b.WriteString("...")
		b.WriteString(v.Name)
		renderDirectives(b, v.Directives)
	}
}

func renderArguments(b *strings.Builder, args language.ArgumentList) {
	if len(args) == 0 {
		return
	}
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(": ")
		b.WriteString(RenderValue(arg.Value))
	}
	b.WriteString(")")
}

func renderDirectives(b *strings.Builder, directives language.DirectiveList) {
	for _, d := range directives {
		b.WriteString(" @")
		b.WriteString(d.Name)
		renderArguments(b, d.Arguments)
	}
}

// RenderValue renders a GraphQL literal.
func RenderValue(v *language.Value) string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case language.Variable:
		return "$" + v.Raw
	case language.StringValue, language.BlockValue:
		return strconv.Quote(v.Raw)
	case language.NullValue:
		return "null"
	case language.ListValue:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			parts = append(parts, RenderValue(c.Value))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case language.ObjectValue:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			parts = append(parts, c.Name+": "+RenderValue(c.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.Raw
	}
}
