package selection

import (
	"sort"
	"strings"

	language "github.com/wiregraph/wiregraph/internal/language"
)

// keyedSelections accumulates selections in first-appearance order with
// key-based deduplication. Selections normalizing to the same key are merged,
// not duplicated.
type keyedSelections struct {
	order []string
	byKey map[string]language.Selection
}

func newKeyedSelections() *keyedSelections {
	return &keyedSelections{byKey: map[string]language.Selection{}}
}

func (ks *keyedSelections) add(sel language.Selection) {
	key := selectionKey(sel)
	existing, ok := ks.byKey[key]
	if !ok {
		ks.order = append(ks.order, key)
		ks.byKey[key] = sel
		return
	}
	ks.byKey[key] = mergeSelections(existing, sel)
}

func (ks *keyedSelections) selections() language.SelectionSet {
	if len(ks.order) == 0 {
		return nil
	}
	out := make(language.SelectionSet, 0, len(ks.order))
	for _, key := range ks.order {
		out = append(out, ks.byKey[key])
	}
	return out
}

// selectionKey identifies a selection for merge purposes: response name for
// fields, type condition for fragments, both qualified by arguments and
// directives so differently-shaped selections never collapse.
func selectionKey(sel language.Selection) string {
	switch v := sel.(type) {
	case *language.Field:
		name := v.Alias
		if name == "" {
			name = v.Name
		}
		return "f:" + name + formatArguments(v.Arguments) + formatDirectives(v.Directives)
	case *language.InlineFragment:
		return "on:" + v.TypeCondition + formatDirectives(v.Directives)
	case *language.FragmentSpread:
		return "spread:" + v.Name + formatDirectives(v.Directives)
	default:
		return ""
	}
}

// mergeSelections combines two same-key selections. Both sides are already
// normalized, so merging is a keyed union of their sub-selections.
func mergeSelections(a, b language.Selection) language.Selection {
	switch av := a.(type) {
	case *language.Field:
		bv, ok := b.(*language.Field)
		if !ok {
			return a
		}
		if len(bv.SelectionSet) == 0 {
			return a
		}
		merged := *av
		merged.SelectionSet = mergeSelectionSets(av.SelectionSet, bv.SelectionSet)
		return &merged
	case *language.InlineFragment:
		bv, ok := b.(*language.InlineFragment)
		if !ok {
			return a
		}
		merged := *av
		merged.SelectionSet = mergeSelectionSets(av.SelectionSet, bv.SelectionSet)
		return &merged
	default:
		return a
	}
}

func mergeSelectionSets(a, b language.SelectionSet) language.SelectionSet {
	acc := newKeyedSelections()
	for _, sel := range a {
		acc.add(sel)
	}
	for _, sel := range b {
		acc.add(sel)
	}
	return acc.selections()
}

func formatArguments(args language.ArgumentList) string {
	if len(args) == 0 {
		return ""
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.Name+":"+formatValue(arg.Value))
	}
	sort.Strings(parts)
	return "(" + strings.Join(parts, ",") + ")"
}

func formatDirectives(directives language.DirectiveList) string {
	if len(directives) == 0 {
		return ""
	}
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, "@"+d.Name+formatArguments(d.Arguments))
	}
	return strings.Join(parts, "")
}

func formatValue(v *language.Value) string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case language.Variable:
		return "$" + v.Raw
	case language.StringValue, language.BlockValue:
		return `"` + v.Raw + `"`
	case language.ListValue:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			parts = append(parts, formatValue(c.Value))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case language.ObjectValue:
		parts := make([]string, 0, len(v.Children))
		for _, c := range v.Children {
			parts = append(parts, c.Name+":"+formatValue(c.Value))
		}
		sort.Strings(parts)
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return v.Raw
	}
}
