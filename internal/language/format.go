package language

import "strings"

// FormatFieldSet renders a selection set in the compact single-line form used
// by federation "fields" arguments, e.g. `id organization { id }`.
func FormatFieldSet(ss SelectionSet) string {
	var b strings.Builder
	writeFieldSet(&b, ss)
	return b.String()
}

func writeFieldSet(b *strings.Builder, ss SelectionSet) {
	for i, sel := range ss {
		if i > 0 {
			b.WriteString(" ")
		}
		switch v := sel.(type) {
		case *Field:
			b.WriteString(v.Name)
			if len(v.SelectionSet) > 0 {
				b.WriteString(" { ")
				writeFieldSet(b, v.SelectionSet)
				b.WriteString(" }")
			}
		case *InlineFragment:
			b.WriteString("... on ")
			b.WriteString(v.TypeCondition)
			b.WriteString(" { ")
			writeFieldSet(b, v.SelectionSet)
			b.WriteString(" }")
		case *FragmentSpread:
			b.WriteString("...")
			b.WriteString(v.Name)
		}
	}
}
