package selection

import (
	"fmt"

	language "github.com/wiregraph/wiregraph/internal/language"
)

// Mode controls how deep normalization rewrites field sub-selections.
type Mode int

const (
	// Recursive normalizes field sub-selections all the way down.
	Recursive Mode = iota
	// SingleLevel canonicalizes only the current level; field sub-selections
	// pass through untouched. Fragments at the current level are still
	// elided, lifted, or dropped, since they contribute to this level.
	SingleLevel
)

// Normalize canonicalizes a selection set against a target parent type:
// fields are rebased onto the parent, non-intersecting fragments dropped,
// useless inline fragments elided, object-typed branches of abstract
// fragments lifted one level, and same-key selections merged in
// first-appearance order. The input is never mutated; the result is a new
// value and normalizing it again is a no-op.
func Normalize(
	ss language.SelectionSet,
	parent *language.Definition,
	fragments language.FragmentDefinitionList,
	schema *language.Schema,
	mode Mode,
) (language.SelectionSet, error) {
	if parent == nil {
		return nil, fmt.Errorf("cannot normalize a selection set without a parent type")
	}
	acc := newKeyedSelections()
	for _, sel := range ss {
		if err := normalizeSelection(sel, parent, fragments, schema, mode, acc); err != nil {
			return nil, err
		}
	}
	return acc.selections(), nil
}

func normalizeSelection(
	sel language.Selection,
	parent *language.Definition,
	fragments language.FragmentDefinitionList,
	schema *language.Schema,
	mode Mode,
	acc *keyedSelections,
) error {
	switch v := sel.(type) {
	case *language.Field:
		field, err := normalizeField(v, parent, fragments, schema, mode)
		if err != nil {
			return err
		}
		acc.add(field)
		return nil

	case *language.FragmentSpread:
		def := fragments.ForName(v.Name)
		if def == nil {
			return fmt.Errorf("unknown fragment %q", v.Name)
		}
		cond := schema.Types[def.TypeCondition]
		if cond == nil {
			return fmt.Errorf("fragment %q has unknown type condition %q", v.Name, def.TypeCondition)
		}
		if !intersects(schema, cond, parent) {
			return nil
		}
		spread := *v
		spread.ObjectDefinition = parent
		spread.Definition = def
		acc.add(&spread)
		return nil

	case *language.InlineFragment:
		return normalizeInlineFragment(v, parent, fragments, schema, mode, acc)

	default:
		return fmt.Errorf("unknown selection kind %T", sel)
	}
}

func normalizeField(
	f *language.Field,
	parent *language.Definition,
	fragments language.FragmentDefinitionList,
	schema *language.Schema,
	mode Mode,
) (*language.Field, error) {
	field := *f
	field.ObjectDefinition = parent

	if f.Name == "__typename" {
		field.SelectionSet = nil
		return &field, nil
	}
	def := parent.Fields.ForName(f.Name)
	if def == nil {
		return nil, fmt.Errorf("cannot rebase field %q on type %q", f.Name, parent.Name)
	}
	field.Definition = def

	if mode == SingleLevel || len(f.SelectionSet) == 0 {
		return &field, nil
	}

	base := schema.Types[def.Type.Name()]
	if base == nil {
		return nil, fmt.Errorf("field %q has unknown type %q", f.Name, def.Type.Name())
	}
	sub, err := Normalize(f.SelectionSet, base, fragments, schema, Recursive)
	if err != nil {
		return nil, err
	}
	if len(sub) == 0 {
		// The whole sub-selection was elided; keep the operation
		// syntactically valid while signalling intentional emptiness.
		sub = language.SelectionSet{disabledTypename(base)}
	}
	field.SelectionSet = sub
	return &field, nil
}

func normalizeInlineFragment(
	frag *language.InlineFragment,
	parent *language.Definition,
	fragments language.FragmentDefinitionList,
	schema *language.Schema,
	mode Mode,
	acc *keyedSelections,
) error {
	cond := parent
	if frag.TypeCondition != "" {
		cond = schema.Types[frag.TypeCondition]
		if cond == nil {
			return fmt.Errorf("inline fragment has unknown type condition %q", frag.TypeCondition)
		}
	}
	if !intersects(schema, cond, parent) {
		return nil
	}

	// A non-nil empty body is the cut-off marker of a synthesized example
	// operation; it must survive normalization verbatim.
	if frag.SelectionSet != nil && len(frag.SelectionSet) == 0 {
		acc.add(rebasedFragment(frag, cond, parent, frag.SelectionSet))
		return nil
	}

	directiveFree := len(frag.Directives) == 0
	useless := frag.TypeCondition == "" || cond.Name == parent.Name || parent.Kind == language.Object
	if directiveFree && useless {
		// The condition cannot narrow anything here; normalize the body
		// directly against the parent.
		for _, sel := range frag.SelectionSet {
			if err := normalizeSelection(sel, parent, fragments, schema, mode, acc); err != nil {
				return err
			}
		}
		return nil
	}

	body, err := Normalize(frag.SelectionSet, cond, fragments, schema, mode)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		if directiveFree {
			return nil
		}
		body = language.SelectionSet{disabledTypename(cond)}
		acc.add(rebasedFragment(frag, cond, parent, body))
		return nil
	}

	if directiveFree && language.IsAbstractType(cond) {
		liftable, rest := splitLiftable(body, parent, schema)
		switch {
		case len(rest) == 0:
			// Every branch applies to the parent directly; the wrapping
			// fragment disappears in favor of the lifted union.
			for _, branch := range liftable {
				acc.add(rebaseBranch(branch, parent))
			}
			return nil
		case len(liftable) > 0:
			acc.add(rebasedFragment(frag, cond, parent, rest))
			for _, branch := range liftable {
				acc.add(rebaseBranch(branch, parent))
			}
			return nil
		}
	}

	acc.add(rebasedFragment(frag, cond, parent, body))
	return nil
}

// splitLiftable partitions a normalized fragment body into object-typed
// branches that intersect the outer parent's runtime types (liftable one
// level up) and everything else. Lifting is deliberately not recursive.
func splitLiftable(
	body language.SelectionSet,
	parent *language.Definition,
	schema *language.Schema,
) (liftable []*language.InlineFragment, rest language.SelectionSet) {
	for _, sel := range body {
		branch, ok := sel.(*language.InlineFragment)
		if !ok || len(branch.Directives) > 0 {
			rest = append(rest, sel)
			continue
		}
		branchCond := schema.Types[branch.TypeCondition]
		if branchCond == nil || branchCond.Kind != language.Object || !intersects(schema, branchCond, parent) {
			rest = append(rest, sel)
			continue
		}
		liftable = append(liftable, branch)
	}
	return liftable, rest
}

func rebasedFragment(frag *language.InlineFragment, cond, parent *language.Definition, body language.SelectionSet) *language.InlineFragment {
	out := *frag
	out.TypeCondition = cond.Name
	out.ObjectDefinition = parent
	out.SelectionSet = body
	return &out
}

func rebaseBranch(branch *language.InlineFragment, parent *language.Definition) *language.InlineFragment {
	out := *branch
	out.ObjectDefinition = parent
	return &out
}

// disabledTypename is the placeholder for an intentionally emptied selection:
// __typename @include(if: false).
func disabledTypename(parent *language.Definition) *language.Field {
	return &language.Field{
		Name:             "__typename",
		ObjectDefinition: parent,
		Directives: language.DirectiveList{{
			Name: "include",
			Arguments: language.ArgumentList{{
				Name:  "if",
				Value: &language.Value{Kind: language.BooleanValue, Raw: "false"},
			}},
		}},
	}
}

// intersects reports whether two composite types share at least one runtime
// type.
func intersects(schema *language.Schema, a, b *language.Definition) bool {
	if a.Name == b.Name {
		return true
	}
	ra := language.RuntimeTypes(schema, a)
	for name := range language.RuntimeTypes(schema, b) {
		if ra[name] {
			return true
		}
	}
	return false
}
