package composition

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wiregraph/wiregraph/internal/satisfy"
)

func satisfiabilityError(witnessQuery string, reasons satisfy.Unadvanceables) *Error {
	var b strings.Builder
	b.WriteString("The following supergraph API query:\n")
	b.WriteString(witnessQuery)
	if !strings.HasSuffix(witnessQuery, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("cannot be satisfied by the subgraphs because:\n")
	b.WriteString(displayReasons(reasons))
	return &Error{Code: CodeSatisfiabilityError, Message: b.String()}
}

// displayReasons groups unadvanceable reasons by subgraph in first-appearance
// order, deduplicating identical details within a group. Groups with a single
// detail collapse onto one line.
func displayReasons(reasons satisfy.Unadvanceables) string {
	var order []string
	byGraph := map[string][]string{}
	seen := map[string]bool{}
	for _, r := range reasons {
		if _, ok := byGraph[r.Subgraph]; !ok {
			order = append(order, r.Subgraph)
		}
		key := r.Subgraph + "\x00" + r.Details
		if seen[key] {
			continue
		}
		seen[key] = true
		byGraph[r.Subgraph] = append(byGraph[r.Subgraph], r.Details)
	}

	var b strings.Builder
	for _, name := range order {
		details := byGraph[name]
		if len(details) == 1 {
			fmt.Fprintf(&b, "- from subgraph %q: %s.\n", name, details[0])
			continue
		}
		fmt.Fprintf(&b, "- from subgraph %q:\n", name)
		for _, d := range details {
			fmt.Fprintf(&b, "  - %s.\n", d)
		}
	}
	return b.String()
}

func shareableMismatchError(witnessQuery string, f *satisfy.Finding) *Error {
	var b strings.Builder
	b.WriteString("For the following supergraph API query:\n")
	b.WriteString(witnessQuery)
	if !strings.HasSuffix(witnessQuery, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Shared field %q return type %q has a non-intersecting set of possible runtime types across subgraphs:\n", f.Field, f.ReturnType)
	b.WriteString(displayRuntimeTypes(f))
	return &Error{Code: CodeShareableMismatchedRuntimeTypes, Message: b.String()}
}

func shareableHint(witnessQuery string, f *satisfy.Finding) *Hint {
	var b strings.Builder
	b.WriteString("For the following supergraph API query:\n")
	b.WriteString(witnessQuery)
	if !strings.HasSuffix(witnessQuery, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Shared field %q return type %q does not have the same set of possible runtime types in every subgraph resolving it:\n", f.Field, f.ReturnType)
	b.WriteString(displayRuntimeTypes(f))
	b.WriteString("This may cause the field to resolve to different objects depending on which subgraph serves it.")
	return &Hint{Code: CodeInconsistentRuntimeTypesForShareable, Message: b.String()}
}

func displayRuntimeTypes(f *satisfy.Finding) string {
	var b strings.Builder
	for _, sub := range f.Subgraphs {
		types := append([]string(nil), f.RuntimeTypes[sub]...)
		sort.Strings(types)
		fmt.Fprintf(&b, " - in subgraph %q, possible runtime types are [%s].\n", sub, strings.Join(types, ", "))
	}
	return b.String()
}
