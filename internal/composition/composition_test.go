package composition

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	federation "github.com/wiregraph/wiregraph/internal/federation"
	querygraph "github.com/wiregraph/wiregraph/internal/querygraph"
	satisfy "github.com/wiregraph/wiregraph/internal/satisfy"
)

func buildGraph(t *testing.T, subgraphs ...[2]string) *querygraph.Graph {
	t.Helper()
	var subs []*federation.Subgraph
	for _, pair := range subgraphs {
		sub, err := federation.ParseSubgraph(pair[0], pair[1])
		require.NoError(t, err)
		subs = append(subs, sub)
	}
	supergraph, err := federation.MergeAPISchema(subs)
	require.NoError(t, err)
	g, err := querygraph.Build(supergraph, subs)
	require.NoError(t, err)
	return g
}

func runValidation(t *testing.T, g *querygraph.Graph) ([]*Error, []*Hint) {
	t.Helper()
	var errs []*Error
	var hints []*Hint
	err := ValidateSatisfiability(context.Background(), g, Options{}, &errs, &hints)
	require.NoError(t, err)
	return errs, hints
}

func TestValidateSatisfiabilityCleanGraph(t *testing.T) {
	g := buildGraph(t,
		[2]string{"accounts", `
			type Query { me: User }
			type User @key(fields: "id") { id: ID! name: String! }
		`},
		[2]string{"reviews", `
			type Query { ping: Boolean }
			type User @key(fields: "id") { id: ID! reviewCount: Int! }
		`},
	)
	errs, hints := runValidation(t, g)
	require.Empty(t, errs)
	require.Empty(t, hints)
}

func TestSatisfiabilityErrorMessage(t *testing.T) {
	g := buildGraph(t,
		[2]string{"accounts", `
			type Query { me: User }
			type User @key(fields: "id") { id: ID! name: String! }
		`},
		[2]string{"reviews", `
			type Query { ping: Boolean }
			type User { id: ID! reviewCount: Int! }
		`},
	)

	errs, hints := runValidation(t, g)
	require.Empty(t, hints)
	require.Len(t, errs, 1)
	require.Equal(t, CodeSatisfiabilityError, errs[0].Code)

	want := `The following supergraph API query:
{
  me {
    reviewCount
  }
}
cannot be satisfied by the subgraphs because:
- from subgraph "accounts":
  - cannot find field "User.reviewCount".
  - cannot move to subgraph "reviews", which has field "User.reviewCount", because type "User" has no usable key in subgraph "reviews".
`
	if diff := cmp.Diff(want, errs[0].Message); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestDowncastErrorMessageKeepsCutOff(t *testing.T) {
	g := buildGraph(t,
		[2]string{"library", `
			type Query { media: Media }
			interface Media { title: String! }
			type Book implements Media { title: String! }
		`},
		[2]string{"cinema", `
			type Query { ping: Boolean }
			interface Media { title: String! }
			type Movie implements Media { title: String! runtime: Int! }
		`},
	)

	errs, hints := runValidation(t, g)
	require.Empty(t, hints)
	require.Len(t, errs, 1)
	require.Equal(t, CodeSatisfiabilityError, errs[0].Code)

	// The inline fragment wrapping the cut-off ellipsis must survive
	// normalization of the example query.
	want := `The following supergraph API query:
{
  media {
    ... on Movie {
      ...
    }
  }
}
cannot be satisfied by the subgraphs because:
- from subgraph "library": cannot find type "Movie".
`
	if diff := cmp.Diff(want, errs[0].Message); diff != "" {
		t.Errorf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestShareableMismatchMessage(t *testing.T) {
	g := buildGraph(t,
		[2]string{"library", `
			type Query { featured: Media @shareable }
			interface Media { title: String! }
			type Book implements Media { title: String! pages: Int! }
		`},
		[2]string{"cinema", `
			type Query { featured: Media @shareable }
			interface Media { title: String! }
			type Movie implements Media { title: String! runtime: Int! }
		`},
	)

	errs, _ := runValidation(t, g)
	require.Len(t, errs, 1)
	require.Equal(t, CodeShareableMismatchedRuntimeTypes, errs[0].Code)
	msg := errs[0].Message
	require.Contains(t, msg, "For the following supergraph API query:")
	require.Contains(t, msg, `Shared field "Query.featured" return type "Media" has a non-intersecting set of possible runtime types across subgraphs:`)
	require.Contains(t, msg, ` - in subgraph "library", possible runtime types are [Book].`)
	require.Contains(t, msg, ` - in subgraph "cinema", possible runtime types are [Movie].`)
}

func TestShareableHintMessage(t *testing.T) {
	g := buildGraph(t,
		[2]string{"library", `
			type Query { featured: Media @shareable }
			interface Media { title: String! }
			type Book implements Media { title: String! @shareable }
			type Movie implements Media { title: String! runtime: Int! }
		`},
		[2]string{"cinema", `
			type Query { featured: Media @shareable }
			interface Media { title: String! }
			type Movie implements Media { title: String! @shareable runtime: Int! @shareable }
		`},
	)

	errs, hints := runValidation(t, g)
	require.Empty(t, errs)
	require.Len(t, hints, 1)
	require.Equal(t, CodeInconsistentRuntimeTypesForShareable, hints[0].Code)
	msg := hints[0].Message
	require.Contains(t, msg, `Shared field "Query.featured" return type "Media" does not have the same set of possible runtime types in every subgraph resolving it:`)
	require.Contains(t, msg, ` - in subgraph "library", possible runtime types are [Book, Movie].`)
	require.Contains(t, msg, ` - in subgraph "cinema", possible runtime types are [Movie].`)
}

func TestDisplayReasonsGroupsAndDedups(t *testing.T) {
	reasons := satisfy.Unadvanceables{
		{Subgraph: "a", Details: "first problem"},
		{Subgraph: "b", Details: "only problem"},
		{Subgraph: "a", Details: "second problem"},
		{Subgraph: "a", Details: "first problem"},
	}

	want := `- from subgraph "a":
  - first problem.
  - second problem.
- from subgraph "b": only problem.
`
	if diff := cmp.Diff(want, displayReasons(reasons)); diff != "" {
		t.Errorf("grouped reasons mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectsMultipleErrors(t *testing.T) {
	// Two independent unreachable fields produce two separate errors.
	g := buildGraph(t,
		[2]string{"accounts", `
			type Query { me: User }
			type User @key(fields: "id") { id: ID! name: String! }
		`},
		[2]string{"reviews", `
			type Query { ping: Boolean }
			type User { id: ID! reviewCount: Int! karma: Int! }
		`},
	)

	errs, _ := runValidation(t, g)
	require.Len(t, errs, 2)
	for _, e := range errs {
		require.Equal(t, CodeSatisfiabilityError, e.Code)
	}
}
