package querygraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	federation "github.com/wiregraph/wiregraph/internal/federation"
	language "github.com/wiregraph/wiregraph/internal/language"
)

func buildFixture(t *testing.T) *Graph {
	t.Helper()
	accounts, err := federation.ParseSubgraph("accounts", `
		type Query { me: User }
		type User @key(fields: "id") {
			id: ID!
			name: String!
		}
	`)
	require.NoError(t, err)

	reviews, err := federation.ParseSubgraph("reviews", `
		type Query { latestReview: Review }
		type Review {
			id: ID!
			author: User! @provides(fields: "name")
			subject: Subject!
		}
		union Subject = Review
		type User @key(fields: "id") {
			id: ID!
			name: String! @external
			reviewCount: Int!
		}
	`)
	require.NoError(t, err)

	supergraph, err := federation.MergeAPISchema([]*federation.Subgraph{accounts, reviews})
	require.NoError(t, err)

	g, err := Build(supergraph, []*federation.Subgraph{accounts, reviews})
	require.NoError(t, err)
	return g
}

func edgesByKind(t *testing.T, g *Graph, n NodeIndex, kind TransitionKind) []Edge {
	t.Helper()
	var out []Edge
	for _, idx := range g.OutEdges(n) {
		e, err := g.Edge(idx)
		require.NoError(t, err)
		if e.Transition.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestBuildRegistersSources(t *testing.T) {
	g := buildFixture(t)
	require.Equal(t, []string{"supergraph", "accounts", "reviews"}, g.Sources())
	require.Equal(t, "supergraph", g.SupergraphSource())

	_, ok := g.RootNode("supergraph", language.Query)
	require.True(t, ok)
	_, ok = g.RootNode("accounts", language.Query)
	require.True(t, ok)
	_, ok = g.RootNode("supergraph", language.Mutation)
	require.False(t, ok)
}

func TestBuildFieldEdges(t *testing.T) {
	g := buildFixture(t)

	query, ok := g.TypeNode("accounts", "Query")
	require.True(t, ok)
	fields := edgesByKind(t, g, query, KindFieldCollection)
	require.Len(t, fields, 1)
	require.Equal(t, "me", fields[0].Transition.String())

	// The supergraph API node carries the union of both subgraphs' fields.
	user, ok := g.TypeNode("supergraph", "User")
	require.True(t, ok)
	names := map[string]bool{}
	for _, e := range edgesByKind(t, g, user, KindFieldCollection) {
		names[e.Transition.String()] = true
	}
	require.True(t, names["id"])
	require.True(t, names["name"])
	require.True(t, names["reviewCount"])
}

func TestBuildExternalFieldProvidedStaysResolvable(t *testing.T) {
	g := buildFixture(t)

	// User.name is @external in reviews but provided via Review.author, so
	// the field edge exists and the coordinate is not marked external.
	user, ok := g.TypeNode("reviews", "User")
	require.True(t, ok)
	found := false
	for _, e := range edgesByKind(t, g, user, KindFieldCollection) {
		if e.Transition.String() == "name" {
			found = true
		}
	}
	require.True(t, found)
	require.False(t, g.IsExternal("reviews", "User.name"))
}

func TestBuildExternalFieldWithoutProvides(t *testing.T) {
	accounts, err := federation.ParseSubgraph("accounts", `
		type Query { me: User }
		type User @key(fields: "id") { id: ID! name: String! @external }
	`)
	require.NoError(t, err)
	supergraph, err := federation.MergeAPISchema([]*federation.Subgraph{accounts})
	require.NoError(t, err)
	g, err := Build(supergraph, []*federation.Subgraph{accounts})
	require.NoError(t, err)

	user, ok := g.TypeNode("accounts", "User")
	require.True(t, ok)
	for _, e := range edgesByKind(t, g, user, KindFieldCollection) {
		require.NotEqual(t, "name", e.Transition.String())
	}
	require.True(t, g.IsExternal("accounts", "User.name"))
}

func TestBuildDowncastEdges(t *testing.T) {
	g := buildFixture(t)

	subject, ok := g.TypeNode("reviews", "Subject")
	require.True(t, ok)
	downs := edgesByKind(t, g, subject, KindDowncast)
	require.Len(t, downs, 1)
	require.Equal(t, "... on Review", downs[0].Transition.String())
}

func TestBuildEntityEdgesCarryKeyConditions(t *testing.T) {
	g := buildFixture(t)

	accountsUser, ok := g.TypeNode("accounts", "User")
	require.True(t, ok)
	enters := edgesByKind(t, g, accountsUser, KindSubgraphEnter)
	require.Len(t, enters, 1)
	require.Equal(t, "key(User)", enters[0].Transition.String())
	require.Equal(t, "id", language.FormatFieldSet(enters[0].Conditions))

	tail, err := g.Node(enters[0].Tail)
	require.NoError(t, err)
	require.Equal(t, "reviews", tail.Source)
}

func TestBuildTracksFieldSources(t *testing.T) {
	g := buildFixture(t)
	require.Equal(t, []string{"reviews"}, g.FieldSources("User.reviewCount"))
	require.Equal(t, []string{"accounts", "reviews"}, g.FieldSources("User.id"))
	// Provided external fields are resolvable in the providing subgraph too.
	require.Equal(t, []string{"accounts", "reviews"}, g.FieldSources("User.name"))
}

func TestBuildRejectsReservedName(t *testing.T) {
	accounts, err := federation.ParseSubgraph("supergraph", `
		type Query { ok: Boolean }
	`)
	require.NoError(t, err)
	supergraph, err := federation.MergeAPISchema([]*federation.Subgraph{accounts})
	require.NoError(t, err)
	_, err = Build(supergraph, []*federation.Subgraph{accounts})
	require.Error(t, err)
}
