package querygraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/wiregraph/wiregraph/internal/language"
)

func newTestGraph(t *testing.T) (*Graph, NodeIndex, NodeIndex, EdgeIndex, EdgeIndex) {
	t.Helper()
	schema, err := language.LoadSchema("api", `
		type Query { user: User }
		type User { id: ID! friend: User }
	`)
	require.NoError(t, err)

	g := New("api")
	require.NoError(t, g.AddSource("api", schema))

	query, err := g.EnsureNode("api", schema.Types["Query"])
	require.NoError(t, err)
	user, err := g.EnsureNode("api", schema.Types["User"])
	require.NoError(t, err)

	userField := schema.Types["Query"].Fields.ForName("user")
	friendField := schema.Types["User"].Fields.ForName("friend")
	e1, err := g.AddEdge(query, user, &FieldCollection{Field: userField}, nil)
	require.NoError(t, err)
	e2, err := g.AddEdge(user, user, &FieldCollection{Field: friendField}, nil)
	require.NoError(t, err)
	return g, query, user, e1, e2
}

func TestPathExtension(t *testing.T) {
	g, query, user, e1, e2 := newTestGraph(t)

	empty, err := NewPath(g, query)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Size())
	require.Equal(t, query, empty.Tail())
	_, err = empty.Head()
	require.Error(t, err)

	one, err := empty.Add(e1, ConditionSatisfied)
	require.NoError(t, err)
	two, err := one.Add(e2, ConditionSatisfied)
	require.NoError(t, err)

	// The shorter paths are untouched by the extension.
	require.Equal(t, 0, empty.Size())
	require.Equal(t, 1, one.Size())
	require.Equal(t, 2, two.Size())
	require.Equal(t, user, two.Tail())

	head, err := two.Head()
	require.NoError(t, err)
	require.Equal(t, query, head)

	edges := two.Edges()
	require.Len(t, edges, 2)
	require.Equal(t, e1, edges[0].Edge)
	require.Equal(t, e2, edges[1].Edge)

	last, ok := two.LastEdge()
	require.True(t, ok)
	require.Equal(t, e2, last.Edge)
}

func TestPathRejectsDisconnectedEdge(t *testing.T) {
	g, query, _, _, e2 := newTestGraph(t)

	empty, err := NewPath(g, query)
	require.NoError(t, err)
	// e2 starts at User, but the path ends at Query.
	_, err = empty.Add(e2, ConditionSatisfied)
	require.Error(t, err)
}

func TestPathString(t *testing.T) {
	g, query, _, e1, e2 := newTestGraph(t)

	p, err := NewPath(g, query)
	require.NoError(t, err)
	p, err = p.Add(e1, ConditionSatisfied)
	require.NoError(t, err)
	p, err = p.Add(e2, ConditionSatisfied)
	require.NoError(t, err)

	require.Equal(t, "Query(api) --user--> User(api) --friend--> User(api)", p.String())
}
