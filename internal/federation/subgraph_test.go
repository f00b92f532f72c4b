package federation

import (
	"testing"

	"github.com/stretchr/testify/require"

	language "github.com/wiregraph/wiregraph/internal/language"
)

const reviewsSDL = `
type Query {
	reviews: [Review!]!
}

type Review {
	id: ID!
	body: String!
	author: User! @provides(fields: "name")
	product: Product! @shareable
}

type User @key(fields: "id") @key(fields: "email") {
	id: ID!
	email: ID! @external
	name: String! @external
	displayName: String! @requires(fields: "name")
}

type Product @key(fields: "sku") @shareable {
	sku: ID!
	rating: Float!
}
`

func TestParseSubgraphExtractsMetadata(t *testing.T) {
	sub, err := ParseSubgraph("reviews", reviewsSDL)
	require.NoError(t, err)

	require.Len(t, sub.Keys["User"], 2)
	require.Equal(t, "id", language.FormatFieldSet(sub.Keys["User"][0]))
	require.Equal(t, "email", language.FormatFieldSet(sub.Keys["User"][1]))
	require.Len(t, sub.Keys["Product"], 1)

	require.True(t, sub.IsExternal("User", "email"))
	require.True(t, sub.IsExternal("User", "name"))
	require.False(t, sub.IsExternal("User", "id"))

	// Type-level @shareable spreads to every field.
	require.True(t, sub.Shareable["Product.sku"])
	require.True(t, sub.Shareable["Product.rating"])
	require.True(t, sub.Shareable["Review.product"])
	require.False(t, sub.Shareable["Review.body"])

	require.Equal(t, "name", language.FormatFieldSet(sub.Requires["User.displayName"]))
	require.Equal(t, "name", language.FormatFieldSet(sub.Provides["Review.author"]))
}

func TestProvidedCoordinates(t *testing.T) {
	sub, err := ParseSubgraph("reviews", reviewsSDL)
	require.NoError(t, err)

	provided := sub.ProvidedCoordinates()
	require.True(t, provided["User.name"])
	require.False(t, provided["User.email"])
}

func TestParseSubgraphKeepsDeclaredDirectives(t *testing.T) {
	// A document declaring the directives itself must not clash with the
	// prelude.
	sdl := `
		scalar FieldSet
		directive @key(fields: FieldSet!, resolvable: Boolean = true) repeatable on OBJECT | INTERFACE

		type Query { me: User }
		type User @key(fields: "id") { id: ID! }
	`
	sub, err := ParseSubgraph("accounts", sdl)
	require.NoError(t, err)
	require.Len(t, sub.Keys["User"], 1)
}

func TestParseSubgraphRejectsBadFieldSet(t *testing.T) {
	sdl := `
		type Query { me: User }
		type User @key(fields: "id {") { id: ID! }
	`
	_, err := ParseSubgraph("accounts", sdl)
	require.Error(t, err)
	require.Contains(t, err.Error(), "@key on type \"User\"")
}
