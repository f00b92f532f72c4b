package satisfy

import (
	"fmt"
	"sort"
	"strings"

	querygraph "github.com/wiregraph/wiregraph/internal/querygraph"
)

// ValidationState pairs a supergraph path with the still-viable candidate
// paths mirroring it across subgraphs, advanced in lockstep. One state lives
// for one search branch.
type ValidationState struct {
	Supergraph *querygraph.Path
	Candidates []*querygraph.Path
}

// CandidateSubgraph returns the subgraph a candidate path currently sits in.
func CandidateSubgraph(p *querygraph.Path) string {
	return p.TailNode().Source
}

// fingerprint identifies a state for cycle detection: the supergraph tail
// node plus the sorted set of candidate tail nodes. Two branches landing on
// the same fingerprint explore identical futures.
func (s *ValidationState) fingerprint() string {
	tails := make([]int, len(s.Candidates))
	for i, c := range s.Candidates {
		tails[i] = int(c.Tail())
	}
	sort.Ints(tails)
	parts := make([]string, len(tails))
	for i, t := range tails {
		parts[i] = fmt.Sprint(t)
	}
	return fmt.Sprintf("%d|%s", s.Supergraph.Tail(), strings.Join(parts, ","))
}
