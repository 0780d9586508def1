package dialogue

import (
	"testing"

	"github.com/posterman/orderbot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestEdges_CoverEveryState(t *testing.T) {
	from := map[domain.StateID]bool{}
	for _, e := range Edges() {
		assert.True(t, e.From.Valid(), "unknown from state %q", e.From)
		assert.True(t, e.To.Valid(), "unknown to state %q", e.To)
		from[e.From] = true
	}
	for _, s := range domain.States() {
		assert.True(t, from[s], "state %s has no outgoing edge", s)
	}
}
