package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/config"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/graph"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/index"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/service"
)

func buildGraph(t *testing.T, k, l, d int, seqs ...string) *graph.Graph {
	t.Helper()
	kmers, err := index.Build(model.NewSegmentSetFromSeqs(seqs...), k)
	require.NoError(t, err)
	g, err := graph.Build(kmers, l, d)
	require.NoError(t, err)
	return g
}

func TestLocate_VerbatimRead(t *testing.T) {
	g := buildGraph(t, 3, 7, 1, "ATGTGACGCCGATG", "GTGCGATGATAGAG")

	for _, mode := range []string{config.RefineApproximate, config.RefineExact} {
		t.Run(mode, func(t *testing.T) {
			locator := service.NewLocatorService(g, mode, zaptest.NewLogger(t))

			placement, ok, err := locator.Locate("ACGCCGA")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 0, placement.SegmentIndex)
			assert.Equal(t, 5, placement.Position)
			assert.Equal(t, 0, placement.Distance)
		})
	}
}

func TestLocate_RefinementModes(t *testing.T) {
	// The read ties on votes between both segments and the first segment
	// wins the anchor, but the second segment is one substitution closer.
	g := buildGraph(t, 2, 6, 3, "ACGTGG", "ACTTAC")
	const read = "ACGTAC"

	approximate := service.NewLocatorService(g, config.RefineApproximate, nil)
	placement, ok, err := approximate.Locate(read)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.Placement{SegmentIndex: 0, Position: 0, CreationTime: 0, Distance: 2}, placement)

	exact := service.NewLocatorService(g, config.RefineExact, nil)
	placement, ok, err = exact.Locate(read)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.Placement{SegmentIndex: 1, Position: 0, CreationTime: 1, Distance: 1}, placement)
}

func TestLocate_Misses(t *testing.T) {
	g := buildGraph(t, 2, 6, 3, "ACGTGG", "ACTTAC")
	locator := service.NewLocatorService(g, config.RefineExact, nil)

	tests := []struct {
		name string
		read string
	}{
		{"shorter than l", "ACGTG"},
		{"longer than l", "ACGTGGA"},
		{"no shared k-mer", "CCCCCC"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := locator.Locate(tt.read)
			assert.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestLocate_Properties(t *testing.T) {
	f := newFixture(t, 3)
	exact := service.NewLocatorService(f.graph, config.RefineExact, nil)
	approximate := service.NewLocatorService(f.graph, config.RefineApproximate, nil)

	located := 0
	for _, read := range f.reads {
		pe, okExact, err := exact.Locate(read)
		require.NoError(t, err)
		pa, okApprox, err := approximate.Locate(read)
		require.NoError(t, err)

		require.Equal(t, okExact, okApprox, "read %q", read)
		if !okExact {
			continue
		}
		located++

		// idempotent
		again, _, err := exact.Locate(read)
		require.NoError(t, err)
		assert.Equal(t, pe, again)

		windowExact := f.segments.Window(pe.SegmentIndex, pe.Position, f.graph.Window())
		assert.Equal(t, graph.Hamming(windowExact, read), pe.Distance)

		// approximate mode reports the anchor with its true distance
		anchor, ok := f.graph.KmerIndex().VotePosition(read)
		require.True(t, ok)
		assert.Equal(t, anchor.SegmentIndex, pa.SegmentIndex)
		assert.Equal(t, anchor.Offset, pa.Position)
		windowApprox := f.segments.Window(pa.SegmentIndex, pa.Position, f.graph.Window())
		assert.Equal(t, graph.Hamming(windowApprox, read), pa.Distance)

		assert.LessOrEqual(t, pe.Distance, pa.Distance)
	}
	assert.Greater(t, located, len(f.reads)/2)
}

func TestLocateAll(t *testing.T) {
	g := buildGraph(t, 3, 7, 1, "ATGTGACGCCGATG", "GTGCGATGATAGAG")
	locator := service.NewLocatorService(g, config.RefineExact, nil)

	result, err := locator.LocateAll([]string{"ACGCCGA", "CGATGAT", "ATGTGAC", "CCCCCCC", "ACG"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Located)
	assert.Equal(t, 2, result.Unresolved)
	assert.Equal(t, model.SegmentCounts{0: 2, 1: 1}, result.Counts)
}
