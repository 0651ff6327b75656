package service_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/graph"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/service"
)

func randomSequence(rng *rand.Rand, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte("ACGT"[rng.Intn(4)])
	}
	return sb.String()
}

// sampleReads cuts l-long reads out of seqs and applies up to maxSubs
// substitutions to each. Every tenth read is random noise.
func sampleReads(rng *rand.Rand, seqs []string, l, count, maxSubs int) []string {
	reads := make([]string, count)
	for i := range reads {
		if i%10 == 9 {
			reads[i] = randomSequence(rng, l)
			continue
		}
		seq := seqs[rng.Intn(len(seqs))]
		start := rng.Intn(len(seq) - l + 1)
		read := []byte(seq[start : start+l])
		for s := rng.Intn(maxSubs + 1); s > 0; s-- {
			read[rng.Intn(l)] = "ACGT"[rng.Intn(4)]
		}
		reads[i] = string(read)
	}
	return reads
}

type fixture struct {
	segments *model.SegmentSet
	graph    *graph.Graph
	reads    []string
}

func newFixture(t *testing.T, seed int64) fixture {
	t.Helper()
	const k, l, d = 4, 20, 3

	rng := rand.New(rand.NewSource(seed))
	base := randomSequence(rng, 200)
	variant := []byte(base[40:160])
	for _, p := range []int{7, 33, 71} {
		variant[p] = "ACGT"[(strings.IndexByte("ACGT", variant[p])+1)%4]
	}
	seqs := []string{base, string(variant), randomSequence(rng, 150)}

	segments := model.NewSegmentSetFromSeqs(seqs...)
	g, err := service.NewIndexService(nil, nil).Build(segments, k, l, d)
	require.NoError(t, err)

	return fixture{
		segments: segments,
		graph:    g,
		reads:    sampleReads(rng, seqs, l, 120, 2),
	}
}
