package index_test

import (
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/index"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

func randomSequence(rng *rand.Rand, n int) string {
	const alphabet = "ACGT"
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return sb.String()
}

func positions(loci []model.Locus) []int {
	out := make([]int, len(loci))
	for i, l := range loci {
		out[i] = l.Position
	}
	return out
}

func TestHash(t *testing.T) {
	tests := []struct {
		name   string
		window string
		size   int
		want   int
	}{
		{"ATG mod 3", "ATG", 3, 2},
		{"TGAC mod 5", "TGAC", 5, 0},
		{"AAGTCT mod 7", "AAGTCT", 7, 3},
		{"single A", "A", 7, 0},
		{"single T", "T", 7, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, index.Hash(tt.window, len(tt.window), tt.size))
		})
	}
}

func TestHash_NonNucleotideHashesLikeA(t *testing.T) {
	assert.Equal(t, index.Hash("ANG", 3, 11), index.Hash("AAG", 3, 11))
}

func TestPrefixLen(t *testing.T) {
	assert.Equal(t, 3, index.PrefixLen(3))
	assert.Equal(t, 31, index.PrefixLen(31))
	assert.Equal(t, 31, index.PrefixLen(100))
}

func TestTableSize(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		k        int
		want     int
	}{
		{"five windows of length one", []string{"ATGTG"}, 1, 7},
		{"three windows of length three", []string{"ATGTG"}, 3, 5},
		{"two segments", []string{"ATGTG", "GTGC"}, 3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := model.NewSegmentSetFromSeqs(tt.segments...)
			assert.Equal(t, tt.want, index.TableSize(segments, tt.k))
		})
	}
}

func TestTableSize_PrimeAndLoadBound(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		var seqs []string
		for i := 0; i < 1+rng.Intn(4); i++ {
			seqs = append(seqs, randomSequence(rng, 20+rng.Intn(200)))
		}
		segments := model.NewSegmentSetFromSeqs(seqs...)
		k := 1 + rng.Intn(20)

		size := index.TableSize(segments, k)
		windows := segments.WindowCount(k)

		assert.True(t, big.NewInt(int64(size)).ProbablyPrime(20), "size %d is not prime", size)
		assert.GreaterOrEqual(t, float64(size), 1.3*float64(windows))
	}
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name     string
		segments *model.SegmentSet
		k        int
	}{
		{"nil segments", nil, 3},
		{"empty segments", model.NewSegmentSetFromSeqs(), 3},
		{"zero window", model.NewSegmentSetFromSeqs("ACGT"), 0},
		{"window longer than shortest segment", model.NewSegmentSetFromSeqs("ACGTACGT", "ACG"), 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := index.Build(tt.segments, tt.k)
			require.Error(t, err)
			assert.Nil(t, idx)
			assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
		})
	}
}

func TestBuild_SingleBaseBuckets(t *testing.T) {
	idx, err := index.Build(model.NewSegmentSetFromSeqs("ATGTG"), 1)
	require.NoError(t, err)

	assert.Equal(t, 7, idx.Size())
	assert.Equal(t, 5, idx.Len())
	assert.Equal(t, []int{0}, positions(idx.Bucket(0)))
	assert.Empty(t, idx.Bucket(1))
	assert.Equal(t, []int{2, 4}, positions(idx.Bucket(2)))
	assert.Equal(t, []int{1, 3}, positions(idx.Bucket(3)))

	assert.Equal(t, []int{0}, positions(idx.Matches("A")))
	assert.Equal(t, []int{2, 4}, positions(idx.Matches("G")))
	assert.Nil(t, idx.Matches("C"))
}

func TestBuild_CreationTimesAreDense(t *testing.T) {
	segments := model.NewSegmentSetFromSeqs("ATGTG", "GTGC")
	idx, err := index.Build(segments, 3)
	require.NoError(t, err)
	require.Equal(t, 5, idx.Len())

	seen := make([]bool, idx.Len())
	for h := 0; h < idx.Size(); h++ {
		for _, locus := range idx.Bucket(h) {
			require.False(t, seen[locus.CreationTime])
			seen[locus.CreationTime] = true
		}
	}
	for ct, ok := range seen {
		assert.True(t, ok, "creation time %d missing", ct)
	}

	// segment-major, position-minor
	want := []model.Anchor{
		{SegmentIndex: 0, Offset: 0},
		{SegmentIndex: 0, Offset: 1},
		{SegmentIndex: 0, Offset: 2},
		{SegmentIndex: 1, Offset: 0},
		{SegmentIndex: 1, Offset: 1},
	}
	for ct, a := range want {
		locus, ok := idx.Resolve(a.SegmentIndex, a.Offset)
		require.True(t, ok)
		assert.Equal(t, ct, locus.CreationTime)
	}
}

func TestLookup_VerifiesCollisions(t *testing.T) {
	// ATG and TGT share a bucket at size 5
	idx, err := index.Build(model.NewSegmentSetFromSeqs("ATGTG"), 3)
	require.NoError(t, err)
	require.Equal(t, 5, idx.Size())

	bucket, matches, ok := idx.Lookup("TGT")
	require.True(t, ok)
	assert.Len(t, bucket, 2)
	assert.Equal(t, []int{1}, matches)

	assert.Equal(t, []int{2}, positions(idx.Matches("GTG")))

	// TAT lands on GTG's bucket but never verifies
	_, _, ok = idx.Lookup("TAT")
	assert.False(t, ok)

	_, _, ok = idx.Lookup("TG")
	assert.False(t, ok)
}

func TestLookup_CollisionBeyondHashedPrefix(t *testing.T) {
	prefix := strings.Repeat("ACGT", 8)[:31]
	first := prefix + "AAAAAAAAA"
	second := prefix + "CCCCCCCCC"
	idx, err := index.Build(model.NewSegmentSetFromSeqs(first, second), 40)
	require.NoError(t, err)

	assert.Equal(t, index.Hash(first, 31, idx.Size()), index.Hash(second, 31, idx.Size()))

	hits := idx.Matches(first)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].SegmentIndex)

	hits = idx.Matches(second)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].SegmentIndex)
}

func TestMatches_AgreesWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seqs := []string{randomSequence(rng, 300), randomSequence(rng, 150), randomSequence(rng, 90)}
	segments := model.NewSegmentSetFromSeqs(seqs...)

	for _, k := range []int{1, 3, 6, 35} {
		idx, err := index.Build(segments, k)
		require.NoError(t, err)

		for s, seq := range seqs {
			for pos := 0; pos+k <= len(seq); pos++ {
				window := seq[pos : pos+k]

				want := 0
				for _, other := range seqs {
					for i := 0; i+k <= len(other); i++ {
						if other[i:i+k] == window {
							want++
						}
					}
				}

				hits := idx.Matches(window)
				require.Len(t, hits, want, "k=%d window %q", k, window)
				assert.Contains(t, hits, mustResolve(t, idx, s, pos))
			}
		}
	}
}

func mustResolve(t *testing.T, idx *index.SequenceIndex, segment, position int) model.Locus {
	t.Helper()
	locus, ok := idx.Resolve(segment, position)
	require.True(t, ok)
	return locus
}

func TestResolve_OutOfRange(t *testing.T) {
	idx, err := index.Build(model.NewSegmentSetFromSeqs("ACGTAC"), 3)
	require.NoError(t, err)

	_, ok := idx.Resolve(0, 4)
	assert.False(t, ok)
	_, ok = idx.Resolve(1, 0)
	assert.False(t, ok)
	_, ok = idx.Resolve(0, -1)
	assert.False(t, ok)
}

func TestStats(t *testing.T) {
	idx, err := index.Build(model.NewSegmentSetFromSeqs("ATGTG"), 1)
	require.NoError(t, err)

	stats := idx.Stats()
	assert.Equal(t, 1, stats.Window)
	assert.Equal(t, 7, stats.Size)
	assert.Equal(t, 5, stats.Windows)
	assert.Equal(t, 3, stats.OccupiedBuckets)
	assert.Equal(t, 2, stats.LongestBucket)
	assert.InDelta(t, 5.0/7.0, stats.LoadFactor, 1e-9)
}
