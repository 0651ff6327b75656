// Package index implements the exact-match window index used to anchor reads.
//
// A SequenceIndex hashes every fixed-length window of every segment into a
// prime-sized table of buckets. Only a bounded prefix of each window feeds
// the hash, so every lookup verifies candidates against the segment text
// before reporting them.
package index

import (
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

// SequenceIndex is an immutable hash index over the width-long windows of a
// segment set
type SequenceIndex struct {
	segments  *model.SegmentSet
	buckets   [][]model.Locus
	size      int
	window    int
	prefixLen int
	windows   int
}

// Stats summarizes bucket occupancy
type Stats struct {
	Window          int
	PrefixLen       int
	Size            int
	Windows         int
	OccupiedBuckets int
	LongestBucket   int
	LoadFactor      float64
}

// Build indexes every k-long window of segments. Loci receive creation times
// in segment-major, position-minor order.
func Build(segments *model.SegmentSet, k int) (*SequenceIndex, error) {
	if segments == nil || segments.Len() == 0 {
		return nil, errors.InvalidConfig("no segments to index")
	}
	if k <= 0 {
		return nil, errors.InvalidConfig("window length must be positive").WithDetail("window", k)
	}
	if shortest := segments.ShortestLen(); k > shortest {
		return nil, errors.WindowTooLong("window", k, shortest)
	}

	size := TableSize(segments, k)
	idx := &SequenceIndex{
		segments:  segments,
		buckets:   make([][]model.Locus, size),
		size:      size,
		window:    k,
		prefixLen: PrefixLen(k),
	}

	creationTime := 0
	for s := 0; s < segments.Len(); s++ {
		last := segments.SegmentLen(s) - k
		for pos := 0; pos <= last; pos++ {
			h := Hash(segments.Window(s, pos, k), idx.prefixLen, size)
			idx.buckets[h] = append(idx.buckets[h], model.Locus{
				SegmentIndex: s,
				Position:     pos,
				CreationTime: creationTime,
			})
			creationTime++
		}
	}
	idx.windows = creationTime

	return idx, nil
}

// Window returns the indexed window length
func (idx *SequenceIndex) Window() int {
	return idx.window
}

// Size returns the bucket count
func (idx *SequenceIndex) Size() int {
	return idx.size
}

// PrefixLen returns the number of leading characters fed to the hash
func (idx *SequenceIndex) PrefixLen() int {
	return idx.prefixLen
}

// Len returns the number of indexed windows, which is also one past the
// largest creation time
func (idx *SequenceIndex) Len() int {
	return idx.windows
}

// Segments returns the shared segment set
func (idx *SequenceIndex) Segments() *model.SegmentSet {
	return idx.segments
}

// Bucket returns the loci stored under hash value h. The slice must not be
// modified.
func (idx *SequenceIndex) Bucket(h int) []model.Locus {
	return idx.buckets[h]
}

// Lookup returns the bucket query hashes to together with the positions in
// that bucket whose window equals query exactly. ok is false when query has
// the wrong length or nothing verifies.
func (idx *SequenceIndex) Lookup(query string) (bucket []model.Locus, matches []int, ok bool) {
	if len(query) != idx.window {
		return nil, nil, false
	}

	bucket = idx.buckets[Hash(query, idx.prefixLen, idx.size)]
	if len(bucket) == 0 {
		return nil, nil, false
	}

	for i, locus := range bucket {
		if idx.segments.Window(locus.SegmentIndex, locus.Position, idx.window) == query {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return nil, nil, false
	}
	return bucket, matches, true
}

// Matches returns the verified loci for query in creation-time order
func (idx *SequenceIndex) Matches(query string) []model.Locus {
	bucket, matches, ok := idx.Lookup(query)
	if !ok {
		return nil
	}
	loci := make([]model.Locus, len(matches))
	for i, m := range matches {
		loci[i] = bucket[m]
	}
	return loci
}

// Resolve returns the locus at exactly (segment, position). Equal windows can
// occur at several places, so matching by string alone is not enough.
func (idx *SequenceIndex) Resolve(segment, position int) (model.Locus, bool) {
	if segment < 0 || segment >= idx.segments.Len() || !idx.segments.Fits(segment, position, idx.window) {
		return model.Locus{}, false
	}

	window := idx.segments.Window(segment, position, idx.window)
	for _, locus := range idx.buckets[Hash(window, idx.prefixLen, idx.size)] {
		if locus.SegmentIndex == segment && locus.Position == position {
			return locus, true
		}
	}
	return model.Locus{}, false
}

// Stats reports bucket occupancy
func (idx *SequenceIndex) Stats() Stats {
	stats := Stats{
		Window:    idx.window,
		PrefixLen: idx.prefixLen,
		Size:      idx.size,
		Windows:   idx.windows,
	}
	for _, bucket := range idx.buckets {
		if len(bucket) == 0 {
			continue
		}
		stats.OccupiedBuckets++
		if len(bucket) > stats.LongestBucket {
			stats.LongestBucket = len(bucket)
		}
	}
	if idx.size > 0 {
		stats.LoadFactor = float64(idx.windows) / float64(idx.size)
	}
	return stats
}
