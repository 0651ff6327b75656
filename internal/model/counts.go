package model

import "sort"

// SegmentCounts maps a segment index to the number of reads placed on it
type SegmentCounts map[int]int

// NewSegmentCounts creates an empty count map
func NewSegmentCounts() SegmentCounts {
	return make(SegmentCounts)
}

// Add increments the count for segment
func (c SegmentCounts) Add(segment int) {
	c[segment]++
}

// Merge adds every count from other into c
func (c SegmentCounts) Merge(other SegmentCounts) {
	for segment, n := range other {
		c[segment] += n
	}
}

// Total returns the sum of all counts
func (c SegmentCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// SortedSegments returns the segment indexes present in c, ascending
func (c SegmentCounts) SortedSegments() []int {
	segments := make([]int, 0, len(c))
	for segment := range c {
		segments = append(segments, segment)
	}
	sort.Ints(segments)
	return segments
}

// AlignmentResult is the merged outcome of a MapReduce run
type AlignmentResult struct {
	Counts     SegmentCounts
	Located    int
	Unresolved int
}
