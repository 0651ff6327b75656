package model

// Reference is one named input sequence
type Reference struct {
	ID  string
	Seq string
}

// SegmentSet is the immutable, ordered set of reference segments shared by
// every index and graph built during a run. Segment indexes are ordinals into
// the set.
type SegmentSet struct {
	ids  []string
	seqs []string
}

// NewSegmentSet copies refs into a new segment set
func NewSegmentSet(refs []Reference) *SegmentSet {
	s := &SegmentSet{
		ids:  make([]string, len(refs)),
		seqs: make([]string, len(refs)),
	}
	for i, ref := range refs {
		s.ids[i] = ref.ID
		s.seqs[i] = ref.Seq
	}
	return s
}

// NewSegmentSetFromSeqs builds an anonymous segment set, mostly for tests
func NewSegmentSetFromSeqs(seqs ...string) *SegmentSet {
	refs := make([]Reference, len(seqs))
	for i, seq := range seqs {
		refs[i] = Reference{Seq: seq}
	}
	return NewSegmentSet(refs)
}

// Len returns the number of segments
func (s *SegmentSet) Len() int {
	return len(s.seqs)
}

// ID returns the identifier of segment i
func (s *SegmentSet) ID(i int) string {
	return s.ids[i]
}

// IDs returns a copy of all identifiers in segment order
func (s *SegmentSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Seq returns the sequence of segment i
func (s *SegmentSet) Seq(i int) string {
	return s.seqs[i]
}

// SegmentLen returns the length of segment i
func (s *SegmentSet) SegmentLen(i int) int {
	return len(s.seqs[i])
}

// Window returns the width-long substring of segment i starting at pos
func (s *SegmentSet) Window(i, pos, width int) string {
	return s.seqs[i][pos : pos+width]
}

// Fits reports whether a window of the given width starting at pos lies
// inside segment i
func (s *SegmentSet) Fits(i, pos, width int) bool {
	return pos >= 0 && pos+width <= len(s.seqs[i])
}

// ShortestLen returns the length of the shortest segment, or 0 when empty
func (s *SegmentSet) ShortestLen() int {
	if len(s.seqs) == 0 {
		return 0
	}
	shortest := len(s.seqs[0])
	for _, seq := range s.seqs[1:] {
		if len(seq) < shortest {
			shortest = len(seq)
		}
	}
	return shortest
}

// WindowCount returns the total number of width-long windows over all
// segments. Segments shorter than width contribute nothing.
func (s *SegmentSet) WindowCount(width int) int {
	total := 0
	for _, seq := range s.seqs {
		if n := len(seq) - width + 1; n > 0 {
			total += n
		}
	}
	return total
}
