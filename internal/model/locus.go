package model

// Locus records one window occurrence inside a segment
type Locus struct {
	SegmentIndex int
	Position     int // 0-based window start
	CreationTime int // dense build order, segment-major then position-minor
}

// Anchor is a (segment, offset) pair chosen by k-mer voting
type Anchor struct {
	SegmentIndex int
	Offset       int
}

// Placement is the outcome of locating one read
type Placement struct {
	SegmentIndex int
	Position     int
	CreationTime int
	Distance     int // Hamming distance estimate between the read and the window
}

// Base indexes for substitution tables
const (
	BaseA = iota
	BaseC
	BaseG
	BaseT
	NumBases
)

// BaseIndex maps a nucleotide to its table index. ok is false for anything
// outside {A,C,G,T}.
func BaseIndex(b byte) (idx int, ok bool) {
	switch b {
	case 'A':
		return BaseA, true
	case 'C':
		return BaseC, true
	case 'G':
		return BaseG, true
	case 'T':
		return BaseT, true
	default:
		return 0, false
	}
}
