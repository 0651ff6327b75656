package graph

// Diff is one position where two equal-length windows disagree. Base is the
// character found in the second window.
type Diff struct {
	Position int
	Base     byte
}

// Hamming counts mismatching positions over the shorter of a and b
func Hamming(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	distance := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			distance++
		}
	}
	return distance
}

// HammingCapped counts mismatches but stops as soon as the count exceeds
// limit, so any result above limit only means "too far"
func HammingCapped(a, b string, limit int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	distance := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			distance++
			if distance > limit {
				break
			}
		}
	}
	return distance
}

// Differences lists the positions where b differs from a, with b's base
func Differences(a, b string) []Diff {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var diffs []Diff
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			diffs = append(diffs, Diff{Position: i, Base: b[i]})
		}
	}
	return diffs
}
