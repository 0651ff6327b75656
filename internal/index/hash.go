package index

import (
	"math"
	"math/big"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

const (
	// loadNumerator/loadDenominator size the table to 1.3x the window count
	loadNumerator   = 13
	loadDenominator = 10
)

// maxHashDigits is the number of base-4 digits that always fit in a uint64
var maxHashDigits = integerLogBase4(math.MaxUint64)

// integerLogBase4 returns floor(log4(value)) for value > 0
func integerLogBase4(value uint64) int {
	digits := 0
	for value > 0 {
		value /= 4
		digits++
	}
	return digits - 1
}

// PrefixLen returns how many leading characters of a k-long window are hashed
func PrefixLen(k int) int {
	if k < maxHashDigits {
		return k
	}
	return maxHashDigits
}

// baseDigit maps a nucleotide to its base-4 digit. Anything outside
// {A,C,G,T} hashes like A; verification still compares the full window.
func baseDigit(b byte) uint64 {
	idx, ok := model.BaseIndex(b)
	if !ok {
		return 0
	}
	return uint64(idx)
}

// Hash reads the first j characters of window as little-endian base-4 digits
// and reduces the value modulo size
func Hash(window string, j, size int) int {
	var value, place uint64 = 0, 1
	for i := 0; i < j; i++ {
		value += baseDigit(window[i]) * place
		place *= 4
	}
	return int(value % uint64(size))
}

// TableSize returns the smallest prime not below ceil(1.3 * windows), where
// windows is the number of k-long windows over all segments
func TableSize(segments *model.SegmentSet, k int) int {
	windows := segments.WindowCount(k)
	target := (windows*loadNumerator + loadDenominator - 1) / loadDenominator
	return nextPrime(target)
}

// nextPrime returns the smallest prime >= n
func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	candidate := big.NewInt(int64(n))
	one := big.NewInt(1)
	for !candidate.ProbablyPrime(0) {
		candidate.Add(candidate, one)
	}
	return int(candidate.Int64())
}
