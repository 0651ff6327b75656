package util

import (
	"fmt"
	"hash/crc32"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

var (
	// crc32Table is precomputed for better performance
	crc32Table = crc32.MakeTable(crc32.IEEE)
)

// Fingerprint identifies a reference set by a CRC32 over every segment
// identifier and sequence, in order. Runs against the same references get
// the same fingerprint.
func Fingerprint(segments *model.SegmentSet) string {
	h := crc32.New(crc32Table)
	for i := 0; i < segments.Len(); i++ {
		h.Write([]byte(segments.ID(i)))
		h.Write([]byte{0})
		h.Write([]byte(segments.Seq(i)))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%08x", h.Sum32())
}
