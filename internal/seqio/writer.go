package seqio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

// WriteCounts writes one "identifier<TAB>count" line per counted segment in
// ascending segment order
func WriteCounts(w io.Writer, segments *model.SegmentSet, counts model.SegmentCounts) error {
	bw := bufio.NewWriter(w)
	for _, segment := range counts.SortedSegments() {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", segments.ID(segment), counts[segment]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteCountsFile writes counts to path, or to stdout when path is empty or "-"
func WriteCountsFile(path string, segments *model.SegmentSet, counts model.SegmentCounts) error {
	if path == "" || path == "-" {
		if err := WriteCounts(os.Stdout, segments, counts); err != nil {
			return errors.OutputFailed("stdout", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.OutputFailed(path, err)
	}
	if err := WriteCounts(f, segments, counts); err != nil {
		f.Close()
		return errors.OutputFailed(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.OutputFailed(path, err)
	}
	return nil
}
