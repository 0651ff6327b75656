// Package seqio moves sequences and counts between files and the model types
package seqio

import (
	"bufio"
	"bytes"
	"io"

	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

// ReadReferences parses every FASTA or FASTQ record in path. Records that
// hold no nucleotides after normalization are dropped.
func ReadReferences(path string) ([]model.Reference, error) {
	var refs []model.Reference
	err := eachRecord(path, func(id, sequence string) {
		refs = append(refs, model.Reference{ID: id, Seq: sequence})
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ReadReads parses the sequences of every record in path
func ReadReads(path string) ([]string, error) {
	var reads []string
	err := eachRecord(path, func(_, sequence string) {
		reads = append(reads, sequence)
	})
	if err != nil {
		return nil, err
	}
	return reads, nil
}

func eachRecord(path string, fn func(id, sequence string)) error {
	file, err := xopen.Ropen(path)
	if err != nil {
		return errors.InputFailed(path, err)
	}
	defer file.Close()

	reader, err := fastx.NewReaderFromIO(seq.Unlimit, newHeaderReader(file.Reader), "")
	if err != nil {
		return errors.InputFailed(path, err)
	}
	defer reader.Close()

	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.InputFailed(path, err)
		}

		sequence := Normalize(record.Seq.Seq)
		if sequence == "" {
			continue
		}
		fn(string(record.ID), sequence)
	}
}

// headerReader turns '!' header lines into FASTA headers when the first
// record of the stream uses '!'. Other streams pass through untouched, so
// FASTQ quality lines starting with '!' are never rewritten.
type headerReader struct {
	src     *bufio.Reader
	pending []byte
	err     error
	decided bool
	rewrite bool
}

func newHeaderReader(src *bufio.Reader) *headerReader {
	return &headerReader{src: src}
}

func (r *headerReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		line, err := r.src.ReadBytes('\n')
		if !r.decided && len(bytes.TrimSpace(line)) > 0 {
			r.decided = true
			r.rewrite = line[0] == '!'
		}
		if r.rewrite && len(line) > 0 && line[0] == '!' {
			line[0] = '>'
		}
		r.pending = line
		r.err = err
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Normalize upper-cases raw, keeps only A, C, G, T and U, and rewrites U as T
func Normalize(raw []byte) string {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		switch b {
		case 'A', 'C', 'G', 'T':
			out = append(out, b)
		case 'a', 'c', 'g', 't':
			out = append(out, b-'a'+'A')
		case 'U', 'u':
			out = append(out, 'T')
		}
	}
	return string(out)
}
