package validation

import (
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

const (
	// MaxWindowLength bounds k and l
	MaxWindowLength = 1 << 16

	// MaxPartitions bounds the parallel fan-out
	MaxPartitions = 4096
)

// Validator checks run parameters against the loaded sequences before any
// index is built
type Validator struct {
	maxWindowLength int
	maxPartitions   int
}

// NewValidator creates a new validator with default limits
func NewValidator() *Validator {
	return &Validator{
		maxWindowLength: MaxWindowLength,
		maxPartitions:   MaxPartitions,
	}
}

// NewValidatorWithLimits creates a validator with custom limits
func NewValidatorWithLimits(maxWindowLength, maxPartitions int) *Validator {
	return &Validator{
		maxWindowLength: maxWindowLength,
		maxPartitions:   maxPartitions,
	}
}

// ValidateRun validates everything a run needs
func (v *Validator) ValidateRun(segments *model.SegmentSet, reads []string, k, l, d, partitions int) error {
	if len(reads) == 0 {
		return errors.InvalidConfig("no reads to align")
	}

	if err := v.ValidateParameters(k, l, d); err != nil {
		return err
	}

	if err := v.ValidateSegments(segments, k, l); err != nil {
		return err
	}

	return v.ValidatePartitions(partitions, len(reads))
}

// ValidateParameters checks k, l and d independent of any input
func (v *Validator) ValidateParameters(k, l, d int) error {
	if k <= 0 {
		return errors.InvalidConfig("k must be positive").WithDetail("k", k)
	}
	if k > v.maxWindowLength || l > v.maxWindowLength {
		return errors.InvalidConfig("window length exceeds limit").
			WithDetail("k", k).
			WithDetail("l", l).
			WithDetail("limit", v.maxWindowLength)
	}
	if l < k {
		return errors.InvalidConfig("l must be at least k").
			WithDetail("k", k).
			WithDetail("l", l)
	}
	if d < 0 {
		return errors.InvalidConfig("d must not be negative").WithDetail("d", d)
	}
	return nil
}

// ValidateSegments checks that there is something to index and that both
// windows fit inside the shortest segment
func (v *Validator) ValidateSegments(segments *model.SegmentSet, k, l int) error {
	if segments == nil || segments.Len() == 0 {
		return errors.InvalidConfig("no reference segments")
	}

	for i := 0; i < segments.Len(); i++ {
		if err := v.ValidateSequence(segments.ID(i), segments.Seq(i)); err != nil {
			return err
		}
	}

	shortest := segments.ShortestLen()
	if k > shortest {
		return errors.WindowTooLong("k", k, shortest)
	}
	if l > shortest {
		return errors.WindowTooLong("l", l, shortest)
	}
	return nil
}

// ValidateSequence checks that seq only holds A, C, G and T
func (v *Validator) ValidateSequence(id, seq string) error {
	for i := 0; i < len(seq); i++ {
		if _, ok := model.BaseIndex(seq[i]); !ok {
			return errors.InvalidSequence(id, i, seq[i])
		}
	}
	return nil
}

// ValidatePartitions checks 1 <= partitions <= min(reads, limit)
func (v *Validator) ValidatePartitions(partitions, reads int) error {
	if partitions <= 0 || partitions > reads {
		return errors.InvalidPartitions(partitions, reads)
	}
	if partitions > v.maxPartitions {
		return errors.InvalidConfig("partition count exceeds limit").
			WithDetail("partitions", partitions).
			WithDetail("limit", v.maxPartitions)
	}
	return nil
}
