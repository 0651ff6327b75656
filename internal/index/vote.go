package index

import "github.com/upenn-cis198/final-project-rna-seq-project/internal/model"

// VotePosition slides a window across probe and lets every verified window
// hit vote for the probe start it implies. Starts that would push the probe
// past either end of its segment are dropped. The anchor with the most votes
// wins; on a tie the anchor that received its first vote earliest wins.
func (idx *SequenceIndex) VotePosition(probe string) (model.Anchor, bool) {
	votes := make(map[model.Anchor]int)
	var order []model.Anchor

	for offset := 0; offset+idx.window <= len(probe); offset++ {
		bucket, matches, ok := idx.Lookup(probe[offset : offset+idx.window])
		if !ok {
			continue
		}
		for _, m := range matches {
			locus := bucket[m]
			start := locus.Position - offset
			if !idx.segments.Fits(locus.SegmentIndex, start, len(probe)) {
				continue
			}
			anchor := model.Anchor{SegmentIndex: locus.SegmentIndex, Offset: start}
			if votes[anchor] == 0 {
				order = append(order, anchor)
			}
			votes[anchor]++
		}
	}

	var best model.Anchor
	bestVotes := 0
	for _, anchor := range order {
		if votes[anchor] > bestVotes {
			bestVotes = votes[anchor]
			best = anchor
		}
	}
	return best, bestVotes > 0
}
