package service

import (
	"go.uber.org/zap"

	"github.com/upenn-cis198/final-project-rna-seq-project/internal/config"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/errors"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/graph"
	"github.com/upenn-cis198/final-project-rna-seq-project/internal/model"
)

// LocatorService places single reads on the reference using the neighbor
// graph
type LocatorService struct {
	graph  *graph.Graph
	exact  bool
	logger *zap.Logger
}

// NewLocatorService creates a locator. refine is config.RefineExact or
// config.RefineApproximate; anything else means approximate.
func NewLocatorService(g *graph.Graph, refine string, logger *zap.Logger) *LocatorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocatorService{
		graph:  g,
		exact:  refine == config.RefineExact,
		logger: logger,
	}
}

// Locate anchors read by k-mer voting, then walks the anchor's neighbors for
// a closer window. ok is false when the read cannot be placed.
//
// Exact mode compares each neighbor window against the read. Approximate mode
// estimates it as the anchor's distance plus the neighbor's distance to the
// anchor minus the read differences the neighbor explains. A neighbor can
// explain at most its distance to the anchor, so the estimate never beats
// the anchor and approximate mode always reports the anchor window.
func (s *LocatorService) Locate(read string) (placement model.Placement, ok bool, err error) {
	l := s.graph.Window()
	if len(read) != l {
		return model.Placement{}, false, nil
	}

	anchor, ok := s.graph.KmerIndex().VotePosition(read)
	if !ok {
		return model.Placement{}, false, nil
	}

	locus, ok := s.graph.NodeIndex().Resolve(anchor.SegmentIndex, anchor.Offset)
	if !ok {
		return model.Placement{}, false, errors.InternalInconsistency("anchor missing from node index",
			anchor.SegmentIndex, anchor.Offset)
	}
	node, ok := s.graph.Node(locus.CreationTime)
	if !ok {
		return model.Placement{}, false, errors.InternalInconsistency("anchor has no graph node",
			anchor.SegmentIndex, anchor.Offset)
	}

	diffs := graph.Differences(s.graph.WindowOf(locus.CreationTime), read)
	initial := len(diffs)

	multiplicity := make(map[int]int)
	var order []int
	for _, diff := range diffs {
		base, ok := model.BaseIndex(diff.Base)
		if !ok {
			continue
		}
		for _, ct := range node.NearReads(base, diff.Position) {
			if multiplicity[ct] == 0 {
				order = append(order, ct)
			}
			multiplicity[ct]++
		}
	}

	best := placementOf(locus, initial)
	for _, ct := range order {
		var distance int
		if s.exact {
			distance = graph.Hamming(s.graph.WindowOf(ct), read)
		} else {
			toAnchor, _ := node.DistanceTo(ct)
			distance = initial + toAnchor - multiplicity[ct]
		}
		if distance < best.Distance {
			candidate, _ := s.graph.Node(ct)
			best = placementOf(candidate.Locus, distance)
		}
	}

	return best, true, nil
}

// LocateAll places every read in order and tallies the results. It is the
// sequential form of a MapReduce run.
func (s *LocatorService) LocateAll(reads []string) (*model.AlignmentResult, error) {
	result := &model.AlignmentResult{Counts: model.NewSegmentCounts()}
	for _, read := range reads {
		placement, ok, err := s.Locate(read)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.Unresolved++
			continue
		}
		result.Counts.Add(placement.SegmentIndex)
		result.Located++
	}
	return result, nil
}

func placementOf(locus model.Locus, distance int) model.Placement {
	return model.Placement{
		SegmentIndex: locus.SegmentIndex,
		Position:     locus.Position,
		CreationTime: locus.CreationTime,
		Distance:     distance,
	}
}
