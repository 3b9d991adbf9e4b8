package timeline

import "sched-visualizer/internal/core"

// Place maps a segment onto [0,1] relative to the timeline bounds.
func Place(seg core.Segment, minTime, maxTime int) (core.Placement, error) {
	span := maxTime - minTime
	if span <= 0 {
		return core.Placement{}, core.NewError(core.DegenerateRange, "timeline range [%d, %d] has no duration", minTime, maxTime)
	}
	r := float64(span)
	return core.Placement{
		Left:  float64(seg.Start-minTime) / r,
		Width: float64(seg.End-seg.Start) / r,
	}, nil
}

// Layout places every segment of a timeline.
func Layout(segments []core.Segment, minTime, maxTime int) ([]core.PlacedSegment, error) {
	placed := make([]core.PlacedSegment, 0, len(segments))
	for _, seg := range segments {
		p, err := Place(seg, minTime, maxTime)
		if err != nil {
			return nil, err
		}
		placed = append(placed, core.PlacedSegment{Segment: seg, Placement: p})
	}
	return placed, nil
}
