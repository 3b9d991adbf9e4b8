package timeline

import (
	"golang.org/x/exp/slices"

	"sched-visualizer/internal/core"
)

// Origin is the absolute time every timeline starts from.
const Origin = 0

// Build turns the execution records of one algorithm into an ordered,
// gapless sequence of segments covering [Origin, max completion]. Gaps become
// idle segments. Records that overlap the previous one, start before Origin
// or complete before they start are rejected with NonMonotonicInput.
// Records sharing a start are ordered instants first, then by pid.
func Build(records []core.ExecutionRecord) ([]core.Segment, error) {
	if len(records) == 0 {
		return []core.Segment{}, nil
	}

	sorted := make([]core.ExecutionRecord, len(records))
	copy(sorted, records)
	slices.SortStableFunc(sorted, func(a, b core.ExecutionRecord) int {
		switch {
		case a.Start != b.Start:
			return compareInt(a.Start, b.Start)
		case (a.Completion == a.Start) != (b.Completion == b.Start):
			if a.Completion == a.Start {
				return -1
			}
			return 1
		}
		return compareInt(a.PID, b.PID)
	})

	segments := make([]core.Segment, 0, 2*len(sorted))
	cursor := Origin
	for _, r := range sorted {
		if r.Completion < r.Start {
			return nil, core.NewProcessError(core.NonMonotonicInput, r.PID,
				"process %d completes at %d before it starts at %d", r.PID, r.Completion, r.Start)
		}
		if r.Start < cursor {
			return nil, core.NewProcessError(core.NonMonotonicInput, r.PID,
				"process %d starts at %d before the timeline reaches %d", r.PID, r.Start, cursor)
		}
		if r.Start > cursor {
			segments = append(segments, core.Segment{PID: core.IdlePID, Start: cursor, End: r.Start})
		}
		if r.Completion > r.Start {
			segments = append(segments, core.Segment{PID: r.PID, Start: r.Start, End: r.Completion})
		}
		cursor = r.Completion
	}
	return segments, nil
}

// Bounds returns the time range covered by a built sequence. An empty
// sequence covers only the origin.
func Bounds(segments []core.Segment) (minTime, maxTime int) {
	if len(segments) == 0 {
		return Origin, Origin
	}
	return Origin, segments[len(segments)-1].End
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
