package aggregator

import (
	"time"

	"go.uber.org/zap"

	"sched-visualizer/internal/core"
	"sched-visualizer/internal/timeline"
	"sched-visualizer/internal/util"
)

const NoDataMessage = "No data available"

type Aggregator struct {
	log *zap.Logger
	now func() time.Time
}

func NewAggregator(log *zap.Logger) *Aggregator {
	return &Aggregator{log: log, now: time.Now}
}

// Build merges the collaborator output into a view model. Each algorithm is
// charted on its own, so a malformed timeline only marks its own chart as
// unavailable.
func (a *Aggregator) Build(out core.ScheduleOutput, runID string) core.ResultsViewModel {
	vm := core.ResultsViewModel{
		RunID:          runID,
		CreatedAt:      a.now(),
		RawOutput:      out.RawOutput,
		PerAlgorithm:   make(map[core.Algorithm]core.AlgorithmResult, len(core.Algorithms)),
		Charts:         make(map[core.Algorithm]core.Chart, len(core.Algorithms)),
		Recommendation: out.Recommendation,
	}
	for _, alg := range core.Algorithms {
		result, ok := out.Results[alg]
		if ok {
			vm.PerAlgorithm[alg] = result
		}
		chart := a.Chart(alg, result)
		vm.Charts[alg] = chart

		if chart.Err != nil {
			a.log.Warn("chart unavailable",
				zap.String("run_id", runID),
				zap.String("algorithm", string(alg)),
				zap.String("kind", string(chart.Err.Kind)),
				zap.Error(chart.Err))
			continue
		}
		a.log.Debug("chart built",
			zap.String("run_id", runID),
			zap.String("algorithm", string(alg)),
			zap.Bool("available", chart.Available),
			zap.Int("segments", len(chart.Segments)),
			zap.Int("max_time", chart.MaxTime))
	}
	return vm
}

// Chart computes the render model for one algorithm.
func (a *Aggregator) Chart(alg core.Algorithm, result core.AlgorithmResult) core.Chart {
	chart := core.Chart{
		Algorithm: alg,
		Segments:  []core.PlacedSegment{},
		Scale:     []int{},
		Legend:    util.Legend(result.Records),
		Stats:     util.Stats(result),
	}
	if len(result.Records) == 0 {
		chart.Message = NoDataMessage
		return chart
	}

	segments, err := timeline.Build(result.Records)
	if err != nil {
		return unavailable(chart, err)
	}
	chart.MinTime, chart.MaxTime = timeline.Bounds(segments)

	scale, err := timeline.Scale(chart.MinTime, chart.MaxTime)
	if err != nil {
		return unavailable(chart, err)
	}
	chart.Scale = scale

	if chart.MaxTime == chart.MinTime {
		// Every record is an instant at the origin. Place rejects a zero
		// length range, so the chart is a single full-width block.
		chart.Segments = fullWidth(result.Records[0].PID, chart.MinTime, chart.MaxTime)
		chart.Available = true
		return chart
	}

	placed, err := timeline.Layout(segments, chart.MinTime, chart.MaxTime)
	if err != nil {
		return unavailable(chart, err)
	}
	chart.Segments = placed
	chart.Available = true
	return chart
}

func fullWidth(pid, minTime, maxTime int) []core.PlacedSegment {
	return []core.PlacedSegment{{
		Segment:   core.Segment{PID: pid, Start: minTime, End: maxTime},
		Placement: core.Placement{Left: 0, Width: 1},
	}}
}

func unavailable(chart core.Chart, err error) core.Chart {
	chart.Available = false
	chart.Err = core.AsError(err, core.NonMonotonicInput)
	chart.Message = NoDataMessage
	chart.Segments = []core.PlacedSegment{}
	chart.Scale = []int{}
	return chart
}
