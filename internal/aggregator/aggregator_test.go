package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sched-visualizer/internal/core"
)

func ptr(v float64) *float64 { return &v }

func output() core.ScheduleOutput {
	return core.ScheduleOutput{
		RawOutput: "raw",
		Results: map[core.Algorithm]core.AlgorithmResult{
			core.FirstComeFirstServe: {
				Records: []core.ExecutionRecord{
					{PID: 1, Arrival: 0, Burst: 4, Start: 0, Completion: 4},
					{PID: 2, Arrival: 6, Burst: 3, Start: 6, Completion: 9},
				},
				AvgWaiting:    ptr(0),
				AvgTurnaround: ptr(3.5),
				Throughput:    ptr(0.22),
			},
			core.ShortestJobFirst: {
				Records: []core.ExecutionRecord{
					{PID: 1, Arrival: 0, Burst: 4, Start: 0, Completion: 4},
					{PID: 2, Arrival: 0, Burst: 4, Start: 2, Completion: 6},
				},
			},
			core.RoundRobin: {},
		},
		Recommendation: "SJF - Many short jobs benefit from shortest job first",
	}
}

func TestBuildViewModel(t *testing.T) {
	a := NewAggregator(zaptest.NewLogger(t))
	vm := a.Build(output(), "run-1")

	assert.Equal(t, "run-1", vm.RunID)
	assert.Equal(t, "raw", vm.RawOutput)
	assert.Equal(t, "SJF - Many short jobs benefit from shortest job first", vm.Recommendation)
	require.Len(t, vm.Charts, 4)
	assert.Len(t, vm.PerAlgorithm, 3)

	fcfs := vm.Charts[core.FirstComeFirstServe]
	require.True(t, fcfs.Available)
	assert.Equal(t, 0, fcfs.MinTime)
	assert.Equal(t, 9, fcfs.MaxTime)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, fcfs.Scale)
	require.Len(t, fcfs.Segments, 3)
	assert.True(t, fcfs.Segments[1].Idle())
	assert.InDelta(t, 4.0/9.0, fcfs.Segments[1].Left, 1e-9)
	assert.InDelta(t, 2.0/9.0, fcfs.Segments[1].Width, 1e-9)
	assert.False(t, fcfs.Stats.Derived)
	assert.Equal(t, 3.5, *fcfs.Stats.AvgTurnaround)

	sum := 0.0
	for _, s := range fcfs.Segments {
		sum += s.Width
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBuildIsolatesFailures(t *testing.T) {
	a := NewAggregator(zaptest.NewLogger(t))
	vm := a.Build(output(), "run-2")

	sjf := vm.Charts[core.ShortestJobFirst]
	assert.False(t, sjf.Available)
	require.NotNil(t, sjf.Err)
	assert.Equal(t, core.NonMonotonicInput, sjf.Err.Kind)
	assert.Equal(t, 2, sjf.Err.PID)
	assert.Equal(t, NoDataMessage, sjf.Message)
	assert.Empty(t, sjf.Segments)
	assert.Len(t, sjf.Legend, 2)
	assert.True(t, sjf.Stats.Derived)

	for _, alg := range []core.Algorithm{core.RoundRobin, core.Priority} {
		chart := vm.Charts[alg]
		assert.False(t, chart.Available, alg)
		assert.Nil(t, chart.Err, alg)
		assert.Equal(t, NoDataMessage, chart.Message, alg)
	}

	assert.True(t, vm.Charts[core.FirstComeFirstServe].Available)
}

func TestChartInstantAtOrigin(t *testing.T) {
	a := NewAggregator(zaptest.NewLogger(t))
	chart := a.Chart(core.Priority, core.AlgorithmResult{
		Records: []core.ExecutionRecord{{PID: 3, Start: 0, Completion: 0}},
	})
	require.True(t, chart.Available)
	assert.Equal(t, []int{0}, chart.Scale)
	require.Len(t, chart.Segments, 1)
	assert.Equal(t, 3, chart.Segments[0].PID)
	assert.Equal(t, 1.0, chart.Segments[0].Width)
}
