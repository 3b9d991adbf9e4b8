package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sched-visualizer/internal/core"
)

func TestLegendSumsSlices(t *testing.T) {
	records := []core.ExecutionRecord{
		{PID: 2, Arrival: 1, Burst: 6, Start: 4, Completion: 8},
		{PID: 1, Arrival: 0, Burst: 5, Start: 0, Completion: 4},
		{PID: 1, Arrival: 0, Burst: 5, Start: 8, Completion: 9},
		{PID: 2, Arrival: 1, Burst: 6, Start: 9, Completion: 11},
	}
	assert.Equal(t, []core.LegendEntry{
		{PID: 1, Arrival: 0, Burst: 5, Busy: 5, Slices: 2},
		{PID: 2, Arrival: 1, Burst: 6, Busy: 6, Slices: 2},
	}, Legend(records))
}

func TestCalculateAverage(t *testing.T) {
	// FCFS on (0,4) and (2,3): completions 4 and 7.
	records := []core.ExecutionRecord{
		{PID: 1, Arrival: 0, Burst: 4, Start: 0, Completion: 4},
		{PID: 2, Arrival: 2, Burst: 3, Start: 4, Completion: 7},
	}
	waiting, turnAround, throughput := CalculateAverage(records)
	assert.InDelta(t, 1.0, waiting, 1e-9)
	assert.InDelta(t, 4.5, turnAround, 1e-9)
	assert.InDelta(t, 2.0/7.0, throughput, 1e-9)
}

func TestStatsPrefersReportedMetrics(t *testing.T) {
	w := 3.25
	stats := Stats(core.AlgorithmResult{AvgWaiting: &w})
	require.NotNil(t, stats.AvgWaiting)
	assert.Equal(t, 3.25, *stats.AvgWaiting)
	assert.Nil(t, stats.Throughput)
	assert.False(t, stats.Derived)
}

func TestStatsDerived(t *testing.T) {
	stats := Stats(core.AlgorithmResult{Records: []core.ExecutionRecord{{PID: 1, Arrival: 0, Burst: 5, Start: 0, Completion: 5}}})
	assert.True(t, stats.Derived)
	require.NotNil(t, stats.AvgTurnaround)
	assert.Equal(t, 5.0, *stats.AvgTurnaround)
	assert.Equal(t, 0.0, *stats.AvgWaiting)
	assert.InDelta(t, 0.2, *stats.Throughput, 1e-9)

	assert.Equal(t, core.Stats{}, Stats(core.AlgorithmResult{}))
}
