package util

import (
	"golang.org/x/exp/slices"

	"sched-visualizer/internal/core"
)

// Legend folds every execution slice of a pid into one entry, summing the
// busy time across slices. Entries are ordered by pid.
func Legend(records []core.ExecutionRecord) []core.LegendEntry {
	index := make(map[int]int, len(records))
	legend := make([]core.LegendEntry, 0, len(records))
	for _, r := range records {
		i, ok := index[r.PID]
		if !ok {
			index[r.PID] = len(legend)
			legend = append(legend, core.LegendEntry{PID: r.PID, Arrival: r.Arrival, Burst: r.Burst})
			i = len(legend) - 1
		}
		if r.Completion > r.Start {
			legend[i].Busy += r.Completion - r.Start
		}
		legend[i].Slices++
	}
	slices.SortFunc(legend, func(a, b core.LegendEntry) int {
		return a.PID - b.PID
	})
	return legend
}

// CalculateAverage derives the averages of a run from its records, taking
// the last completion of each pid as its completion time.
func CalculateAverage(records []core.ExecutionRecord) (averageWaitingTime, averageTurnAroundTime, throughput float64) {
	completion := make(map[int]core.ExecutionRecord, len(records))
	lastCompletion := 0
	for _, r := range records {
		if prev, ok := completion[r.PID]; !ok || r.Completion > prev.Completion {
			completion[r.PID] = r
		}
		if r.Completion > lastCompletion {
			lastCompletion = r.Completion
		}
	}
	if len(completion) == 0 {
		return 0, 0, 0
	}

	var waitingTimeSum float64
	var turnAroundTimeSum float64
	for _, r := range completion {
		turnAround := float64(r.Completion - r.Arrival)
		turnAroundTimeSum += turnAround
		waitingTimeSum += turnAround - float64(r.Burst)
	}

	processCount := float64(len(completion))
	averageWaitingTime = waitingTimeSum / processCount
	averageTurnAroundTime = turnAroundTimeSum / processCount
	if lastCompletion > 0 {
		throughput = processCount / float64(lastCompletion)
	}
	return
}

// Stats prefers the collaborator's metrics and falls back to values derived
// from the records when it reported none of them.
func Stats(result core.AlgorithmResult) core.Stats {
	if result.AvgWaiting != nil || result.AvgTurnaround != nil || result.Throughput != nil {
		return core.Stats{
			AvgWaiting:    result.AvgWaiting,
			AvgTurnaround: result.AvgTurnaround,
			Throughput:    result.Throughput,
		}
	}
	if len(result.Records) == 0 {
		return core.Stats{}
	}
	waiting, turnAround, throughput := CalculateAverage(result.Records)
	return core.Stats{
		AvgWaiting:    &waiting,
		AvgTurnaround: &turnAround,
		Throughput:    &throughput,
		Derived:       true,
	}
}
