package collaborator

import (
	"strconv"
	"strings"

	"sched-visualizer/internal/core"
)

const (
	waitingPrefix        = "Average Waiting Time:"
	turnaroundPrefix     = "Average Turnaround Time:"
	throughputPrefix     = "Throughput:"
	recommendationPrefix = "RECOMMENDED ALGORITHM:"
)

// sectionAlgorithm maps a "--- <title> ---" header to its algorithm.
func sectionAlgorithm(line string) (core.Algorithm, bool) {
	if !strings.HasPrefix(line, "---") || !strings.HasSuffix(line, "---") || len(line) < 7 {
		return "", false
	}
	title := strings.TrimSpace(strings.Trim(line, "-"))
	switch {
	case strings.HasPrefix(title, "FCFS"):
		return core.FirstComeFirstServe, true
	case strings.HasPrefix(title, "SJF"):
		return core.ShortestJobFirst, true
	case strings.HasPrefix(title, "Round Robin"):
		return core.RoundRobin, true
	case strings.HasPrefix(title, "Priority"):
		return core.Priority, true
	}
	return "", false
}

type reportRow struct {
	pid, waiting, turnaround int
}

// ParseReport reads the text report of the scheduler binary. The report only
// carries waiting and turnaround times per pid, so one execution record per
// process is derived from them and the submitted inputs:
// completion = arrival + turnaround, start = completion - burst.
func ParseReport(output string, processes []core.ProcessInput) (core.ScheduleOutput, error) {
	inputs := make(map[int]core.ProcessInput, len(processes))
	for _, p := range processes {
		inputs[p.PID] = p
	}

	out := core.ScheduleOutput{
		RawOutput: output,
		Results:   make(map[core.Algorithm]core.AlgorithmResult, len(core.Algorithms)),
	}
	rows := make(map[core.Algorithm][]reportRow, len(core.Algorithms))

	var (
		current    core.Algorithm
		inSection  bool
		awaitingRc bool
	)
	lines := strings.Split(output, "\n")
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if awaitingRc {
			if line != "" {
				out.Recommendation = line
				awaitingRc = false
			}
			continue
		}
		if alg, ok := sectionAlgorithm(line); ok {
			current, inSection = alg, true
			if _, seen := out.Results[alg]; !seen {
				out.Results[alg] = core.AlgorithmResult{}
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, recommendationPrefix):
			out.Recommendation = strings.TrimSpace(strings.TrimPrefix(line, recommendationPrefix))
			awaitingRc = out.Recommendation == ""
			continue
		case !inSection:
			continue
		}

		result := out.Results[current]
		switch {
		case strings.HasPrefix(line, waitingPrefix):
			result.AvgWaiting = parseMetric(strings.TrimPrefix(line, waitingPrefix))
		case strings.HasPrefix(line, turnaroundPrefix):
			result.AvgTurnaround = parseMetric(strings.TrimPrefix(line, turnaroundPrefix))
		case strings.HasPrefix(line, throughputPrefix):
			result.Throughput = parseMetric(strings.TrimPrefix(line, throughputPrefix))
		default:
			if row, ok := parseRow(line); ok {
				rows[current] = append(rows[current], row)
			}
		}
		out.Results[current] = result
	}

	if len(out.Results) == 0 {
		return core.ScheduleOutput{}, core.NewError(core.CollaboratorError, "scheduler output has no algorithm sections")
	}

	for alg, algRows := range rows {
		records := make([]core.ExecutionRecord, 0, len(algRows))
		for _, row := range algRows {
			p, ok := inputs[row.pid]
			if !ok {
				return core.ScheduleOutput{}, core.NewError(core.CollaboratorError, "%s report names unknown pid %d", alg, row.pid)
			}
			completion := p.Arrival + row.turnaround
			records = append(records, core.ExecutionRecord{
				PID:        p.PID,
				Arrival:    p.Arrival,
				Burst:      p.Burst,
				Start:      completion - p.Burst,
				Completion: completion,
			})
		}
		result := out.Results[alg]
		result.Records = records
		out.Results[alg] = result
	}
	return out, nil
}

// parseRow reads "pid | waiting | turnaround".
func parseRow(line string) (reportRow, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != 3 {
		return reportRow{}, false
	}
	var values [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return reportRow{}, false
		}
		values[i] = v
	}
	return reportRow{pid: values[0], waiting: values[1], turnaround: values[2]}, true
}
