package validator

import (
	"strconv"
	"strings"

	"sched-visualizer/internal/core"
)

const (
	MinProcesses = 1
	MaxProcesses = 10
)

// RawProcess carries the unparsed fields of one process. An empty PID means
// the pid is assigned from the 1-based position.
type RawProcess struct {
	PID      string
	Arrival  string
	Burst    string
	Priority string
}

// Validate turns count raw records into process inputs, preserving order.
func Validate(count int, raw []RawProcess) ([]core.ProcessInput, error) {
	if count < MinProcesses || count > MaxProcesses {
		return nil, core.NewError(core.InvalidCount, "number of processes must be between %d and %d, got %d",
			MinProcesses, MaxProcesses, count)
	}
	if len(raw) != count {
		return nil, core.NewError(core.InvalidCount, "expected %d processes, got %d", count, len(raw))
	}

	processes := make([]core.ProcessInput, 0, count)
	seen := make(map[int]int, count)
	for i, r := range raw {
		position := i + 1

		pid := position
		if r.PID != "" {
			v, err := parseInt(r.PID)
			if err != nil || v < 1 {
				return nil, fieldError(position, "pid", r.PID)
			}
			pid = v
		}
		if other, ok := seen[pid]; ok {
			return nil, core.NewProcessError(core.InvalidField, pid,
				"process %d reuses pid %d of process %d", position, pid, other)
		}
		seen[pid] = position

		arrival, err := parseInt(r.Arrival)
		if err != nil || arrival < 0 {
			return nil, fieldError(position, "arrival", r.Arrival)
		}
		burst, err := parseInt(r.Burst)
		if err != nil {
			return nil, fieldError(position, "burst", r.Burst)
		}
		priority, err := parseInt(r.Priority)
		if err != nil || priority < 1 {
			return nil, fieldError(position, "priority", r.Priority)
		}
		if burst < 1 {
			return nil, core.NewProcessError(core.InvalidBurst, pid,
				"burst time for process %d must be at least 1", position)
		}

		processes = append(processes, core.ProcessInput{
			PID:      pid,
			Arrival:  arrival,
			Burst:    burst,
			Priority: priority,
		})
	}
	return processes, nil
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func fieldError(position int, field, value string) *core.Error {
	return core.NewProcessError(core.InvalidField, position, "invalid %s %q for process %d", field, value, position)
}
