package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rcrowley/go-metrics"

	"sched-visualizer/internal/core"
)

// Scheduler runs the scheduling algorithms for a batch of processes.
type Scheduler interface {
	Schedule(ctx context.Context, processes []core.ProcessInput) (core.ScheduleOutput, error)
	Health(ctx context.Context) error
	Name() string
}

// Metric decodes a statistic sent as a number, a numeric string, null or "N/A".
type Metric struct {
	Value *float64
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		m.Value = nil
		return nil
	}
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	m.Value = parseMetric(text)
	return nil
}

// parseMetric reads the leading number of s, e.g. "0.29 processes/unit time".
func parseMetric(s string) *float64 {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil
	}
	return &v
}

type wireProcess struct {
	PID      int `json:"pid"`
	Arrival  int `json:"arrival"`
	Burst    int `json:"burst"`
	Priority int `json:"priority"`
}

type wireRecord struct {
	PID        int `json:"pid"`
	Arrival    int `json:"arrival"`
	Burst      int `json:"burst"`
	Start      int `json:"start"`
	Completion int `json:"completion"`
}

type wireResult struct {
	Processes     []wireRecord `json:"processes"`
	AvgWaiting    Metric       `json:"avg_waiting"`
	AvgTurnaround Metric       `json:"avg_turnaround"`
	Throughput    Metric       `json:"throughput"`
}

type wireRequest struct {
	Processes []wireProcess `json:"processes"`
	Algorithm string        `json:"algorithm"`
}

type wireResponse struct {
	Success        *bool                      `json:"success"`
	Error          string                     `json:"error"`
	Stderr         string                     `json:"stderr"`
	RawOutput      string                     `json:"raw_output"`
	Results        map[string]wireResult      `json:"results"`
	ParsedResults  map[string]json.RawMessage `json:"parsed_results"`
	Recommendation string                     `json:"recommendation"`
}

func toWire(processes []core.ProcessInput) wireRequest {
	req := wireRequest{Processes: make([]wireProcess, 0, len(processes)), Algorithm: "all"}
	for _, p := range processes {
		req.Processes = append(req.Processes, wireProcess(p))
	}
	return req
}

// output converts a decoded response. Results may come either under
// "results" or under the older "parsed_results" envelope, where the
// recommendation is a sibling of the algorithm entries.
func (r wireResponse) output() (core.ScheduleOutput, error) {
	out := core.ScheduleOutput{
		RawOutput:      r.RawOutput,
		Results:        make(map[core.Algorithm]core.AlgorithmResult, len(core.Algorithms)),
		Recommendation: r.Recommendation,
	}
	results := r.Results
	if results == nil && r.ParsedResults != nil {
		results = make(map[string]wireResult, len(r.ParsedResults))
		for key, raw := range r.ParsedResults {
			if key == "recommendation" {
				if out.Recommendation == "" {
					_ = json.Unmarshal(raw, &out.Recommendation)
				}
				continue
			}
			var res wireResult
			if err := json.Unmarshal(raw, &res); err != nil {
				return core.ScheduleOutput{}, core.WrapError(core.CollaboratorError, err, "decoding %s results", key)
			}
			results[key] = res
		}
	}
	for _, alg := range core.Algorithms {
		res, ok := results[string(alg)]
		if !ok {
			continue
		}
		records := make([]core.ExecutionRecord, 0, len(res.Processes))
		for _, p := range res.Processes {
			records = append(records, core.ExecutionRecord(p))
		}
		out.Results[alg] = core.AlgorithmResult{
			Records:       records,
			AvgWaiting:    res.AvgWaiting.Value,
			AvgTurnaround: res.AvgTurnaround.Value,
			Throughput:    res.Throughput.Value,
		}
	}
	out.Recommendation = strings.TrimSpace(out.Recommendation)
	return out, nil
}

// observe records the latency and outcome of one collaborator call.
func observe(name string, start time.Time, err error) {
	metrics.GetOrRegisterTimer("collaborator."+name+".schedule", nil).UpdateSince(start)
	if err != nil {
		metrics.GetOrRegisterCounter("collaborator."+name+".failures", nil).Inc(1)
	}
}
