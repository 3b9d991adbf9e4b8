package core

import "time"

// Algorithm names a scheduling policy reported by the collaborator.
type Algorithm string

const (
	FirstComeFirstServe Algorithm = "fcfs"
	ShortestJobFirst    Algorithm = "sjf"
	RoundRobin          Algorithm = "round_robin"
	Priority            Algorithm = "priority"
)

// Algorithms lists every algorithm in display order.
var Algorithms = []Algorithm{FirstComeFirstServe, ShortestJobFirst, RoundRobin, Priority}

// Title returns the human readable name of the algorithm.
func (a Algorithm) Title() string {
	switch a {
	case FirstComeFirstServe:
		return "FCFS (First Come First Serve)"
	case ShortestJobFirst:
		return "SJF (Shortest Job First)"
	case RoundRobin:
		return "Round Robin"
	case Priority:
		return "Priority Scheduling"
	}
	return string(a)
}

// IdlePID marks a segment in which no process holds the CPU.
const IdlePID = 0

type ProcessInput struct {
	PID      int `json:"pid"`
	Arrival  int `json:"arrival"`
	Burst    int `json:"burst"`
	Priority int `json:"priority"`
}

// ExecutionRecord is one execution slice reported by the collaborator.
// A pid may own several records under preemptive policies, so a record
// is identified by (PID, Start).
type ExecutionRecord struct {
	PID        int `json:"pid"`
	Arrival    int `json:"arrival"`
	Burst      int `json:"burst"`
	Start      int `json:"start"`
	Completion int `json:"completion"`
}

type Segment struct {
	PID   int `json:"pid"`
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Segment) Idle() bool {
	return s.PID == IdlePID
}

func (s Segment) Duration() int {
	return s.End - s.Start
}

// Placement is a segment position in normalized [0,1] coordinates.
type Placement struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

type PlacedSegment struct {
	Segment
	Placement
}

type AlgorithmResult struct {
	Records       []ExecutionRecord `json:"processes"`
	AvgWaiting    *float64          `json:"avg_waiting,omitempty"`
	AvgTurnaround *float64          `json:"avg_turnaround,omitempty"`
	Throughput    *float64          `json:"throughput,omitempty"`
}

// ScheduleOutput is everything the scheduling collaborator returns for one batch.
type ScheduleOutput struct {
	RawOutput      string
	Results        map[Algorithm]AlgorithmResult
	Recommendation string
}

type LegendEntry struct {
	PID     int `json:"pid"`
	Arrival int `json:"arrival"`
	Burst   int `json:"burst"`
	Busy    int `json:"busy"`
	Slices  int `json:"slices"`
}

type Stats struct {
	AvgWaiting    *float64 `json:"avg_waiting"`
	AvgTurnaround *float64 `json:"avg_turnaround"`
	Throughput    *float64 `json:"throughput"`
	Derived       bool     `json:"derived"`
}

// Chart holds everything needed to draw one Gantt chart and its statistics card.
type Chart struct {
	Algorithm Algorithm       `json:"algorithm"`
	Available bool            `json:"available"`
	Message   string          `json:"message,omitempty"`
	Err       *Error          `json:"error,omitempty"`
	MinTime   int             `json:"min_time"`
	MaxTime   int             `json:"max_time"`
	Segments  []PlacedSegment `json:"segments"`
	Scale     []int           `json:"scale"`
	Legend    []LegendEntry   `json:"legend"`
	Stats     Stats           `json:"stats"`
}

// ResultsViewModel is built once per scheduling run and never modified after it is committed.
type ResultsViewModel struct {
	RunID          string                        `json:"run_id"`
	CreatedAt      time.Time                     `json:"created_at"`
	RawOutput      string                        `json:"raw_output"`
	PerAlgorithm   map[Algorithm]AlgorithmResult `json:"per_algorithm"`
	Charts         map[Algorithm]Chart           `json:"charts"`
	Recommendation string                        `json:"recommendation,omitempty"`
}
