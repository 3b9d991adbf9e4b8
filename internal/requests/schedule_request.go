package requests

import (
	"bytes"
	"encoding/json"
	"strings"

	"sched-visualizer/internal/validator"
)

// Field keeps the raw text of a JSON scalar so that the validator decides
// what counts as an integer. Both 3 and "3" are accepted on the wire.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	*f = Field(data)
	return nil
}

type Process struct {
	PID      Field `json:"pid"`
	Arrival  Field `json:"arrival"`
	Burst    Field `json:"burst"`
	Priority Field `json:"priority"`
}

type ScheduleRequest struct {
	// Count defaults to len(Processes) when omitted.
	Count     *int      `json:"count"`
	Processes []Process `json:"processes"`
	Algorithm string    `json:"algorithm"`
}

func (r ScheduleRequest) ProcessCount() int {
	if r.Count != nil {
		return *r.Count
	}
	return len(r.Processes)
}

func (r ScheduleRequest) RawProcesses() []validator.RawProcess {
	raw := make([]validator.RawProcess, 0, len(r.Processes))
	for _, p := range r.Processes {
		raw = append(raw, validator.RawProcess{
			PID:      strings.TrimSpace(string(p.PID)),
			Arrival:  string(p.Arrival),
			Burst:    string(p.Burst),
			Priority: string(p.Priority),
		})
	}
	return raw
}
