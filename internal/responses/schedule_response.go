package responses

import (
	"sched-visualizer/internal/core"
)

type ErrorBody struct {
	Kind    core.ErrorKind `json:"kind"`
	Message string         `json:"message"`
	PID     int            `json:"pid,omitempty"`
}

type ScheduleResponse struct {
	Success   bool                   `json:"success"`
	RunID     string                 `json:"run_id,omitempty"`
	ViewModel *core.ResultsViewModel `json:"view_model,omitempty"`
	Error     *ErrorBody             `json:"error,omitempty"`
}

type ResultsResponse struct {
	Loading   bool                   `json:"loading"`
	RunID     string                 `json:"run_id,omitempty"`
	ViewModel *core.ResultsViewModel `json:"view_model,omitempty"`
	Error     *ErrorBody             `json:"error,omitempty"`
}

type ChartResponse struct {
	RunID string     `json:"run_id"`
	Chart core.Chart `json:"chart"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Collaborator   string `json:"collaborator"`
	CollaboratorOK bool   `json:"collaborator_ok"`
	Detail         string `json:"detail,omitempty"`
}

func NewErrorBody(e *core.Error) *ErrorBody {
	if e == nil {
		return nil
	}
	return &ErrorBody{Kind: e.Kind, Message: e.Message, PID: e.PID}
}

func Failure(e *core.Error) ScheduleResponse {
	return ScheduleResponse{Success: false, Error: NewErrorBody(e)}
}
