package collaborator

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"sched-visualizer/internal/core"
)

// ExecRunner runs a local scheduler binary that reads the process count and
// then arrival, burst and priority for each process on stdin, and prints a
// text report.
type ExecRunner struct {
	binary  string
	timeout time.Duration
	log     *zap.Logger
}

func NewExecRunner(binary string, timeout time.Duration, log *zap.Logger) *ExecRunner {
	return &ExecRunner{binary: binary, timeout: timeout, log: log}
}

func (r *ExecRunner) Name() string {
	return "exec"
}

func (r *ExecRunner) Schedule(ctx context.Context, processes []core.ProcessInput) (core.ScheduleOutput, error) {
	start := time.Now()
	out, err := r.run(ctx, processes)
	observe(r.Name(), start, err)
	return out, err
}

func (r *ExecRunner) run(ctx context.Context, processes []core.ProcessInput) (core.ScheduleOutput, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.binary)
	cmd.Stdin = strings.NewReader(FormatInput(processes))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return core.ScheduleOutput{}, core.WrapError(core.CollaboratorUnavailable, ctxErr, "scheduler %s did not finish", r.binary)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = lastLine(stdout.String())
		}
		return core.ScheduleOutput{}, core.NewError(core.CollaboratorError, "scheduler exited with code %d: %s", exitErr.ExitCode(), detail)
	}
	if err != nil {
		return core.ScheduleOutput{}, core.WrapError(core.CollaboratorUnavailable, err, "starting scheduler %s", r.binary)
	}

	r.log.Debug("scheduler finished",
		zap.String("binary", r.binary),
		zap.Int("processes", len(processes)),
		zap.Int("output_bytes", stdout.Len()))
	return ParseReport(stdout.String(), processes)
}

func (r *ExecRunner) Health(_ context.Context) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return core.WrapError(core.CollaboratorUnavailable, err, "scheduler binary %s", r.binary)
	}
	return nil
}

// FormatInput renders processes in the order the scheduler binary prompts for them.
func FormatInput(processes []core.ProcessInput) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(processes)))
	b.WriteByte('\n')
	for _, p := range processes {
		b.WriteString(strconv.Itoa(p.Arrival))
		b.WriteByte('\n')
		b.WriteString(strconv.Itoa(p.Burst))
		b.WriteByte('\n')
		b.WriteString(strconv.Itoa(p.Priority))
		b.WriteByte('\n')
	}
	return b.String()
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
