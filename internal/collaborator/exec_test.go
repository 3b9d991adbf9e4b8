package collaborator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sched-visualizer/internal/core"
)

// writeScheduler writes a shell script standing in for the scheduler binary.
func writeScheduler(t *testing.T, body string) string {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "scheduler")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExecRunner_Schedule(t *testing.T) {
	report, err := filepath.Abs("testdata/report.txt")
	require.NoError(t, err)
	stdin := filepath.Join(t.TempDir(), "stdin")
	binary := writeScheduler(t, "cat > "+stdin+"\ncat "+report+"\n")

	runner := NewExecRunner(binary, 5*time.Second, zaptest.NewLogger(t))
	out, err := runner.Schedule(context.Background(), sampleProcesses)
	require.NoError(t, err)
	assert.Len(t, out.Results, 4)
	assert.Equal(t, "SJF - Many short jobs benefit from shortest job first", out.Recommendation)

	sent, err := os.ReadFile(stdin)
	require.NoError(t, err)
	assert.Equal(t, FormatInput(sampleProcesses), string(sent))
	assert.NoError(t, runner.Health(context.Background()))
}

func TestExecRunner_Failures(t *testing.T) {
	logger := zaptest.NewLogger(t)

	exit := writeScheduler(t, "cat > /dev/null\necho 'Invalid number! Please enter between 1 and 50.'\nexit 1\n")
	_, err := NewExecRunner(exit, 5*time.Second, logger).Schedule(context.Background(), sampleProcesses)
	require.ErrorIs(t, err, core.ErrCollaboratorError)
	assert.Contains(t, err.Error(), "Invalid number!")

	slow := writeScheduler(t, "exec sleep 5\n")
	_, err = NewExecRunner(slow, 50*time.Millisecond, logger).Schedule(context.Background(), sampleProcesses)
	require.ErrorIs(t, err, core.ErrCollaboratorUnavailable)

	missing := NewExecRunner(filepath.Join(t.TempDir(), "absent"), time.Second, logger)
	_, err = missing.Schedule(context.Background(), sampleProcesses)
	require.ErrorIs(t, err, core.ErrCollaboratorUnavailable)
	assert.ErrorIs(t, missing.Health(context.Background()), core.ErrCollaboratorUnavailable)
}
