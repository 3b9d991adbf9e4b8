package run

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"

	"sched-visualizer/internal/aggregator"
	"sched-visualizer/internal/collaborator"
	"sched-visualizer/internal/core"
	"sched-visualizer/internal/validator"
)

// Result is the tagged outcome of one run: either a view model or an error.
type Result struct {
	OK        bool
	RunID     string
	ViewModel *core.ResultsViewModel
	Err       *core.Error
}

// Snapshot is what the presentation layer may show at a given moment.
// ViewModel is nil while a run is loading and after a failed run.
type Snapshot struct {
	Loading   bool
	RunID     string
	ViewModel *core.ResultsViewModel
	Err       *core.Error
}

// Orchestrator owns the current view model. Runs are serialized and a view
// model is only ever replaced as a whole.
type Orchestrator struct {
	scheduler  collaborator.Scheduler
	aggregator *aggregator.Aggregator
	cache      *ristretto.Cache
	cacheTTL   time.Duration
	log        *zap.Logger

	runMu sync.Mutex

	mu    sync.RWMutex
	state Snapshot
}

// NewOrchestrator builds an orchestrator. cache may be nil to disable reuse
// of collaborator output for identical batches.
func NewOrchestrator(scheduler collaborator.Scheduler, agg *aggregator.Aggregator, cache *ristretto.Cache, cacheTTL time.Duration, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		scheduler:  scheduler,
		aggregator: agg,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// Run validates the raw processes, asks the collaborator for schedules and
// commits a new view model. A second call blocks until the first finishes.
func (o *Orchestrator) Run(ctx context.Context, count int, raw []validator.RawProcess) Result {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	start := time.Now()
	runID := uuid.NewString()
	metrics.GetOrRegisterCounter("runs.started", nil).Inc(1)

	o.begin(runID)

	processes, err := validator.Validate(count, raw)
	if err != nil {
		return o.failed(runID, core.AsError(err, core.InvalidField))
	}

	out, err := o.schedule(ctx, processes)
	if err != nil {
		return o.failed(runID, core.AsError(err, core.CollaboratorUnavailable))
	}

	vm := o.aggregator.Build(out, runID)
	o.mu.Lock()
	o.state = Snapshot{RunID: runID, ViewModel: &vm}
	o.mu.Unlock()

	metrics.GetOrRegisterCounter("runs.succeeded", nil).Inc(1)
	metrics.GetOrRegisterTimer("runs.duration", nil).UpdateSince(start)
	o.log.Info("run committed",
		zap.String("run_id", runID),
		zap.Int("processes", len(processes)),
		zap.Duration("took", time.Since(start)))
	return Result{OK: true, RunID: runID, ViewModel: &vm}
}

// Snapshot returns the current state. The view model it points to is never
// modified.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

func (o *Orchestrator) Scheduler() collaborator.Scheduler {
	return o.scheduler
}

// begin hides the previous results and marks the run as loading.
func (o *Orchestrator) begin(runID string) {
	o.mu.Lock()
	o.state = Snapshot{Loading: true, RunID: runID}
	o.mu.Unlock()
}

// failed records e as the outcome of the run. No view model is committed.
func (o *Orchestrator) failed(runID string, e *core.Error) Result {
	o.mu.Lock()
	o.state = Snapshot{RunID: runID, Err: e}
	o.mu.Unlock()

	metrics.GetOrRegisterCounter("runs.failed", nil).Inc(1)
	o.log.Warn("run failed",
		zap.String("run_id", runID),
		zap.String("kind", string(e.Kind)),
		zap.Error(e))
	return Result{RunID: runID, Err: e}
}

func (o *Orchestrator) schedule(ctx context.Context, processes []core.ProcessInput) (core.ScheduleOutput, error) {
	key := cacheKey(processes)
	if o.cache != nil {
		if cached, ok := o.cache.Get(key); ok {
			if out, ok := cached.(core.ScheduleOutput); ok {
				metrics.GetOrRegisterCounter("runs.cache_hits", nil).Inc(1)
				o.log.Debug("collaborator output served from cache", zap.String("key", key))
				return out, nil
			}
		}
	}

	out, err := o.scheduler.Schedule(ctx, processes)
	if err != nil {
		return core.ScheduleOutput{}, err
	}

	if o.cache != nil {
		o.cache.SetWithTTL(key, out, int64(len(out.RawOutput)+1), o.cacheTTL)
		o.cache.Wait()
	}
	return out, nil
}

// cacheKey identifies a batch by its ordered process fields.
func cacheKey(processes []core.ProcessInput) string {
	var b strings.Builder
	for _, p := range processes {
		b.WriteString(strconv.Itoa(p.PID))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.Arrival))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.Burst))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.Priority))
		b.WriteByte(';')
	}
	return b.String()
}

// NewCache builds the collaborator output cache.
func NewCache(maxCost int64) (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
}
