package api

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rcrowley/go-metrics"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"sched-visualizer/internal/core"
	"sched-visualizer/internal/render"
	"sched-visualizer/internal/requests"
	"sched-visualizer/internal/responses"
	"sched-visualizer/internal/run"
)

type VisualizerHandler interface {
	Schedule(ctx *fiber.Ctx) error
	Results(ctx *fiber.Ctx) error
	AlgorithmResult(ctx *fiber.Ctx) error
	ResultsText(ctx *fiber.Ctx) error
	Metrics(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type VisualizerHandlerImpl struct {
	orchestrator *run.Orchestrator
	log          *zap.Logger
}

func NewVisualizerHandlerImpl(orchestrator *run.Orchestrator, log *zap.Logger) *VisualizerHandlerImpl {
	return &VisualizerHandlerImpl{orchestrator: orchestrator, log: log}
}

// RegisterRoutes mounts the handler on app.
func RegisterRoutes(app *fiber.App, h VisualizerHandler) {
	app.Get("/health", h.Health)

	v1 := app.Group("/api").Group("/v1")
	{
		v1.Post("/schedule", h.Schedule)
		v1.Get("/results", h.Results)
		v1.Get("/results/text", h.ResultsText)
		v1.Get("/results/:algorithm", h.AlgorithmResult)
		v1.Get("/metrics", h.Metrics)
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		log.Info("request",
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", ctx.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return err
	}
}

func (h *VisualizerHandlerImpl) Schedule(ctx *fiber.Ctx) error {
	var request requests.ScheduleRequest
	if err := ctx.BodyParser(&request); err != nil {
		h.log.Debug("invalid request body", zap.Error(err))
		return ctx.Status(fiber.StatusBadRequest).JSON(responses.Failure(
			core.WrapError(core.InvalidField, err, "invalid request format")))
	}
	if request.Algorithm != "" && request.Algorithm != "all" {
		return ctx.Status(fiber.StatusBadRequest).JSON(responses.Failure(
			core.NewError(core.InvalidField, "unsupported algorithm %q, only \"all\" is accepted", request.Algorithm)))
	}

	result := h.orchestrator.Run(ctx.UserContext(), request.ProcessCount(), request.RawProcesses())
	if !result.OK {
		return ctx.Status(statusOf(result.Err)).JSON(responses.Failure(result.Err))
	}
	return ctx.JSON(responses.ScheduleResponse{
		Success:   true,
		RunID:     result.RunID,
		ViewModel: result.ViewModel,
	})
}

func (h *VisualizerHandlerImpl) Results(ctx *fiber.Ctx) error {
	snap := h.orchestrator.Snapshot()
	return ctx.JSON(responses.ResultsResponse{
		Loading:   snap.Loading,
		RunID:     snap.RunID,
		ViewModel: snap.ViewModel,
		Error:     responses.NewErrorBody(snap.Err),
	})
}

func (h *VisualizerHandlerImpl) AlgorithmResult(ctx *fiber.Ctx) error {
	alg := core.Algorithm(ctx.Params("algorithm"))
	if !slices.Contains(core.Algorithms, alg) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown algorithm " + string(alg)})
	}
	snap := h.orchestrator.Snapshot()
	if snap.ViewModel == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no results available"})
	}
	return ctx.JSON(responses.ChartResponse{
		RunID: snap.ViewModel.RunID,
		Chart: snap.ViewModel.Charts[alg],
	})
}

func (h *VisualizerHandlerImpl) ResultsText(ctx *fiber.Ctx) error {
	snap := h.orchestrator.Snapshot()
	if snap.ViewModel == nil {
		return ctx.Status(fiber.StatusNotFound).SendString("no results available\n")
	}
	var buf bytes.Buffer
	if err := render.Text(&buf, *snap.ViewModel); err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.Send(buf.Bytes())
}

func (h *VisualizerHandlerImpl) Metrics(ctx *fiber.Ctx) error {
	return ctx.JSON(metrics.DefaultRegistry.GetAll())
}

func (h *VisualizerHandlerImpl) Health(ctx *fiber.Ctx) error {
	scheduler := h.orchestrator.Scheduler()
	response := responses.HealthResponse{
		Status:         "running",
		Collaborator:   scheduler.Name(),
		CollaboratorOK: true,
	}
	if err := scheduler.Health(ctx.UserContext()); err != nil {
		response.CollaboratorOK = false
		response.Detail = err.Error()
	}
	return ctx.JSON(response)
}

func statusOf(e *core.Error) int {
	if e != nil && e.Validation() {
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}
