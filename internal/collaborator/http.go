package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/util/wait"

	"sched-visualizer/internal/core"
)

const maxResponseBytes = 4 << 20

type HTTPConfig struct {
	BaseURL string
	// Timeout bounds each attempt, not the whole call.
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// HTTPClient talks to a scheduling service over HTTP.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	backoff wait.Backoff
	client  *http.Client
	log     *zap.Logger
}

func NewHTTPClient(cfg HTTPConfig, log *zap.Logger) *HTTPClient {
	steps := cfg.Retries + 1
	if steps < 1 {
		steps = 1
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		backoff: wait.Backoff{
			Duration: cfg.Backoff,
			Factor:   2,
			Jitter:   0.1,
			Steps:    steps,
		},
		client: &http.Client{},
		log:    log,
	}
}

func (c *HTTPClient) Name() string {
	return "http"
}

func (c *HTTPClient) Schedule(ctx context.Context, processes []core.ProcessInput) (core.ScheduleOutput, error) {
	start := time.Now()
	out, err := c.schedule(ctx, processes)
	observe(c.Name(), start, err)
	return out, err
}

func (c *HTTPClient) schedule(ctx context.Context, processes []core.ProcessInput) (core.ScheduleOutput, error) {
	body, err := json.Marshal(toWire(processes))
	if err != nil {
		return core.ScheduleOutput{}, core.WrapError(core.CollaboratorError, err, "encoding request")
	}

	var (
		out     core.ScheduleOutput
		lastErr error
		attempt int
	)
	err = wait.ExponentialBackoffWithContext(ctx, c.backoff, func(ctx context.Context) (bool, error) {
		attempt++
		res, retry, err := c.post(ctx, body)
		if err == nil {
			out = res
			return true, nil
		}
		lastErr = err
		if !retry {
			return false, err
		}
		c.log.Warn("scheduling service call failed, retrying",
			zap.String("url", c.baseURL),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return false, nil
	})
	switch {
	case err == nil:
		return out, nil
	case core.KindOf(err) != "":
		return core.ScheduleOutput{}, err
	case lastErr != nil:
		return core.ScheduleOutput{}, lastErr
	}
	return core.ScheduleOutput{}, core.WrapError(core.CollaboratorUnavailable, err, "calling %s", c.baseURL)
}

// post performs one attempt. retry reports whether a later attempt may succeed.
func (c *HTTPClient) post(ctx context.Context, body []byte) (out core.ScheduleOutput, retry bool, err error) {
	ctx, cancel := c.attemptContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/schedule", bytes.NewReader(body))
	if err != nil {
		return out, false, core.WrapError(core.CollaboratorUnavailable, err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return out, true, core.WrapError(core.CollaboratorUnavailable, err, "calling %s", c.baseURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return out, true, core.WrapError(core.CollaboratorUnavailable, err, "reading response")
	}

	var payload wireResponse
	decodeErr := json.Unmarshal(data, &payload)

	switch {
	case resp.StatusCode == http.StatusBadGateway ||
		resp.StatusCode == http.StatusServiceUnavailable ||
		resp.StatusCode == http.StatusGatewayTimeout:
		return out, true, core.NewError(core.CollaboratorUnavailable, "scheduling service answered %d", resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && payload.Error != "" {
			msg = payload.Error
		}
		if payload.Stderr != "" {
			msg += ": " + strings.TrimSpace(payload.Stderr)
		}
		return out, false, core.NewError(core.CollaboratorError, "scheduling service answered %d: %s", resp.StatusCode, msg)
	case decodeErr != nil:
		return out, false, core.WrapError(core.CollaboratorError, decodeErr, "decoding response")
	case payload.Success != nil && !*payload.Success:
		return out, false, core.NewError(core.CollaboratorError, "scheduling service reported failure: %s", payload.Error)
	case payload.Error != "":
		return out, false, core.NewError(core.CollaboratorError, "%s", payload.Error)
	}

	out, err = payload.output()
	return out, false, err
}

func (c *HTTPClient) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

type healthResponse struct {
	Status          string `json:"status"`
	SchedulerExists *bool  `json:"scheduler_exists"`
}

func (c *HTTPClient) Health(ctx context.Context) error {
	ctx, cancel := c.attemptContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return core.WrapError(core.CollaboratorUnavailable, err, "building request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return core.WrapError(core.CollaboratorUnavailable, err, "calling %s", c.baseURL)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return core.NewError(core.CollaboratorUnavailable, "health check answered %d", resp.StatusCode)
	}

	var health healthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&health); err == nil &&
		health.SchedulerExists != nil && !*health.SchedulerExists {
		return core.NewError(core.CollaboratorUnavailable, "scheduling service has no scheduler binary")
	}
	return nil
}
