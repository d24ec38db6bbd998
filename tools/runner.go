package tools

import (
	"context"
	"time"

	"github.com/effective-security/expressmcp/pkg/metricskey"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/expressmcp", "tools")

// Runner executes the tool calls with metrics and callback events.
type Runner struct {
	tool     ITool
	callback Callback
}

func NewRunner(tool ITool) *Runner {
	return &Runner{tool: tool}
}

func (r *Runner) WithCallback(callback Callback) *Runner {
	r.callback = callback
	return r
}

// Run calls fn for the input and reports the outcome.
func (r *Runner) Run(ctx context.Context, input string, fn func(context.Context) (string, error)) (string, error) {
	name := r.tool.Name()
	requestID := uuid.NewString()
	started := time.Now()

	logger.ContextKV(ctx, xlog.DEBUG,
		"tool", name,
		"request_id", requestID,
		"status", "started",
	)
	if r.callback != nil {
		r.callback.OnToolStart(ctx, r.tool, input)
	}

	res, err := fn(ctx)
	metricskey.PerfToolCall.MeasureSince(started, name)

	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, name)
		logger.ContextKV(ctx, xlog.ERROR,
			"tool", name,
			"request_id", requestID,
			"err", err.Error(),
		)
		if r.callback != nil {
			r.callback.OnToolError(ctx, r.tool, input, err)
		}
		return "", err
	}

	metricskey.StatsToolCallsSucceeded.IncrCounter(1, name)
	logger.ContextKV(ctx, xlog.DEBUG,
		"tool", name,
		"request_id", requestID,
		"status", "finished",
		"elapsed", time.Since(started).String(),
	)
	if r.callback != nil {
		r.callback.OnToolEnd(ctx, r.tool, input, res)
	}
	return res, nil
}
