package services

import (
	"context"
	"errors"
	"time"

	"alfredoptarigan/interview-assessor/internal/logger"
	"alfredoptarigan/interview-assessor/internal/metrics"
)

// Policy is the degrade-don't-fail rule for one collaborator: every call
// runs under Timeout and any error is replaced by OnFailure(err).
type Policy[T any] struct {
	Collaborator string
	Timeout      time.Duration
	OnFailure    func(err error) T
}

// Run executes call under the policy. The returned error is the failure
// that was absorbed, or nil when the collaborator answered.
func (p Policy[T]) Run(ctx context.Context, log *logger.Logger, call func(ctx context.Context) (T, error)) (T, error) {
	callCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	value, err := call(callCtx)
	elapsed := time.Since(start)
	metrics.CollaboratorDuration.WithLabelValues(p.Collaborator).Observe(elapsed.Seconds())

	if err == nil {
		metrics.CollaboratorCalls.WithLabelValues(p.Collaborator, metrics.OutcomeSuccess).Inc()
		return value, nil
	}

	outcome := metrics.OutcomeFallback
	if errors.Is(err, context.DeadlineExceeded) {
		outcome = metrics.OutcomeTimeout
	}
	metrics.CollaboratorCalls.WithLabelValues(p.Collaborator, outcome).Inc()

	if log != nil {
		log.Warn("⚠️ collaborator failed, using fallback",
			"collaborator", p.Collaborator,
			"outcome", outcome,
			"duration", elapsed,
			"error", err,
		)
	}
	return p.OnFailure(err), err
}
