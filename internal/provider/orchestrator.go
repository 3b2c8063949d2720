package provider

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sanix-darker/grok-search/internal/metrics"
	"golang.org/x/time/rate"
)

// ---------------------------------------------------------------------------
// Retrying streaming orchestrator
// ---------------------------------------------------------------------------

// OpenFunc opens the stream for one attempt. The returned body is closed by
// the Retrier once the attempt has been aggregated.
type OpenFunc func(ctx context.Context) (io.ReadCloser, error)

// Retrier drives one logical request through as many streaming attempts as
// its RetryConfig allows. It holds no per-request state and is safe for
// concurrent use; every Do call owns its own AttemptState.
type Retrier struct {
	cfg      RetryConfig
	provider string
	logger   *slog.Logger
	recorder *metrics.Recorder
	limiter  *rate.Limiter
	sleep    func(ctx context.Context, d time.Duration) error
}

// RetrierOption customises a Retrier.
type RetrierOption func(*Retrier)

// WithRetrierLogger sets the logger used for attempt and retry records.
func WithRetrierLogger(l *slog.Logger) RetrierOption {
	return func(r *Retrier) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRetrierRecorder sets the metrics recorder.
func WithRetrierRecorder(rec *metrics.Recorder) RetrierOption {
	return func(r *Retrier) {
		r.recorder = rec
	}
}

// WithRetrierLimiter makes every attempt, retries included, wait on l.
func WithRetrierLimiter(l *rate.Limiter) RetrierOption {
	return func(r *Retrier) {
		r.limiter = l
	}
}

// WithRetrierProvider names the provider in log records.
func WithRetrierProvider(name string) RetrierOption {
	return func(r *Retrier) {
		r.provider = name
	}
}

// NewRetrier returns a Retrier applying cfg.
func NewRetrier(cfg RetryConfig, opts ...RetrierOption) *Retrier {
	if cfg.MaxAttempts < 0 {
		cfg.MaxAttempts = 0
	}
	r := &Retrier{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the retry configuration in use.
func (r *Retrier) Config() RetryConfig {
	return r.cfg
}

// Do runs attempts until the policy stops. It returns the aggregated text
// (possibly "" once retries on blank results are exhausted) or the error of
// the last attempt exactly as the attempt produced it.
func (r *Retrier) Do(ctx context.Context, op Operation, open OpenFunc) (string, error) {
	logger := r.logger.With(
		slog.String("provider", r.provider),
		slog.String("operation", string(op)),
		slog.String("request_id", RequestIDFromContext(ctx)),
	)

	state := AttemptState{Attempts: 1}
	for {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				r.recorder.ObserveResult(string(op), "error")
				return "", err
			}
		}

		started := time.Now()
		text, err := r.attempt(ctx, open)
		outcome := Classify(text, err)
		r.recorder.ObserveAttempt(string(op), outcome.Kind.String())

		decision := Decide(outcome, state, r.cfg)
		logger.Debug("attempt finished",
			slog.Int("attempt", state.Attempts),
			slog.String("outcome", outcome.Kind.String()),
			slog.Duration("duration", time.Since(started)),
			slog.String("decision", decision.Action.String()),
		)

		switch decision.Action {
		case ActionReturn:
			result := "content"
			if decision.Value == "" {
				result = "empty"
			}
			r.recorder.ObserveResult(string(op), result)
			logger.Info("request finished",
				slog.Int("attempts", state.Attempts),
				slog.String("result", result),
			)
			return decision.Value, nil

		case ActionFail:
			r.recorder.ObserveResult(string(op), "error")
			logger.Error("request failed",
				slog.Int("attempts", state.Attempts),
				slog.String("reason", decision.Reason),
				slog.String("error", decision.Err.Error()),
			)
			return "", decision.Err
		}

		r.recorder.ObserveRetry(string(op), outcome.Kind.String(), decision.Delay)
		logger.Warn("retrying",
			slog.Int("attempt", state.Attempts),
			slog.Int("max_attempts", r.cfg.MaxAttempts),
			slog.String("reason", decision.Reason),
			slog.Duration("delay", decision.Delay),
		)

		if err := r.sleep(ctx, decision.Delay); err != nil {
			r.recorder.ObserveResult(string(op), "error")
			return "", err
		}
		state.Attempts++
	}
}

// attempt opens, drains and closes one stream.
func (r *Retrier) attempt(ctx context.Context, open OpenFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := open(ctx)
	if err != nil {
		return "", err
	}
	defer body.Close()

	text, err := Aggregate(body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if errors.Is(err, bufio.ErrTooLong) {
			return "", err
		}
		return "", &NetworkError{Provider: r.provider, Op: "read stream", Cause: err}
	}
	return text, nil
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
