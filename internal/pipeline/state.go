package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/stylometer/internal/llm"
	"github.com/ppiankov/stylometer/internal/model"
)

// State is a step of the provider-then-fallback machine
type State string

const (
	// StateProviderAttempt sends one prompt to the provider
	StateProviderAttempt State = "provider_attempt"
	// StateLocalFallback is terminal and always produces a result
	StateLocalFallback State = "local_fallback"
)

// Provider failure kinds, used as metric labels
const (
	FailureRateLimited = "rate_limited"
	FailureTimeout     = "timeout"
	FailureCancelled   = "cancelled"
	FailureError       = "error"
	FailureUnparseable = "unparseable"
)

// NoteNoProvider is attached to local results when no provider is configured
const NoteNoProvider = "no provider configured: local heuristics used"

// InitialState returns where a request starts
func (p *Pipeline) InitialState() State {
	if p.provider == nil {
		return StateLocalFallback
	}
	return StateProviderAttempt
}

// consult runs the ProviderAttempt state. accept validates the reply; a false
// return moves to LocalFallback like any transport failure. The returned
// result is a success only when the reply was accepted; on failure Reason
// holds the note for the local result.
func (p *Pipeline) consult(ctx context.Context, op model.Operation, req llm.GenerateRequest, accept func(raw string) bool) model.ProviderResult {
	if p.InitialState() == StateLocalFallback {
		return model.ProviderFailure(NoteNoProvider)
	}
	name := p.provider.Name()

	if p.limiter != nil && !p.limiter.Allow(name) {
		return p.fail(name, op, FailureRateLimited, "rate limited")
	}

	raw, err := p.generate(ctx, req)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return p.fail(name, op, FailureTimeout, fmt.Sprintf("no reply within %s", p.timeout))
	case errors.Is(err, context.Canceled):
		return p.fail(name, op, FailureCancelled, "request cancelled")
	case err != nil:
		return p.fail(name, op, FailureError, err.Error())
	}

	if !accept(raw) {
		return p.fail(name, op, FailureUnparseable, "reply did not have the expected structure")
	}

	p.logger.Debug("provider reply accepted",
		zap.String("provider", name),
		zap.String("operation", string(op)),
	)
	return model.ProviderSuccess(raw)
}

// generate performs the single provider round trip, bounded by the pipeline
// timeout. It returns as soon as ctx is done even if the provider ignores it.
func (p *Pipeline) generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)

	go func() {
		resp, err := p.provider.Generate(ctx, req)
		if err == nil && resp == nil {
			err = fmt.Errorf("%s returned no response", p.provider.Name())
		}
		if err != nil {
			done <- reply{err: err}
			return
		}
		done <- reply{text: resp.Text}
	}()

	select {
	case r := <-done:
		if r.err != nil && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *Pipeline) fail(provider string, op model.Operation, kind, reason string) model.ProviderResult {
	p.logger.Warn("provider unavailable, using local heuristics",
		zap.String("provider", provider),
		zap.String("operation", string(op)),
		zap.String("kind", kind),
		zap.String("reason", reason),
	)
	if p.recorder != nil {
		p.recorder.ObserveProviderFailure(provider, op, kind)
	}
	return model.ProviderFailure(fallbackNote(provider, reason))
}
