package conduct

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Stage identities for the rebuild pipeline middleware.
var (
	retryID      = pipz.NewIdentity("rebuild-retry", "Immediate retry of failed rebuilds")
	backoffID    = pipz.NewIdentity("rebuild-backoff", "Exponential backoff retry of failed rebuilds")
	timeoutID    = pipz.NewIdentity("rebuild-timeout", "Deadline on a single rebuild")
	breakerID    = pipz.NewIdentity("rebuild-breaker", "Circuit breaker over consecutive rebuild failures")
	errHandlerID = pipz.NewIdentity("rebuild-errors", "Rebuild error observation")
	middlewareID = pipz.NewIdentity("rebuild-middleware", "Processors ahead of the rebuild callback")
)

// Option wraps the Loader's rebuild stage with reliability middleware.
// Options compose: each wraps the pipeline built so far, so the first
// option listed ends up innermost, closest to the rebuild callback.
//
// Instance settings (debounce, codec, sync mode) are chainable methods on
// the Loader instead.
type Option func(pipz.Chainable[*Request]) pipz.Chainable[*Request]

func buildPipeline(rebuild pipz.Chainable[*Request], opts []Option) pipz.Chainable[*Request] {
	p := rebuild
	for _, opt := range opts {
		p = opt(p)
	}
	return p
}

// WithRetry retries a failed rebuild immediately, up to maxAttempts total
// attempts. Useful when the callback touches something that can glitch,
// like swapping a form into a store. Use WithBackoff when the failure
// needs time to clear.
func WithRetry(maxAttempts int) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewRetry(retryID, p, maxAttempts)
	}
}

// WithBackoff retries a failed rebuild with exponentially growing delays
// starting at baseDelay.
func WithBackoff(maxAttempts int, baseDelay time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewBackoff(backoffID, p, maxAttempts, baseDelay)
	}
}

// WithTimeout bounds how long one rebuild may take. A definition update
// that hangs the callback fails the update instead of wedging the watch
// loop.
func WithTimeout(d time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// WithCircuitBreaker opens after the given number of consecutive rebuild
// failures and rejects further updates until the recovery window passes.
// The previous form stays active throughout.
func WithCircuitBreaker(failures int, recovery time.Duration) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewCircuitBreaker(breakerID, p, failures, recovery)
	}
}

// WithErrorHandler routes rebuild errors to a handler for logging or
// alerting. The error still propagates; this is observation, not recovery.
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Request]]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		return pipz.NewHandle(errHandlerID, p, handler)
	}
}

// WithMiddleware runs the given processors before the rebuild callback, in
// order. Build processors with the Use* helpers or supply any
// pipz.Chainable over *Request.
func WithMiddleware(processors ...pipz.Chainable[*Request]) Option {
	return func(p pipz.Chainable[*Request]) pipz.Chainable[*Request] {
		stages := append(append([]pipz.Chainable[*Request]{}, processors...), p)
		return pipz.NewSequence(middlewareID, stages...)
	}
}

// UseTransform builds a middleware stage from a pure transformation of the
// request. It cannot fail.
func UseTransform(name string, fn func(context.Context, *Request) *Request) pipz.Chainable[*Request] {
	return pipz.Transform(pipz.NewIdentity(name, ""), fn)
}

// UseApply builds a middleware stage that may rewrite the request or fail,
// for enrichment or extra validation of incoming definitions.
func UseApply(name string, fn func(context.Context, *Request) (*Request, error)) pipz.Chainable[*Request] {
	return pipz.Apply(pipz.NewIdentity(name, ""), fn)
}

// UseEffect builds a middleware stage for side effects; the request passes
// through untouched.
func UseEffect(name string, fn func(context.Context, *Request) error) pipz.Chainable[*Request] {
	return pipz.Effect(pipz.NewIdentity(name, ""), fn)
}

// UseFilter gates a processor behind a condition; when the condition is
// false the request passes through untouched.
func UseFilter(name string, condition func(context.Context, *Request) bool, processor pipz.Chainable[*Request]) pipz.Chainable[*Request] {
	return pipz.NewFilter(pipz.NewIdentity(name, ""), condition, processor)
}
