package animus

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Attempt is the unit flowing through a goal-execution pipeline: the task
// being worked, the provider response, and the classification of the result.
// It implements pipz.Cloner so connectors that branch can copy it safely.
type Attempt struct {
	Goal     *Goal
	Task     string
	Response string
	Outcome  Outcome
}

// Clone creates an independent copy of the attempt.
func (a *Attempt) Clone() *Attempt {
	if a == nil {
		return nil
	}
	copied := *a
	if a.Goal != nil {
		goal := *a.Goal
		copied.Goal = &goal
	}
	copied.Outcome.Subconcepts = append([]string(nil), a.Outcome.Subconcepts...)
	return &copied
}

// Do creates a processor from a function that can fail.
func Do(name string, fn func(context.Context, *Attempt) (*Attempt, error)) pipz.Processor[*Attempt] {
	return pipz.Apply(pipz.NewIdentity(name, ""), fn)
}

// Transform creates a processor from a pure transformation function.
func Transform(name string, fn func(context.Context, *Attempt) *Attempt) pipz.Processor[*Attempt] {
	return pipz.Transform(pipz.NewIdentity(name, ""), fn)
}

// Effect creates a processor that observes an attempt without modifying it.
func Effect(name string, fn func(context.Context, *Attempt) error) pipz.Processor[*Attempt] {
	return pipz.Effect(pipz.NewIdentity(name, ""), fn)
}

// Sequence chains processors so each receives the previous one's output.
func Sequence(name string, processors ...pipz.Chainable[*Attempt]) *pipz.Sequence[*Attempt] {
	return pipz.NewSequence(pipz.NewIdentity(name, ""), processors...)
}

// Fallback tries each processor in order until one succeeds.
func Fallback(name string, processors ...pipz.Chainable[*Attempt]) *pipz.Fallback[*Attempt] {
	return pipz.NewFallback(pipz.NewIdentity(name, ""), processors...)
}

// Retry retries a failing processor up to maxAttempts times without delay.
func Retry(name string, processor pipz.Chainable[*Attempt], maxAttempts int) *pipz.Retry[*Attempt] {
	return pipz.NewRetry(pipz.NewIdentity(name, ""), processor, maxAttempts)
}

// Timeout enforces a time limit on a processor.
func Timeout(name string, processor pipz.Chainable[*Attempt], duration time.Duration) *pipz.Timeout[*Attempt] {
	return pipz.NewTimeout(pipz.NewIdentity(name, ""), processor, duration)
}

// Compile-time check: *Attempt must implement pipz.Cloner[*Attempt].
var _ interface{ Clone() *Attempt } = (*Attempt)(nil)
