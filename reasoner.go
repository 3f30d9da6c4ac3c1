package animus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/zyn"
)

// Provider is the reasoning collaborator contract, matching the zyn.Provider
// interface so any zyn-compatible LLM backend plugs in directly.
type Provider interface {
	Call(ctx context.Context, messages []zyn.Message, temperature float32) (*zyn.ProviderResponse, error)
	Name() string
}

// ErrNoProvider is returned when no provider can be resolved.
var ErrNoProvider = errors.New("no provider configured: set via context, reasoner, or global")

type providerKeyType struct{}

var providerKey = providerKeyType{}

var (
	globalProvider   Provider
	globalProviderMu sync.RWMutex
)

// SetProvider sets the global fallback provider, used when no context or
// reasoner-level provider is available.
func SetProvider(p Provider) {
	globalProviderMu.Lock()
	defer globalProviderMu.Unlock()
	globalProvider = p
}

// GetProvider returns the global provider, or nil if none is set.
func GetProvider() Provider {
	globalProviderMu.RLock()
	defer globalProviderMu.RUnlock()
	return globalProvider
}

// WithProvider adds a provider to the context. This is the preferred method
// for provider management.
func WithProvider(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, providerKey, p)
}

// ProviderFromContext extracts a provider from the context.
func ProviderFromContext(ctx context.Context) (Provider, bool) {
	p, ok := ctx.Value(providerKey).(Provider)
	return p, ok
}

// ResolveProvider determines which provider to use: the explicit provider
// first, then the context value, then the global default.
func ResolveProvider(ctx context.Context, explicit Provider) (Provider, error) {
	if explicit != nil {
		return explicit, nil
	}
	if p, ok := ctx.Value(providerKey).(Provider); ok {
		return p, nil
	}

	globalProviderMu.RLock()
	p := globalProvider
	globalProviderMu.RUnlock()
	if p != nil {
		return p, nil
	}
	return nil, ErrNoProvider
}

// taskPreamble is the strict output-format contract appended to every task.
// The response is still treated as untrusted; classification validates it.
const taskPreamble = "You are a thought synthesizer. Your output must be ONLY the direct fulfillment of the task. No preamble, no markdown. Do not be conversational. Do not echo instructions."

// Reasoner wraps a Provider behind the single operation the planning engine
// needs: turn a fully assembled instruction into text.
type Reasoner struct {
	provider    Provider
	temperature float32
}

// ReasonerOption configures a Reasoner.
type ReasonerOption func(*Reasoner)

// WithReasonerProvider pins an explicit provider, bypassing context and
// global resolution.
func WithReasonerProvider(p Provider) ReasonerOption {
	return func(r *Reasoner) { r.provider = p }
}

// WithTemperature overrides the sampling temperature for completions.
func WithTemperature(t float32) ReasonerOption {
	return func(r *Reasoner) { r.temperature = t }
}

// NewReasoner creates a reasoner with the deterministic default temperature.
func NewReasoner(opts ...ReasonerOption) *Reasoner {
	r := &Reasoner{temperature: zyn.DefaultTemperatureDeterministic}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Complete sends the task to the resolved provider under the strict output
// contract and returns the cleaned response text. Any reasoning monologue in
// <think> tags is stripped; everything else is returned verbatim for the
// caller to validate.
func (r *Reasoner) Complete(ctx context.Context, task string) (string, error) {
	provider, err := ResolveProvider(ctx, r.provider)
	if err != nil {
		return "", err
	}

	messages := []zyn.Message{
		{Role: "system", Content: taskPreamble},
		{Role: "user", Content: task},
	}

	resp, err := provider.Call(ctx, messages, r.temperature)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	return stripThinking(resp.Content), nil
}

// stripThinking removes a leading <think>...</think> monologue, keeping only
// the final answer.
func stripThinking(response string) string {
	if idx := strings.LastIndex(response, "</think>"); idx >= 0 {
		if clean := strings.TrimSpace(response[idx+len("</think>"):]); clean != "" {
			return clean
		}
	}
	return strings.TrimSpace(response)
}

// FallbackResponder is the documented degraded provider used when the real
// reasoning collaborator is unreachable. It produces syntactically valid but
// low-information text keyed off the first quoted substring in the task, so
// the cognitive loop keeps turning without fabricating understanding.
type FallbackResponder struct{}

// Call renders a minimal placeholder answer for the task in the last message.
func (FallbackResponder) Call(ctx context.Context, messages []zyn.Message, _ float32) (*zyn.ProviderResponse, error) {
	task := ""
	if len(messages) > 0 {
		task = messages[len(messages)-1].Content
	}

	subject := firstQuoted(task)
	if subject == "" {
		subject = "this idea"
	}

	capitan.Emit(ctx, FallbackEngaged, FieldConcept.Field(subject))

	content := fmt.Sprintf("%s is a notion I can only sketch in outline for now.", subject)
	if strings.Contains(task, "JSON array") {
		content = fmt.Sprintf("[\"%s in general\", \"%s in particular\"]", subject, subject)
	}

	return &zyn.ProviderResponse{Content: content}, nil
}

// Name identifies the degraded responder in logs and signals.
func (FallbackResponder) Name() string { return "fallback" }

// firstQuoted extracts the first single-quoted substring from a task string.
func firstQuoted(task string) string {
	start := strings.IndexByte(task, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(task[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return task[start+1 : start+1+end]
}

var _ Provider = FallbackResponder{}
