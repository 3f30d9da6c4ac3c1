package animus

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zoobzio/zyn"
)

func TestProviderResolutionOrder(t *testing.T) {
	SetProvider(nil)
	defer SetProvider(nil)

	// Nothing configured anywhere.
	if _, err := ResolveProvider(context.Background(), nil); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}

	global := &scriptedProvider{responses: []string{"global"}}
	SetProvider(global)
	p, err := ResolveProvider(context.Background(), nil)
	if err != nil || p.Name() != "scripted" {
		t.Fatalf("expected global provider, got %v err=%v", p, err)
	}

	// Context beats global.
	ctxProvider := FallbackResponder{}
	ctx := WithProvider(context.Background(), ctxProvider)
	p, err = ResolveProvider(ctx, nil)
	if err != nil || p.Name() != "fallback" {
		t.Fatalf("expected context provider, got %v err=%v", p, err)
	}

	// Explicit beats both.
	explicit := &scriptedProvider{responses: []string{"explicit"}}
	p, err = ResolveProvider(ctx, explicit)
	if err != nil || p != Provider(explicit) {
		t.Fatalf("expected explicit provider, got %v err=%v", p, err)
	}
}

func TestProviderFromContext(t *testing.T) {
	if _, ok := ProviderFromContext(context.Background()); ok {
		t.Error("expected no provider in bare context")
	}

	ctx := WithProvider(context.Background(), FallbackResponder{})
	p, ok := ProviderFromContext(ctx)
	if !ok || p.Name() != "fallback" {
		t.Errorf("expected fallback provider in context, got %v ok=%v", p, ok)
	}
}

func TestCompleteStripsThinking(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"<think>internal monologue about the task</think>\nRecursion is self-reference in action.",
	}}
	r := NewReasoner(WithReasonerProvider(provider))

	got, err := r.Complete(context.Background(), "Define 'recursion'.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Recursion is self-reference in action." {
		t.Errorf("expected monologue stripped, got %q", got)
	}
}

func TestCompleteKeepsResponseWhenOnlyThinking(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"<think>nothing after the tag"}}
	r := NewReasoner(WithReasonerProvider(provider))

	got, err := r.Complete(context.Background(), "task")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "<think>nothing after the tag" {
		t.Errorf("unclosed tag must pass through trimmed, got %q", got)
	}
}

func TestCompleteSendsSystemContract(t *testing.T) {
	var captured []zyn.Message
	provider := &captureProvider{out: "fine answer here today", messages: &captured}
	r := NewReasoner(WithReasonerProvider(provider))

	if _, err := r.Complete(context.Background(), "the task"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captured) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(captured))
	}
	if captured[0].Role != "system" || !strings.Contains(captured[0].Content, "thought synthesizer") {
		t.Errorf("expected strict system contract, got %+v", captured[0])
	}
	if captured[1].Content != "the task" {
		t.Errorf("expected task as user message, got %q", captured[1].Content)
	}
}

type captureProvider struct {
	out      string
	messages *[]zyn.Message
}

func (p *captureProvider) Call(_ context.Context, messages []zyn.Message, _ float32) (*zyn.ProviderResponse, error) {
	*p.messages = messages
	return &zyn.ProviderResponse{Content: p.out}, nil
}

func (p *captureProvider) Name() string { return "capture" }

func TestFallbackResponder(t *testing.T) {
	ctx := context.Background()

	resp, err := FallbackResponder{}.Call(ctx, []zyn.Message{
		{Role: "user", Content: "Define the concept 'wonder' in one sentence."},
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(resp.Content, "wonder") {
		t.Errorf("expected answer keyed off quoted subject, got %q", resp.Content)
	}

	resp, _ = FallbackResponder{}.Call(ctx, []zyn.Message{
		{Role: "user", Content: "Break 'wonder' into parts. Output as JSON array: [\"a\"]"},
	}, 0)
	if !strings.HasPrefix(resp.Content, "[") {
		t.Errorf("array task must get an array-shaped answer, got %q", resp.Content)
	}

	resp, _ = FallbackResponder{}.Call(ctx, nil, 0)
	if !strings.Contains(resp.Content, "this idea") {
		t.Errorf("no quoted subject must fall back to generic text, got %q", resp.Content)
	}
}
