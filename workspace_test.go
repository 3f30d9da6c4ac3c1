package animus

import (
	"context"
	"testing"
)

// stubModule emits a fixed set of proposals and records what it observes.
type stubModule struct {
	name       string
	proposals  []Proposal
	broadcasts []Content
	ticks      int
	panics     bool
}

func (m *stubModule) Name() string { return m.name }

func (m *stubModule) Propose(context.Context, Snapshot) []Proposal {
	if m.panics {
		panic("stub module failure")
	}
	return m.proposals
}

func (m *stubModule) OnBroadcast(_ context.Context, content Content, _ Snapshot) {
	m.broadcasts = append(m.broadcasts, content)
}

func (m *stubModule) Tick(Snapshot) { m.ticks++ }

func near(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}

func deterministicWorkspace(modules []Module, opts ...WorkspaceOption) *Workspace {
	return NewWorkspace(modules, append([]WorkspaceOption{WithNoise(0)}, opts...)...)
}

func TestCycleIgnition(t *testing.T) {
	p := NewProposal("stub", "task", map[string]any{"concept": "recursion"}, 1.0, 1.0, 0.5, 0.5)
	module := &stubModule{name: "stub", proposals: []Proposal{p}}
	w := deterministicWorkspace([]Module{module})

	content, ok := w.Cycle(context.Background(), NewSnapshot())
	if !ok {
		t.Fatal("expected ignition")
	}

	// 0.40*1.0 + 0.25*1.0 + 0.20*0.5 + 0.15*0.5 = 0.825
	if !near(content.Activation, 0.825) {
		t.Errorf("expected activation 0.825, got %v", content.Activation)
	}
	if !content.Ignited {
		t.Error("expected content flagged ignited")
	}
	if content.Type != "task" {
		t.Errorf("expected type task, got %q", content.Type)
	}
	if module.ticks != 1 {
		t.Errorf("expected 1 tick, got %d", module.ticks)
	}
	if len(module.broadcasts) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(module.broadcasts))
	}
}

func TestCycleNoIgnitionBelowThreshold(t *testing.T) {
	p := NewProposal("stub", "task", nil, 0.2, 0.2, 0.2, 0.2)
	module := &stubModule{name: "stub", proposals: []Proposal{p}}
	w := deterministicWorkspace([]Module{module})

	_, ok := w.Cycle(context.Background(), NewSnapshot())
	if ok {
		t.Fatal("expected no conscious content")
	}
	if len(module.broadcasts) != 0 {
		t.Error("expected no broadcast without ignition or persistence")
	}
}

func TestAttentionGainBothDirections(t *testing.T) {
	// Raw score: 0.40*0.9 + 0.25*0.75 + 0.20*0.6 + 0.15*0.6 = 0.7575.
	build := func() []Module {
		p := NewProposal("stub", "task", nil, 0.9, 0.75, 0.6, 0.6)
		return []Module{&stubModule{name: "stub", proposals: []Proposal{p}}}
	}

	w := deterministicWorkspace(build(), WithIgnitionThreshold(0.7))
	snap := NewSnapshot()
	snap.AttentionGain = 0.5
	if _, ok := w.Cycle(context.Background(), snap); ok {
		t.Error("gain 0.5 should suppress an otherwise ignitable proposal")
	}

	w = deterministicWorkspace(build(), WithIgnitionThreshold(0.7))
	snap.AttentionGain = 1.2
	if _, ok := w.Cycle(context.Background(), snap); !ok {
		t.Error("gain 1.2 should push the proposal over threshold")
	}
}

func TestAggregationClampsEvidence(t *testing.T) {
	payload := map[string]any{"concept": "memory"}
	a := &stubModule{name: "a", proposals: []Proposal{
		NewProposal("a", "task", payload, 0.6, 0.4, 0.4, 0.4),
	}}
	b := &stubModule{name: "b", proposals: []Proposal{
		NewProposal("b", "task", payload, 0.6, 0.8, 0.8, 0.8),
	}}
	w := deterministicWorkspace([]Module{a, b})

	w.Cycle(context.Background(), NewSnapshot())

	scored := w.LastProposals()
	if len(scored) != 1 {
		t.Fatalf("expected 1 aggregated proposal, got %d", len(scored))
	}
	agg := scored[0]
	if !near(agg.Evidence, 1.0) {
		t.Errorf("expected evidence clamped to 1.0, got %v", agg.Evidence)
	}
	if !near(agg.Salience, 0.6) {
		t.Errorf("expected salience averaged to 0.6, got %v", agg.Salience)
	}
	if agg.Source != "multi" {
		t.Errorf("expected combined source multi, got %q", agg.Source)
	}
	if len(agg.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(agg.Sources))
	}
}

func TestFocusBonusAndRepetitionPenalty(t *testing.T) {
	payload := map[string]any{"concept": "memory"}
	module := &stubModule{name: "stub", proposals: []Proposal{
		NewProposal("stub", "task", payload, 0.5, 0.5, 0.5, 0.5),
	}}
	w := deterministicWorkspace([]Module{module})

	snap := NewSnapshot()
	snap.CurrentFocus = "memory"
	w.Cycle(context.Background(), snap)
	withBonus := w.LastProposals()[0].FinalScore()
	if !near(withBonus, 0.6) {
		t.Errorf("expected 0.5 base + 0.1 focus bonus = 0.6, got %v", withBonus)
	}

	snap.CurrentFocus = ""
	snap.RecentActions = []Action{{Type: "task", Concept: "memory"}}
	w.Cycle(context.Background(), snap)
	withPenalty := w.LastProposals()[0].FinalScore()
	if !near(withPenalty, 0.4) {
		t.Errorf("expected 0.5 base - 0.1 repetition penalty = 0.4, got %v", withPenalty)
	}
}

func TestPersistenceAndDecay(t *testing.T) {
	p := NewProposal("stub", "task", nil, 1.0, 1.0, 0.5, 0.5)
	module := &stubModule{name: "stub", proposals: []Proposal{p}}
	w := deterministicWorkspace([]Module{module}, WithPersistenceThreshold(0.7))
	ctx := context.Background()

	content, ok := w.Cycle(ctx, NewSnapshot())
	if !ok || !near(content.Activation, 0.825) {
		t.Fatalf("expected ignition at 0.825, got %v ok=%v", content.Activation, ok)
	}

	// Quiet cycles from here: the content must persist via decay.
	module.proposals = nil

	content, ok = w.Cycle(ctx, NewSnapshot())
	if !ok {
		t.Fatal("expected persistence on first quiet cycle")
	}
	if content.Ignited {
		t.Error("persisted content must drop the ignited flag")
	}
	want := 0.825 * 0.95
	if !near(content.Activation, want) {
		t.Errorf("expected ignited decay %v, got %v", want, content.Activation)
	}

	content, ok = w.Cycle(ctx, NewSnapshot())
	if !ok {
		t.Fatal("expected persistence on second quiet cycle")
	}
	want *= 0.90
	if !near(content.Activation, want) {
		t.Errorf("expected persisting decay %v, got %v", want, content.Activation)
	}

	// 0.705 * 0.90 = 0.635 < 0.7: cleared, workspace idle.
	if _, ok = w.Cycle(ctx, NewSnapshot()); ok {
		t.Fatal("expected content cleared below persistence threshold")
	}
	if _, ok = w.State().Current(); ok {
		t.Error("expected empty current content after clearing")
	}
}

func TestTieBreakFirstSeen(t *testing.T) {
	a := &stubModule{name: "a", proposals: []Proposal{
		NewProposal("a", "first", nil, 1.0, 1.0, 1.0, 1.0),
	}}
	b := &stubModule{name: "b", proposals: []Proposal{
		NewProposal("b", "second", nil, 1.0, 1.0, 1.0, 1.0),
	}}
	w := deterministicWorkspace([]Module{a, b})

	content, ok := w.Cycle(context.Background(), NewSnapshot())
	if !ok {
		t.Fatal("expected ignition")
	}
	if content.Type != "first" {
		t.Errorf("tie must break to the first-seen proposal, got %q", content.Type)
	}
}

func TestModulePanicContained(t *testing.T) {
	broken := &stubModule{name: "broken", panics: true}
	healthy := &stubModule{name: "healthy", proposals: []Proposal{
		NewProposal("healthy", "task", nil, 1.0, 1.0, 0.5, 0.5),
	}}
	w := deterministicWorkspace([]Module{broken, healthy})

	content, ok := w.Cycle(context.Background(), NewSnapshot())
	if !ok {
		t.Fatal("a panicking module must not sink the cycle")
	}
	if content.Type != "task" {
		t.Errorf("expected healthy module's proposal to win, got %q", content.Type)
	}
}

func TestHistoryLimit(t *testing.T) {
	module := &stubModule{name: "stub"}
	w := deterministicWorkspace([]Module{module}, WithHistoryLimit(2))
	ctx := context.Background()

	for _, kind := range []string{"one", "two", "three"} {
		module.proposals = []Proposal{NewProposal("stub", kind, nil, 1.0, 1.0, 1.0, 1.0)}
		if _, ok := w.Cycle(ctx, NewSnapshot()); !ok {
			t.Fatalf("expected ignition for %q", kind)
		}
	}

	history := w.State().History()
	if len(history) != 2 {
		t.Fatalf("expected history capped at 2, got %d", len(history))
	}
	if history[0].Type != "two" || history[1].Type != "three" {
		t.Errorf("expected oldest entry dropped, got %q then %q", history[0].Type, history[1].Type)
	}
}

func TestScoreBounds(t *testing.T) {
	module := &stubModule{name: "stub", proposals: []Proposal{
		NewProposal("stub", "task", map[string]any{"concept": "x"}, 1.0, 1.0, 1.0, 1.0),
	}}
	w := deterministicWorkspace([]Module{module})

	snap := NewSnapshot()
	snap.CurrentFocus = "x"
	snap.AttentionGain = 1.5
	w.Cycle(context.Background(), snap)

	for _, p := range w.LastProposals() {
		score := p.FinalScore()
		if score < 0 || score > 1.5 {
			t.Errorf("score %v outside [0, 1.5]", score)
		}
	}
}
