package animus

import (
	"context"
	"strings"
	"testing"
)

func TestStrategyScoreNeutralPrior(t *testing.T) {
	tr := NewTracker()
	if got := tr.StrategyScore("never_tried"); got != 0.5 {
		t.Errorf("untried strategy must score 0.5, got %v", got)
	}
}

func TestStrategyScoreBalancesSuccessAndPain(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	tr.RecordOutcome(ctx, "recursion", StrategyDirectDefine, true, -20)
	tr.RecordOutcome(ctx, "recursion", StrategyDirectDefine, false, 25)

	// success rate 0.5, avg pain 2.5: 0.7*0.5 + 0.3*(1-0.025) = 0.6425
	if got := tr.StrategyScore(StrategyDirectDefine); !near(got, 0.6425) {
		t.Errorf("expected 0.6425, got %v", got)
	}
}

func TestRecommendBestStrategyShortcut(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	// Make contextual_synthesis look great in general.
	for i := 0; i < 5; i++ {
		tr.RecordOutcome(ctx, "other", StrategyContextualSynthesis, true, -20)
	}
	// But direct_define is what actually worked on this concept.
	tr.RecordOutcome(ctx, "recursion", StrategyDirectDefine, true, -20)

	got, ok := tr.Recommend("recursion", strategyIDs(), 0)
	if !ok || got != StrategyDirectDefine {
		t.Errorf("recorded best strategy must win, got %q ok=%v", got, ok)
	}
}

func TestRecommendPainAdjustments(t *testing.T) {
	tr := NewTracker()
	candidates := []string{StrategyContextualSynthesis, StrategyDirectDefine}

	// All neutral priors; high pain must bias toward the direct strategy.
	got, ok := tr.Recommend("recursion", candidates, 80)
	if !ok || got != StrategyDirectDefine {
		t.Errorf("high pain must prefer direct strategies, got %q", got)
	}

	// Low pain: ties at 0.5 break by candidate order.
	got, _ = tr.Recommend("recursion", candidates, 0)
	if got != StrategyContextualSynthesis {
		t.Errorf("ties must break by candidate order, got %q", got)
	}
}

func TestRecommendFailedPenalty(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	tr.RecordOutcome(ctx, "recursion", StrategyDirectDefine, false, 25)

	got, _ := tr.Recommend("recursion", []string{StrategyDirectDefine, StrategyAnalogicalReasoning}, 0)
	if got != StrategyAnalogicalReasoning {
		t.Errorf("failed-on-concept strategy must lose to a neutral one, got %q", got)
	}
}

func TestRecommendEmptyCandidates(t *testing.T) {
	tr := NewTracker()
	if _, ok := tr.Recommend("recursion", nil, 0); ok {
		t.Error("no candidates means no recommendation")
	}
}

func TestRollingContextWindow(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		tr.RecordOutcome(ctx, "concept", StrategyDirectDefine, true, 0)
	}

	snap := tr.Snapshot()
	if got := len(snap.Strategies[StrategyDirectDefine].Contexts); got != DefaultContextWindow {
		t.Errorf("expected contexts capped at %d, got %d", DefaultContextWindow, got)
	}
	if snap.Strategies[StrategyDirectDefine].Attempts != 25 {
		t.Error("raw attempt count must not be windowed")
	}
}

func TestDifficultyScore(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	if got := tr.DifficultyScore("unknown"); got != 0.5 {
		t.Errorf("unknown concept must score 0.5, got %v", got)
	}

	tr.RecordOutcome(ctx, "hard", StrategyDirectDefine, false, 25)
	tr.RecordOutcome(ctx, "hard", StrategyDirectDefine, false, 25)
	tr.RecordOutcome(ctx, "hard", StrategyDirectDefine, true, -20)

	if got := tr.DifficultyScore("hard"); !near(got, 2.0/3.0) {
		t.Errorf("expected failure rate 2/3, got %v", got)
	}
}

func TestReflectInsights(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	tr.RecordOutcome(ctx, "a", StrategyDirectDefine, true, -20)
	tr.RecordOutcome(ctx, "b", StrategyAnalogicalReasoning, false, 25)
	tr.RecordOutcome(ctx, "c", StrategyContextualSynthesis, false, 25)

	// Concept "stuck" fails twice with zero successes.
	tr.RecordOutcome(ctx, "stuck", StrategyDirectDefine, false, 25)
	tr.RecordOutcome(ctx, "stuck", StrategyDirectDefine, false, 25)

	insights := tr.Reflect(ctx)
	if len(insights) < 3 {
		t.Fatalf("expected ranking and stuck-concept insights, got %v", insights)
	}
	if !strings.Contains(insights[0], "Most effective") {
		t.Errorf("expected best-strategy insight first, got %q", insights[0])
	}

	found := false
	for _, insight := range insights {
		if strings.Contains(insight, "Struggling with") {
			found = true
		}
	}
	if !found {
		t.Error("expected a stuck-concept insight")
	}
}

func TestReflectUpdatesMetaBelief(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		tr.RecordOutcome(ctx, "x", StrategyTopDownDecomposition, true, -10)
	}
	for i := 0; i < 2; i++ {
		tr.RecordOutcome(ctx, "x", StrategyTopDownDecomposition, false, 15)
	}

	tr.Reflect(ctx)
	if got := tr.Beliefs().AbstractNeedsDecomposition; !near(got, 0.8) {
		t.Errorf("expected decomposition belief 0.8, got %v", got)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	tr := NewTracker()
	ctx := context.Background()

	tr.RecordOutcome(ctx, "recursion", StrategyDirectDefine, true, -20)
	tr.RecordOutcome(ctx, "recursion", StrategyAnalogicalReasoning, false, 25)

	snap := tr.Snapshot()

	restored := NewTracker()
	restored.Restore(snap)

	if got := restored.StrategyScore(StrategyDirectDefine); !near(got, tr.StrategyScore(StrategyDirectDefine)) {
		t.Errorf("strategy score changed across restore: %v", got)
	}
	rec, ok := restored.Recommend("recursion", strategyIDs(), 0)
	if !ok || rec != StrategyDirectDefine {
		t.Errorf("best strategy lost across restore, got %q", rec)
	}
}

func TestSummary(t *testing.T) {
	tr := NewTracker()
	if got := tr.Summary(); got != "No learning history yet" {
		t.Errorf("unexpected empty summary %q", got)
	}

	tr.RecordOutcome(context.Background(), "a", StrategyDirectDefine, true, -20)
	if got := tr.Summary(); !strings.Contains(got, "100.0%") {
		t.Errorf("expected success rate in summary, got %q", got)
	}
}
