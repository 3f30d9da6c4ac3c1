package animus

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/zoobzio/capitan"
)

// OutcomeContext is one recorded attempt: which concept, whether it worked,
// and the pain it cost.
type OutcomeContext struct {
	Concept string  `json:"concept"`
	Success bool    `json:"success"`
	Pain    float64 `json:"pain"`
}

// StrategyStats accumulates per-strategy performance: raw counts, cumulative
// pain, and a rolling window of the most recent outcome contexts.
type StrategyStats struct {
	Attempts  int
	Successes int
	Failures  int
	TotalPain float64
	Contexts  []OutcomeContext
}

// AvgPain is the mean pain delta per attempt.
func (s StrategyStats) AvgPain() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return s.TotalPain / float64(s.Attempts)
}

// ConceptDifficulty accumulates per-concept history: attempt counts, the last
// strategy that succeeded, and every strategy that has failed on it.
type ConceptDifficulty struct {
	Attempts         int
	Successes        int
	BestStrategy     string
	FailedStrategies []string
}

func (c ConceptDifficulty) failed(strategy string) bool {
	for _, s := range c.FailedStrategies {
		if s == strategy {
			return true
		}
	}
	return false
}

// MetaBeliefs are slow-moving convictions about what kinds of strategies work,
// updated during reflection. Each is a probability-like score in [0, 1].
type MetaBeliefs struct {
	AbstractNeedsDecomposition float64
	SimpleWorksForConcrete     float64
	AnalogiesHelpComplex       float64
}

// DefaultMetaBeliefs starts every conviction at the neutral prior.
func DefaultMetaBeliefs() MetaBeliefs {
	return MetaBeliefs{
		AbstractNeedsDecomposition: 0.5,
		SimpleWorksForConcrete:     0.5,
		AnalogiesHelpComplex:       0.5,
	}
}

// LearningSnapshot is the tracker's full persistable state.
type LearningSnapshot struct {
	Strategies map[string]StrategyStats
	Concepts   map[string]ConceptDifficulty
	Beliefs    MetaBeliefs
}

// Tracker is the meta-learning layer: it owns strategy and concept statistics
// exclusively and converts them into recommendation scores.
type Tracker struct {
	strategies    map[string]*StrategyStats
	concepts      map[string]*ConceptDifficulty
	beliefs       MetaBeliefs
	contextWindow int
}

// NewTracker creates an empty learning tracker.
func NewTracker() *Tracker {
	return &Tracker{
		strategies:    make(map[string]*StrategyStats),
		concepts:      make(map[string]*ConceptDifficulty),
		beliefs:       DefaultMetaBeliefs(),
		contextWindow: DefaultContextWindow,
	}
}

// Snapshot copies the tracker state for persistence.
func (t *Tracker) Snapshot() LearningSnapshot {
	snap := LearningSnapshot{
		Strategies: make(map[string]StrategyStats, len(t.strategies)),
		Concepts:   make(map[string]ConceptDifficulty, len(t.concepts)),
		Beliefs:    t.beliefs,
	}
	for id, s := range t.strategies {
		copied := *s
		copied.Contexts = append([]OutcomeContext(nil), s.Contexts...)
		snap.Strategies[id] = copied
	}
	for name, c := range t.concepts {
		copied := *c
		copied.FailedStrategies = append([]string(nil), c.FailedStrategies...)
		snap.Concepts[name] = copied
	}
	return snap
}

// Restore replaces the tracker state from a persisted snapshot.
func (t *Tracker) Restore(snap LearningSnapshot) {
	t.strategies = make(map[string]*StrategyStats, len(snap.Strategies))
	for id, s := range snap.Strategies {
		copied := s
		t.strategies[id] = &copied
	}
	t.concepts = make(map[string]*ConceptDifficulty, len(snap.Concepts))
	for name, c := range snap.Concepts {
		copied := c
		t.concepts[name] = &copied
	}
	if (snap.Beliefs != MetaBeliefs{}) {
		t.beliefs = snap.Beliefs
	}
}

// Beliefs returns the current meta-beliefs.
func (t *Tracker) Beliefs() MetaBeliefs {
	return t.beliefs
}

func (t *Tracker) strategy(id string) *StrategyStats {
	s, ok := t.strategies[id]
	if !ok {
		s = &StrategyStats{}
		t.strategies[id] = s
	}
	return s
}

func (t *Tracker) concept(name string) *ConceptDifficulty {
	c, ok := t.concepts[name]
	if !ok {
		c = &ConceptDifficulty{}
		t.concepts[name] = c
	}
	return c
}

// RecordOutcome folds one goal outcome into both the strategy and concept
// statistics. Success overwrites the concept's best strategy; failure adds
// the strategy to the concept's failed set exactly once.
func (t *Tracker) RecordOutcome(ctx context.Context, concept, strategy string, success bool, painDelta float64) {
	stats := t.strategy(strategy)
	stats.Attempts++
	if success {
		stats.Successes++
	} else {
		stats.Failures++
	}
	stats.TotalPain += painDelta

	stats.Contexts = append(stats.Contexts, OutcomeContext{
		Concept: concept,
		Success: success,
		Pain:    painDelta,
	})
	if len(stats.Contexts) > t.contextWindow {
		stats.Contexts = stats.Contexts[len(stats.Contexts)-t.contextWindow:]
	}

	diff := t.concept(concept)
	diff.Attempts++
	if success {
		diff.Successes++
		diff.BestStrategy = strategy
	} else if !diff.failed(strategy) {
		diff.FailedStrategies = append(diff.FailedStrategies, strategy)
	}

	outcome := "failure"
	if success {
		outcome = "success"
	}
	capitan.Emit(ctx, LearningUpdated,
		FieldConcept.Field(concept),
		FieldStrategy.Field(strategy),
		FieldOutcome.Field(outcome),
		FieldPainDelta.Field(float32(painDelta)),
	)
}

// StrategyScore computes the effectiveness of a strategy: an untried strategy
// earns the neutral prior 0.5, otherwise the score balances success rate
// against average pain cost.
func (t *Tracker) StrategyScore(strategy string) float64 {
	stats, ok := t.strategies[strategy]
	if !ok || stats.Attempts == 0 {
		return 0.5
	}

	successRate := float64(stats.Successes) / float64(stats.Attempts)
	painPenalty := clamp(stats.AvgPain()/100, 0, 1)

	return successRate*0.7 + (1-painPenalty)*0.3
}

// DifficultyScore estimates how hard a concept is from its failure rate;
// unknown concepts score 0.5.
func (t *Tracker) DifficultyScore(concept string) float64 {
	diff, ok := t.concepts[concept]
	if !ok || diff.Attempts == 0 {
		return 0.5
	}
	return float64(diff.Attempts-diff.Successes) / float64(diff.Attempts)
}

// hasEvidence reports whether the tracker knows anything useful about the
// concept or any of the candidate strategies.
func (t *Tracker) hasEvidence(concept string, candidates []string) bool {
	if diff, ok := t.concepts[concept]; ok && diff.Attempts > 0 {
		return true
	}
	for _, c := range candidates {
		if s, ok := t.strategies[c]; ok && s.Attempts > 0 {
			return true
		}
	}
	return false
}

// Recommend selects the best candidate strategy for a concept. A recorded
// best strategy wins immediately when it is among the candidates. Otherwise
// every candidate is scored, adjusted for the current pain level (high pain
// biases toward simpler strategies and away from synthesis) and penalized if
// it previously failed on this exact concept. Ties break by candidate order.
func (t *Tracker) Recommend(concept string, candidates []string, currentPain float64) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	diff := t.concepts[concept]
	if diff != nil && diff.BestStrategy != "" {
		for _, c := range candidates {
			if c == diff.BestStrategy {
				return diff.BestStrategy, true
			}
		}
	}

	best := candidates[0]
	bestScore := -1.0
	for _, candidate := range candidates {
		score := t.StrategyScore(candidate)

		if currentPain > 60 {
			if strings.Contains(candidate, "direct") || strings.Contains(candidate, "simple") {
				score += 0.2
			} else if strings.Contains(candidate, "complex") || strings.Contains(candidate, "synthesis") {
				score -= 0.2
			}
		}

		if diff != nil && diff.failed(candidate) {
			score -= 0.3
		}

		score = clamp(score, 0, 1)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, true
}

// Reflect runs periodic meta-cognition over the accumulated statistics and
// returns human-readable insights. With enough total evidence it also updates
// the meta-belief about decomposition from that strategy's own observed
// success rate.
func (t *Tracker) Reflect(ctx context.Context) []string {
	var insights []string

	if len(t.strategies) >= 3 {
		ids := make([]string, 0, len(t.strategies))
		for id := range t.strategies {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			si, sj := t.StrategyScore(ids[i]), t.StrategyScore(ids[j])
			if si != sj {
				return si > sj
			}
			return ids[i] < ids[j]
		})
		insights = append(insights,
			"Most effective strategy: "+ids[0],
			"Least effective strategy: "+ids[len(ids)-1],
		)
	}

	stuck := 0
	for _, diff := range t.concepts {
		if diff.Attempts >= 2 && diff.Successes == 0 {
			stuck++
		}
	}
	if stuck > 0 {
		insights = append(insights, pluralInsight(stuck))
	}

	total := 0
	for _, s := range t.strategies {
		total += s.Attempts
	}
	if total >= 10 {
		if decomp, ok := t.strategies[StrategyTopDownDecomposition]; ok && decomp.Attempts > 0 {
			t.beliefs.AbstractNeedsDecomposition = float64(decomp.Successes) / float64(decomp.Attempts)
		}
	}

	capitan.Emit(ctx, ReflectionInsight, FieldCount.Field(len(insights)))
	return insights
}

func pluralInsight(stuck int) string {
	if stuck == 1 {
		return "Struggling with 1 concept despite multiple attempts"
	}
	return fmt.Sprintf("Struggling with %d concepts despite multiple attempts", stuck)
}

// Summary renders overall learning progress.
func (t *Tracker) Summary() string {
	total, successes := 0, 0
	for _, s := range t.strategies {
		total += s.Attempts
		successes += s.Successes
	}
	if total == 0 {
		return "No learning history yet"
	}

	rate := float64(successes) / float64(total) * 100
	return fmt.Sprintf("Tried %d strategies across %d concepts. Overall success rate: %.1f%%",
		len(t.strategies), len(t.concepts), rate)
}
