package animus

import "context"

// PatternRecognition is the analogy-hunting module: every few cycles it scans
// the working memory for the concept most structurally similar to the current
// focus and proposes exploring the parallel.
type PatternRecognition struct {
	graph    Graph
	emotions *Emotions
	interval int
	since    int
}

// NewPatternRecognition creates the analogy module with the default cooldown.
func NewPatternRecognition(graph Graph, emotions *Emotions) *PatternRecognition {
	return &PatternRecognition{
		graph:    graph,
		emotions: emotions,
		interval: DefaultPatternInterval,
	}
}

// Name identifies the module in proposals and signals.
func (m *PatternRecognition) Name() string { return "PatternRecognition" }

// Tick advances the cooldown counter.
func (m *PatternRecognition) Tick(Snapshot) { m.since++ }

// Propose scans the front of working memory against the current focus and
// proposes the strongest analogy found, if it clears the similarity floor.
func (m *PatternRecognition) Propose(_ context.Context, snap Snapshot) []Proposal {
	if m.since < m.interval {
		return nil
	}
	m.since = 0

	focus := snap.CurrentFocus
	if focus == "" || !m.graph.HasNode(focus) {
		return nil
	}

	working := m.graph.WorkingMemory()
	if len(working) < 2 {
		return nil
	}
	if len(working) > 5 {
		working = working[:5]
	}

	bestScore := 0.0
	bestMatch := ""
	for _, concept := range working {
		if concept == focus {
			continue
		}
		score, _ := m.graph.Analogies(focus, concept)
		if score > bestScore {
			bestScore = score
			bestMatch = concept
		}
	}
	if bestScore < 0.3 || bestMatch == "" {
		return nil
	}

	epistemic := m.emotions.State().Curiosity.Epistemic

	p := NewProposal(m.Name(), "analogy", map[string]any{
		"concept_pair":  []string{focus, bestMatch},
		"analogy_score": bestScore,
	},
		clamp(bestScore, 0, 1),
		clamp(epistemic/100, 0, 1),
		clamp(bestScore, 0, 1),
		0.4,
	)
	return []Proposal{p}
}

// OnBroadcast is a no-op.
func (m *PatternRecognition) OnBroadcast(context.Context, Content, Snapshot) {}
