package animus

import "context"

// Exploration is the wandering module: it proposes visiting a new concept when
// boredom or the exploration drive runs high, or whenever no goal holds the
// floor. An optional novelty supplier injects concepts from outside the graph
// when the graph itself has nothing left to offer.
type Exploration struct {
	graph    Graph
	emotions *Emotions
	novelty  func() string
}

// ExplorationOption configures the exploration module.
type ExplorationOption func(*Exploration)

// WithNoveltySupplier registers a source of fresh concepts consulted when the
// graph yields no exploration target.
func WithNoveltySupplier(fn func() string) ExplorationOption {
	return func(m *Exploration) { m.novelty = fn }
}

// NewExploration creates the wandering module.
func NewExploration(graph Graph, emotions *Emotions, opts ...ExplorationOption) *Exploration {
	m := &Exploration{graph: graph, emotions: emotions}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name identifies the module in proposals and signals.
func (m *Exploration) Name() string { return "Exploration" }

// Propose emits an explore proposal for the most interesting reachable
// concept, staying quiet while a goal is active and the drives do not demand
// novelty.
func (m *Exploration) Propose(_ context.Context, snap Snapshot) []Proposal {
	if !snap.ExplorationAllowed {
		return nil
	}

	drives := m.emotions.DriveVector()
	if !drives.ShouldExplore && len(snap.ActiveGoals) > 0 {
		return nil
	}

	target := m.graph.ExplorationTarget(snap.CurrentFocus, snap.RecentExplores)
	if target == "" && m.novelty != nil {
		target = m.novelty()
	}
	if target == "" || snap.recentlyExplored(target) {
		return nil
	}

	boredom := m.emotions.TotalBoredom()

	novelty := 0.4
	if !m.graph.Described(target) {
		novelty = 0.8
	}

	p := NewProposal(m.Name(), "explore", map[string]any{
		"target_concept": target,
	},
		clamp((drives.Exploration+boredom)/200, 0, 1),
		clamp(drives.Exploration/100, 0, 1),
		novelty,
		clamp(boredom/100, 0, 1),
	)
	return []Proposal{p}
}

// OnBroadcast is a no-op; exploration consequences flow through the driver.
func (m *Exploration) OnBroadcast(context.Context, Content, Snapshot) {}

// Tick is a no-op.
func (m *Exploration) Tick(Snapshot) {}
