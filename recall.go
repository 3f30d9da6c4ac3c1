package animus

import "context"

// Memory is the broadcast-listening module that keeps the knowledge graph and
// working memory in sync with whatever is currently conscious. It never
// proposes; it only absorbs.
type Memory struct {
	graph Graph
}

// NewMemory creates the memory module.
func NewMemory(graph Graph) *Memory {
	return &Memory{graph: graph}
}

// Name identifies the module in proposals and signals.
func (m *Memory) Name() string { return "Memory" }

// Propose never proposes.
func (m *Memory) Propose(context.Context, Snapshot) []Proposal { return nil }

// OnBroadcast registers the broadcast concept in the graph if it is new and
// touches it in working memory.
func (m *Memory) OnBroadcast(_ context.Context, content Content, _ Snapshot) {
	concept := content.Concept()
	if concept == "" {
		return
	}

	if !m.graph.HasNode(concept) {
		m.graph.AddNode(concept)
	}
	m.graph.UpdateWorkingMemory(concept)
}

// Tick is a no-op.
func (m *Memory) Tick(Snapshot) {}
