package animus

import "context"

// Perception is the sensory module: it drains the input stream and converts
// events into percept proposals, weighting unknown concepts as the most novel.
type Perception struct {
	stream InputStream
	graph  Graph
}

// NewPerception creates the sensory module.
func NewPerception(stream InputStream, graph Graph) *Perception {
	return &Perception{stream: stream, graph: graph}
}

// Name identifies the module in proposals and signals.
func (m *Perception) Name() string { return "Perception" }

// Propose polls the stream once and converts any event into a percept
// proposal, scaled by the snapshot's perception scale.
func (m *Perception) Propose(_ context.Context, snap Snapshot) []Proposal {
	event, ok := m.stream.NextEvent(m.graph.Nodes())
	if !ok {
		return nil
	}

	novelty := 0.6
	if concept, found := event.Payload["concept"].(string); found && concept != "" {
		switch {
		case !m.graph.HasNode(concept):
			novelty = 1.0
		case !m.graph.Described(concept):
			novelty = 0.7
		default:
			novelty = 0.3
		}
	}

	scale := snap.PerceptionScale
	if scale == 0 {
		scale = 1.0
	}

	p := NewProposal(m.Name(), "percept", event.Payload,
		clamp(event.Salience*scale, 0, 1),
		clamp(event.Salience*scale, 0, 1),
		novelty,
		clamp((0.3+event.Salience*0.5)*scale, 0, 1),
	)
	return []Proposal{p}
}

// OnBroadcast is a no-op.
func (m *Perception) OnBroadcast(context.Context, Content, Snapshot) {}

// Tick is a no-op.
func (m *Perception) Tick(Snapshot) {}
