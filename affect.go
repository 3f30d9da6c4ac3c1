package animus

import "context"

// Emotion is the affect-listening module: broadcasts feed back into the
// emotional state. Percepts count as exploration; a completed reflection
// clears a little confusion.
type Emotion struct {
	emotions *Emotions
}

// NewEmotion creates the affect module.
func NewEmotion(emotions *Emotions) *Emotion {
	return &Emotion{emotions: emotions}
}

// Name identifies the module in proposals and signals.
func (m *Emotion) Name() string { return "Emotion" }

// Propose never proposes.
func (m *Emotion) Propose(context.Context, Snapshot) []Proposal { return nil }

// OnBroadcast reacts to what became conscious.
func (m *Emotion) OnBroadcast(_ context.Context, content Content, _ Snapshot) {
	switch content.Type {
	case "percept":
		m.emotions.UpdateOnExploration()
	case "reflect":
		m.emotions.ReduceConfusion(0.1)
	}
}

// Tick is a no-op.
func (m *Emotion) Tick(Snapshot) {}
