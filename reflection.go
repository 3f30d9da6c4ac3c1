package animus

import "context"

// Reflection is the meta-cognition module: it proposes pausing to reflect
// either on a fixed cadence or urgently when pain or confusion spikes. The
// cadence counter resets only when a reflection actually wins the workspace,
// so a starved reflection keeps pressing until it gets through.
type Reflection struct {
	tracker  *Tracker
	emotions *Emotions
	interval int
	since    int
}

// NewReflection creates the meta-cognition module with the default cadence.
func NewReflection(tracker *Tracker, emotions *Emotions) *Reflection {
	return &Reflection{
		tracker:  tracker,
		emotions: emotions,
		interval: DefaultReflectionInterval,
	}
}

// Name identifies the module in proposals and signals.
func (m *Reflection) Name() string { return "Reflection" }

// Tick advances the cycles-since-reflection counter.
func (m *Reflection) Tick(Snapshot) { m.since++ }

// Propose emits a reflect proposal when pain, confusion, or elapsed cycles
// demand one.
func (m *Reflection) Propose(_ context.Context, snap Snapshot) []Proposal {
	pain := m.emotions.TotalPain()
	confusion := m.emotions.State().Confusion

	urgent := pain > 70 || confusion > 0.7
	if !urgent && m.since < m.interval {
		return nil
	}

	trigger := "periodic"
	if urgent {
		trigger = "pain"
	}
	urgency := clamp((pain+confusion*100)/200, 0, 1)

	p := NewProposal(m.Name(), "reflect", map[string]any{
		"trigger": trigger,
		"cycle":   snap.Cycle,
	}, urgency, 0.5, 0.2, urgency)
	return []Proposal{p}
}

// OnBroadcast resets the cadence counter when a reflection wins, no matter
// which module proposed it.
func (m *Reflection) OnBroadcast(_ context.Context, content Content, _ Snapshot) {
	if content.Type == "reflect" {
		m.since = 0
	}
}
