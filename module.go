package animus

import "context"

// Module is a polymorphic proposal source. Implementations must keep Propose
// side-effect-free apart from their own internal counters, and must return an
// empty slice rather than fail when they have nothing to offer.
//
// OnBroadcast is invoked with the winning content for every module regardless
// of which module sourced it, enabling cross-module learning. Tick runs once
// at the start of every cycle for counter upkeep and carries no return value.
type Module interface {
	Name() string
	Propose(ctx context.Context, snap Snapshot) []Proposal
	OnBroadcast(ctx context.Context, content Content, snap Snapshot)
	Tick(snap Snapshot)
}

// Action records a previously executed (type, concept) pair for repetition
// detection.
type Action struct {
	Type    string
	Concept string
}

// Snapshot is the read-only context the driver fixes at cycle start and
// passes to every module. No module observes another module's proposals
// before broadcast.
type Snapshot struct {
	// ActiveGoals is ordered; the first entry is the current goal.
	ActiveGoals []*Goal

	// CurrentFocus is the concept the agent is attending to, or empty.
	CurrentFocus string

	// Cycle is the driver's cycle counter.
	Cycle int

	// AttentionGain scales all proposal scores; the workspace clamps it to
	// [0.5, 1.5].
	AttentionGain float64

	// ExplorationAllowed gates the exploration module.
	ExplorationAllowed bool

	// PerceptionScale scales percept signal strengths.
	PerceptionScale float64

	// RecentExplores and RecentActions are bounded recency lists maintained
	// by the driver.
	RecentExplores []string
	RecentActions  []Action
}

// NewSnapshot returns a snapshot with every optional field at its documented
// default: attention gain 1.0, exploration allowed, perception scale 1.0.
func NewSnapshot() Snapshot {
	return Snapshot{
		AttentionGain:      1.0,
		ExplorationAllowed: true,
		PerceptionScale:    1.0,
	}
}

// CurrentGoal returns the first active goal, if any.
func (s Snapshot) CurrentGoal() (*Goal, bool) {
	if len(s.ActiveGoals) == 0 {
		return nil, false
	}
	return s.ActiveGoals[0], true
}

// repeats reports whether an identical (type, concept) action appears among
// the last three recorded actions.
func (s Snapshot) repeats(contentType, concept string) bool {
	if concept == "" {
		return false
	}
	actions := s.RecentActions
	if len(actions) > 3 {
		actions = actions[len(actions)-3:]
	}
	for _, a := range actions {
		if a.Type == contentType && a.Concept == concept {
			return true
		}
	}
	return false
}

// recentlyExplored reports whether the concept is in the recent-explores ring.
func (s Snapshot) recentlyExplored(concept string) bool {
	for _, c := range s.RecentExplores {
		if c == concept {
			return true
		}
	}
	return false
}
