package animus

import "context"

// GoalPlanner is the goal-directed module: loud when an active goal exists,
// silent otherwise. When the planner signals retreat it proposes a strategy
// switch instead of another execution.
type GoalPlanner struct {
	planner  *Planner
	emotions *Emotions
}

// NewGoalPlanner creates the goal-directed module.
func NewGoalPlanner(planner *Planner, emotions *Emotions) *GoalPlanner {
	return &GoalPlanner{planner: planner, emotions: emotions}
}

// Name identifies the module in proposals and signals.
func (m *GoalPlanner) Name() string { return "GoalPlanner" }

// Propose emits either a strategy switch or a goal execution for the current
// goal. Priority tracks the focus drive scaled by confidence.
func (m *GoalPlanner) Propose(ctx context.Context, snap Snapshot) []Proposal {
	goal, ok := snap.CurrentGoal()
	if !ok {
		return nil
	}

	if m.planner.ShouldRetreat(goal) {
		alternative := m.planner.Alternative(ctx, goal)
		p := NewProposal(m.Name(), "goal_switch", map[string]any{
			"concept":  goal.Concept,
			"old_goal": goal,
			"new_goal": alternative,
		}, 0.7, 0.5, 0.3, 0.6)
		return []Proposal{p}
	}

	drives := m.emotions.DriveVector()
	confidence := m.emotions.State().Confidence
	focusDrive := drives.Focus / 100

	p := NewProposal(m.Name(), "goal_execute", map[string]any{
		"goal":    goal,
		"concept": goal.Concept,
	},
		clamp(focusDrive*confidence, 0, 1),
		clamp(focusDrive, 0, 1),
		0.2,
		clamp(confidence, 0, 1),
	)
	return []Proposal{p}
}

// OnBroadcast is a no-op; goal consequences are applied by the driver.
func (m *GoalPlanner) OnBroadcast(context.Context, Content, Snapshot) {}

// Tick is a no-op.
func (m *GoalPlanner) Tick(Snapshot) {}
