package animus

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/zoobzio/capitan"
)

// Agent is the driver: it owns the active-goal list and the current focus,
// builds the context snapshot for each cycle, executes whatever content wins
// the workspace, and periodically decays emotions and persists state.
type Agent struct {
	workspace *Workspace
	planner   *Planner
	graph     Graph
	emotions  *Emotions
	tracker   *Tracker
	store     Store

	goals          []*Goal
	focus          string
	cycle          int
	recentExplores []string
	recentActions  []Action

	decayInterval int
	recencyLimit  int
	rng           *rand.Rand
}

// AgentOption configures an Agent.
type AgentOption func(*Agent)

// WithStore attaches the persistence collaborator. Without one the agent runs
// entirely in memory.
func WithStore(store Store) AgentOption {
	return func(a *Agent) { a.store = store }
}

// WithDecayInterval sets how many cycles pass between emotional decay
// applications.
func WithDecayInterval(n int) AgentOption {
	return func(a *Agent) { a.decayInterval = n }
}

// WithAgentRand injects the randomness source used for initial focus
// selection.
func WithAgentRand(rng *rand.Rand) AgentOption {
	return func(a *Agent) { a.rng = rng }
}

// NewAgent wires the driver to its collaborators.
func NewAgent(workspace *Workspace, planner *Planner, graph Graph, emotions *Emotions, tracker *Tracker, opts ...AgentOption) *Agent {
	a := &Agent{
		workspace:     workspace,
		planner:       planner,
		graph:         graph,
		emotions:      emotions,
		tracker:       tracker,
		decayInterval: DefaultDecayInterval,
		recencyLimit:  DefaultRecencyLimit,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load restores persisted emotional and learning state. Failure to load
// existing state is fatal: a mind that silently forgets is worse than one
// that refuses to start.
func (a *Agent) Load(ctx context.Context) error {
	if a.store == nil {
		return nil
	}

	state, beliefs, found, err := a.store.LoadEmotions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load emotional state: %w", err)
	}
	if found {
		a.emotions.SetState(state)
	}

	snap, found, err := a.store.LoadLearning(ctx)
	if err != nil {
		return fmt.Errorf("failed to load learning state: %w", err)
	}
	if found {
		snap.Beliefs = beliefs
		a.tracker.Restore(snap)
	}
	return nil
}

// Save persists the current emotional and learning state.
func (a *Agent) Save(ctx context.Context) error {
	if a.store == nil {
		return nil
	}

	if err := a.store.SaveEmotions(ctx, a.emotions.State(), a.tracker.Beliefs()); err != nil {
		return fmt.Errorf("failed to save emotional state: %w", err)
	}
	if err := a.store.SaveLearning(ctx, a.tracker.Snapshot()); err != nil {
		return fmt.Errorf("failed to save learning state: %w", err)
	}
	return nil
}

// AddGoal forms and queues a goal to understand the concept.
func (a *Agent) AddGoal(ctx context.Context, concept string) *Goal {
	goal := a.planner.NewGoal(ctx, concept)
	a.goals = append(a.goals, goal)
	return goal
}

// Goals returns the active goals, current first.
func (a *Agent) Goals() []*Goal {
	out := make([]*Goal, len(a.goals))
	copy(out, a.goals)
	return out
}

// Focus returns the concept currently being attended to.
func (a *Agent) Focus() string {
	return a.focus
}

// snapshot fixes the read-only context for one cycle.
func (a *Agent) snapshot() Snapshot {
	snap := NewSnapshot()
	snap.ActiveGoals = a.Goals()
	snap.CurrentFocus = a.focus
	snap.Cycle = a.cycle
	snap.AttentionGain = a.emotions.AttentionGain()
	snap.RecentExplores = append([]string(nil), a.recentExplores...)
	snap.RecentActions = append([]Action(nil), a.recentActions...)
	return snap
}

// Cycle runs one full cognitive cycle: snapshot, workspace competition,
// execution of the winning content, and periodic emotional decay.
func (a *Agent) Cycle(ctx context.Context) (Content, bool) {
	a.cycle++

	if a.focus == "" && len(a.goals) == 0 {
		a.pickInitialFocus()
	}

	content, conscious := a.workspace.Cycle(ctx, a.snapshot())
	if conscious {
		a.execute(ctx, content)
		a.recordEpisode(ctx, content)
	}

	if a.decayInterval > 0 && a.cycle%a.decayInterval == 0 {
		a.emotions.Decay(ctx, a.decayInterval)
	}

	return content, conscious
}

// Run drives the loop for the given number of cycles, stopping early when the
// context is canceled. State is saved on the way out.
func (a *Agent) Run(ctx context.Context, cycles int) error {
	for i := 0; i < cycles; i++ {
		if err := ctx.Err(); err != nil {
			break
		}
		a.Cycle(ctx)
	}
	return a.Save(ctx)
}

func (a *Agent) pickInitialFocus() {
	nodes := a.graph.Nodes()
	if len(nodes) == 0 {
		return
	}
	a.focus = nodes[a.rng.Intn(len(nodes))]
}

// execute applies the winning content to external state. Only freshly ignited
// content triggers action; persisting content holds attention without
// re-executing.
func (a *Agent) execute(ctx context.Context, content Content) {
	if !content.Ignited {
		return
	}

	switch content.Type {
	case "goal_execute":
		a.executeGoal(ctx, content)
	case "goal_switch":
		a.switchGoal(content)
	case "explore":
		a.explore(content)
	case "reflect":
		a.tracker.Reflect(ctx)
	case "percept":
		if concept := content.Concept(); concept != "" {
			a.focus = concept
		}
	case "analogy":
		a.connectAnalogy(content)
	}

	a.recordAction(Action{Type: content.Type, Concept: content.Concept()})
}

func (a *Agent) executeGoal(ctx context.Context, content Content) {
	goal, ok := content.Payload["goal"].(*Goal)
	if !ok || goal == nil {
		return
	}
	a.focus = goal.Concept

	outcome, err := a.planner.Execute(ctx, goal)
	if err != nil && outcome.Reason == "" {
		outcome = Outcome{Reason: "execution failed", PainDelta: 15}
	}
	a.planner.Apply(ctx, goal, outcome)

	if !outcome.Success {
		return
	}

	a.removeGoal(goal.ID)
	for _, sub := range outcome.Subconcepts {
		if !a.graph.Described(sub) {
			a.AddGoal(ctx, sub)
		}
	}
}

func (a *Agent) switchGoal(content Content) {
	next, ok := content.Payload["new_goal"].(*Goal)
	if !ok || next == nil {
		return
	}
	old, _ := content.Payload["old_goal"].(*Goal)

	if old != nil {
		a.removeGoal(old.ID)
	} else if len(a.goals) > 0 {
		a.goals = a.goals[1:]
	}

	if next.Strategy == StrategyWandering {
		// Every strategy failed; let the concept go and wander instead.
		a.focus = next.Concept
		return
	}
	a.goals = append([]*Goal{next}, a.goals...)
}

func (a *Agent) explore(content Content) {
	target := content.Concept()
	if target == "" {
		return
	}

	a.focus = target
	a.emotions.UpdateOnExploration()

	a.recentExplores = append(a.recentExplores, target)
	if len(a.recentExplores) > a.recencyLimit {
		a.recentExplores = a.recentExplores[len(a.recentExplores)-a.recencyLimit:]
	}
}

func (a *Agent) connectAnalogy(content Content) {
	pair, ok := content.Payload["concept_pair"].([]string)
	if !ok || len(pair) != 2 {
		return
	}
	a.graph.AddConnection(pair[0], pair[1], "analogous_to")
}

func (a *Agent) removeGoal(id string) {
	for i, g := range a.goals {
		if g.ID == id {
			a.goals = append(a.goals[:i], a.goals[i+1:]...)
			return
		}
	}
}

func (a *Agent) recordAction(action Action) {
	a.recentActions = append(a.recentActions, action)
	if len(a.recentActions) > a.recencyLimit {
		a.recentActions = a.recentActions[len(a.recentActions)-a.recencyLimit:]
	}
}

// recordEpisode logs the broadcast to the store. Episode logging is best
// effort; a storage failure never interrupts the cycle.
func (a *Agent) recordEpisode(ctx context.Context, content Content) {
	if a.store == nil {
		return
	}
	if err := a.store.SaveEpisode(ctx, content); err != nil {
		capitan.Emit(ctx, ModuleFailed,
			FieldModule.Field("store"),
			FieldError.Field(err),
		)
	}
}
