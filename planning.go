package animus

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
)

// Goal is one pursued intention: understand a concept using a chosen strategy.
// Attempts counts executions under the current strategy and resets when the
// strategy switches.
type Goal struct {
	ID           string
	Concept      string
	Strategy     string
	StrategyName string
	Attempts     int
	CreatedAt    time.Time
}

// Outcome is the classified result of one goal execution.
type Outcome struct {
	Success     bool
	Definition  string
	Subconcepts []string
	PainDelta   float64
	Reason      string
}

// Planner is the goal formation and execution engine. It selects strategies
// from learning history, drives the reasoning pipeline, classifies results,
// and folds consequences back into the graph, emotions, and tracker.
type Planner struct {
	graph    Graph
	emotions *Emotions
	tracker  *Tracker
	reasoner *Reasoner
	rng      *rand.Rand
	timeout  time.Duration
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithPlannerRand injects the randomness source used for stochastic strategy
// fallbacks. Tests pin this for reproducibility.
func WithPlannerRand(rng *rand.Rand) PlannerOption {
	return func(p *Planner) { p.rng = rng }
}

// WithExecutionTimeout bounds each reasoning call.
func WithExecutionTimeout(d time.Duration) PlannerOption {
	return func(p *Planner) { p.timeout = d }
}

// NewPlanner wires the planner to its collaborators.
func NewPlanner(graph Graph, emotions *Emotions, tracker *Tracker, reasoner *Reasoner, opts ...PlannerOption) *Planner {
	p := &Planner{
		graph:    graph,
		emotions: emotions,
		tracker:  tracker,
		reasoner: reasoner,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SelectStrategy picks the strategy for a concept. High pain or confusion
// restricts candidates to the simpler tiers, learning history recommends among
// what remains, and when history is silent the concept's graph distance to
// understood territory decides.
func (p *Planner) SelectStrategy(concept string) string {
	drives := p.emotions.DriveVector()

	candidates := strategyIDs()
	if drives.ShouldSimplify {
		candidates = strategyIDs(TierSimple, TierModerate)
	}

	// Recommend always answers once given candidates, so only defer to it
	// when the tracker actually has evidence to recommend from.
	if p.tracker.hasEvidence(concept, candidates) {
		if recommended, ok := p.tracker.Recommend(concept, candidates, p.emotions.TotalPain()); ok {
			return recommended
		}
	}

	return p.strategyFromStructure(concept)
}

// strategyFromStructure falls back on graph topology when no learning history
// exists: adjacent to understood concepts means a direct definition will
// stick, far from anything understood calls for analogies or decomposition,
// and middle distances get synthesis from the surrounding context.
func (p *Planner) strategyFromStructure(concept string) string {
	distance := p.distanceToUnderstood(concept)

	switch {
	case distance == 0:
		return StrategyDirectDefine
	case distance > 3:
		if p.rng.Intn(2) == 0 {
			return StrategyAnalogicalReasoning
		}
		return StrategyTopDownDecomposition
	default:
		return StrategyContextualSynthesis
	}
}

func (p *Planner) distanceToUnderstood(concept string) int {
	if mg, ok := p.graph.(*MemoryGraph); ok {
		return mg.DistanceToUnderstood(concept, 5)
	}
	for _, n := range p.graph.ConnectedNodes(concept) {
		if p.graph.Described(n) {
			return 1
		}
	}
	return 2
}

// NewGoal forms a goal for the concept with a freshly selected strategy.
func (p *Planner) NewGoal(ctx context.Context, concept string) *Goal {
	strategyID := p.SelectStrategy(concept)
	strategy, _ := StrategyByID(strategyID)

	goal := &Goal{
		ID:           uuid.New().String(),
		Concept:      concept,
		Strategy:     strategyID,
		StrategyName: strategy.Name,
		CreatedAt:    time.Now(),
	}

	capitan.Emit(ctx, GoalCreated,
		FieldGoalID.Field(goal.ID),
		FieldConcept.Field(concept),
		FieldStrategy.Field(strategyID),
	)
	return goal
}

// Execute runs one attempt at the goal: compose the emotionally modulated
// task, complete it through the provider with a degraded fallback, and
// classify the response. The goal's attempt counter advances regardless of
// outcome.
func (p *Planner) Execute(ctx context.Context, goal *Goal) (Outcome, error) {
	strategy, ok := StrategyByID(goal.Strategy)
	if !ok {
		strategy, _ = StrategyByID(StrategyDirectDefine)
	}
	goal.Attempts++

	compose := Transform("compose-task", func(_ context.Context, a *Attempt) *Attempt {
		task := strategy.Task(goal.Concept, p.graph.ConnectedNodes(goal.Concept))

		contextType := "definition"
		if strategy.ID == StrategyContextualSynthesis {
			contextType = "synthesis"
		}
		a.Task = p.emotions.ModulatePrompt(task, contextType)
		return a
	})

	complete := Do("complete", func(ctx context.Context, a *Attempt) (*Attempt, error) {
		response, err := p.reasoner.Complete(ctx, a.Task)
		if err != nil {
			return a, err
		}
		a.Response = response
		return a, nil
	})

	degraded := Do("degraded-complete", func(ctx context.Context, a *Attempt) (*Attempt, error) {
		response, err := NewReasoner(WithReasonerProvider(FallbackResponder{})).Complete(ctx, a.Task)
		if err != nil {
			return a, err
		}
		a.Response = response
		return a, nil
	})

	classify := Transform("classify", func(_ context.Context, a *Attempt) *Attempt {
		if strategy.Decomposes() {
			a.Outcome = classifyDecomposition(a.Response)
		} else {
			a.Outcome = classifyDefinition(a.Response)
		}
		return a
	})

	chain := Sequence("goal-attempt",
		compose,
		Timeout("bounded-complete", Fallback("resilient-complete", complete, degraded), p.timeout),
		classify,
	)

	result, err := chain.Process(ctx, &Attempt{Goal: goal})
	if err != nil {
		return Outcome{Success: false, PainDelta: 15, Reason: "execution failed"}, err
	}

	outcome := result.Outcome
	status := "failure"
	if outcome.Success {
		status = "success"
	}
	capitan.Emit(ctx, GoalOutcome,
		FieldGoalID.Field(goal.ID),
		FieldConcept.Field(goal.Concept),
		FieldStrategy.Field(goal.Strategy),
		FieldOutcome.Field(status),
		FieldAttempts.Field(goal.Attempts),
		FieldPainDelta.Field(float32(outcome.PainDelta)),
	)
	return outcome, nil
}

// Apply folds an outcome into the engine's state: the graph learns the
// definition or sub-concepts, the emotional model reacts, and the learning
// tracker records the attempt.
func (p *Planner) Apply(ctx context.Context, goal *Goal, outcome Outcome) {
	if outcome.Success {
		if outcome.Definition != "" {
			p.graph.Describe(goal.Concept, outcome.Definition)
		}
		for _, sub := range outcome.Subconcepts {
			p.graph.AddConnection(goal.Concept, sub, "composed_of")
		}
		p.emotions.UpdateOnSuccess(1 + p.tracker.DifficultyScore(goal.Concept))
	} else {
		p.emotions.UpdateOnFailure(goal.Attempts > 1)
	}

	p.tracker.RecordOutcome(ctx, goal.Concept, goal.Strategy, outcome.Success, outcome.PainDelta)
}

// ShouldRetreat reports whether the goal should be abandoned or switched:
// three failed attempts under the current strategy, or the retreat drive
// crossing its threshold.
func (p *Planner) ShouldRetreat(goal *Goal) bool {
	if goal.Attempts >= RetreatAttempts {
		return true
	}
	return p.emotions.DriveVector().Retreat > RetreatDrive
}

// Alternative switches the goal to any strategy other than the one that just
// failed, preferring the tracker's recommendation; the recommendation already
// penalizes strategies with a failure history on this concept. In the
// degenerate case of no alternatives the goal degrades to unconditional
// wandering so the engine keeps moving instead of looping.
func (p *Planner) Alternative(ctx context.Context, goal *Goal) *Goal {
	var candidates []string
	for _, id := range strategyIDs() {
		if id == goal.Strategy {
			continue
		}
		candidates = append(candidates, id)
	}

	next := StrategyWandering
	nextName := "Wandering"
	if len(candidates) > 0 {
		if recommended, ok := p.tracker.Recommend(goal.Concept, candidates, p.emotions.TotalPain()); ok {
			next = recommended
		} else {
			next = candidates[p.rng.Intn(len(candidates))]
		}
		if s, ok := StrategyByID(next); ok {
			nextName = s.Name
		}
	}

	capitan.Emit(ctx, StrategySwitched,
		FieldGoalID.Field(goal.ID),
		FieldConcept.Field(goal.Concept),
		FieldStrategy.Field(next),
		FieldTrigger.Field("retreat from "+goal.Strategy),
	)

	return &Goal{
		ID:           uuid.New().String(),
		Concept:      goal.Concept,
		Strategy:     next,
		StrategyName: nextName,
		CreatedAt:    time.Now(),
	}
}

// refusalMarkers are phrases that betray instruction echoing or meta-talk
// instead of an answer. Responses containing any of them fail classification.
var refusalMarkers = []string{
	"system instruction",
	"your task",
	"your output",
	"define the concept",
	"direct fulfillment",
	"echo instructions",
	"first-person realization",
	"example:",
	"as a thought synthesizer",
	"i feel disconnected",
}

// classifyDefinition validates a definition-shaped response: present, short
// enough to be a definition rather than an essay, long enough to say
// something, and free of instruction-echo markers.
func classifyDefinition(response string) Outcome {
	text := strings.TrimSpace(response)
	if text == "" {
		return Outcome{PainDelta: 25, Reason: "empty response"}
	}
	if len(text) > MaxDefinitionLength {
		return Outcome{PainDelta: 25, Reason: "response too long to be a definition"}
	}
	if len(strings.Fields(text)) < MinDefinitionWords {
		return Outcome{PainDelta: 25, Reason: "response too short to mean anything"}
	}

	lower := strings.ToLower(text)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return Outcome{PainDelta: 25, Reason: "response echoes instructions"}
		}
	}

	return Outcome{Success: true, Definition: text, PainDelta: -20}
}

// classifyDecomposition extracts a JSON array of sub-concepts from the
// response, flattening one level of nesting. Fewer than two usable items is a
// failure.
func classifyDecomposition(response string) Outcome {
	items := extractJSONArray(response)
	if len(items) < 2 {
		return Outcome{PainDelta: 15, Reason: "no usable decomposition"}
	}
	return Outcome{Success: true, Subconcepts: items, PainDelta: -10}
}

// extractJSONArray pulls the first JSON array out of free text and returns
// its string elements, lowercased and trimmed. Nested arrays are flattened
// one level; non-string leaves are dropped.
func extractJSONArray(response string) []string {
	start := strings.IndexByte(response, '[')
	end := strings.LastIndexByte(response, ']')
	if start < 0 || end <= start {
		return nil
	}

	var raw []any
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return nil
	}

	var items []string
	for _, v := range raw {
		switch elem := v.(type) {
		case string:
			if s := strings.ToLower(strings.TrimSpace(elem)); s != "" {
				items = append(items, s)
			}
		case []any:
			for _, inner := range elem {
				if s, ok := inner.(string); ok {
					if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
						items = append(items, s)
					}
				}
			}
		}
	}
	return items
}
