package animus

import "github.com/zoobzio/capitan"

// Signal definitions for cognitive cycle events.
// Signals follow the pattern: animus.<entity>.<event>.
var (
	// Workspace lifecycle signals.
	CycleStarted = capitan.NewSignal(
		"animus.cycle.started",
		"Workspace cycle began with a fresh context snapshot",
	)
	ProposalScored = capitan.NewSignal(
		"animus.proposal.scored",
		"Aggregated proposal received its final competition score",
	)
	Ignition = capitan.NewSignal(
		"animus.workspace.ignition",
		"Winning proposal crossed the ignition threshold and became conscious",
	)
	Persistence = capitan.NewSignal(
		"animus.workspace.persistence",
		"Previous content survived the cycle with decayed activation",
	)
	ContentDecayed = capitan.NewSignal(
		"animus.workspace.decayed",
		"Content activation fell below the persistence threshold and was cleared",
	)
	Broadcast = capitan.NewSignal(
		"animus.workspace.broadcast",
		"Cycle result delivered to every module",
	)
	ModuleFailed = capitan.NewSignal(
		"animus.module.failed",
		"Module panicked during the cycle and its contribution was dropped",
	)

	// Planning signals.
	GoalCreated = capitan.NewSignal(
		"animus.goal.created",
		"New goal materialized with a selected strategy",
	)
	GoalOutcome = capitan.NewSignal(
		"animus.goal.outcome",
		"Goal execution finished and the result was classified",
	)
	StrategySwitched = capitan.NewSignal(
		"animus.strategy.switched",
		"Failing goal replaced with an alternative strategy",
	)
	FallbackEngaged = capitan.NewSignal(
		"animus.provider.fallback",
		"Reasoning provider unreachable, degraded responder engaged",
	)

	// Learning and emotion signals.
	LearningUpdated = capitan.NewSignal(
		"animus.learning.updated",
		"Strategy and concept statistics updated from an outcome",
	)
	ReflectionInsight = capitan.NewSignal(
		"animus.reflection.insight",
		"Meta-cognition produced insights about learning patterns",
	)
	EmotionsDecayed = capitan.NewSignal(
		"animus.emotions.decayed",
		"Periodic decay applied to pain, boredom and confusion",
	)
)

// Field keys for animus event data.
var (
	// Cycle metadata.
	FieldCycle      = capitan.NewIntKey("cycle")
	FieldSource     = capitan.NewStringKey("source")
	FieldContent    = capitan.NewStringKey("content_type")
	FieldScore      = capitan.NewFloat32Key("score")
	FieldActivation = capitan.NewFloat32Key("activation")
	FieldSources    = capitan.NewIntKey("source_count")

	// Planning metadata.
	FieldConcept   = capitan.NewStringKey("concept")
	FieldStrategy  = capitan.NewStringKey("strategy")
	FieldGoalID    = capitan.NewStringKey("goal_id")
	FieldAttempts  = capitan.NewIntKey("attempts")
	FieldOutcome   = capitan.NewStringKey("outcome") // success, failure
	FieldPainDelta = capitan.NewFloat32Key("pain_delta")

	// Module metadata.
	FieldModule  = capitan.NewStringKey("module")
	FieldTrigger = capitan.NewStringKey("trigger")
	FieldCount   = capitan.NewIntKey("count")

	// Error information.
	FieldError = capitan.NewErrorKey("error")
)
