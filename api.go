// Package animus implements a cognitive cycle engine modeled on Global
// Workspace Theory: independent modules propose candidate thoughts, a
// winner-take-all scheduler with ignition/decay/persistence dynamics selects
// what becomes "conscious", and an adaptive planning layer learns which
// behavioral strategies work over time.
//
// # Core Types
//
// The package is built around four core concepts:
//
//   - [Proposal] - A candidate thought emitted by one module, carrying four
//     independent strength signals (evidence, salience, novelty, urgency)
//   - [Content] - The currently conscious content, with activation that decays
//     across cycles until it falls below the persistence threshold
//   - [Module] - A proposal-generating capability (goal planning, exploration,
//     reflection, pattern recognition, perception, memory, emotion)
//   - [Goal] - A concept to understand paired with a named strategy
//
// # The Cognitive Cycle
//
// [Workspace.Cycle] runs one pass: tick every module, collect proposals,
// aggregate duplicates, score against the configured signal weights, then
// either ignite the top proposal (score >= ignition threshold) or let the
// previous content persist while its activation decays. Whatever survives is
// broadcast back to every module.
//
//	ws := animus.NewWorkspace(modules, animus.WithNoise(0))
//	content, ok := ws.Cycle(ctx, snap)
//
// # Adaptive Planning
//
// [Planner] selects strategies per concept using the emotional drive vector,
// the [Tracker] learning history, and a graph-distance fallback. Goal
// execution runs as a pipz chain: build the task, modulate it against the
// emotional state, call the reasoning provider (with a degraded fallback
// responder), and classify the outcome.
//
// # Provider
//
// LLM access uses a resolution hierarchy matching zyn conventions:
//
//  1. Explicit reasoner-level provider
//  2. Context value (animus.WithProvider(ctx, p))
//  3. Global default (animus.SetProvider(p))
//
// # Driver
//
// [Agent] owns the loop: it holds the active goals and current focus, builds
// the per-cycle [Snapshot], executes whatever content ignites (running goals,
// switching strategies, exploring, reflecting), applies periodic emotional
// decay, and persists state through an attached [Store].
//
//	agent := animus.NewAgent(ws, planner, graph, emotions, tracker,
//		animus.WithStore(store))
//	err := agent.Run(ctx, 100)
//
// # Persistence
//
// [SoyStore] persists emotional snapshots, strategy statistics, concept
// difficulty and ignition episodes to PostgreSQL via soy:
//
//	store, err := animus.NewSoyStore(db)
//
// # Observability
//
// animus emits capitan signals throughout execution. See signals.go for the
// complete list including CycleStarted, Ignition, Persistence, Broadcast,
// GoalOutcome and LearningUpdated.
package animus
