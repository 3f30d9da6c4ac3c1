package animus

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/zoobzio/capitan"
)

// panicError normalizes a recovered module panic into an error for signal
// emission.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("module panic: %v", r)
}

// Weights distributes proposal scoring across the four signal dimensions.
type Weights struct {
	Evidence float64
	Salience float64
	Novelty  float64
	Urgency  float64
}

// Workspace is the winner-take-all scheduler at the heart of the engine. It
// owns the conscious content exclusively; every other component sees it only
// through the broadcast.
//
// Workspace is single-threaded by design: one cycle is one full pass over all
// modules with no interleaving, which keeps runs reproducible given a seeded
// random source.
type Workspace struct {
	modules []Module

	ignitionThreshold    float64
	persistenceThreshold float64
	decayRate            float64
	ignitedDecayRate     float64
	noise                float64
	focusBonus           float64
	repetitionPenalty    float64
	weights              Weights
	rng                  *rand.Rand

	state         State
	lastProposals []Proposal
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*Workspace)

// WithIgnitionThreshold sets the minimum score for ignition.
func WithIgnitionThreshold(t float64) WorkspaceOption {
	return func(w *Workspace) { w.ignitionThreshold = t }
}

// WithPersistenceThreshold sets the activation floor for persisting content.
func WithPersistenceThreshold(t float64) WorkspaceOption {
	return func(w *Workspace) { w.persistenceThreshold = t }
}

// WithDecayRates sets the persisting and freshly-ignited decay multipliers.
func WithDecayRates(decay, ignitedDecay float64) WorkspaceOption {
	return func(w *Workspace) {
		w.decayRate = decay
		w.ignitedDecayRate = ignitedDecay
	}
}

// WithNoise sets the half-width of the uniform score noise. Zero makes
// scoring deterministic.
func WithNoise(n float64) WorkspaceOption {
	return func(w *Workspace) { w.noise = n }
}

// WithWeights overrides the signal weights. They should sum to 1.0.
func WithWeights(weights Weights) WorkspaceOption {
	return func(w *Workspace) { w.weights = weights }
}

// WithHistoryLimit bounds the ignition history.
func WithHistoryLimit(limit int) WorkspaceOption {
	return func(w *Workspace) { w.state.limit = limit }
}

// WithRand injects the random source used for score noise, so tests can seed
// it.
func WithRand(rng *rand.Rand) WorkspaceOption {
	return func(w *Workspace) { w.rng = rng }
}

// NewWorkspace creates a scheduler over the given modules.
func NewWorkspace(modules []Module, opts ...WorkspaceOption) *Workspace {
	w := &Workspace{
		modules:              modules,
		ignitionThreshold:    DefaultIgnitionThreshold,
		persistenceThreshold: DefaultPersistenceThreshold,
		decayRate:            DefaultDecayRate,
		ignitedDecayRate:     DefaultIgnitedDecayRate,
		noise:                DefaultNoise,
		focusBonus:           DefaultFocusBonus,
		repetitionPenalty:    DefaultRepetitionPenalty,
		weights:              DefaultWeights,
		rng:                  rand.New(rand.NewSource(time.Now().UnixNano())),
		state:                newState(DefaultHistoryLimit),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State exposes the workspace state for inspection.
func (w *Workspace) State() *State {
	return &w.state
}

// LastProposals returns the scored aggregated proposals from the most recent
// cycle, for analytics.
func (w *Workspace) LastProposals() []Proposal {
	return w.lastProposals
}

// Cycle runs one cognitive cycle and returns the content that is conscious at
// its end, if any. The sequence is fixed: tick modules, collect proposals,
// aggregate, score, then ignite the top proposal or decay-and-persist the
// previous winner. Whatever survives is broadcast to every module before the
// cycle returns.
func (w *Workspace) Cycle(ctx context.Context, snap Snapshot) (Content, bool) {
	capitan.Emit(ctx, CycleStarted, FieldCycle.Field(snap.Cycle))

	for _, m := range w.modules {
		w.tickSafely(ctx, m, snap)
	}

	proposals := w.collect(ctx, snap)
	scored := w.score(ctx, aggregate(proposals), snap)
	w.lastProposals = scored

	if winner, ok := topProposal(scored); ok && winner.FinalScore() >= w.ignitionThreshold {
		content := w.ignite(ctx, winner)
		w.broadcast(ctx, content, snap)
		return content, true
	}

	if persisted, ok := w.decayAndPersist(ctx); ok {
		w.broadcast(ctx, persisted, snap)
		return persisted, true
	}

	return Content{}, false
}

// collect gathers proposals from every module. A panicking module forfeits
// its contribution for this cycle only; the cycle continues with the rest.
func (w *Workspace) collect(ctx context.Context, snap Snapshot) []Proposal {
	var proposals []Proposal
	for _, m := range w.modules {
		proposals = append(proposals, w.proposeSafely(ctx, m, snap)...)
	}
	return proposals
}

func (w *Workspace) proposeSafely(ctx context.Context, m Module, snap Snapshot) (out []Proposal) {
	defer func() {
		if r := recover(); r != nil {
			capitan.Emit(ctx, ModuleFailed,
				FieldModule.Field(m.Name()),
				FieldError.Field(panicError(r)),
			)
			out = nil
		}
	}()
	return m.Propose(ctx, snap)
}

func (w *Workspace) tickSafely(ctx context.Context, m Module, snap Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			capitan.Emit(ctx, ModuleFailed,
				FieldModule.Field(m.Name()),
				FieldError.Field(panicError(r)),
			)
		}
	}()
	m.Tick(snap)
}

// score computes each aggregated proposal's final competition score:
// the weighted signal sum, plus a focus bonus when the payload references the
// current focus, minus a repetition penalty when the same (type, concept)
// action ran recently, plus uniform noise, all scaled by the attention gain
// and clamped to [0, 1.5].
func (w *Workspace) score(ctx context.Context, proposals []Proposal, snap Snapshot) []Proposal {
	gain := snap.AttentionGain
	if gain == 0 {
		gain = 1.0
	}
	gain = clamp(gain, 0.5, 1.5)

	for i := range proposals {
		p := &proposals[i]
		base := w.weights.Evidence*p.Evidence +
			w.weights.Salience*p.Salience +
			w.weights.Novelty*p.Novelty +
			w.weights.Urgency*p.Urgency

		concept := payloadConcept(p.Payload)

		bonus := 0.0
		if snap.CurrentFocus != "" && concept == snap.CurrentFocus {
			bonus = w.focusBonus
		}

		penalty := 0.0
		if snap.repeats(p.Type, concept) {
			penalty = w.repetitionPenalty
		}

		noise := 0.0
		if w.noise > 0 {
			noise = (w.rng.Float64()*2 - 1) * w.noise
		}

		score := clamp((base+bonus-penalty+noise)*gain, 0, 1.5)
		p.Score = &score

		capitan.Emit(ctx, ProposalScored,
			FieldSource.Field(p.Source),
			FieldContent.Field(p.Type),
			FieldScore.Field(float32(score)),
		)
	}
	return proposals
}

// topProposal selects the maximum-score proposal; ties break in favor of the
// first-seen proposal, which keeps selection deterministic for deterministic
// inputs.
func topProposal(proposals []Proposal) (Proposal, bool) {
	if len(proposals) == 0 {
		return Proposal{}, false
	}
	best := proposals[0]
	for _, p := range proposals[1:] {
		if p.FinalScore() > best.FinalScore() {
			best = p
		}
	}
	return best, true
}

// ignite promotes the winner to conscious content at full activation and
// appends it to the bounded history.
func (w *Workspace) ignite(ctx context.Context, winner Proposal) Content {
	content := Content{
		Type:       winner.Type,
		Payload:    winner.Payload,
		Activation: clamp(winner.FinalScore(), 0, 1.5),
		Ignited:    true,
		Timestamp:  time.Now(),
		Sources:    winner.Sources,
	}
	w.state.push(content)

	capitan.Emit(ctx, Ignition,
		FieldContent.Field(content.Type),
		FieldActivation.Field(float32(content.Activation)),
		FieldSources.Field(len(content.Sources)),
	)
	return content
}

// decayAndPersist applies decay to the current content when no new ignition
// occurred. Freshly ignited content decays at the gentler ignited rate; from
// then on the ignited flag is forced false and the ordinary rate applies.
// Content below the persistence threshold is cleared and nothing is returned.
func (w *Workspace) decayAndPersist(ctx context.Context) (Content, bool) {
	if w.state.current == nil {
		return Content{}, false
	}

	rate := w.decayRate
	if w.state.current.Ignited {
		rate = w.ignitedDecayRate
	}
	w.state.current.Activation *= rate

	if w.state.current.Activation < w.persistenceThreshold {
		capitan.Emit(ctx, ContentDecayed,
			FieldContent.Field(w.state.current.Type),
			FieldActivation.Field(float32(w.state.current.Activation)),
		)
		w.state.clear()
		return Content{}, false
	}

	w.state.current.Ignited = false

	capitan.Emit(ctx, Persistence,
		FieldContent.Field(w.state.current.Type),
		FieldActivation.Field(float32(w.state.current.Activation)),
	)
	return *w.state.current, true
}

// broadcast delivers the cycle result to every module, panics contained.
func (w *Workspace) broadcast(ctx context.Context, content Content, snap Snapshot) {
	for _, m := range w.modules {
		func() {
			defer func() {
				if r := recover(); r != nil {
					capitan.Emit(ctx, ModuleFailed,
						FieldModule.Field(m.Name()),
						FieldError.Field(panicError(r)),
					)
				}
			}()
			m.OnBroadcast(ctx, content, snap)
		}()
	}
	capitan.Emit(ctx, Broadcast,
		FieldContent.Field(content.Type),
		FieldSources.Field(len(content.Sources)),
	)
}
