package animus

import (
	"context"
	"strings"

	"github.com/zoobzio/capitan"
)

// PainState tracks the three pain dimensions, each in [0, 100].
type PainState struct {
	Physical    float64 // resource exhaustion, overload
	Existential float64 // confusion about purpose
	Frustration float64 // repeated failure on the same task
}

// CuriosityState tracks the three curiosity dimensions, each in [0, 100].
type CuriosityState struct {
	Epistemic float64 // deep understanding seeking
	Diversive float64 // novelty seeking
	Specific  float64 // targeted interest in the current focus
}

// BoredomState tracks the two boredom dimensions, each in [0, 100].
type BoredomState struct {
	Understimulation float64
	Satiation        float64
}

// EmotionalState is the full multi-dimensional affect state. Confidence and
// Confusion are scalars in [0, 1].
type EmotionalState struct {
	Pain       PainState
	Curiosity  CuriosityState
	Boredom    BoredomState
	Confidence float64
	Confusion  float64
}

// DefaultEmotionalState is the affect profile a fresh mind starts with:
// curious, mildly confident, unburdened.
func DefaultEmotionalState() EmotionalState {
	return EmotionalState{
		Curiosity: CuriosityState{
			Epistemic: 80,
			Diversive: 20,
			Specific:  50,
		},
		Confidence: 0.5,
	}
}

// DriveVector is the set of derived scalar priorities the planner and modules
// consume. Exploration, Focus and Retreat are on a 0-100-ish scale;
// Temperature is in [0.1, 1.0].
type DriveVector struct {
	Exploration    float64
	Focus          float64
	Retreat        float64
	Temperature    float64
	ShouldSimplify bool
	ShouldExplore  bool
}

// Emotions owns the mutable emotional state. All mutation flows through the
// update methods; other components read via the getters or the drive vector.
type Emotions struct {
	state EmotionalState
}

// NewEmotions creates an emotional model from the given starting state.
func NewEmotions(state EmotionalState) *Emotions {
	return &Emotions{state: state}
}

// State returns a copy of the current emotional state.
func (e *Emotions) State() EmotionalState {
	return e.state
}

// SetState replaces the emotional state wholesale, used when restoring a
// persisted snapshot at startup.
func (e *Emotions) SetState(state EmotionalState) {
	e.state = state
}

// TotalPain is the mean of the three pain dimensions.
func (e *Emotions) TotalPain() float64 {
	p := e.state.Pain
	return (p.Physical + p.Existential + p.Frustration) / 3
}

// TotalCuriosity is the mean of the three curiosity dimensions.
func (e *Emotions) TotalCuriosity() float64 {
	c := e.state.Curiosity
	return (c.Epistemic + c.Diversive + c.Specific) / 3
}

// TotalBoredom is the mean of the two boredom dimensions.
func (e *Emotions) TotalBoredom() float64 {
	b := e.state.Boredom
	return (b.Understimulation + b.Satiation) / 2
}

// DriveVector derives action priorities from the competing drives.
func (e *Emotions) DriveVector() DriveVector {
	pain := e.TotalPain()
	boredom := e.TotalBoredom()
	confidence := e.state.Confidence
	confusion := e.state.Confusion

	exploration := e.state.Curiosity.Diversive*0.5 +
		boredom*0.3 +
		(1-confusion)*0.2

	focus := e.state.Curiosity.Epistemic*0.6 +
		e.state.Curiosity.Specific*0.4 -
		pain*0.3

	// Confusion lives on a 0-1 scale while pain is 0-100; scale it up before
	// combining.
	retreat := pain*0.7 + confusion*100*0.3

	temperature := clamp(0.3+confidence*0.4-confusion*0.3, 0.1, 1.0)

	return DriveVector{
		Exploration:    exploration,
		Focus:          focus,
		Retreat:        retreat,
		Temperature:    temperature,
		ShouldSimplify: pain > 60 || confusion > 0.7,
		ShouldExplore:  boredom > 70 || exploration > 60,
	}
}

// AttentionGain converts the curiosity/pain balance into the scalar the
// workspace multiplies into every score: 1 + (curiosity - pain)/200, clamped
// to [0.5, 1.5].
func (e *Emotions) AttentionGain() float64 {
	return clamp(1+(e.TotalCuriosity()-e.TotalPain())/200, 0.5, 1.5)
}

// UpdateOnSuccess relieves frustration and confusion and builds confidence in
// proportion to how difficult the concept was.
func (e *Emotions) UpdateOnSuccess(difficulty float64) {
	e.state.Pain.Frustration = clamp(e.state.Pain.Frustration-20, 0, 100)
	e.state.Confidence = clamp(e.state.Confidence+0.05*difficulty, 0, 1)
	e.state.Confusion = clamp(e.state.Confusion-0.1, 0, 1)
	e.state.Boredom.Satiation = clamp(e.state.Boredom.Satiation+10, 0, 100)
}

// UpdateOnFailure raises frustration for repeated failures and existential
// pain for fresh ones; confidence never drops below 0.1.
func (e *Emotions) UpdateOnFailure(repeated bool) {
	if repeated {
		e.state.Pain.Frustration = clamp(e.state.Pain.Frustration+25, 0, 100)
	} else {
		e.state.Pain.Existential = clamp(e.state.Pain.Existential+15, 0, 100)
	}
	e.state.Confidence = clamp(e.state.Confidence-0.1, 0.1, 1)
	e.state.Confusion = clamp(e.state.Confusion+0.15, 0, 1)
}

// UpdateOnExploration rewards wandering: less understimulation, more
// diversive curiosity, slowly growing satiation.
func (e *Emotions) UpdateOnExploration() {
	e.state.Boredom.Understimulation = clamp(e.state.Boredom.Understimulation-15, 0, 100)
	e.state.Curiosity.Diversive = clamp(e.state.Curiosity.Diversive+5, 0, 100)
	e.state.Boredom.Satiation = clamp(e.state.Boredom.Satiation+3, 0, 100)
}

// Decay applies the natural cooling of intense emotions over the given number
// of cycles: pain at 0.2/cycle, boredom at 0.1/cycle, confusion at
// 0.06/cycle.
func (e *Emotions) Decay(ctx context.Context, cycles int) {
	n := float64(cycles)

	e.state.Pain.Physical = clamp(e.state.Pain.Physical-0.2*n, 0, 100)
	e.state.Pain.Existential = clamp(e.state.Pain.Existential-0.2*n, 0, 100)
	e.state.Pain.Frustration = clamp(e.state.Pain.Frustration-0.2*n, 0, 100)

	e.state.Boredom.Understimulation = clamp(e.state.Boredom.Understimulation-0.1*n, 0, 100)
	e.state.Boredom.Satiation = clamp(e.state.Boredom.Satiation-0.1*n, 0, 100)

	e.state.Confusion = clamp(e.state.Confusion-0.06*n, 0, 1)

	capitan.Emit(ctx, EmotionsDecayed, FieldCount.Field(cycles))
}

// ReduceConfusion lowers confusion by the given amount, floored at 0. Used by
// the emotion module when a reflection wins the workspace.
func (e *Emotions) ReduceConfusion(amount float64) {
	e.state.Confusion = clamp(e.state.Confusion-amount, 0, 1)
}

// ModulatePrompt appends emotional constraints to a task prompt. High pain or
// confusion requests simplification, high confusion asks for analogies, high
// frustration forces a different angle, and high confidence permits a
// sophisticated synthesis when the context calls for one.
func (e *Emotions) ModulatePrompt(basePrompt, contextType string) string {
	drives := e.DriveVector()

	var clauses []string
	if drives.ShouldSimplify {
		clauses = append(clauses, "Explain in the simplest, most concrete terms possible.")
	}
	if e.state.Confusion > 0.6 {
		clauses = append(clauses, "Use analogies and examples to clarify.")
	}
	if e.state.Pain.Frustration > 50 {
		clauses = append(clauses, "Approach this from a completely different angle than before.")
	}
	if e.state.Confidence > 0.7 && contextType == "synthesis" {
		clauses = append(clauses, "Attempt a sophisticated, nuanced synthesis.")
	}

	if len(clauses) == 0 {
		return basePrompt
	}
	return basePrompt + "\n\nAdditional constraints: " + strings.Join(clauses, " ")
}

// StatusSummary renders a human-readable sketch of the affect state.
func (e *Emotions) StatusSummary() string {
	drives := e.DriveVector()

	var parts []string
	if e.TotalPain() > 60 {
		parts = append(parts, "experiencing significant pain")
	}
	if e.state.Confidence > 0.7 {
		parts = append(parts, "confident")
	} else if e.state.Confidence < 0.3 {
		parts = append(parts, "uncertain")
	}
	if e.state.Confusion > 0.6 {
		parts = append(parts, "confused")
	}
	if drives.ShouldExplore {
		parts = append(parts, "restless for novelty")
	}

	if len(parts) == 0 {
		return "emotionally neutral"
	}
	return strings.Join(parts, ", ")
}
