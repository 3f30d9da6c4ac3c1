package animus

import (
	"encoding/json"
	"fmt"
	"time"
)

// Proposal is a candidate thought emitted by one module. Proposals compete
// each cycle to become the conscious content. The four signal dimensions are
// independent [0,1] strengths; Score stays nil until the workspace scores the
// aggregated proposal.
type Proposal struct {
	Source   string
	Type     string
	Payload  map[string]any
	Evidence float64
	Salience float64
	Novelty  float64
	Urgency  float64
	Sources  []string
	Score    *float64
}

// NewProposal builds a proposal with the sources list defaulted to the
// emitting module, matching the invariant that Sources is never empty.
func NewProposal(source, contentType string, payload map[string]any, evidence, salience, novelty, urgency float64) Proposal {
	if payload == nil {
		payload = map[string]any{}
	}
	return Proposal{
		Source:   source,
		Type:     contentType,
		Payload:  payload,
		Evidence: evidence,
		Salience: salience,
		Novelty:  novelty,
		Urgency:  urgency,
		Sources:  []string{source},
	}
}

// FinalScore returns the computed score, or 0 if the proposal has not been
// scored yet.
func (p Proposal) FinalScore() float64 {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}

// identityKey groups proposals that describe the same candidate thought:
// identical type and a canonical serialization of the payload. JSON map
// encoding is key-sorted, which makes the serialization order-independent.
func (p Proposal) identityKey() string {
	raw, err := json.Marshal(p.Payload)
	if err != nil {
		// Payloads are plain data; a failed encode still needs a stable
		// bucket, so fall back to the fmt rendering.
		raw = []byte(fmt.Sprintf("%v", p.Payload))
	}
	return p.Type + "|" + string(raw)
}

// payloadConcept extracts the concept a payload refers to, recognizing the
// two payload keys that name one.
func payloadConcept(payload map[string]any) string {
	for _, key := range []string{"concept", "target_concept"} {
		if v, ok := payload[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// aggregate groups proposals by identity key. Within a group, evidence values
// are summed then clamped to [0,1] so independent modules agreeing on the same
// thought reinforce it; salience, novelty and urgency are averaged; sources
// concatenate. The first group member contributes the raw payload.
func aggregate(proposals []Proposal) []Proposal {
	order := make([]string, 0, len(proposals))
	buckets := make(map[string][]Proposal, len(proposals))
	for _, p := range proposals {
		key := p.identityKey()
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], p)
	}

	aggregated := make([]Proposal, 0, len(order))
	for _, key := range order {
		group := buckets[key]
		var evidence, salience, novelty, urgency float64
		sources := make([]string, 0, len(group))
		for _, p := range group {
			evidence += p.Evidence
			salience += p.Salience
			novelty += p.Novelty
			urgency += p.Urgency
			sources = append(sources, p.Sources...)
		}
		n := float64(len(group))

		source := sources[0]
		if len(sources) > 1 {
			source = "multi"
		}

		aggregated = append(aggregated, Proposal{
			Source:   source,
			Type:     group[0].Type,
			Payload:  group[0].Payload,
			Evidence: clamp(evidence, 0, 1),
			Salience: salience / n,
			Novelty:  novelty / n,
			Urgency:  urgency / n,
			Sources:  sources,
		})
	}
	return aggregated
}

// Content is what is currently conscious: the winning thought with an
// activation level that decays across cycles. Ignited is true only on the
// cycle the content won competition; from the next cycle onward it persists
// with the flag forced false.
type Content struct {
	Type       string
	Payload    map[string]any
	Activation float64
	Ignited    bool
	Timestamp  time.Time
	Sources    []string
}

// Concept returns the concept this content refers to, if any.
func (c Content) Concept() string {
	return payloadConcept(c.Payload)
}

// State holds the workspace's conscious content and a bounded history of
// everything that ever ignited. Owned exclusively by the Workspace.
type State struct {
	current *Content
	history []Content
	limit   int
}

func newState(limit int) State {
	return State{limit: limit}
}

// Current returns the conscious content, if any.
func (s *State) Current() (Content, bool) {
	if s.current == nil {
		return Content{}, false
	}
	return *s.current, true
}

// History returns a copy of the ignition history, oldest first.
func (s *State) History() []Content {
	out := make([]Content, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) push(c Content) {
	s.current = &c
	s.history = append(s.history, c)
	if len(s.history) > s.limit {
		s.history = s.history[len(s.history)-s.limit:]
	}
}

func (s *State) clear() {
	s.current = nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
