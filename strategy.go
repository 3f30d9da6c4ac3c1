package animus

import (
	"fmt"
	"strings"
)

// Tier classifies how demanding a strategy is. High pain or confusion
// restricts selection to the simpler tiers.
type Tier string

const (
	TierSimple   Tier = "simple"
	TierModerate Tier = "moderate"
	TierComplex  Tier = "complex"
)

// Strategy identifiers. The catalog is data-driven: strategies are
// descriptors, not per-concept code.
const (
	StrategyDirectDefine         = "direct_define"
	StrategyAnalogicalReasoning  = "analogical_reasoning"
	StrategyBottomUpComposition  = "bottom_up_composition"
	StrategyTopDownDecomposition = "top_down_decomposition"
	StrategyContextualSynthesis  = "contextual_synthesis"

	// StrategyWandering marks the unconditional explore goal generated when
	// every real strategy has been exhausted for a concept.
	StrategyWandering = "wandering"
)

// Strategy describes one named approach to understanding a concept. Task
// renders the natural-language instruction for the reasoning provider;
// neighbors is only consulted by contextual synthesis.
type Strategy struct {
	ID      string
	Name    string
	Tier    Tier
	BestFor string
	Task    func(concept string, neighbors []string) string
}

// Decomposes reports whether the strategy's result is a list of sub-concepts
// rather than a definition, which changes how the outcome is classified.
func (s Strategy) Decomposes() bool {
	return s.ID == StrategyBottomUpComposition || s.ID == StrategyTopDownDecomposition
}

// catalog is ordered; selection fallbacks and tie-breaks follow this order.
var catalog = []Strategy{
	{
		ID:      StrategyDirectDefine,
		Name:    "Direct Definition",
		Tier:    TierSimple,
		BestFor: "concrete concepts",
		Task: func(concept string, _ []string) string {
			return fmt.Sprintf("Define the concept '%s' in a single, concise, first-person sentence. Example: 'Creativity is the ability to connect disparate ideas in novel ways.'", concept)
		},
	},
	{
		ID:      StrategyAnalogicalReasoning,
		Name:    "Analogical Reasoning",
		Tier:    TierModerate,
		BestFor: "abstract concepts with familiar parallels",
		Task: func(concept string, _ []string) string {
			return fmt.Sprintf("Explain '%s' by drawing an analogy to a simpler, more concrete concept. Format: '%s is like [simpler concept] because...'", concept, concept)
		},
	},
	{
		ID:      StrategyBottomUpComposition,
		Name:    "Bottom-Up Composition",
		Tier:    TierModerate,
		BestFor: "composite concepts",
		Task: func(concept string, _ []string) string {
			return fmt.Sprintf("Identify 2-3 foundational sub-concepts that compose '%s'. Output as JSON array: [\"sub1\", \"sub2\"]", concept)
		},
	},
	{
		ID:      StrategyTopDownDecomposition,
		Name:    "Top-Down Decomposition",
		Tier:    TierModerate,
		BestFor: "complex, multifaceted concepts",
		Task: func(concept string, _ []string) string {
			return fmt.Sprintf("Break '%s' into 3 distinct aspects or dimensions. Output as JSON array: [\"aspect1\", \"aspect2\", \"aspect3\"]", concept)
		},
	},
	{
		ID:      StrategyContextualSynthesis,
		Name:    "Contextual Synthesis",
		Tier:    TierComplex,
		BestFor: "relational concepts",
		Task: func(concept string, neighbors []string) string {
			return fmt.Sprintf("Define '%s' in relation to these connected concepts: %s. Show how '%s' bridges or differs from them.", concept, strings.Join(neighbors, ", "), concept)
		},
	},
}

// Strategies returns the full catalog in selection order.
func Strategies() []Strategy {
	out := make([]Strategy, len(catalog))
	copy(out, catalog)
	return out
}

// StrategyByID looks up a catalog entry.
func StrategyByID(id string) (Strategy, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Strategy{}, false
}

// strategyIDs returns the catalog IDs, optionally restricted to the given
// tiers.
func strategyIDs(tiers ...Tier) []string {
	var ids []string
	for _, s := range catalog {
		if len(tiers) == 0 {
			ids = append(ids, s.ID)
			continue
		}
		for _, t := range tiers {
			if s.Tier == t {
				ids = append(ids, s.ID)
				break
			}
		}
	}
	return ids
}
