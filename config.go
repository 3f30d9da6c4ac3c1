package animus

// Default configuration for the cognitive cycle engine.
// Workspace values can be overridden per-instance with functional options.
var (
	// DefaultWeights distributes proposal scoring across the four signal
	// dimensions. The weights sum to 1.0 so the "earns" semantics of each
	// bonus clause stay consistent.
	DefaultWeights = Weights{
		Evidence: 0.40,
		Salience: 0.25,
		Novelty:  0.20,
		Urgency:  0.15,
	}

	// DefaultIgnitionThreshold is the minimum aggregated score a proposal
	// needs to become the new conscious content.
	DefaultIgnitionThreshold = 0.75

	// DefaultPersistenceThreshold is the activation floor below which
	// persisting content is cleared and the workspace goes idle.
	DefaultPersistenceThreshold = 0.4

	// DefaultDecayRate multiplies activation each cycle once content is
	// persisting. DefaultIgnitedDecayRate applies on the first decay after
	// ignition, letting a fresh winner linger slightly longer.
	DefaultDecayRate        = 0.90
	DefaultIgnitedDecayRate = 0.95

	// DefaultNoise is the half-width of the uniform noise added to each
	// score. Set to 0 for deterministic runs.
	DefaultNoise = 0.03

	// DefaultFocusBonus rewards proposals that reference the current focus
	// concept. DefaultRepetitionPenalty punishes actions repeated within the
	// last three recorded actions.
	DefaultFocusBonus        = 0.10
	DefaultRepetitionPenalty = 0.10

	// DefaultHistoryLimit bounds the workspace content history.
	DefaultHistoryLimit = 50
)

// Defaults for the modules and supporting components.
var (
	// DefaultReflectionInterval is how many cycles pass before the
	// reflection module proposes meta-cognition unprompted.
	DefaultReflectionInterval = 15

	// DefaultPatternInterval is how many cycles the pattern recognition
	// module waits between analogy scans.
	DefaultPatternInterval = 10

	// DefaultWorkingMemoryCapacity bounds the most-recently-used concept
	// cache, independent of long-term graph storage.
	DefaultWorkingMemoryCapacity = 7

	// DefaultRecencyLimit bounds the recent-actions and recent-explores
	// rings the driver feeds into each cycle snapshot.
	DefaultRecencyLimit = 10

	// DefaultEventRate is the probability per cycle that the simulated
	// input stream produces a spontaneous percept.
	DefaultEventRate = 0.25

	// DefaultDecayInterval is how many cycles the driver waits between
	// applications of emotional decay.
	DefaultDecayInterval = 5
)

// Defaults for goal execution and strategy selection.
var (
	// MaxDefinitionLength and MinDefinitionWords bound what counts as a
	// valid definition from the reasoning provider.
	MaxDefinitionLength = 300
	MinDefinitionWords  = 4

	// RetreatAttempts is the attempt count at which a goal is abandoned for
	// an alternative strategy. RetreatDrive is the drive-vector level that
	// forces the same decision regardless of attempts.
	RetreatAttempts = 3
	RetreatDrive    = 70.0

	// DefaultContextWindow bounds the rolling per-strategy outcome contexts
	// kept by the learning tracker.
	DefaultContextWindow = 20
)
