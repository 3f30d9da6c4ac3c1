package animus

import "math/rand"

// InputEvent is one sensory event entering the engine from outside.
type InputEvent struct {
	Type     string
	Payload  map[string]any
	Salience float64
}

// InputStream is the sensory collaborator the perception module drains. The
// available concepts hint lets a stream bias generated events toward what the
// mind already knows about.
type InputStream interface {
	NextEvent(availableConcepts []string) (InputEvent, bool)
}

// defaultSeedConcepts feed the simulated stream before the graph has anything
// to offer.
var defaultSeedConcepts = []string{
	"knowledge", "curiosity", "memory", "emotion",
	"goal", "creativity", "analysis",
}

// SimulatedStream is a stochastic stand-in for real sensory input: on each
// poll it emits a concept event with probability rate, drawn from the
// available concepts or its seed list. Pushed events jump the queue and are
// always delivered first.
type SimulatedStream struct {
	rate  float64
	seeds []string
	rng   *rand.Rand
	queue []InputEvent
}

// StreamOption configures a SimulatedStream.
type StreamOption func(*SimulatedStream)

// WithEventRate sets the per-poll emission probability.
func WithEventRate(rate float64) StreamOption {
	return func(s *SimulatedStream) { s.rate = rate }
}

// WithSeedConcepts replaces the default seed concepts.
func WithSeedConcepts(seeds []string) StreamOption {
	return func(s *SimulatedStream) { s.seeds = seeds }
}

// WithStreamRand injects the randomness source, pinned by tests.
func WithStreamRand(rng *rand.Rand) StreamOption {
	return func(s *SimulatedStream) { s.rng = rng }
}

// NewSimulatedStream creates a stream with the default rate and seeds.
func NewSimulatedStream(opts ...StreamOption) *SimulatedStream {
	s := &SimulatedStream{
		rate:  DefaultEventRate,
		seeds: defaultSeedConcepts,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return s
}

// Push queues an event for guaranteed delivery ahead of any generated ones.
func (s *SimulatedStream) Push(event InputEvent) {
	s.queue = append(s.queue, event)
}

// NextEvent returns the next queued event, or probabilistically generates a
// concept event from the available pool. The second return is false when this
// poll produced nothing.
func (s *SimulatedStream) NextEvent(availableConcepts []string) (InputEvent, bool) {
	if len(s.queue) > 0 {
		event := s.queue[0]
		s.queue = s.queue[1:]
		return event, true
	}

	if s.rng.Float64() > s.rate {
		return InputEvent{}, false
	}

	pool := availableConcepts
	if len(pool) == 0 {
		pool = s.seeds
	}
	if len(pool) == 0 {
		return InputEvent{}, false
	}

	concept := pool[s.rng.Intn(len(pool))]
	return InputEvent{
		Type:     "concept",
		Payload:  map[string]any{"concept": concept},
		Salience: 0.4 + s.rng.Float64()*0.6,
	}, true
}

var _ InputStream = (*SimulatedStream)(nil)
