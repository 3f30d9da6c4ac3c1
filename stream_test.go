package animus

import (
	"math/rand"
	"testing"
)

func TestStreamPushedEventsFirst(t *testing.T) {
	s := NewSimulatedStream(WithEventRate(0), WithStreamRand(rand.New(rand.NewSource(1))))

	s.Push(InputEvent{Type: "concept", Payload: map[string]any{"concept": "queued"}, Salience: 0.9})

	event, ok := s.NextEvent(nil)
	if !ok {
		t.Fatal("pushed event must always be delivered")
	}
	if event.Payload["concept"] != "queued" {
		t.Errorf("expected queued event first, got %v", event.Payload)
	}

	// Rate 0: once drained, the stream produces nothing.
	if _, ok := s.NextEvent(nil); ok {
		t.Error("rate 0 stream must stay quiet")
	}
}

func TestStreamGeneratesFromAvailablePool(t *testing.T) {
	s := NewSimulatedStream(WithEventRate(1), WithStreamRand(rand.New(rand.NewSource(1))))

	event, ok := s.NextEvent([]string{"only_choice"})
	if !ok {
		t.Fatal("rate 1 stream must always emit")
	}
	if event.Payload["concept"] != "only_choice" {
		t.Errorf("expected concept drawn from the available pool, got %v", event.Payload)
	}
	if event.Salience < 0.4 || event.Salience > 1.0 {
		t.Errorf("salience must be in [0.4, 1.0], got %v", event.Salience)
	}
}

func TestStreamFallsBackToSeeds(t *testing.T) {
	s := NewSimulatedStream(
		WithEventRate(1),
		WithSeedConcepts([]string{"seeded"}),
		WithStreamRand(rand.New(rand.NewSource(1))),
	)

	event, ok := s.NextEvent(nil)
	if !ok {
		t.Fatal("expected a generated event")
	}
	if event.Payload["concept"] != "seeded" {
		t.Errorf("empty pool must fall back to seeds, got %v", event.Payload)
	}
}

func TestStreamDeterministicWithSeed(t *testing.T) {
	pool := []string{"a", "b", "c", "d"}

	run := func() []string {
		s := NewSimulatedStream(WithEventRate(0.5), WithStreamRand(rand.New(rand.NewSource(42))))
		var got []string
		for i := 0; i < 20; i++ {
			if event, ok := s.NextEvent(pool); ok {
				got = append(got, event.Payload["concept"].(string))
			}
		}
		return got
	}

	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("seeded runs diverged in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded runs diverged at %d: %q vs %q", i, first[i], second[i])
		}
	}
}
