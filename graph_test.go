package animus

import "testing"

func TestGraphNodesAndConnections(t *testing.T) {
	g := NewMemoryGraph()

	g.AddConnection("memory", "reason", "informs")
	if !g.HasNode("memory") || !g.HasNode("reason") {
		t.Fatal("connections must create missing nodes")
	}

	label, ok := g.Relationship("reason", "memory")
	if !ok || label != "informs" {
		t.Errorf("expected undirected labeled edge, got %q ok=%v", label, ok)
	}

	neighbors := g.ConnectedNodes("memory")
	if len(neighbors) != 1 || neighbors[0] != "reason" {
		t.Errorf("unexpected neighbors %v", neighbors)
	}

	// Duplicate connection must not duplicate the neighbor entry.
	g.AddConnection("memory", "reason", "informs")
	if len(g.ConnectedNodes("memory")) != 1 {
		t.Error("duplicate edge must be a no-op")
	}
}

func TestDescribe(t *testing.T) {
	g := NewMemoryGraph()
	g.Describe("recursion", "a function calling itself")

	if !g.Described("recursion") {
		t.Error("expected concept described")
	}
	if got := g.Description("recursion"); got != "a function calling itself" {
		t.Errorf("unexpected description %q", got)
	}
	if g.Described("absent") {
		t.Error("absent concept must not be described")
	}
}

func TestWorkingMemoryEviction(t *testing.T) {
	g := NewMemoryGraph()

	concepts := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, c := range concepts {
		g.UpdateWorkingMemory(c)
	}

	wm := g.WorkingMemory()
	if len(wm) != DefaultWorkingMemoryCapacity {
		t.Fatalf("expected capacity %d, got %d", DefaultWorkingMemoryCapacity, len(wm))
	}
	if wm[0] != "h" {
		t.Errorf("most recent concept must be first, got %q", wm[0])
	}
	for _, c := range wm {
		if c == "a" {
			t.Error("oldest concept must be evicted")
		}
	}
}

func TestWorkingMemoryTouchMovesToFront(t *testing.T) {
	g := NewMemoryGraph()
	g.UpdateWorkingMemory("a")
	g.UpdateWorkingMemory("b")
	g.UpdateWorkingMemory("a")

	wm := g.WorkingMemory()
	if len(wm) != 2 || wm[0] != "a" || wm[1] != "b" {
		t.Errorf("touching must move to front without duplicating, got %v", wm)
	}
}

func TestExplorationTargetPrefersUndescribedNeighbor(t *testing.T) {
	g := NewMemoryGraph()
	g.AddConnection("focus", "known", "related_to")
	g.AddConnection("focus", "unknown", "related_to")
	g.Describe("known", "already understood")

	if got := g.ExplorationTarget("focus", nil); got != "unknown" {
		t.Errorf("undescribed neighbor must win, got %q", got)
	}
}

func TestExplorationTargetHonorsAvoidList(t *testing.T) {
	g := NewMemoryGraph()
	g.AddConnection("focus", "recent", "related_to")
	g.AddConnection("focus", "fresh", "related_to")

	if got := g.ExplorationTarget("focus", []string{"recent"}); got != "fresh" {
		t.Errorf("avoided concept must be skipped, got %q", got)
	}
}

func TestExplorationTargetWidensBeyondNeighborhood(t *testing.T) {
	g := NewMemoryGraph()
	g.AddNode("focus")
	g.AddNode("distant")

	if got := g.ExplorationTarget("focus", nil); got != "distant" {
		t.Errorf("expected fallback to any undescribed concept, got %q", got)
	}

	g.Describe("distant", "known now")
	if got := g.ExplorationTarget("focus", nil); got != "" {
		t.Errorf("nothing left to explore must return empty, got %q", got)
	}
}

func TestAnalogiesJaccard(t *testing.T) {
	g := NewMemoryGraph()
	g.AddConnection("a", "shared1", "r")
	g.AddConnection("a", "shared2", "r")
	g.AddConnection("b", "shared1", "r")
	g.AddConnection("b", "shared2", "r")
	g.AddConnection("b", "only_b", "r")

	score, patterns := g.Analogies("a", "b")
	// shared 2, union 2+3-2 = 3
	if !near(score, 2.0/3.0) {
		t.Errorf("expected score 2/3, got %v", score)
	}
	if len(patterns) != 2 {
		t.Errorf("expected 2 shared patterns, got %v", patterns)
	}

	score, _ = g.Analogies("a", "isolated")
	if score != 0 {
		t.Errorf("concept with no neighbors must score 0, got %v", score)
	}
}

func TestDistanceToUnderstood(t *testing.T) {
	g := NewMemoryGraph()
	g.AddConnection("start", "mid", "r")
	g.AddConnection("mid", "end", "r")
	g.Describe("end", "understood")

	if got := g.DistanceToUnderstood("start", 5); got != 2 {
		t.Errorf("expected distance 2, got %d", got)
	}
	if got := g.DistanceToUnderstood("end", 5); got != 0 {
		t.Errorf("described concept must be distance 0, got %d", got)
	}
	if got := g.DistanceToUnderstood("absent", 5); got != 0 {
		t.Errorf("unseen concept must be distance 0, got %d", got)
	}

	g2 := NewMemoryGraph()
	g2.AddConnection("isolated", "also_unknown", "r")
	if got := g2.DistanceToUnderstood("isolated", 5); got != 5 {
		t.Errorf("unreachable must return max depth, got %d", got)
	}
}

func TestSeedMind(t *testing.T) {
	g := NewMemoryGraph()
	g.SeedMind()

	if !g.HasNode("animus") {
		t.Fatal("seed must create the self node")
	}
	if len(g.ConnectedNodes("animus")) == 0 {
		t.Error("self node must be connected")
	}
	label, ok := g.Relationship("animus", "curiosity")
	if !ok || label != "feels" {
		t.Errorf("expected feels edge, got %q ok=%v", label, ok)
	}
}
