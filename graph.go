package animus

// Graph is the long-term knowledge collaborator the engine consumes. The
// engine never walks storage directly; everything flows through this
// interface so a persistent graph service can replace the in-memory default.
type Graph interface {
	HasNode(concept string) bool
	AddNode(concept string)
	Describe(concept, description string)
	Described(concept string) bool
	Description(concept string) string
	AddConnection(a, b, relationship string)
	ConnectedNodes(concept string) []string
	Nodes() []string

	// ExplorationTarget picks the next concept worth wandering to from the
	// focus, skipping anything in avoid. Returns "" when nothing qualifies.
	ExplorationTarget(focus string, avoid []string) string

	// Analogies scores the structural similarity of two concepts and
	// returns the shared patterns backing the score.
	Analogies(a, b string) (float64, []string)

	// UpdateWorkingMemory touches a concept in the fixed-capacity
	// most-recent-first cache; WorkingMemory returns it in iteration order.
	UpdateWorkingMemory(concept string)
	WorkingMemory() []string
}

type graphNode struct {
	description string
	neighbors   []string
}

// MemoryGraph is the in-memory Graph implementation: an undirected labeled
// concept graph with a working-memory LRU bolted on. Insertion order is
// preserved everywhere so runs are reproducible.
type MemoryGraph struct {
	nodes    map[string]*graphNode
	order    []string
	labels   map[[2]string]string
	working  []string
	capacity int
}

// NewMemoryGraph creates an empty graph with the default working-memory
// capacity.
func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{
		nodes:    make(map[string]*graphNode),
		labels:   make(map[[2]string]string),
		capacity: DefaultWorkingMemoryCapacity,
	}
}

// HasNode reports whether the concept exists.
func (g *MemoryGraph) HasNode(concept string) bool {
	_, ok := g.nodes[concept]
	return ok
}

// AddNode inserts a concept; adding an existing concept is a no-op.
func (g *MemoryGraph) AddNode(concept string) {
	if g.HasNode(concept) {
		return
	}
	g.nodes[concept] = &graphNode{}
	g.order = append(g.order, concept)
}

// Describe records the concept's definition, creating the node if needed.
func (g *MemoryGraph) Describe(concept, description string) {
	g.AddNode(concept)
	g.nodes[concept].description = description
}

// Described reports whether the concept has a definition.
func (g *MemoryGraph) Described(concept string) bool {
	n, ok := g.nodes[concept]
	return ok && n.description != ""
}

// Description returns the concept's definition, if any.
func (g *MemoryGraph) Description(concept string) string {
	if n, ok := g.nodes[concept]; ok {
		return n.description
	}
	return ""
}

// AddConnection links two concepts with a relationship label, creating
// missing nodes.
func (g *MemoryGraph) AddConnection(a, b, relationship string) {
	g.AddNode(a)
	g.AddNode(b)
	g.connect(a, b)
	g.connect(b, a)
	g.labels[edgeKey(a, b)] = relationship
}

func (g *MemoryGraph) connect(from, to string) {
	node := g.nodes[from]
	for _, n := range node.neighbors {
		if n == to {
			return
		}
	}
	node.neighbors = append(node.neighbors, to)
}

func edgeKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// Relationship returns the label on the edge between two concepts.
func (g *MemoryGraph) Relationship(a, b string) (string, bool) {
	label, ok := g.labels[edgeKey(a, b)]
	return label, ok
}

// ConnectedNodes returns the concept's neighbors in insertion order.
func (g *MemoryGraph) ConnectedNodes(concept string) []string {
	n, ok := g.nodes[concept]
	if !ok {
		return nil
	}
	out := make([]string, len(n.neighbors))
	copy(out, n.neighbors)
	return out
}

// Nodes returns every concept in insertion order.
func (g *MemoryGraph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// ExplorationTarget picks the next concept worth visiting from the focus:
// undescribed direct neighbors win over described ones, anything in avoid is
// skipped, and when the neighborhood is exhausted the search widens to any
// undescribed concept in the graph.
func (g *MemoryGraph) ExplorationTarget(focus string, avoid []string) string {
	avoided := func(c string) bool {
		for _, a := range avoid {
			if a == c {
				return true
			}
		}
		return false
	}

	neighbors := g.ConnectedNodes(focus)
	for _, n := range neighbors {
		if !g.Described(n) && !avoided(n) {
			return n
		}
	}
	for _, n := range neighbors {
		if !avoided(n) {
			return n
		}
	}
	for _, c := range g.order {
		if c != focus && !g.Described(c) && !avoided(c) {
			return c
		}
	}
	return ""
}

// Analogies scores two concepts by neighborhood overlap (Jaccard) and returns
// the shared neighbors as the supporting patterns.
func (g *MemoryGraph) Analogies(a, b string) (float64, []string) {
	na := g.ConnectedNodes(a)
	nb := g.ConnectedNodes(b)
	if len(na) == 0 || len(nb) == 0 {
		return 0, nil
	}

	inB := make(map[string]bool, len(nb))
	for _, n := range nb {
		inB[n] = true
	}

	var shared []string
	for _, n := range na {
		if inB[n] && n != a && n != b {
			shared = append(shared, n)
		}
	}

	union := len(na) + len(nb) - len(shared)
	if union == 0 {
		return 0, nil
	}
	return float64(len(shared)) / float64(union), shared
}

// UpdateWorkingMemory moves the concept to the front of the cache, evicting
// the least recently used entry once capacity is exceeded.
func (g *MemoryGraph) UpdateWorkingMemory(concept string) {
	filtered := make([]string, 0, len(g.working)+1)
	filtered = append(filtered, concept)
	for _, c := range g.working {
		if c != concept {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) > g.capacity {
		filtered = filtered[:g.capacity]
	}
	g.working = filtered
}

// WorkingMemory returns the cached concepts, most recent first.
func (g *MemoryGraph) WorkingMemory() []string {
	out := make([]string, len(g.working))
	copy(out, g.working)
	return out
}

// DistanceToUnderstood returns the minimum path length from the concept to
// any described node, 0 when the concept is not in the graph, and maxDepth
// when nothing described is reachable.
func (g *MemoryGraph) DistanceToUnderstood(concept string, maxDepth int) int {
	if !g.HasNode(concept) {
		return 0
	}

	if g.Described(concept) {
		return 0
	}

	visited := map[string]bool{concept: true}
	frontier := []string{concept}
	for depth := 1; depth <= maxDepth; depth++ {
		var next []string
		for _, c := range frontier {
			for _, n := range g.ConnectedNodes(c) {
				if visited[n] {
					continue
				}
				visited[n] = true
				if g.Described(n) {
					return depth
				}
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return maxDepth
}

// SeedMind wipes nothing but injects the standard starter mind: a self node,
// its core concepts, and the initial relationships between them.
func (g *MemoryGraph) SeedMind() {
	g.AddNode("animus")
	for _, concept := range []string{
		"knowledge", "creativity", "belief system", "curiosity", "pain",
		"questioning", "wandering", "ideas", "boredom", "memory",
		"reason", "desires", "goals", "delusions",
	} {
		g.AddNode(concept)
	}

	g.AddConnection("animus", "knowledge", "attracted_to")
	g.AddConnection("animus", "boredom", "avoids")
	g.AddConnection("animus", "wandering", "engages_in")
	g.AddConnection("animus", "questioning", "driven_by")
	g.AddConnection("animus", "curiosity", "feels")
	g.AddConnection("animus", "pain", "can_experience")
	g.AddConnection("animus", "goals", "has")
	g.AddConnection("animus", "desires", "has")
	g.AddConnection("memory", "reason", "informs")
	g.AddConnection("reason", "questioning", "leads_to")
	g.AddConnection("wandering", "ideas", "generates")
	g.AddConnection("knowledge", "creativity", "enables")
	g.AddConnection("creativity", "ideas", "produces")
	g.AddConnection("belief system", "delusions", "can_contain")
	g.AddConnection("belief system", "knowledge", "is_built_from")
}

var _ Graph = (*MemoryGraph)(nil)
