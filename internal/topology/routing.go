package topology

// Edge is a single routing entry
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RoutingTable maps an asset to at most one next-hop asset. It is built once
// by Build and never modified afterwards.
type RoutingTable struct {
	next  map[string]string
	order []string
}

func newRoutingTable() *RoutingTable {
	return &RoutingTable{next: make(map[string]string)}
}

// set is only called while the table is being built.
func (t *RoutingTable) set(from, to string) {
	if _, exists := t.next[from]; !exists {
		t.order = append(t.order, from)
	}
	t.next[from] = to
}

// Next returns the next hop of an asset, if it has one.
func (t *RoutingTable) Next(from string) (string, bool) {
	to, ok := t.next[from]
	return to, ok
}

// Len returns the number of edges
func (t *RoutingTable) Len() int {
	return len(t.order)
}

// Edges returns all edges in the order they were built.
func (t *RoutingTable) Edges() []Edge {
	out := make([]Edge, 0, len(t.order))
	for _, from := range t.order {
		out = append(out, Edge{From: from, To: t.next[from]})
	}
	return out
}

// InDegree counts incoming edges per target asset.
func (t *RoutingTable) InDegree() map[string]int {
	out := make(map[string]int)
	for _, to := range t.next {
		out[to]++
	}
	return out
}
