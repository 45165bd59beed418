// Package syncgroup links plots whose x windows must stay equal and
// propagates window changes between them once per frame.
package syncgroup

import (
	"sort"

	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/view"
)

// Registry is an adjacency list of graph ids. Group ids are derived on
// demand as the minimum id of each connected component.
type Registry struct {
	adj   map[int][]int
	group map[int]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adj: map[int][]int{}, group: map[int]int{}}
}

// Link makes every listed graph a partner of every other.
func (r *Registry) Link(ids ...int) {
	for _, a := range ids {
		if _, ok := r.adj[a]; !ok {
			r.adj[a] = nil
		}
		for _, b := range ids {
			if a != b && !contains(r.adj[a], b) {
				r.adj[a] = append(r.adj[a], b)
			}
		}
	}
	r.recompute()
}

// Unlink detaches id from all partners but keeps it registered.
func (r *Registry) Unlink(id int) {
	for _, p := range r.adj[id] {
		r.adj[p] = without(r.adj[p], id)
	}
	if _, ok := r.adj[id]; ok {
		r.adj[id] = nil
	}
	r.recompute()
}

// Remove drops id from the registry and from every partner list.
func (r *Registry) Remove(id int) {
	r.Unlink(id)
	delete(r.adj, id)
	r.recompute()
}

// Partners returns the direct partners of id in ascending order.
func (r *Registry) Partners(id int) []int {
	out := append([]int(nil), r.adj[id]...)
	sort.Ints(out)
	return out
}

// GroupID returns the minimum id of id's connected component. ok is false
// when id has no partners.
func (r *Registry) GroupID(id int) (int, bool) {
	g, ok := r.group[id]
	return g, ok
}

// Members returns every id sharing id's group, ascending, including id.
func (r *Registry) Members(id int) []int {
	g, ok := r.group[id]
	if !ok {
		return nil
	}
	var out []int
	for m, mg := range r.group {
		if mg == g {
			out = append(out, m)
		}
	}
	sort.Ints(out)
	return out
}

func (r *Registry) recompute() {
	r.group = map[int]int{}
	ids := make([]int, 0, len(r.adj))
	for id := range r.adj {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	// Visiting ids in ascending order makes the first id of each
	// component its minimum.
	for _, start := range ids {
		if _, seen := r.group[start]; seen || len(r.adj[start]) == 0 {
			continue
		}
		stack := []int{start}
		r.group[start] = start
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, n := range r.adj[cur] {
				if _, seen := r.group[n]; !seen {
					r.group[n] = start
					stack = append(stack, n)
				}
			}
		}
	}
}

// Propagation records one window copy made by Propagate.
type Propagation struct {
	From, To   int
	XMin, XMax float64
}

// Propagate runs once per frame after input handling. Every graph whose x
// window changed since its last snapshot pushes that window to the rest of
// its group. Requests are collected first and applied afterwards, so no
// graph reacts to a window copied earlier in the same pass. When several
// changed graphs target one graph the lowest source id wins, and a graph
// that changed itself only yields to a lower id. Finally every view is
// snapshotted.
func (r *Registry) Propagate(views map[int]*view.State) []Propagation {
	ids := make([]int, 0, len(views))
	for id := range views {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	changed := map[int]bool{}
	for _, id := range ids {
		if _, grouped := r.group[id]; grouped && views[id] != nil && views[id].XRangeChanged() {
			changed[id] = true
		}
	}

	pending := map[int]Propagation{}
	for _, src := range ids {
		if !changed[src] {
			continue
		}
		w := views[src].Window
		for _, dst := range r.Members(src) {
			if dst == src || views[dst] == nil {
				continue
			}
			if changed[dst] && dst < src {
				continue
			}
			if prev, ok := pending[dst]; ok && prev.From < src {
				continue
			}
			pending[dst] = Propagation{From: src, To: dst, XMin: w.XMin, XMax: w.XMax}
		}
	}

	applied := make([]Propagation, 0, len(pending))
	for _, dst := range ids {
		p, ok := pending[dst]
		if !ok {
			continue
		}
		if err := views[dst].SetXRange(p.XMin, p.XMax); err != nil {
			monitoring.Logf("sync: graph %d -> %d skipped: %v", p.From, p.To, err)
			continue
		}
		views[dst].AutoFit = false
		applied = append(applied, p)
	}

	for _, id := range ids {
		if views[id] != nil {
			views[id].SnapshotX()
		}
	}
	return applied
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func without(list []int, v int) []int {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
