package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/syncgroup"
	"github.com/banshee-data/gpuplot/internal/view"
)

// Workspace is the set of open graphs, the theme and the sync links between
// graphs. Graph ids are never reused.
type Workspace struct {
	Graphs []*Graph      `json:"graphs"`
	Theme  series.Theme  `json:"theme"`
	Links  map[int][]int `json:"links,omitempty"`

	sync   *syncgroup.Registry
	nextID int
}

// NewWorkspace returns a workspace holding one empty graph.
func NewWorkspace() *Workspace {
	w := &Workspace{sync: syncgroup.NewRegistry(), nextID: 1}
	w.AddGraph("Title")
	return w
}

// AddGraph appends an empty graph with a fresh id.
func (w *Workspace) AddGraph(title string) *Graph {
	g := New(w.nextID, title)
	w.nextID++
	w.Graphs = append(w.Graphs, g)
	return g
}

// RemoveGraph deletes the graph and its sync links.
func (w *Workspace) RemoveGraph(id int) bool {
	for i, g := range w.Graphs {
		if g.ID == id {
			w.Graphs = append(w.Graphs[:i], w.Graphs[i+1:]...)
			w.sync.Remove(id)
			return true
		}
	}
	return false
}

// Graph looks a graph up by id.
func (w *Workspace) Graph(id int) (*Graph, bool) {
	for _, g := range w.Graphs {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// Link syncs the x windows of the given graphs.
func (w *Workspace) Link(ids ...int) error {
	for _, id := range ids {
		if _, ok := w.Graph(id); !ok {
			return fmt.Errorf("link: unknown graph %d", id)
		}
	}
	w.sync.Link(ids...)
	return nil
}

// Unlink detaches a graph from its sync partners.
func (w *Workspace) Unlink(id int) { w.sync.Unlink(id) }

// SyncGroup returns the group id of a graph, if it is linked.
func (w *Workspace) SyncGroup(id int) (int, bool) { return w.sync.GroupID(id) }

// Propagate copies changed x windows across sync groups. Call it once per
// frame after input has been applied to every graph.
func (w *Workspace) Propagate() []syncgroup.Propagation {
	views := make(map[int]*view.State, len(w.Graphs))
	for _, g := range w.Graphs {
		views[g.ID] = g.View
	}
	return w.sync.Propagate(views)
}

// Save writes the workspace as JSON. Transient view, camera and cursor
// state is not saved.
func (w *Workspace) Save(out io.Writer) error {
	w.Links = map[int][]int{}
	for _, g := range w.Graphs {
		if p := w.sync.Partners(g.ID); len(p) > 0 {
			w.Links[g.ID] = p
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(w)
}

// LoadWorkspace decodes a workspace written by Save.
func LoadWorkspace(r io.Reader) (*Workspace, error) {
	w := &Workspace{}
	if err := json.NewDecoder(r).Decode(w); err != nil {
		return nil, fmt.Errorf("decode workspace: %w", err)
	}
	w.sync = syncgroup.NewRegistry()
	w.nextID = 1
	for _, g := range w.Graphs {
		g.ensureState()
		if g.ID >= w.nextID {
			w.nextID = g.ID + 1
		}
	}
	ids := make([]int, 0, len(w.Links))
	for id := range w.Links {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		for _, p := range w.Links[id] {
			w.sync.Link(id, p)
		}
	}
	return w, nil
}
