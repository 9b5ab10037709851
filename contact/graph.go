package contact

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Graph holds the adjacency sets of every known identity.
type Graph struct {
	mu  sync.RWMutex
	adj map[string]map[string]struct{}
}

// New creates an empty contact graph.
func New() *Graph {
	return &Graph{
		adj: make(map[string]map[string]struct{}),
	}
}

// Ensure guarantees an adjacency set exists for the identity. It reports
// whether the graph changed.
func (g *Graph) Ensure(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.adj[id]; ok {
		return false
	}
	g.adj[id] = make(map[string]struct{})
	return true
}

// AreContacts reports whether a symmetric edge exists between a and b.
func (g *Graph) AreContacts(a, b string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.adj[a][b]
	return ok
}

// AddEdge inserts the symmetric edge {a, b}. The insert is idempotent and
// reports whether the graph changed.
func (g *Graph) AddEdge(a, b string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	changed := false
	for _, pair := range [][2]string{{a, b}, {b, a}} {
		set, ok := g.adj[pair[0]]
		if !ok {
			set = make(map[string]struct{})
			g.adj[pair[0]] = set
			changed = true
		}
		if _, ok := set[pair[1]]; !ok {
			set[pair[1]] = struct{}{}
			changed = true
		}
	}

	if changed {
		logrus.WithFields(logrus.Fields{
			"a": a,
			"b": b,
		}).Info("contact edge added")
	}
	return changed
}

// RemoveEdge removes other from owner's adjacency only. The reverse edge is
// left in place; see the package comment for why removal is one-sided.
// It reports whether the graph changed.
func (g *Graph) RemoveEdge(owner, other string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	set, ok := g.adj[owner]
	if !ok {
		return false
	}
	if _, ok := set[other]; !ok {
		return false
	}
	delete(set, other)

	logrus.WithFields(logrus.Fields{
		"owner": owner,
		"other": other,
	}).Info("contact edge removed")
	return true
}

// Neighbors returns the contacts of an identity in sorted order. The result
// is a copy; callers may retain it.
func (g *Graph) Neighbors(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	set := g.adj[id]
	out := make([]string, 0, len(set))
	for peer := range set {
		out = append(out, peer)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns the whole graph as identity -> sorted contact list, the
// shape persisted to durable storage.
func (g *Graph) Snapshot() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string][]string, len(g.adj))
	for id, set := range g.adj {
		peers := make([]string, 0, len(set))
		for peer := range set {
			peers = append(peers, peer)
		}
		sort.Strings(peers)
		out[id] = peers
	}
	return out
}

// Restore replaces the graph contents with a previously persisted snapshot.
func (g *Graph) Restore(snapshot map[string][]string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.adj = make(map[string]map[string]struct{}, len(snapshot))
	for id, peers := range snapshot {
		set := make(map[string]struct{}, len(peers))
		for _, peer := range peers {
			set[peer] = struct{}{}
		}
		g.adj[id] = set
	}
}
