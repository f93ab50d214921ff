package synth

import (
	"fmt"
	"sort"

	"github.com/legitrace/fhirsynth/internal/fhir"
)

// Graph is the in-memory entity graph produced by a generation run.
// Resources are keyed "{Type}/{id}"; per-type ID lists and the global
// key list preserve insertion order so every walk over the graph is
// deterministic. Reference edges are recorded explicitly by the phases
// in addition to living inside resource bodies, which lets the
// validator cross-check the two representations.
type Graph struct {
	resources  map[string]fhir.Resource
	byType     map[string][]string
	order      []string
	references map[string]map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		resources:  make(map[string]fhir.Resource),
		byType:     make(map[string][]string),
		references: make(map[string]map[string]struct{}),
	}
}

// Key builds the graph key for a resource type and id.
func Key(resourceType, id string) string {
	return resourceType + "/" + id
}

// Add inserts a resource. Empty type or id, and duplicate (type, id)
// pairs, are caller errors; a well-behaved generation run never
// produces either.
func (g *Graph) Add(r fhir.Resource) error {
	rt, id := r.ResourceType(), r.ID()
	if rt == "" || id == "" {
		return fmt.Errorf("graph: resource missing type or id (type=%q id=%q)", rt, id)
	}
	key := Key(rt, id)
	if _, exists := g.resources[key]; exists {
		return fmt.Errorf("graph: duplicate resource %s", key)
	}
	g.resources[key] = r
	g.byType[rt] = append(g.byType[rt], id)
	g.order = append(g.order, key)
	return nil
}

// Get looks a resource up by type and id.
func (g *Graph) Get(resourceType, id string) (fhir.Resource, bool) {
	r, ok := g.resources[Key(resourceType, id)]
	return r, ok
}

// Has reports whether a "{Type}/{id}" key resolves.
func (g *Graph) Has(key string) bool {
	_, ok := g.resources[key]
	return ok
}

// All returns the resources of a type in insertion order.
func (g *Graph) All(resourceType string) []fhir.Resource {
	ids := g.byType[resourceType]
	out := make([]fhir.Resource, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.resources[Key(resourceType, id)])
	}
	return out
}

// IDs returns the ids of a type in insertion order.
func (g *Graph) IDs(resourceType string) []string {
	out := make([]string, len(g.byType[resourceType]))
	copy(out, g.byType[resourceType])
	return out
}

// Types returns the resource types present, sorted.
func (g *Graph) Types() []string {
	out := make([]string, 0, len(g.byType))
	for t := range g.byType {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Keys returns every "{Type}/{id}" key in insertion order.
func (g *Graph) Keys() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len reports the total resource count.
func (g *Graph) Len() int { return len(g.resources) }

// CountByType reports per-type resource counts.
func (g *Graph) CountByType() map[string]int {
	out := make(map[string]int, len(g.byType))
	for t, ids := range g.byType {
		out[t] = len(ids)
	}
	return out
}

// TrackReference records a directed edge between two "{Type}/{id}"
// keys. Recording the same edge twice is a no-op.
func (g *Graph) TrackReference(from, to string) {
	set, ok := g.references[from]
	if !ok {
		set = make(map[string]struct{})
		g.references[from] = set
	}
	set[to] = struct{}{}
}

// ReferencesFrom returns the tracked outgoing edges of a resource,
// sorted for deterministic iteration.
func (g *Graph) ReferencesFrom(resourceType, id string) []string {
	set := g.references[Key(resourceType, id)]
	out := make([]string, 0, len(set))
	for to := range set {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}
