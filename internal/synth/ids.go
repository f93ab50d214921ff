package synth

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator issues sequential resource identifiers. Counters are
// per resource type, or per (namespace, type) for namespaced IDs, and
// live on the generation context so independent runs never share
// state. Because every caller draws from the same seeded RNG before
// asking for an ID, the numbering is reproducible run to run.
type IDGenerator struct {
	rng      *RNG
	counters map[string]int
}

// NewIDGenerator returns an ID generator bound to the given RNG.
func NewIDGenerator(rng *RNG) *IDGenerator {
	return &IDGenerator{rng: rng, counters: make(map[string]int)}
}

// Sequential returns the next "{Type}-{n}" identifier for a type,
// starting at 1.
func (g *IDGenerator) Sequential(resourceType string) string {
	g.counters[resourceType]++
	return fmt.Sprintf("%s-%d", resourceType, g.counters[resourceType])
}

// Namespaced returns the next "{namespace}-{Type}-{n}" identifier.
// Each (namespace, type) pair counts independently.
func (g *IDGenerator) Namespaced(resourceType, namespace string) string {
	key := namespace + ":" + resourceType
	g.counters[key]++
	return fmt.Sprintf("%s-%s-%d", namespace, resourceType, g.counters[key])
}

// UUID returns a version 4 UUID drawn from the seeded random stream,
// so even opaque identifiers replay deterministically. Resource IDs
// stay sequential; this exists for callers that need UUID-shaped
// values (identifier systems, request correlation).
func (g *IDGenerator) UUID() string {
	u, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// The RNG stream never errors.
		panic(err)
	}
	return u.String()
}
