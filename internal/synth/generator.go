package synth

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/legitrace/fhirsynth/internal/plan"
)

// Generator runs the ordered generation phases against a plan.
//
// Phase order is fixed: infrastructure, identity, clinical,
// medications, care planning, documents. Later phases draw on the
// pools earlier phases added to the graph; a phase whose prerequisite
// pool is empty (because the plan excluded the producing type) skips
// quietly rather than failing the run.
type Generator struct {
	ctx    *Context
	logger zerolog.Logger
}

// NewGenerator validates the plan, resolves the time window, and
// returns a generator ready to run.
func NewGenerator(p *plan.Plan, logger zerolog.Logger) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ctx, err := NewContext(p)
	if err != nil {
		return nil, err
	}
	return &Generator{ctx: ctx, logger: logger}, nil
}

// Context exposes the run's context, mainly for tests and the server.
func (g *Generator) Context() *Context { return g.ctx }

// Generate runs every enabled phase in order and returns the populated
// graph. The same plan always yields the same graph.
func (g *Generator) Generate() (*Graph, error) {
	ctx := g.ctx

	phases := []struct {
		name  string
		types []string
		run   func(*Context) error
	}{
		{"organizations", []string{"Organization"}, generateOrganizations},
		{"practitioners", []string{"Practitioner"}, generatePractitioners},
		{"practitioner-roles", []string{"PractitionerRole"}, generatePractitionerRoles},
		{"locations", []string{"Location"}, generateLocations},
		{"identity", []string{"Person", "Patient"}, generateIdentity},
		{"encounters", []string{"Encounter"}, generateEncounters},
		{"conditions", []string{"Condition"}, generateConditions},
		{"observations", []string{"Observation"}, generateObservations},
		{"procedures", []string{"Procedure"}, generateProcedures},
		{"allergies", []string{"AllergyIntolerance"}, generateAllergies},
		{"medications", []string{"Medication"}, generateMedications},
		{"medication-requests", []string{"MedicationRequest"}, generateMedicationRequests},
		{"medication-dispenses", []string{"MedicationDispense"}, generateMedicationDispenses},
		{"care-plans", []string{"CarePlan"}, generateCarePlans},
		{"document-references", []string{"DocumentReference"}, generateDocumentReferences},
		{"binaries", []string{"Binary"}, generateBinaries},
	}

	for _, ph := range phases {
		enabled := false
		for _, t := range ph.types {
			if ctx.enabled(t) {
				enabled = true
				break
			}
		}
		if !enabled {
			g.logger.Debug().Str("phase", ph.name).Msg("phase disabled by plan")
			continue
		}
		if err := ph.run(ctx); err != nil {
			return nil, fmt.Errorf("synth: phase %s: %w", ph.name, err)
		}
	}

	g.logger.Info().
		Int("resources", ctx.Graph.Len()).
		Int64("seed", ctx.Plan.Seed).
		Msg("generation complete")
	return ctx.Graph, nil
}
