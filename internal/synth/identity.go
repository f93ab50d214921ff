package synth

import (
	"fmt"
	"strings"

	"github.com/legitrace/fhirsynth/internal/fhir"
	"github.com/legitrace/fhirsynth/internal/plan"
	"github.com/legitrace/fhirsynth/pkg/fhirmodels"
)

// Identity phase: Person entities and their Patient records.
//
// Three modes, selected by the plan: multi-org (source systems
// configured), legacy patients_per_person, and the default of one
// Patient per Person. A Person links every Patient record that belongs
// to the same real-world individual across source systems.
//
// The phase runs when either type is enabled; Person and Patient are
// still gated individually so excluding just one of them holds.

func generateIdentity(ctx *Context) error {
	pop := ctx.Plan.Population
	switch {
	case len(pop.Sources) > 0:
		return generateMultiOrg(ctx)
	case pop.PatientsPerPerson != nil:
		return generateLegacy(ctx)
	default:
		return generateSimple(ctx)
	}
}

func generateMultiOrg(ctx *Context) error {
	pop := ctx.Plan.Population

	systemsDist := pop.PersonAppearance.SystemsPerPersonDistribution
	if len(systemsDist) == 0 {
		systemsDist = map[int]float64{1: 1.0}
	}

	sourcesByID := make(map[string]plan.SourceSystem, len(pop.Sources))
	sourceIDs := make([]string, 0, len(pop.Sources))
	sourceWeights := make([]float64, 0, len(pop.Sources))
	for _, s := range pop.Sources {
		sourcesByID[s.ID] = s
		sourceIDs = append(sourceIDs, s.ID)
		sourceWeights = append(sourceWeights, s.Weight)
	}

	for i := 0; i < pop.Persons; i++ {
		var personID string
		if ctx.enabled("Person") {
			personID = ctx.IDs.Sequential("Person")
		}
		gender := Choice(ctx.RNG, []string{fhirmodels.GenderMale, fhirmodels.GenderFemale})
		given := Choice(ctx.RNG, givenNamesFor(gender))
		family := Choice(ctx.RNG, familyNames)
		birthDate := ctx.Dates.Date()

		numSystems := SelectFromDistribution(ctx.RNG, systemsDist)

		var selected []string
		if numSystems >= len(pop.Sources) {
			selected = sourceIDs
		} else {
			selected = WeightedSample(ctx.RNG, sourceIDs, sourceWeights, numSystems)
		}

		patientIDs := make([]string, 0, len(selected))
		if ctx.enabled("Patient") {
			for _, sourceID := range selected {
				source := sourcesByID[sourceID]
				patientID := ctx.IDs.Namespaced("Patient", source.PatientIDNamespace)
				patientIDs = append(patientIDs, patientID)

				orgRef := orgReferenceForSource(ctx, sourceID)

				identSystem := fmt.Sprintf("https://fhir.%s.com/patient",
					strings.ReplaceAll(strings.ToLower(source.Organization.Name), " ", ""))

				addr := address(ctx, fmt.Sprintf("%d %s St",
					ctx.RNG.IntBetween(100, 9999), Choice(ctx.RNG, streetNames)))
				addr["use"] = "home"

				patient := fhir.MustNew("Patient", patientID, map[string]any{
					"identifier":           []any{fhir.Identifier(identSystem, patientID)},
					"name":                 []any{fhir.HumanName(family, given)},
					"gender":               gender,
					"birthDate":            birthDate,
					"address":              []any{addr},
					"telecom":              []any{phone(ctx, "mobile")},
					"managingOrganization": orgRef,
				})
				if err := ctx.Graph.Add(patient); err != nil {
					return err
				}
				if ref, _ := orgRef["reference"].(string); ref != "" {
					ctx.Graph.TrackReference(Key("Patient", patientID), ref)
				}
			}
		}

		if personID == "" {
			continue
		}
		person := fhir.MustNew("Person", personID, map[string]any{
			"identifier": []any{fhir.Identifier("https://fhir.legitrace.com/person", personID)},
			"name":       []any{fhir.HumanName(family, given)},
			"gender":     gender,
			"birthDate":  birthDate,
			"link":       personLinks(patientIDs),
			"active":     true,
		})
		if err := ctx.Graph.Add(person); err != nil {
			return err
		}
		for _, pid := range patientIDs {
			ctx.Graph.TrackReference(Key("Person", personID), Key("Patient", pid))
		}
	}
	return nil
}

func generateLegacy(ctx *Context) error {
	pop := ctx.Plan.Population
	dist := pop.PatientsPerPerson

	for i := 0; i < pop.Persons; i++ {
		var personID string
		if ctx.enabled("Person") {
			personID = ctx.IDs.Sequential("Person")
		}
		gender := Choice(ctx.RNG, []string{fhirmodels.GenderMale, fhirmodels.GenderFemale})
		given := Choice(ctx.RNG, givenNamesFor(gender))
		family := Choice(ctx.RNG, familyNames)
		birthDate := ctx.Dates.Date()

		var numPatients int
		switch {
		case dist.Fixed != nil:
			numPatients = *dist.Fixed
		case len(dist.Range) == 2:
			numPatients = ctx.RNG.IntBetween(dist.Range[0], dist.Range[1])
		case len(dist.Distribution) > 0:
			numPatients = SelectFromDistribution(ctx.RNG, dist.Distribution)
		default:
			numPatients = 1
		}

		patientIDs := make([]string, 0, numPatients)
		if ctx.enabled("Patient") {
			for j := 0; j < numPatients; j++ {
				patientID := ctx.IDs.Sequential("Patient")
				patientIDs = append(patientIDs, patientID)

				addr := address(ctx, fmt.Sprintf("%d Main St", ctx.RNG.IntBetween(100, 9999)))
				addr["use"] = "home"

				patient := fhir.MustNew("Patient", patientID, map[string]any{
					"identifier": []any{fhir.Identifier("https://fhir.example.com/patient", patientID)},
					"name":       []any{fhir.HumanName(family, given)},
					"gender":     gender,
					"birthDate":  birthDate,
					"address":    []any{addr},
				})
				if err := ctx.Graph.Add(patient); err != nil {
					return err
				}
			}
		}

		if personID == "" {
			continue
		}
		person := fhir.MustNew("Person", personID, map[string]any{
			"name":      []any{fhir.HumanName(family, given)},
			"gender":    gender,
			"birthDate": birthDate,
			"link":      personLinks(patientIDs),
			"active":    true,
		})
		if err := ctx.Graph.Add(person); err != nil {
			return err
		}
		for _, pid := range patientIDs {
			ctx.Graph.TrackReference(Key("Person", personID), Key("Patient", pid))
		}
	}
	return nil
}

func generateSimple(ctx *Context) error {
	pop := ctx.Plan.Population

	for i := 0; i < pop.Persons; i++ {
		var personID string
		if ctx.enabled("Person") {
			personID = ctx.IDs.Sequential("Person")
		}

		gender := Choice(ctx.RNG, []string{fhirmodels.GenderMale, fhirmodels.GenderFemale})
		given := Choice(ctx.RNG, givenNamesFor(gender))
		family := Choice(ctx.RNG, familyNames)
		birthDate := ctx.Dates.Date()

		var patientIDs []string
		if ctx.enabled("Patient") {
			patientID := ctx.IDs.Sequential("Patient")
			patientIDs = append(patientIDs, patientID)

			patient := fhir.MustNew("Patient", patientID, map[string]any{
				"identifier": []any{fhir.Identifier("https://fhir.example.com/patient", patientID)},
				"name":       []any{fhir.HumanName(family, given)},
				"gender":     gender,
				"birthDate":  birthDate,
			})
			if err := ctx.Graph.Add(patient); err != nil {
				return err
			}
		}

		if personID == "" {
			continue
		}
		person := fhir.MustNew("Person", personID, map[string]any{
			"name":      []any{fhir.HumanName(family, given)},
			"gender":    gender,
			"birthDate": birthDate,
			"link":      personLinks(patientIDs),
			"active":    true,
		})
		if err := ctx.Graph.Add(person); err != nil {
			return err
		}
		for _, pid := range patientIDs {
			ctx.Graph.TrackReference(Key("Person", personID), Key("Patient", pid))
		}
	}
	return nil
}

func personLinks(patientIDs []string) []any {
	links := make([]any, 0, len(patientIDs))
	for _, pid := range patientIDs {
		links = append(links, map[string]any{
			"target":    fhir.Reference("Patient", pid),
			"assurance": fhirmodels.AssuranceLevel2,
		})
	}
	return links
}

// orgReferenceForSource finds the Organization materialized for a
// source system by matching identifier values. Falls back to a
// placeholder reference when the organizations phase was excluded;
// reference integrity will flag it if enforcement is on.
func orgReferenceForSource(ctx *Context, sourceID string) map[string]any {
	for _, org := range ctx.Graph.All("Organization") {
		identifiers, _ := org.Body()["identifier"].([]any)
		for _, raw := range identifiers {
			ident, _ := raw.(map[string]any)
			if v, _ := ident["value"].(string); v == sourceID {
				return fhir.Reference("Organization", org.ID())
			}
		}
	}
	return fhir.Reference("Organization", sourceID)
}
