package synth

import (
	"fmt"
	"strings"

	"github.com/legitrace/fhirsynth/internal/fhir"
	"github.com/legitrace/fhirsynth/pkg/fhirmodels"
)

// Infrastructure phase: Organizations, Practitioners, PractitionerRoles,
// and Locations. These pools must exist before clinical phases run,
// since encounters and medication requests draw from them.

func generateOrganizations(ctx *Context) error {
	sources := ctx.Plan.Population.Sources

	if len(sources) > 0 {
		for _, source := range sources {
			orgID := ctx.IDs.Sequential("Organization")

			identifiers := make([]any, 0, len(source.Organization.Identifiers))
			for _, ident := range source.Organization.Identifiers {
				identifiers = append(identifiers, fhir.Identifier(ident.System, ident.Value))
			}
			if len(identifiers) == 0 {
				identifiers = append(identifiers, fhir.Identifier("urn:org", source.ID))
			}

			org := fhir.MustNew("Organization", orgID, map[string]any{
				"identifier": identifiers,
				"active":     true,
				"name":       source.Organization.Name,
				"type": []any{fhir.CodeableConcept("Healthcare Provider",
					fhir.Coding(fhirmodels.SystemOrgType, "prov", "Healthcare Provider"))},
				"contact": []any{orgContact(ctx)},
			})
			if err := ctx.Graph.Add(org); err != nil {
				return err
			}
		}
		return nil
	}

	numOrgs := ctx.RNG.IntBetween(3, 5)
	for i := 0; i < numOrgs; i++ {
		orgID := ctx.IDs.Sequential("Organization")
		name := fmt.Sprintf("%s %s",
			Choice(ctx.RNG, []string{"General", "Regional", "Community", "University"}),
			Choice(ctx.RNG, []string{"Hospital", "Medical Center", "Health System", "Clinic"}))

		org := fhir.MustNew("Organization", orgID, map[string]any{
			"identifier": []any{fhir.Identifier("https://fhir.example.com/org", orgID)},
			"active":     true,
			"name":       name,
			"type": []any{fhir.CodeableConcept("",
				fhir.Coding(fhirmodels.SystemOrgType, "prov", "Healthcare Provider"))},
			"contact": []any{orgContact(ctx)},
		})
		if err := ctx.Graph.Add(org); err != nil {
			return err
		}
	}
	return nil
}

func generatePractitioners(ctx *Context) error {
	numPractitioners := ctx.RNG.IntBetween(10, 20)

	for i := 0; i < numPractitioners; i++ {
		pracID := ctx.IDs.Sequential("Practitioner")
		gender := Choice(ctx.RNG, []string{fhirmodels.GenderMale, fhirmodels.GenderFemale})
		given := Choice(ctx.RNG, givenNamesFor(gender))
		family := Choice(ctx.RNG, familyNames)

		name := fhir.HumanName(family, given)
		name["prefix"] = []any{Choice(ctx.RNG, []string{"Dr.", "Dr.", "Dr.", "NP", "PA"})}

		prac := fhir.MustNew("Practitioner", pracID, map[string]any{
			"identifier": []any{
				fhir.Identifier("https://fhir.example.com/practitioner", pracID),
				fhir.Identifier(fhirmodels.SystemNPI, fmt.Sprintf("%d", ctx.RNG.Int63Between(1000000000, 9999999999))),
			},
			"active": true,
			"name":   []any{name},
			"gender": gender,
			"telecom": []any{map[string]any{
				"system": "email",
				"value":  fmt.Sprintf("%s.%s@example.com", strings.ToLower(given), strings.ToLower(family)),
				"use":    "work",
			}},
			"qualification": []any{map[string]any{
				"code": fhir.CodeableConcept("Doctor of Medicine",
					fhir.Coding("http://terminology.hl7.org/CodeSystem/v2-0360", "MD", "Doctor of Medicine")),
			}},
		})
		if err := ctx.Graph.Add(prac); err != nil {
			return err
		}
	}
	return nil
}

func generatePractitionerRoles(ctx *Context) error {
	practitioners := ctx.Graph.IDs("Practitioner")
	organizations := ctx.Graph.IDs("Organization")
	locations := ctx.Graph.IDs("Location")

	if len(organizations) == 0 {
		return nil
	}

	for _, pracID := range practitioners {
		numRoles := ctx.RNG.IntBetween(1, 2)

		for i := 0; i < numRoles; i++ {
			roleID := ctx.IDs.Sequential("PractitionerRole")
			orgID := Choice(ctx.RNG, organizations)
			role := Choice(ctx.RNG, practitionerRoleCodes)
			specialty := Choice(ctx.RNG, practitionerSpecialties)

			body := map[string]any{
				"active":       true,
				"practitioner": fhir.Reference("Practitioner", pracID),
				"organization": fhir.Reference("Organization", orgID),
				"code": []any{fhir.CodeableConcept(role.display,
					fhir.Coding(role.system, role.code, role.display))},
				"specialty": []any{fhir.CodeableConcept(specialty.display,
					fhir.Coding(specialty.system, specialty.code, specialty.display))},
			}

			var locID string
			if len(locations) > 0 && ctx.RNG.Float64() > 0.3 {
				locID = Choice(ctx.RNG, locations)
				body["location"] = []any{fhir.Reference("Location", locID)}
			}

			if err := ctx.Graph.Add(fhir.MustNew("PractitionerRole", roleID, body)); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("PractitionerRole", roleID), Key("Practitioner", pracID))
			ctx.Graph.TrackReference(Key("PractitionerRole", roleID), Key("Organization", orgID))
			if locID != "" {
				ctx.Graph.TrackReference(Key("PractitionerRole", roleID), Key("Location", locID))
			}
		}
	}
	return nil
}

func generateLocations(ctx *Context) error {
	numLocations := ctx.RNG.IntBetween(5, 10)

	for i := 0; i < numLocations; i++ {
		locID := ctx.IDs.Sequential("Location")
		lt := Choice(ctx.RNG, locationTypes)

		loc := fhir.MustNew("Location", locID, map[string]any{
			"identifier": []any{fhir.Identifier("https://fhir.example.com/location", locID)},
			"status":     "active",
			"name":       fmt.Sprintf("%s %d", lt.name, ctx.RNG.IntBetween(1, 99)),
			"mode":       "instance",
			"type": []any{fhir.CodeableConcept(lt.name,
				fhir.Coding(fhirmodels.SystemLocationType, lt.code, lt.name))},
			"address": address(ctx, fmt.Sprintf("%d Medical Center Dr", ctx.RNG.IntBetween(100, 9999))),
			"contact": []any{map[string]any{"telecom": []any{phone(ctx, "work")}}},
		})
		if err := ctx.Graph.Add(loc); err != nil {
			return err
		}
	}
	return nil
}

func orgContact(ctx *Context) map[string]any {
	return map[string]any{
		"telecom": []any{phone(ctx, "work")},
		"address": address(ctx, fmt.Sprintf("%d Medical Plaza", ctx.RNG.IntBetween(100, 9999))),
	}
}

func phone(ctx *Context, use string) map[string]any {
	return map[string]any{
		"system": "phone",
		"value": fmt.Sprintf("+1-%d-%d-%d",
			ctx.RNG.IntBetween(200, 999), ctx.RNG.IntBetween(200, 999), ctx.RNG.IntBetween(1000, 9999)),
		"use": use,
	}
}

func address(ctx *Context, line string) map[string]any {
	return map[string]any{
		"line":       []any{line},
		"city":       Choice(ctx.RNG, cities),
		"state":      Choice(ctx.RNG, states),
		"postalCode": fmt.Sprintf("%d", ctx.RNG.IntBetween(10000, 99999)),
		"country":    "US",
	}
}

func givenNamesFor(gender string) []string {
	if gender == fhirmodels.GenderMale {
		return givenNamesMale
	}
	return givenNamesFemale
}
