package synth

import (
	"math"
	"strings"
	"time"

	"github.com/legitrace/fhirsynth/internal/fhir"
	"github.com/legitrace/fhirsynth/pkg/fhirmodels"
)

// Clinical phase: Encounters, Conditions, Observations, Procedures,
// AllergyIntolerances, and CarePlans. Everything hangs off the Patient
// pool; encounters additionally need practitioners and locations and
// skip quietly when either pool is empty.

func generateEncounters(ctx *Context) error {
	patients := ctx.Graph.IDs("Patient")
	practitioners := ctx.Graph.IDs("Practitioner")
	locations := ctx.Graph.IDs("Location")

	if len(practitioners) == 0 || len(locations) == 0 {
		return nil
	}

	for _, patientID := range patients {
		numEncounters := ctx.RNG.IntBetween(2, 8)

		for i := 0; i < numEncounters; i++ {
			encID := ctx.IDs.Sequential("Encounter")
			class := Choice(ctx.RNG, encounterClasses)

			start := ctx.Dates.DateTime()
			var end time.Time
			// Most encounters last hours, some span days.
			if ctx.RNG.Float64() < 0.8 {
				end = start.Add(time.Duration(ctx.RNG.IntBetween(1, 8)) * time.Hour)
			} else {
				end = start.AddDate(0, 0, ctx.RNG.IntBetween(1, 7))
			}
			if end.After(ctx.End) {
				end = ctx.End
			}

			pracID := Choice(ctx.RNG, practitioners)
			locID := Choice(ctx.RNG, locations)

			enc := fhir.MustNew("Encounter", encID, map[string]any{
				"status": fhirmodels.EncounterStatusFinished,
				"class":  fhir.Coding(class.system, class.code, class.display),
				"type": []any{fhir.CodeableConcept(class.display,
					fhir.Coding(class.system, class.code, class.display))},
				"subject": fhir.Reference("Patient", patientID),
				"participant": []any{map[string]any{
					"type": []any{fhir.CodeableConcept("",
						fhir.Coding(fhirmodels.SystemParticipationType, fhirmodels.ParticipantPrimary, "Primary Performer"))},
					"individual": fhir.Reference("Practitioner", pracID),
				}},
				"period": fhir.Period(FormatDateTime(start), FormatDateTime(end)),
				"location": []any{map[string]any{
					"location": fhir.Reference("Location", locID),
					"status":   "active",
				}},
			})
			if err := ctx.Graph.Add(enc); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("Encounter", encID), Key("Patient", patientID))
			ctx.Graph.TrackReference(Key("Encounter", encID), Key("Practitioner", pracID))
			ctx.Graph.TrackReference(Key("Encounter", encID), Key("Location", locID))
		}
	}
	return nil
}

func generateConditions(ctx *Context) error {
	for _, patientID := range ctx.Graph.IDs("Patient") {
		numConditions := ctx.RNG.IntBetween(1, 3)

		for i := 0; i < numConditions; i++ {
			condID := ctx.IDs.Sequential("Condition")
			code := Choice(ctx.RNG, conditionCodes)

			cond := fhir.MustNew("Condition", condID, map[string]any{
				"clinicalStatus": fhir.CodeableConcept("",
					fhir.Coding(fhirmodels.SystemConditionClinical, fhirmodels.ConditionActive, "")),
				"verificationStatus": fhir.CodeableConcept("",
					fhir.Coding(fhirmodels.SystemConditionVerify, "confirmed", "")),
				"category": []any{fhir.CodeableConcept("",
					fhir.Coding("http://terminology.hl7.org/CodeSystem/condition-category", "encounter-diagnosis", "Encounter Diagnosis"))},
				"code":          fhir.CodeableConcept(code.display, fhir.Coding(code.system, code.code, code.display)),
				"subject":       fhir.Reference("Patient", patientID),
				"onsetDateTime": ctx.Dates.DateTimeString(),
			})
			if err := ctx.Graph.Add(cond); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("Condition", condID), Key("Patient", patientID))
		}
	}
	return nil
}

func generateObservations(ctx *Context) error {
	byPatient := encountersByPatient(ctx.Graph)

	for _, patientID := range ctx.Graph.IDs("Patient") {
		patientEncounters := byPatient[patientID]
		numObservations := ctx.RNG.IntBetween(5, 15)

		for i := 0; i < numObservations; i++ {
			obsID := ctx.IDs.Sequential("Observation")
			def := Choice(ctx.RNG, observationDefs)

			effective := ctx.Dates.DateTime()
			var encID string
			// 60% of observations are encounter-linked, timed inside
			// the encounter period.
			if len(patientEncounters) > 0 && ctx.RNG.Float64() < 0.6 {
				enc := Choice(ctx.RNG, patientEncounters)
				encID = enc.ID()
				if start, end, ok := encounterPeriod(enc); ok {
					effective = ctx.Dates.Between(start, end)
				}
			}

			value := roundTo1(ctx.RNG.Uniform(def.low, def.high))

			body := map[string]any{
				"status": "final",
				"category": []any{fhir.CodeableConcept("",
					fhir.Coding(fhirmodels.SystemObsCategory, fhirmodels.ObsCategoryVitalSigns, "Vital Signs"))},
				"code":              fhir.CodeableConcept(def.display, fhir.Coding(fhirmodels.SystemLOINC, def.code, def.display)),
				"subject":           fhir.Reference("Patient", patientID),
				"effectiveDateTime": FormatDateTime(effective),
				"valueQuantity":     fhir.Quantity(value, def.unit, fhirmodels.SystemUCUM, def.unit),
			}
			if encID != "" {
				body["encounter"] = fhir.Reference("Encounter", encID)
			}

			if err := ctx.Graph.Add(fhir.MustNew("Observation", obsID, body)); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("Observation", obsID), Key("Patient", patientID))
			if encID != "" {
				ctx.Graph.TrackReference(Key("Observation", obsID), Key("Encounter", encID))
			}
		}
	}
	return nil
}

func generateProcedures(ctx *Context) error {
	for _, patientID := range ctx.Graph.IDs("Patient") {
		numProcedures := ctx.RNG.IntBetween(0, 2)

		for i := 0; i < numProcedures; i++ {
			procID := ctx.IDs.Sequential("Procedure")
			code := Choice(ctx.RNG, procedureCodes)

			proc := fhir.MustNew("Procedure", procID, map[string]any{
				"status":            "completed",
				"code":              fhir.CodeableConcept(code.display, fhir.Coding(code.system, code.code, code.display)),
				"subject":           fhir.Reference("Patient", patientID),
				"performedDateTime": ctx.Dates.DateTimeString(),
			})
			if err := ctx.Graph.Add(proc); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("Procedure", procID), Key("Patient", patientID))
		}
	}
	return nil
}

func generateAllergies(ctx *Context) error {
	for _, patientID := range ctx.Graph.IDs("Patient") {
		numAllergies := ctx.RNG.IntBetween(0, 2)

		for i := 0; i < numAllergies; i++ {
			allergyID := ctx.IDs.Sequential("AllergyIntolerance")
			code := Choice(ctx.RNG, allergyCodes)

			category := "food"
			if code.display == "Penicillin" {
				category = "medication"
			}

			allergy := fhir.MustNew("AllergyIntolerance", allergyID, map[string]any{
				"clinicalStatus": fhir.CodeableConcept("",
					fhir.Coding(fhirmodels.SystemAllergyClinical, "active", "")),
				"verificationStatus": fhir.CodeableConcept("",
					fhir.Coding(fhirmodels.SystemAllergyVerify, "confirmed", "")),
				"type": fhir.CodeableConcept("",
					fhir.Coding("http://hl7.org/fhir/allergy-intolerance-type", "allergy", "Allergy")),
				"category":      []any{category},
				"criticality":   Choice(ctx.RNG, []string{"low", "high"}),
				"code":          fhir.CodeableConcept(code.display, fhir.Coding(code.system, code.code, code.display)),
				"patient":       fhir.Reference("Patient", patientID),
				"onsetDateTime": ctx.Dates.DateTimeString(),
			})
			if err := ctx.Graph.Add(allergy); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("AllergyIntolerance", allergyID), Key("Patient", patientID))
		}
	}
	return nil
}

func generateCarePlans(ctx *Context) error {
	for _, patientID := range ctx.Graph.IDs("Patient") {
		// 70% of patients get a care plan.
		if ctx.RNG.Float64() < 0.3 {
			continue
		}

		planID := ctx.IDs.Sequential("CarePlan")
		start := ctx.Dates.DateTime()
		end := start.AddDate(0, 0, ctx.RNG.IntBetween(30, 180))

		cp := fhir.MustNew("CarePlan", planID, map[string]any{
			"status":      "active",
			"intent":      "plan",
			"title":       Choice(ctx.RNG, carePlanTitles),
			"description": Choice(ctx.RNG, carePlanDescriptions),
			"subject":     fhir.Reference("Patient", patientID),
			"period":      fhir.Period(FormatDateTime(start), FormatDateTime(end)),
			"activity": []any{
				map[string]any{"detail": map[string]any{
					"status":      "in-progress",
					"description": "Regular blood glucose monitoring",
				}},
				map[string]any{"detail": map[string]any{
					"status":      "in-progress",
					"description": "Dietary consultation",
				}},
			},
		})
		if err := ctx.Graph.Add(cp); err != nil {
			return err
		}
		ctx.Graph.TrackReference(Key("CarePlan", planID), Key("Patient", patientID))
	}
	return nil
}

// encountersByPatient indexes encounters by the patient id in their
// subject reference. Built from the insertion-ordered encounter list
// so downstream draws stay deterministic.
func encountersByPatient(g *Graph) map[string][]fhir.Resource {
	out := make(map[string][]fhir.Resource)
	for _, enc := range g.All("Encounter") {
		subject, _ := enc.Body()["subject"].(map[string]any)
		ref, _ := subject["reference"].(string)
		if pid, ok := strings.CutPrefix(ref, "Patient/"); ok && pid != "" {
			out[pid] = append(out[pid], enc)
		}
	}
	return out
}

// encounterPeriod extracts a parsed period from an encounter body.
func encounterPeriod(enc fhir.Resource) (start, end time.Time, ok bool) {
	period, _ := enc.Body()["period"].(map[string]any)
	startStr, _ := period["start"].(string)
	endStr, _ := period["end"].(string)
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, false
	}
	s, err := ParseDateTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	e, err := ParseDateTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return s, e, true
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
