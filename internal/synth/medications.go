package synth

import (
	"time"

	"github.com/legitrace/fhirsynth/internal/fhir"
	"github.com/legitrace/fhirsynth/pkg/fhirmodels"
)

// Medications phase: the fixed Medication pool, per-patient
// MedicationRequests, and the dispenses that follow 60% of requests.

func generateMedications(ctx *Context) error {
	for _, code := range medicationCodes {
		medID := ctx.IDs.Sequential("Medication")
		med := fhir.MustNew("Medication", medID, map[string]any{
			"code":   fhir.CodeableConcept(code.display, fhir.Coding(code.system, code.code, code.display)),
			"status": "active",
		})
		if err := ctx.Graph.Add(med); err != nil {
			return err
		}
	}
	return nil
}

func generateMedicationRequests(ctx *Context) error {
	patients := ctx.Graph.IDs("Patient")
	practitioners := ctx.Graph.IDs("Practitioner")
	medications := ctx.Graph.IDs("Medication")

	if len(practitioners) == 0 || len(medications) == 0 {
		return nil
	}

	for _, patientID := range patients {
		numRequests := ctx.RNG.IntBetween(1, 4)

		for i := 0; i < numRequests; i++ {
			reqID := ctx.IDs.Sequential("MedicationRequest")
			medID := Choice(ctx.RNG, medications)
			authored := ctx.Dates.DateTime()
			pracID := Choice(ctx.RNG, practitioners)

			unitIdx := ctx.RNG.IntBetween(0, len(doseUnits)-1)

			req := fhir.MustNew("MedicationRequest", reqID, map[string]any{
				"status":              "active",
				"intent":              "order",
				"medicationReference": fhir.Reference("Medication", medID),
				"subject":             fhir.Reference("Patient", patientID),
				"authoredOn":          FormatDateTime(authored),
				"requester":           fhir.Reference("Practitioner", pracID),
				"dosageInstruction": []any{map[string]any{
					"text": Choice(ctx.RNG, dosageTexts),
					"timing": map[string]any{"repeat": map[string]any{
						"frequency":  ctx.RNG.IntBetween(1, 3),
						"period":     1,
						"periodUnit": "d",
					}},
					"doseAndRate": []any{map[string]any{
						"doseQuantity": fhir.Quantity(
							Choice(ctx.RNG, doseValues), doseUnits[unitIdx],
							fhirmodels.SystemUCUM, doseUnitCodes[unitIdx]),
					}},
				}},
			})
			if err := ctx.Graph.Add(req); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("MedicationRequest", reqID), Key("Patient", patientID))
			ctx.Graph.TrackReference(Key("MedicationRequest", reqID), Key("Medication", medID))
			ctx.Graph.TrackReference(Key("MedicationRequest", reqID), Key("Practitioner", pracID))
		}
	}
	return nil
}

func generateMedicationDispenses(ctx *Context) error {
	for _, req := range ctx.Graph.All("MedicationRequest") {
		// 60% of requests result in a dispense.
		if ctx.RNG.Float64() > 0.6 {
			continue
		}

		dispenseID := ctx.IDs.Sequential("MedicationDispense")
		body := req.Body()

		var requestTime time.Time
		var haveRequestTime bool
		if authored, _ := body["authoredOn"].(string); authored != "" {
			if t, err := ParseDateTime(authored); err == nil {
				requestTime = t
				haveRequestTime = true
			}
		}

		var handedOver time.Time
		if haveRequestTime {
			handedOver = requestTime.AddDate(0, 0, ctx.RNG.IntBetween(0, 5))
		} else {
			handedOver = ctx.Dates.DateTime()
		}
		// Clamp rather than emit data the timeline rule would reject.
		if handedOver.After(ctx.End) {
			handedOver = ctx.End
		}
		if ctx.Plan.Validation.MedDispenseAfterRequest && haveRequestTime && handedOver.Before(requestTime) {
			handedOver = requestTime.Add(time.Hour)
		}

		dispense := fhir.MustNew("MedicationDispense", dispenseID, map[string]any{
			"status":                  "completed",
			"medicationReference":     body["medicationReference"],
			"subject":                 body["subject"],
			"authorizingPrescription": []any{fhir.Reference("MedicationRequest", req.ID())},
			"whenHandedOver":          FormatDateTime(handedOver),
			"quantity":                fhir.Quantity(Choice(ctx.RNG, dispenseQuantities), "tablet", fhirmodels.SystemUCUM, "tablet"),
			"daysSupply":              fhir.Quantity(Choice(ctx.RNG, dispenseQuantities), "days", fhirmodels.SystemUCUM, "d"),
		})
		if err := ctx.Graph.Add(dispense); err != nil {
			return err
		}

		if subject, _ := body["subject"].(map[string]any); subject != nil {
			if ref, _ := subject["reference"].(string); ref != "" {
				ctx.Graph.TrackReference(Key("MedicationDispense", dispenseID), ref)
			}
		}
		ctx.Graph.TrackReference(Key("MedicationDispense", dispenseID), Key("MedicationRequest", req.ID()))
		if medRef, _ := body["medicationReference"].(map[string]any); medRef != nil {
			if ref, _ := medRef["reference"].(string); ref != "" {
				ctx.Graph.TrackReference(Key("MedicationDispense", dispenseID), ref)
			}
		}
	}
	return nil
}
