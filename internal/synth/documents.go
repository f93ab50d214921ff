package synth

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/legitrace/fhirsynth/internal/fhir"
)

// Documents phase: DocumentReferences for a subset of patients, then a
// placeholder Binary for every attachment URL those documents carry.

func generateDocumentReferences(ctx *Context) error {
	byPatient := encountersByPatient(ctx.Graph)

	for _, patientID := range ctx.Graph.IDs("Patient") {
		patientEncounters := byPatient[patientID]

		// 30% of patients have documents.
		if ctx.RNG.Float64() > 0.3 {
			continue
		}

		numDocs := ctx.RNG.IntBetween(1, 3)
		for i := 0; i < numDocs; i++ {
			docID := ctx.IDs.Sequential("DocumentReference")
			docType := Choice(ctx.RNG, documentTypes)
			created := ctx.Dates.DateTimeString()

			var encID string
			if len(patientEncounters) > 0 && ctx.RNG.Float64() < 0.7 {
				encID = Choice(ctx.RNG, patientEncounters).ID()
			}

			binaryID := "Binary-" + docID

			body := map[string]any{
				"status":  "current",
				"type":    fhir.CodeableConcept(docType.display, fhir.Coding(docType.system, docType.code, docType.display)),
				"subject": fhir.Reference("Patient", patientID),
				"date":    created,
				"content": []any{map[string]any{
					"attachment": map[string]any{
						"contentType": "application/pdf",
						"url":         "Binary/" + binaryID,
						"title":       docType.display,
						"creation":    created,
					},
				}},
			}
			if encID != "" {
				body["context"] = map[string]any{
					"encounter": []any{fhir.Reference("Encounter", encID)},
				}
			}

			if err := ctx.Graph.Add(fhir.MustNew("DocumentReference", docID, body)); err != nil {
				return err
			}
			ctx.Graph.TrackReference(Key("DocumentReference", docID), Key("Patient", patientID))
			ctx.Graph.TrackReference(Key("DocumentReference", docID), Key("Binary", binaryID))
			if encID != "" {
				ctx.Graph.TrackReference(Key("DocumentReference", docID), Key("Encounter", encID))
			}
		}
	}
	return nil
}

func generateBinaries(ctx *Context) error {
	for _, doc := range ctx.Graph.All("DocumentReference") {
		body := doc.Body()
		contents, _ := body["content"].([]any)
		for _, raw := range contents {
			content, _ := raw.(map[string]any)
			attachment, _ := content["attachment"].(map[string]any)
			if attachment == nil {
				continue
			}
			url, _ := attachment["url"].(string)
			binaryID, ok := strings.CutPrefix(url, "Binary/")
			if !ok || binaryID == "" {
				continue
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Clinical document %s\n", binaryID)
			if subject, _ := body["subject"].(map[string]any); subject != nil {
				fmt.Fprintf(&sb, "Patient: %v\n", subject["reference"])
			} else {
				sb.WriteString("Patient: Unknown\n")
			}
			if date, _ := body["date"].(string); date != "" {
				fmt.Fprintf(&sb, "Date: %s\n", date)
			} else {
				sb.WriteString("Date: Unknown\n")
			}
			if dt, _ := body["type"].(map[string]any); dt != nil {
				fmt.Fprintf(&sb, "Type: %v\n", dt["text"])
			} else {
				sb.WriteString("Type: Unknown\n")
			}
			sb.WriteString("\n[Document content would appear here]\n")

			contentType, _ := attachment["contentType"].(string)
			if contentType == "" {
				contentType = "application/pdf"
			}

			binary := fhir.MustNew("Binary", binaryID, map[string]any{
				"contentType": contentType,
				"data":        base64.StdEncoding.EncodeToString([]byte(sb.String())),
			})
			if err := ctx.Graph.Add(binary); err != nil {
				return err
			}
		}
	}
	return nil
}
