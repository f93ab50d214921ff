// Package validate runs the post-generation consistency rules over an
// entity graph: reference integrity, timeline bounds, dispense
// ordering, and document/binary linkage. Findings are data, not
// errors; callers decide whether a failed dataset is still written.
package validate

import (
	"fmt"
	"strings"

	"github.com/legitrace/fhirsynth/internal/plan"
	"github.com/legitrace/fhirsynth/internal/synth"
)

// Result collects validation findings. Errors are rule violations;
// warnings flag data the rules could not evaluate.
type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// IsValid reports whether no errors were found. Warnings do not fail
// validation.
func (r *Result) IsValid() bool { return len(r.Errors) == 0 }

// Summary renders a human-readable report, truncated to the first ten
// findings per category.
func (r *Result) Summary() string {
	var lines []string
	appendCategory := func(label string, findings []string) {
		if len(findings) == 0 {
			return
		}
		lines = append(lines, fmt.Sprintf("%s: %d", label, len(findings)))
		for i, f := range findings {
			if i == 10 {
				lines = append(lines, fmt.Sprintf("  ... and %d more", len(findings)-10))
				break
			}
			lines = append(lines, "  - "+f)
		}
	}
	appendCategory("Errors", r.Errors)
	appendCategory("Warnings", r.Warnings)
	if len(lines) == 0 {
		lines = append(lines, "Validation passed: no errors or warnings")
	}
	return strings.Join(lines, "\n")
}

// Dataset runs every rule the plan enables against the graph.
func Dataset(g *synth.Graph, p *plan.Plan) *Result {
	result := &Result{}

	if p.Validation.EnforceReferenceIntegrity {
		checkReferenceIntegrity(g, result)
	}
	if p.Validation.EnforceTimelineRules {
		checkTimelineRules(g, p, result)
	}
	if p.Validation.MedDispenseAfterRequest {
		checkDispenseOrdering(g, result)
	}
	if p.Validation.DocumentReferenceBinaryLinked {
		checkDocumentBinaryLinks(g, result)
	}

	return result
}

// checkReferenceIntegrity walks every resource body and verifies each
// embedded reference resolves within the graph. References are
// re-derived from bodies rather than read from the tracked edge set,
// so a resource whose body and edges disagree still gets caught.
func checkReferenceIntegrity(g *synth.Graph, result *Result) {
	for _, key := range g.Keys() {
		rt, id, _ := strings.Cut(key, "/")
		r, _ := g.Get(rt, id)
		walkReferences(r.Body(), func(ref string) {
			if !strings.Contains(ref, "/") {
				return
			}
			if !g.Has(ref) {
				result.addError("%s: reference to %s does not resolve", key, ref)
			}
		})
	}
}

// walkReferences visits every reference string in a body. A map
// carrying a "reference" key is treated as a FHIR Reference element
// and not descended into further.
func walkReferences(v any, visit func(ref string)) {
	switch node := v.(type) {
	case map[string]any:
		if ref, ok := node["reference"].(string); ok {
			visit(ref)
			return
		}
		for _, child := range node {
			walkReferences(child, visit)
		}
	case []any:
		for _, child := range node {
			walkReferences(child, visit)
		}
	}
}

// dateFields are the resource body fields the timeline rule inspects.
var dateFields = []string{
	"date",
	"authoredOn",
	"effectiveDateTime",
	"performedDateTime",
	"onsetDateTime",
	"whenHandedOver",
	"birthDate",
}

// checkTimelineRules verifies dated fields fall inside the plan's
// window. The rule only applies when the plan carries explicit start
// and end dates; with a relative horizon there is no fixed window to
// compare against.
func checkTimelineRules(g *synth.Graph, p *plan.Plan, result *Result) {
	if p.Time.StartDate == "" || p.Time.EndDate == "" {
		return
	}
	loc, err := synth.PlanLocation(p)
	if err != nil {
		return
	}
	start, err := synth.ParseDateTimeIn(p.Time.StartDate, loc)
	if err != nil {
		return
	}
	end, err := synth.ParseDateTimeIn(p.Time.EndDate, loc)
	if err != nil {
		return
	}

	for _, key := range g.Keys() {
		rt, id, _ := strings.Cut(key, "/")
		r, _ := g.Get(rt, id)
		body := r.Body()
		for _, field := range dateFields {
			raw, present := body[field]
			if !present {
				continue
			}
			s, _ := raw.(string)
			t, err := synth.ParseDateTime(s)
			if err != nil {
				result.addWarning("%s: could not parse date field %s", key, field)
				continue
			}
			if t.Before(start) || t.After(end) {
				result.addError("%s: %s %s is outside time horizon", key, field, s)
			}
		}
	}
}

// checkDispenseOrdering verifies each dispense was handed over no
// earlier than its authorizing request was authored.
func checkDispenseOrdering(g *synth.Graph, result *Result) {
	for _, dispense := range g.All("MedicationDispense") {
		body := dispense.Body()
		handedStr, _ := body["whenHandedOver"].(string)
		if handedStr == "" {
			continue
		}
		handed, err := synth.ParseDateTime(handedStr)
		if err != nil {
			continue
		}

		prescriptions, _ := body["authorizingPrescription"].([]any)
		for _, raw := range prescriptions {
			refMap, _ := raw.(map[string]any)
			ref, _ := refMap["reference"].(string)
			reqID, ok := strings.CutPrefix(ref, "MedicationRequest/")
			if !ok {
				continue
			}
			request, found := g.Get("MedicationRequest", reqID)
			if !found {
				continue
			}
			authoredStr, _ := request.Body()["authoredOn"].(string)
			if authoredStr == "" {
				continue
			}
			authored, err := synth.ParseDateTime(authoredStr)
			if err != nil {
				continue
			}
			if handed.Before(authored) {
				result.addError("MedicationDispense/%s: dispense date %s is before request date %s",
					dispense.ID(), handedStr, authoredStr)
			}
		}
	}
}

// checkDocumentBinaryLinks verifies each DocumentReference attachment
// pointing at a Binary resolves within the graph.
func checkDocumentBinaryLinks(g *synth.Graph, result *Result) {
	for _, doc := range g.All("DocumentReference") {
		contents, _ := doc.Body()["content"].([]any)
		for _, raw := range contents {
			content, _ := raw.(map[string]any)
			attachment, _ := content["attachment"].(map[string]any)
			url, _ := attachment["url"].(string)
			binaryID, ok := strings.CutPrefix(url, "Binary/")
			if !ok || binaryID == "" {
				continue
			}
			if _, found := g.Get("Binary", binaryID); !found {
				result.addError("DocumentReference/%s: binary reference %s does not resolve", doc.ID(), url)
			}
		}
	}
}
