// Package fhir provides the resource construction layer used by the
// generator: a minimal map-backed FHIR resource with a typed accessor
// surface and required-field checks at construction time.
package fhir

import (
	"encoding/json"
	"fmt"
)

// Resource is the read surface every generated FHIR resource exposes.
// Implementations are immutable after construction as far as the graph
// is concerned; callers must not mutate the returned body.
type Resource interface {
	ResourceType() string
	ID() string
	Body() map[string]any
}

// requiredFields lists the fields a resource type must carry beyond
// resourceType and id. Types absent from the map have no extra
// requirements.
var requiredFields = map[string][]string{
	"Patient":            {"name"},
	"Person":             {"name"},
	"Practitioner":       {"name"},
	"Organization":       {"name"},
	"Location":           {"name"},
	"Encounter":          {"status", "subject"},
	"Observation":        {"status", "code", "subject"},
	"Condition":          {"code", "subject"},
	"Procedure":          {"status", "code", "subject"},
	"AllergyIntolerance": {"code", "patient"},
	"Medication":         {"code"},
	"MedicationRequest":  {"status", "intent", "subject"},
	"MedicationDispense": {"status", "subject"},
	"CarePlan":           {"status", "intent", "subject"},
	"DocumentReference":  {"status", "content"},
	"Binary":             {"contentType"},
	"PractitionerRole":   {"practitioner"},
}

type mapResource struct {
	body map[string]any
}

func (r *mapResource) ResourceType() string {
	s, _ := r.body["resourceType"].(string)
	return s
}

func (r *mapResource) ID() string {
	s, _ := r.body["id"].(string)
	return s
}

func (r *mapResource) Body() map[string]any { return r.body }

func (r *mapResource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.body)
}

// New builds a Resource from a resource type, an id, and the remaining
// body fields. It rejects empty type/id and missing required fields so
// that malformed resources never reach the graph.
func New(resourceType, id string, fields map[string]any) (Resource, error) {
	if resourceType == "" {
		return nil, fmt.Errorf("fhir: resource type is required")
	}
	if id == "" {
		return nil, fmt.Errorf("fhir: %s: id is required", resourceType)
	}
	body := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		body[k] = v
	}
	body["resourceType"] = resourceType
	body["id"] = id
	for _, f := range requiredFields[resourceType] {
		if body[f] == nil {
			return nil, fmt.Errorf("fhir: %s/%s: missing required field %q", resourceType, id, f)
		}
	}
	return &mapResource{body: body}, nil
}

// MustNew is New for bodies assembled by the generator itself, where a
// constructor error is a programming bug rather than bad input.
func MustNew(resourceType, id string, fields map[string]any) Resource {
	r, err := New(resourceType, id, fields)
	if err != nil {
		panic(err)
	}
	return r
}
