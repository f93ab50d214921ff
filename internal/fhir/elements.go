package fhir

import "fmt"

// Reference builds a literal reference to another resource.
func Reference(resourceType, id string) map[string]any {
	return map[string]any{"reference": fmt.Sprintf("%s/%s", resourceType, id)}
}

// ReferenceWithDisplay builds a literal reference carrying a display string.
func ReferenceWithDisplay(resourceType, id, display string) map[string]any {
	return map[string]any{
		"reference": fmt.Sprintf("%s/%s", resourceType, id),
		"display":   display,
	}
}

// Coding builds a single coding element.
func Coding(system, code, display string) map[string]any {
	c := map[string]any{"system": system, "code": code}
	if display != "" {
		c["display"] = display
	}
	return c
}

// CodeableConcept wraps codings with an optional text.
func CodeableConcept(text string, codings ...map[string]any) map[string]any {
	cc := map[string]any{}
	if len(codings) > 0 {
		arr := make([]any, 0, len(codings))
		for _, c := range codings {
			arr = append(arr, c)
		}
		cc["coding"] = arr
	}
	if text != "" {
		cc["text"] = text
	}
	return cc
}

// Identifier builds an identifier element.
func Identifier(system, value string) map[string]any {
	return map[string]any{"system": system, "value": value}
}

// HumanName builds an official human name.
func HumanName(family string, given ...string) map[string]any {
	g := make([]any, 0, len(given))
	for _, n := range given {
		g = append(g, n)
	}
	return map[string]any{"use": "official", "family": family, "given": g}
}

// Quantity builds a UCUM-coded quantity.
func Quantity(value float64, unit, system, code string) map[string]any {
	return map[string]any{"value": value, "unit": unit, "system": system, "code": code}
}

// Period builds a period with RFC 3339 start and end.
func Period(start, end string) map[string]any {
	p := map[string]any{"start": start}
	if end != "" {
		p["end"] = end
	}
	return p
}
