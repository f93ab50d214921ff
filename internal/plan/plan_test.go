package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

func TestParse_DefaultsApply(t *testing.T) {
	p, err := Parse([]byte(`
population:
  persons: 5
time:
  horizon:
    days: 90
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Seed != 42 {
		t.Errorf("expected default seed 42, got %d", p.Seed)
	}
	if p.Outputs.Format != "ndjson" || p.Outputs.Path != "./output" {
		t.Errorf("unexpected output defaults: %+v", p.Outputs)
	}
	if !p.Validation.EnforceReferenceIntegrity || !p.Validation.EnforceTimelineRules ||
		!p.Validation.MedDispenseAfterRequest || !p.Validation.DocumentReferenceBinaryLinked {
		t.Errorf("expected all validation rules on by default: %+v", p.Validation)
	}
}

func TestParse_JSONDocument(t *testing.T) {
	p, err := Parse([]byte(`{"seed": 7, "population": {"persons": 3}, "time": {"horizon": {"months": 6}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Seed != 7 || p.Population.Persons != 3 {
		t.Errorf("unexpected plan: seed=%d persons=%d", p.Seed, p.Population.Persons)
	}
	if p.Time.Horizon.ToDays() != 180 {
		t.Errorf("expected 180 days, got %d", p.Time.Horizon.ToDays())
	}
}

func TestParse_DistributionKeys(t *testing.T) {
	p, err := Parse([]byte(`
population:
  persons: 5
  person_appearance:
    systems_per_person_distribution:
      1: 0.7
      2: 0.25
      3: 0.05
  sources:
    - id: a
      organization:
        name: A Health
      patient_id_namespace: a
      weight: 1.0
time:
  horizon:
    days: 30
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dist := p.Population.PersonAppearance.SystemsPerPersonDistribution
	if dist[1] != 0.7 || dist[2] != 0.25 || dist[3] != 0.05 {
		t.Errorf("unexpected distribution: %v", dist)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yml")
	doc := "population:\n  persons: 4\ntime:\n  horizon:\n    years: 1\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Population.Persons != 4 || p.Time.Horizon.ToDays() != 365 {
		t.Errorf("unexpected plan: %+v", p)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yml")
	if err := MultiOrgExample().Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(p.Population.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(p.Population.Sources))
	}
	if !p.Outputs.NDJSON.SplitByResourceType {
		t.Error("split_by_resource_type lost in round trip")
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidate_PersonsRequired(t *testing.T) {
	p := Default()
	days := 30
	p.Time.Horizon.Days = &days
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for persons < 1")
	}
}

func TestValidate_SourceIDRequired(t *testing.T) {
	p := MinimalExample()
	p.Population.Sources = []SourceSystem{{Organization: OrganizationConfig{Name: "X"}}}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for source without id")
	}
}

func TestValidate_HorizonExactlyOne(t *testing.T) {
	days, months := 30, 2

	p := MinimalExample()
	p.Time.Horizon = TimeHorizon{}
	err := p.Validate()
	if err == nil || !strings.Contains(err.Error(), "exactly one") {
		t.Fatalf("expected exactly-one error for empty horizon, got %v", err)
	}

	p.Time.Horizon = TimeHorizon{Days: &days, Months: &months}
	err = p.Validate()
	if err == nil || !strings.Contains(err.Error(), "exactly one") {
		t.Fatalf("expected exactly-one error for two units, got %v", err)
	}
}

func TestValidate_PatientsPerPersonExactlyOne(t *testing.T) {
	fixed := 2

	p := MinimalExample()
	p.Population.PatientsPerPerson = &PatientDistribution{}
	err := p.Validate()
	if err == nil || !strings.Contains(err.Error(), "exactly one") {
		t.Fatalf("expected exactly-one error for empty distribution, got %v", err)
	}

	p.Population.PatientsPerPerson = &PatientDistribution{Fixed: &fixed, Range: []int{1, 3}}
	err = p.Validate()
	if err == nil || !strings.Contains(err.Error(), "exactly one") {
		t.Fatalf("expected exactly-one error for two forms, got %v", err)
	}

	p.Population.PatientsPerPerson = &PatientDistribution{Fixed: &fixed}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error for valid fixed form: %v", err)
	}
}

func TestValidate_DistributionMustSumToOne(t *testing.T) {
	p := MinimalExample()
	p.Population.PatientsPerPerson = &PatientDistribution{
		Distribution: map[int]float64{1: 0.5, 2: 0.2},
	}
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for probabilities summing to 0.7")
	}

	p.Population.PatientsPerPerson = &PatientDistribution{
		Distribution: map[int]float64{1: 0.7, 2: 0.25, 3: 0.05},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error for valid distribution: %v", err)
	}
}

func TestValidate_UnknownFormat(t *testing.T) {
	p := MinimalExample()
	p.Outputs.Format = "parquet"
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for unknown format")
	}

	p.Outputs.Format = "bundle"
	p.Outputs.BundleType = "batch"
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for unknown bundle_type")
	}
}

func TestHorizon_ToDays(t *testing.T) {
	days, months, years := 45, 3, 2
	cases := []struct {
		h    TimeHorizon
		want int
	}{
		{TimeHorizon{Days: &days}, 45},
		{TimeHorizon{Months: &months}, 90},
		{TimeHorizon{Years: &years}, 730},
	}
	for _, c := range cases {
		if got := c.h.ToDays(); got != c.want {
			t.Errorf("expected %d days, got %d", c.want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Resource filtering
// ---------------------------------------------------------------------------

func TestResourceConfig_Enabled(t *testing.T) {
	all := ResourceConfig{}
	if !all.Enabled("Patient") {
		t.Error("empty config should enable everything")
	}

	included := ResourceConfig{Include: []string{"Patient", "Encounter"}}
	if !included.Enabled("Patient") || included.Enabled("Condition") {
		t.Error("include list not honored")
	}

	// Exclude wins even when the type is also included.
	both := ResourceConfig{Include: []string{"Patient"}, Exclude: []string{"Patient"}}
	if both.Enabled("Patient") {
		t.Error("exclude should win over include")
	}
}

func TestExamples_AreValid(t *testing.T) {
	if err := MinimalExample().Validate(); err != nil {
		t.Errorf("minimal example invalid: %v", err)
	}
	if err := MultiOrgExample().Validate(); err != nil {
		t.Errorf("multi-org example invalid: %v", err)
	}
}
