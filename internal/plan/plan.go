// Package plan defines the dataset generation plan: population shape,
// time window, resource filtering, output targets, and validation
// toggles. Plans validate eagerly at load time so a generation run
// never starts from a structurally bad configuration.
package plan

import (
	"fmt"
	"math"
)

// OrganizationIdentifier is a FHIR identifier carried by a source
// organization.
type OrganizationIdentifier struct {
	System string `yaml:"system" json:"system"`
	Value  string `yaml:"value" json:"value"`
}

// OrganizationConfig describes the Organization resource a source
// system materializes as.
type OrganizationConfig struct {
	Name        string                   `yaml:"name" json:"name"`
	Identifiers []OrganizationIdentifier `yaml:"identifiers,omitempty" json:"identifiers,omitempty"`
}

// SourceSystem is one upstream system that produces Patient records.
type SourceSystem struct {
	ID                 string             `yaml:"id" json:"id"`
	Organization       OrganizationConfig `yaml:"organization" json:"organization"`
	PatientIDNamespace string             `yaml:"patient_id_namespace" json:"patient_id_namespace"`
	Weight             float64            `yaml:"weight" json:"weight"`
}

// PatientDistribution specifies how many Patient records each Person
// gets in the legacy single-system mode. Exactly one of the three
// fields may be set.
type PatientDistribution struct {
	Fixed        *int            `yaml:"fixed,omitempty" json:"fixed,omitempty"`
	Range        []int           `yaml:"range,omitempty" json:"range,omitempty"`
	Distribution map[int]float64 `yaml:"distribution,omitempty" json:"distribution,omitempty"`
}

// Validate checks the exactly-one constraint and the individual forms.
func (d *PatientDistribution) Validate() error {
	set := 0
	if d.Fixed != nil {
		set++
	}
	if len(d.Range) > 0 {
		set++
	}
	if len(d.Distribution) > 0 {
		set++
	}
	if set != 1 {
		return fmt.Errorf("patients_per_person: must specify exactly one of: fixed, range, or distribution")
	}
	if d.Fixed != nil && *d.Fixed < 1 {
		return fmt.Errorf("patients_per_person: fixed must be >= 1, got %d", *d.Fixed)
	}
	if len(d.Range) > 0 {
		if len(d.Range) != 2 {
			return fmt.Errorf("patients_per_person: range must be [min, max], got %v", d.Range)
		}
		if d.Range[0] < 1 || d.Range[1] < d.Range[0] {
			return fmt.Errorf("patients_per_person: invalid range [%d, %d]", d.Range[0], d.Range[1])
		}
	}
	if len(d.Distribution) > 0 {
		if err := checkDistributionSum("patients_per_person distribution", d.Distribution); err != nil {
			return err
		}
	}
	return nil
}

// PersonAppearance controls how many source systems each Person
// appears in when multiple sources are configured.
type PersonAppearance struct {
	SystemsPerPersonDistribution map[int]float64 `yaml:"systems_per_person_distribution,omitempty" json:"systems_per_person_distribution,omitempty"`
}

// PopulationConfig shapes the generated population.
type PopulationConfig struct {
	Persons           int                  `yaml:"persons" json:"persons"`
	Sources           []SourceSystem       `yaml:"sources,omitempty" json:"sources,omitempty"`
	PersonAppearance  PersonAppearance     `yaml:"person_appearance,omitempty" json:"person_appearance,omitempty"`
	PatientsPerPerson *PatientDistribution `yaml:"patients_per_person,omitempty" json:"patients_per_person,omitempty"`
}

// TimeHorizon is a period length. Exactly one unit may be set; months
// and years convert approximately (30 and 365 days).
type TimeHorizon struct {
	Days   *int `yaml:"days,omitempty" json:"days,omitempty"`
	Months *int `yaml:"months,omitempty" json:"months,omitempty"`
	Years  *int `yaml:"years,omitempty" json:"years,omitempty"`
}

// Validate checks the exactly-one constraint and positivity.
func (h *TimeHorizon) Validate() error {
	set := 0
	for _, v := range []*int{h.Days, h.Months, h.Years} {
		if v != nil {
			set++
			if *v < 1 {
				return fmt.Errorf("time horizon: units must be >= 1, got %d", *v)
			}
		}
	}
	if set != 1 {
		return fmt.Errorf("time horizon: must specify exactly one of: days, months, or years")
	}
	return nil
}

// ToDays converts the horizon to days.
func (h *TimeHorizon) ToDays() int {
	switch {
	case h.Days != nil:
		return *h.Days
	case h.Months != nil:
		return *h.Months * 30
	case h.Years != nil:
		return *h.Years * 365
	}
	return 0
}

// TimeConfig bounds the generation window. Start and end are ISO 8601
// dates or datetimes; end defaults to now (UTC) and start to end minus
// the horizon.
type TimeConfig struct {
	Horizon   TimeHorizon `yaml:"horizon" json:"horizon"`
	StartDate string      `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   string      `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Timezone  string      `yaml:"timezone,omitempty" json:"timezone,omitempty"`
}

// ResourceConfig filters which resource types the pipeline emits.
// Exclude wins over include; an empty include list means every type.
type ResourceConfig struct {
	Include []string `yaml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// Enabled reports whether a resource type should be generated.
func (c *ResourceConfig) Enabled(resourceType string) bool {
	for _, t := range c.Exclude {
		if t == resourceType {
			return false
		}
	}
	if len(c.Include) == 0 {
		return true
	}
	for _, t := range c.Include {
		if t == resourceType {
			return true
		}
	}
	return false
}

// NDJSONOptions tunes the NDJSON writer.
type NDJSONOptions struct {
	SplitByResourceType bool `yaml:"split_by_resource_type" json:"split_by_resource_type"`
}

// OutputConfig selects the output writer.
type OutputConfig struct {
	Format     string        `yaml:"format" json:"format"`
	BundleType string        `yaml:"bundle_type,omitempty" json:"bundle_type,omitempty"`
	Path       string        `yaml:"path" json:"path"`
	NDJSON     NDJSONOptions `yaml:"ndjson,omitempty" json:"ndjson,omitempty"`
}

// ValidationConfig toggles the post-generation validation rules.
type ValidationConfig struct {
	EnforceReferenceIntegrity     bool `yaml:"enforce_reference_integrity" json:"enforce_reference_integrity"`
	EnforceTimelineRules          bool `yaml:"enforce_timeline_rules" json:"enforce_timeline_rules"`
	MedDispenseAfterRequest       bool `yaml:"med_dispense_after_request" json:"med_dispense_after_request"`
	DocumentReferenceBinaryLinked bool `yaml:"documentreference_binary_linked" json:"documentreference_binary_linked"`
}

// Plan is a complete dataset generation plan.
type Plan struct {
	Version    int              `yaml:"version" json:"version"`
	Seed       int64            `yaml:"seed" json:"seed"`
	Population PopulationConfig `yaml:"population" json:"population"`
	Time       TimeConfig       `yaml:"time" json:"time"`
	Resources  ResourceConfig   `yaml:"resources,omitempty" json:"resources,omitempty"`
	Outputs    OutputConfig     `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Validation ValidationConfig `yaml:"validation,omitempty" json:"validation,omitempty"`
}

// Default returns a plan with every optional field at its default.
// Loaders unmarshal on top of this so absent fields keep defaults.
func Default() *Plan {
	return &Plan{
		Version: 1,
		Seed:    42,
		Outputs: OutputConfig{
			Format: "ndjson",
			Path:   "./output",
		},
		Validation: ValidationConfig{
			EnforceReferenceIntegrity:     true,
			EnforceTimelineRules:          true,
			MedDispenseAfterRequest:       true,
			DocumentReferenceBinaryLinked: true,
		},
	}
}

// Validate checks the plan's structural constraints.
func (p *Plan) Validate() error {
	if p.Population.Persons < 1 {
		return fmt.Errorf("population: persons must be >= 1, got %d", p.Population.Persons)
	}
	for i, s := range p.Population.Sources {
		if s.ID == "" {
			return fmt.Errorf("population: sources[%d]: id is required", i)
		}
		if s.Weight < 0 {
			return fmt.Errorf("population: source %q: weight must be >= 0, got %g", s.ID, s.Weight)
		}
	}
	if dist := p.Population.PersonAppearance.SystemsPerPersonDistribution; len(dist) > 0 {
		if err := checkDistributionSum("systems_per_person_distribution", dist); err != nil {
			return err
		}
	}
	if p.Population.PatientsPerPerson != nil {
		if err := p.Population.PatientsPerPerson.Validate(); err != nil {
			return err
		}
	}
	if err := p.Time.Horizon.Validate(); err != nil {
		return err
	}
	switch p.Outputs.Format {
	case "", "ndjson", "bundle", "files":
	default:
		return fmt.Errorf("outputs: unknown format %q", p.Outputs.Format)
	}
	switch p.Outputs.BundleType {
	case "", "collection", "transaction":
	default:
		return fmt.Errorf("outputs: unknown bundle_type %q", p.Outputs.BundleType)
	}
	return nil
}

func checkDistributionSum(name string, dist map[int]float64) error {
	total := 0.0
	for k, v := range dist {
		if k < 0 {
			return fmt.Errorf("%s: negative key %d", name, k)
		}
		if v < 0 {
			return fmt.Errorf("%s: negative probability for key %d", name, k)
		}
		total += v
	}
	if math.Abs(total-1.0) > 0.01 {
		return fmt.Errorf("%s: probabilities must sum to 1.0, got %g", name, total)
	}
	return nil
}
