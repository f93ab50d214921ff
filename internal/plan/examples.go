package plan

// MinimalExample is a small single-system plan, one Patient per
// Person, suitable as a starting point for new users.
func MinimalExample() *Plan {
	p := Default()
	p.Population = PopulationConfig{Persons: 10}
	days := 365
	p.Time = TimeConfig{Horizon: TimeHorizon{Days: &days}}
	return p
}

// MultiOrgExample shows two weighted source systems with a
// systems-per-person distribution, the configuration used to exercise
// cross-organization Person/Patient linkage.
func MultiOrgExample() *Plan {
	p := Default()
	years := 2
	p.Population = PopulationConfig{
		Persons: 50,
		Sources: []SourceSystem{
			{
				ID: "baylor",
				Organization: OrganizationConfig{
					Name: "Baylor Scott & White Health",
					Identifiers: []OrganizationIdentifier{
						{System: "urn:oid:2.16.840.1.113883.4.7", Value: "baylor"},
					},
				},
				PatientIDNamespace: "baylor",
				Weight:             0.5,
			},
			{
				ID: "sutter",
				Organization: OrganizationConfig{
					Name: "Sutter Health",
					Identifiers: []OrganizationIdentifier{
						{System: "urn:oid:2.16.840.1.113883.4.7", Value: "sutter"},
					},
				},
				PatientIDNamespace: "sutter",
				Weight:             0.5,
			},
		},
		PersonAppearance: PersonAppearance{
			SystemsPerPersonDistribution: map[int]float64{1: 0.70, 2: 0.25, 3: 0.05},
		},
	}
	p.Time = TimeConfig{Horizon: TimeHorizon{Years: &years}}
	p.Outputs.NDJSON.SplitByResourceType = true
	return p
}
