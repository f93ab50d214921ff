package synth

import "github.com/legitrace/fhirsynth/pkg/fhirmodels"

// Name and terminology pools the phases draw from. Pools are fixed
// slices; drawing from them goes through the seeded RNG so output is
// reproducible.

var givenNamesFemale = []string{
	"Emma", "Olivia", "Ava", "Isabella", "Sophia",
	"Mia", "Charlotte", "Amelia", "Harper", "Evelyn",
}

var givenNamesMale = []string{
	"Liam", "Noah", "Oliver", "Elijah", "James",
	"William", "Benjamin", "Lucas", "Henry", "Alexander",
}

var familyNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones",
	"Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
	"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var cities = []string{
	"Houston", "Dallas", "Austin", "San Antonio", "San Francisco",
	"Los Angeles", "New York", "Chicago", "Phoenix", "Philadelphia",
}

var states = []string{"TX", "CA", "NY", "IL", "AZ", "PA", "FL", "OH", "GA", "NC"}

var streetNames = []string{"Main", "Oak", "Maple", "Cedar"}

type codeEntry struct {
	code    string
	display string
	system  string
}

var encounterClasses = []codeEntry{
	{fhirmodels.EncounterClassAmbulatory, "Ambulatory", fhirmodels.SystemActCode},
	{fhirmodels.EncounterClassEmergency, "Emergency", fhirmodels.SystemActCode},
	{fhirmodels.EncounterClassInpatient, "Inpatient", fhirmodels.SystemActCode},
	{fhirmodels.EncounterClassHomeHealth, "Home Health", fhirmodels.SystemActCode},
}

var conditionCodes = []codeEntry{
	{"73211009", "Diabetes mellitus", fhirmodels.SystemSNOMED},
	{"38341003", "Hypertension", fhirmodels.SystemSNOMED},
	{"13645005", "Chronic obstructive pulmonary disease", fhirmodels.SystemSNOMED},
	{"44054006", "Type 2 diabetes mellitus", fhirmodels.SystemSNOMED},
	{"195967001", "Asthma", fhirmodels.SystemSNOMED},
}

type observationDef struct {
	code    string
	display string
	unit    string
	low     float64
	high    float64
}

var observationDefs = []observationDef{
	{"8867-4", "Heart rate", "beats/min", 60, 100},
	{"8480-6", "Systolic blood pressure", "mmHg", 110, 140},
	{"8462-4", "Diastolic blood pressure", "mmHg", 70, 90},
	{"4548-4", "Hemoglobin A1c", "%", 5.0, 8.0},
	{"2093-3", "Total cholesterol", "mg/dL", 150, 250},
	{"29463-7", "Body weight", "kg", 50, 120},
	{"8310-5", "Body temperature", "Cel", 36.5, 37.5},
}

var procedureCodes = []codeEntry{
	{"73761001", "Colonoscopy", fhirmodels.SystemSNOMED},
	{"268400002", "Blood glucose monitoring", fhirmodels.SystemSNOMED},
	{"34068001", "Heart valve replacement", fhirmodels.SystemSNOMED},
	{"80146002", "Appendectomy", fhirmodels.SystemSNOMED},
}

var allergyCodes = []codeEntry{
	{"387207008", "Penicillin", fhirmodels.SystemSNOMED},
	{"293586001", "Latex", fhirmodels.SystemSNOMED},
	{"227037002", "Peanut", fhirmodels.SystemSNOMED},
	{"102263004", "Eggs", fhirmodels.SystemSNOMED},
}

var medicationCodes = []codeEntry{
	{"197361", "Metformin 500mg tablet", fhirmodels.SystemRxNorm},
	{"308136", "Lisinopril 10mg tablet", fhirmodels.SystemRxNorm},
	{"617993", "Atorvastatin 20mg tablet", fhirmodels.SystemRxNorm},
	{"866427", "Amoxicillin 500mg capsule", fhirmodels.SystemRxNorm},
	{"259255", "Ibuprofen 200mg tablet", fhirmodels.SystemRxNorm},
	{"705129", "Omeprazole 20mg capsule", fhirmodels.SystemRxNorm},
	{"848695", "Levothyroxine 50mcg tablet", fhirmodels.SystemRxNorm},
	{"312615", "Amlodipine 5mg tablet", fhirmodels.SystemRxNorm},
	{"238129", "Gabapentin 300mg capsule", fhirmodels.SystemRxNorm},
	{"727316", "Losartan 50mg tablet", fhirmodels.SystemRxNorm},
	{"284215", "Metoprolol 50mg tablet", fhirmodels.SystemRxNorm},
	{"835829", "Furosemide 40mg tablet", fhirmodels.SystemRxNorm},
	{"313782", "Sertraline 50mg tablet", fhirmodels.SystemRxNorm},
	{"849727", "Escitalopram 10mg tablet", fhirmodels.SystemRxNorm},
	{"645672", "Clopidogrel 75mg tablet", fhirmodels.SystemRxNorm},
	{"746104", "Aspirin 81mg tablet", fhirmodels.SystemRxNorm},
	{"617220", "Warfarin 5mg tablet", fhirmodels.SystemRxNorm},
	{"316255", "Prednisone 10mg tablet", fhirmodels.SystemRxNorm},
	{"731370", "Albuterol 90mcg inhaler", fhirmodels.SystemRxNorm},
	{"213269", "Montelukast 10mg tablet", fhirmodels.SystemRxNorm},
}

var documentTypes = []codeEntry{
	{"18842-5", "Discharge summary", fhirmodels.SystemLOINC},
	{"11488-4", "Consultation note", fhirmodels.SystemLOINC},
	{"34108-1", "Outpatient Progress note", fhirmodels.SystemLOINC},
	{"11506-3", "Progress note", fhirmodels.SystemLOINC},
}

var practitionerRoleCodes = []codeEntry{
	{"doctor", "Doctor", fhirmodels.SystemPractitionerRole},
	{"nurse", "Nurse", fhirmodels.SystemPractitionerRole},
}

var practitionerSpecialties = []codeEntry{
	{"394802001", "General Medicine", fhirmodels.SystemSNOMED},
	{"394579002", "Cardiology", fhirmodels.SystemSNOMED},
	{"394582007", "Dermatology", fhirmodels.SystemSNOMED},
	{"394589003", "Nephrology", fhirmodels.SystemSNOMED},
	{"394591006", "Neurology", fhirmodels.SystemSNOMED},
}

type locationType struct {
	name string
	code string
}

var locationTypes = []locationType{
	{"Clinic", "OUTPHARM"},
	{"Hospital", "HOSP"},
	{"Emergency Room", "ER"},
	{"Operating Room", "OR"},
	{"Intensive Care Unit", "ICU"},
}

var carePlanTitles = []string{
	"Diabetes Management Plan",
	"Hypertension Management",
	"Post-operative Care",
	"Wellness Program",
}

var carePlanDescriptions = []string{
	"Comprehensive care plan for chronic condition management",
	"Preventive care and wellness program",
	"Post-surgical recovery plan",
}

var dosageTexts = []string{
	"Take 1 tablet by mouth daily",
	"Take 1 tablet by mouth twice daily",
	"Take 1-2 tablets by mouth every 6 hours as needed",
}

var doseUnits = []string{"tablet", "mg", "mL"}

var doseUnitCodes = []string{"{tbl}", "mg", "mL"}

var doseValues = []float64{1, 2, 5, 10, 20, 50}

var dispenseQuantities = []float64{30, 60, 90}
