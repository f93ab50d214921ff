package fhirmodels

// Common FHIR value set constants and code system URLs used across the
// generator and validator.

// Code system URLs.
const (
	SystemLOINC             = "http://loinc.org"
	SystemSNOMED            = "http://snomed.info/sct"
	SystemRxNorm            = "http://www.nlm.nih.gov/research/umls/rxnorm"
	SystemUCUM              = "http://unitsofmeasure.org"
	SystemActCode           = "http://terminology.hl7.org/CodeSystem/v3-ActCode"
	SystemParticipationType = "http://terminology.hl7.org/CodeSystem/v3-ParticipationType"
	SystemObsCategory       = "http://terminology.hl7.org/CodeSystem/observation-category"
	SystemConditionClinical = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	SystemConditionVerify   = "http://terminology.hl7.org/CodeSystem/condition-ver-status"
	SystemAllergyClinical   = "http://terminology.hl7.org/CodeSystem/allergyintolerance-clinical"
	SystemAllergyVerify     = "http://terminology.hl7.org/CodeSystem/allergyintolerance-verification"
	SystemLocationType      = "http://terminology.hl7.org/CodeSystem/v3-RoleCode"
	SystemPractitionerRole  = "http://terminology.hl7.org/CodeSystem/practitioner-role"
	SystemOrgType           = "http://terminology.hl7.org/CodeSystem/organization-type"
	SystemNPI               = "http://hl7.org/fhir/sid/us-npi"
)

// EncounterStatus values per FHIR R4.
const (
	EncounterStatusPlanned        = "planned"
	EncounterStatusArrived        = "arrived"
	EncounterStatusTriaged        = "triaged"
	EncounterStatusInProgress     = "in-progress"
	EncounterStatusOnLeave        = "onleave"
	EncounterStatusFinished       = "finished"
	EncounterStatusCancelled      = "cancelled"
	EncounterStatusEnteredInError = "entered-in-error"
)

// EncounterClass codes per FHIR R4 v3-ActCode.
const (
	EncounterClassAmbulatory   = "AMB"
	EncounterClassEmergency    = "EMER"
	EncounterClassInpatient    = "IMP"
	EncounterClassShortStay    = "SS"
	EncounterClassVirtual      = "VR"
	EncounterClassHomeHealth   = "HH"
	EncounterClassObstetric    = "OBSENC"
	EncounterClassAcute        = "ACUTE"
	EncounterClassNonAcute     = "NONAC"
	EncounterClassPreAdmission = "PRENC"
	EncounterClassField        = "FLD"
)

// ParticipantType codes.
const (
	ParticipantAttender   = "ATND"
	ParticipantAdmitter   = "ADM"
	ParticipantConsultant = "CON"
	ParticipantReferrer   = "REF"
	ParticipantSecondary  = "SPRF"
	ParticipantPrimary    = "PPRF"
	ParticipantDischarger = "DIS"
)

// ObservationCategory codes.
const (
	ObsCategoryVitalSigns    = "vital-signs"
	ObsCategoryLaboratory    = "laboratory"
	ObsCategoryImaging       = "imaging"
	ObsCategorySocialHistory = "social-history"
	ObsCategorySurvey        = "survey"
	ObsCategoryExam          = "exam"
	ObsCategoryProcedure     = "procedure"
	ObsCategoryActivity      = "activity"
	ObsCategoryTherapy       = "therapy"
)

// ConditionClinicalStatus codes.
const (
	ConditionActive     = "active"
	ConditionRecurrence = "recurrence"
	ConditionRelapse    = "relapse"
	ConditionInactive   = "inactive"
	ConditionRemission  = "remission"
	ConditionResolved   = "resolved"
)

// AdministrativeGender codes.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

// Person link assurance levels.
const (
	AssuranceLevel1 = "level1"
	AssuranceLevel2 = "level2"
	AssuranceLevel3 = "level3"
	AssuranceLevel4 = "level4"
)
