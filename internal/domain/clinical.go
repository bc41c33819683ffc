package domain

import "time"

// AllergySeverity grades an allergic reaction.
type AllergySeverity string

const (
	SeverityMild            AllergySeverity = "mild"
	SeverityModerate        AllergySeverity = "moderate"
	SeveritySevere          AllergySeverity = "severe"
	SeverityLifeThreatening AllergySeverity = "life_threatening"
)

// Valid reports whether s is a known severity.
func (s AllergySeverity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityLifeThreatening:
		return true
	}
	return false
}

// Allergy is a recorded patient allergy.
type Allergy struct {
	ID        int64
	PatientID int64
	Allergen  string
	Reaction  *string
	Severity  *AllergySeverity
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiagnosisType classifies a diagnosis.
type DiagnosisType string

const (
	DiagnosisPrimary   DiagnosisType = "primary"
	DiagnosisSecondary DiagnosisType = "secondary"
	DiagnosisWorking   DiagnosisType = "working"
)

// Valid reports whether t is a known diagnosis type.
func (t DiagnosisType) Valid() bool {
	switch t {
	case DiagnosisPrimary, DiagnosisSecondary, DiagnosisWorking:
		return true
	}
	return false
}

// Diagnosis is a coded or free-text patient diagnosis.
type Diagnosis struct {
	ID            int64
	PatientID     int64
	Code          *string
	Description   string
	Type          DiagnosisType
	DiagnosedDate *time.Time
	ResolvedDate  *time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MedicationRoute is the administration route.
type MedicationRoute string

const (
	RouteOral        MedicationRoute = "PO"
	RouteIntravenous MedicationRoute = "IV"
	RouteIntramuscle MedicationRoute = "IM"
	RouteSubcutan    MedicationRoute = "SQ"
	RouteTopical     MedicationRoute = "topical"
	RouteInhaled     MedicationRoute = "inhaled"
	RouteRectal      MedicationRoute = "rectal"
	RouteOther       MedicationRoute = "other"
)

// Valid reports whether r is a known route.
func (r MedicationRoute) Valid() bool {
	switch r {
	case RouteOral, RouteIntravenous, RouteIntramuscle, RouteSubcutan,
		RouteTopical, RouteInhaled, RouteRectal, RouteOther:
		return true
	}
	return false
}

// Medication is an active or historical medication order.
type Medication struct {
	ID                   int64
	PatientID            int64
	Name                 string
	Dosage               string
	Route                MedicationRoute
	Frequency            string
	StartDate            time.Time
	EndDate              *time.Time
	PrescribingPhysician *string
	SpecialInstructions  *string
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
