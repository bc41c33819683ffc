package domain

import "time"

// Patient is an admitted (or discharged) patient record.
type Patient struct {
	ID                    int64
	MedicalRecordNumber   string
	FirstName             string
	LastName              string
	DateOfBirth           time.Time
	Gender                string
	RoomNumber            *string
	BedNumber             *string
	AdmissionDate         time.Time
	DischargeDate         *time.Time
	PrimaryPhysician      *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	InsuranceInfo         *string
	Active                bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// FullName joins first and last name.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Age is the difference in calendar years between the birth year and now.
func (p *Patient) Age(now time.Time) int {
	if p.DateOfBirth.IsZero() {
		return 0
	}
	return now.Year() - p.DateOfBirth.Year()
}
