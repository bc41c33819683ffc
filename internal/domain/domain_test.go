package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferRole(t *testing.T) {
	cases := map[string]Role{
		"Doctor":              RoleDoctor,
		"family physician":    RoleDoctor,
		"ER DOCTOR":           RoleDoctor,
		"Cardiologist":        RoleNurse,
		"Surgeon":             RoleNurse,
		"Registered Nurse":    RoleNurse,
		"":                    RoleNurse,
		"Physician Assistant": RoleDoctor,
		"doctoral researcher": RoleDoctor,
	}
	for specialty, want := range cases {
		assert.Equal(t, want, InferRole(specialty), specialty)
	}
}

func TestAccount_PublicOmitsHash(t *testing.T) {
	a := &Account{ID: 1, Email: "a@x.org", PasswordHash: "secret", FirstName: "Ann", LastName: "Lee", Role: RoleNurse}
	pub := a.Public()
	assert.Equal(t, "Ann Lee", pub.FullName)
	assert.Equal(t, "a@x.org", pub.Email)
	assert.NotContains(t, []string{pub.FirstName, pub.LastName, pub.Email, pub.Hospital, pub.Specialty, pub.LicenseNumber, pub.FullName}, "secret")
}

func TestVitalsDisplay(t *testing.T) {
	sys, dia := 120, 80
	temp := 37.04
	v := VitalSignsEntry{BloodPressureSystolic: &sys, Temperature: &temp, TemperatureUnit: "C"}
	assert.Equal(t, "", v.BloodPressure())
	v.BloodPressureDiastolic = &dia
	assert.Equal(t, "120/80", v.BloodPressure())
	assert.Equal(t, "37.0°C", v.TemperatureDisplay())

	v.TemperatureUnit = ""
	assert.Equal(t, "37.0°F", v.TemperatureDisplay())
}

func TestPatientAge(t *testing.T) {
	p := Patient{DateOfBirth: time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 36, p.Age(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, (&Patient{}).Age(time.Now()))
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, SeverityLifeThreatening.Valid())
	assert.False(t, AllergySeverity("fatal").Valid())
	assert.True(t, DiagnosisWorking.Valid())
	assert.False(t, DiagnosisType("tertiary").Valid())
	assert.True(t, RouteSubcutan.Valid())
	assert.False(t, MedicationRoute("oral").Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("SURGEON").Valid())
}
