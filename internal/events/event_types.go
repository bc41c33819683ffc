package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered  EventType = "account_registered"
	EventAccountLoggedIn    EventType = "account_logged_in"
	EventAccountDeactivated EventType = "account_deactivated"
	EventPatientAdmitted    EventType = "patient_admitted"
	EventPatientDischarged  EventType = "patient_discharged"
	EventVitalsRecorded     EventType = "vitals_recorded"
	EventChartingSaved      EventType = "charting_saved"
)

// Actor is whoever caused the event. Email is empty for anonymous callers.
type Actor struct {
	Email  string `json:"email,omitempty"`
	UserID int64  `json:"user_id,omitempty"`
}

// Event is a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	PatientID *int64    `json:"patient_id,omitempty"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// New stamps an event with an ID, the current time and the actor bound to ctx.
func New(ctx context.Context, eventType EventType, patientID *int64, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PatientID: patientID,
		Actor:     ActorFromContext(ctx),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

type actorKey struct{}

// WithActor binds the acting clinician to ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the bound actor or the zero Actor.
func ActorFromContext(ctx context.Context) Actor {
	if ctx == nil {
		return Actor{}
	}
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}

// AccountPayload accompanies account events.
type AccountPayload struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// PatientPayload accompanies admission and discharge.
type PatientPayload struct {
	MedicalRecordNumber string `json:"mrn"`
}

// VitalsRecordedPayload summarizes a new vitals entry.
type VitalsRecordedPayload struct {
	EntryID  int64  `json:"entry_id"`
	Recorder string `json:"recorder"`
}

// ChartingSavedPayload summarizes a saved category.
type ChartingSavedPayload struct {
	CategoryID int64  `json:"category_id"`
	Title      string `json:"title"`
	Created    bool   `json:"created"`
}
