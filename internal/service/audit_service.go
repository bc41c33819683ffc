package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/charting-service/internal/events"
)

// auditedEvents is every event type written to the audit log.
var auditedEvents = []events.EventType{
	events.EventAccountRegistered,
	events.EventAccountLoggedIn,
	events.EventAccountDeactivated,
	events.EventPatientAdmitted,
	events.EventPatientDischarged,
	events.EventVitalsRecorded,
	events.EventChartingSaved,
}

// AuditService writes one structured log line per chart event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range auditedEvents {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("at", event.Timestamp),
		zap.String("actor_email", event.Actor.Email),
	}
	if event.Actor.UserID != 0 {
		fields = append(fields, zap.Int64("actor_user_id", event.Actor.UserID))
	}
	if event.PatientID != nil {
		fields = append(fields, zap.Int64("patient_id", *event.PatientID))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	a.logger.Info("chart event", fields...)
	return nil
}
