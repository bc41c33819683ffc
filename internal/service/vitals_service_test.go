package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/charting-service/internal/events"
)

type knownPatients map[int64]bool

func (k knownPatients) Exists(_ context.Context, id int64) error {
	if !k[id] {
		return ErrPatientNotFound
	}
	return nil
}

func newVitalsFixture(now time.Time) (*VitalsService, *memVitals, *recordingDispatcher) {
	repo := &memVitals{}
	dispatcher := &recordingDispatcher{}
	svc := NewVitalsService(knownPatients{1: true}, repo, dispatcher)
	svc.now = fixedClock(now)
	return svc, repo, dispatcher
}

func TestVitalsRecord_RecorderResolution(t *testing.T) {
	svc, _, _ := newVitalsFixture(time.Now())
	ctx := context.Background()

	entry, err := svc.Record(ctx, 1, nil, VitalsInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.UserID)
	assert.Equal(t, "Unknown User", entry.UserName)

	bodyID, bodyName := int64(7), "Nurse Joy"
	entry, err = svc.Record(ctx, 1, nil, VitalsInput{UserID: &bodyID, UserName: &bodyName})
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.UserID)
	assert.Equal(t, "Nurse Joy", entry.UserName)

	entry, err = svc.Record(ctx, 1, &Recorder{UserID: 42, UserName: "Ann Lee"}, VitalsInput{UserID: &bodyID, UserName: &bodyName})
	require.NoError(t, err)
	assert.Equal(t, int64(42), entry.UserID)
	assert.Equal(t, "Ann Lee", entry.UserName)
}

func TestVitalsRecord_RecordedAtAndDefaults(t *testing.T) {
	now := time.Date(2026, 2, 2, 9, 30, 0, 0, time.Local)
	svc, _, dispatcher := newVitalsFixture(now)
	ctx := context.Background()

	entry, err := svc.Record(ctx, 1, nil, VitalsInput{RecordedAt: "2026-01-15T08:45:00"})
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 1, 15, 8, 45, 0, 0, time.Local).Equal(entry.RecordedAt))
	assert.Equal(t, "F", entry.TemperatureUnit)

	entry, err = svc.Record(ctx, 1, nil, VitalsInput{RecordedAt: "15/01/2026 08:45", TemperatureUnit: "C"})
	require.NoError(t, err)
	assert.Equal(t, now, entry.RecordedAt)
	assert.Equal(t, "C", entry.TemperatureUnit)

	assert.Equal(t, []events.EventType{events.EventVitalsRecorded, events.EventVitalsRecorded}, dispatcher.types())
}

func TestVitalsRecord_Validation(t *testing.T) {
	svc, _, _ := newVitalsFixture(time.Now())
	ctx := context.Background()

	for _, pain := range []int{0, 11} {
		p := pain
		_, err := svc.Record(ctx, 1, nil, VitalsInput{PainLevel: &p})
		assert.Error(t, err, pain)
	}
	ten := 10
	_, err := svc.Record(ctx, 1, nil, VitalsInput{PainLevel: &ten})
	assert.NoError(t, err)

	_, err = svc.Record(ctx, 2, nil, VitalsInput{})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestVitalsHistoryLatestCountSince(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	svc, repo, _ := newVitalsFixture(base)
	ctx := context.Background()

	latest, err := svc.Latest(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, latest)

	for i := 0; i < 12; i++ {
		at := base.Add(time.Duration(i) * time.Hour).Format(RecordedAtLayout)
		_, err := svc.Record(ctx, 1, nil, VitalsInput{RecordedAt: at})
		require.NoError(t, err)
	}

	history, err := svc.History(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, history, 10)
	assert.Equal(t, 10, repo.lastLimit)
	assert.True(t, history[0].RecordedAt.After(history[1].RecordedAt))

	all, err := svc.History(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 12)

	latest, err = svc.Latest(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, base.Add(11*time.Hour).Equal(latest.RecordedAt))

	count, err := svc.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)

	recent, err := svc.Since(ctx, 1, base.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
