package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartingList_SeedsDefaultsOnce(t *testing.T) {
	repo := newMemCharting()
	svc := NewChartingService(knownPatients{1: true}, repo, nil)
	ctx := context.Background()

	first, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, "Activities of Daily Living", first[0].Title)
	assert.Equal(t, "👤", *first[0].Icon)
	assert.Equal(t, "blue", *first[0].Color)
	assert.Equal(t, []string{"Bathing", "Dressing", "Grooming", "Mobility"}, first[0].Items)
	assert.Equal(t, "Nutrition, dining services", first[4].Title)
	assert.Equal(t, 0, *first[0].DisplayOrder)
	assert.Equal(t, 4, *first[4].DisplayOrder)

	second, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, second, 5)
	assert.Equal(t, 5, repo.creates)

	_, err = svc.List(ctx, 2)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestChartingSave_UpdateOnlyTouchesTitleAndItems(t *testing.T) {
	repo := newMemCharting()
	dispatcher := &recordingDispatcher{}
	svc := NewChartingService(knownPatients{1: true}, repo, dispatcher)
	ctx := context.Background()

	icon, color, order := "📋", "green", 9
	created, err := svc.Save(ctx, 1, ChartingInput{Title: "Wound care", Icon: &icon, Color: &color, DisplayOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, []string{}, created.Items)

	otherIcon := "❌"
	updated, err := svc.Save(ctx, 1, ChartingInput{
		ID:    &created.ID,
		Title: "Wound care (daily)",
		Icon:  &otherIcon,
		Items: []string{"Dressing change"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Wound care (daily)", updated.Title)
	assert.Equal(t, []string{"Dressing change"}, updated.Items)
	assert.Equal(t, "📋", *updated.Icon)
	assert.Equal(t, 9, *updated.DisplayOrder)
	assert.Len(t, dispatcher.published, 2)

	missing := int64(404)
	_, err = svc.Save(ctx, 1, ChartingInput{ID: &missing, Title: "x"})
	assert.ErrorIs(t, err, ErrChartingNotFound)

	_, err = svc.Save(ctx, 1, ChartingInput{Title: "  "})
	assert.Error(t, err)
}

func TestChartingDelete(t *testing.T) {
	repo := newMemCharting()
	svc := NewChartingService(knownPatients{1: true, 2: true}, repo, nil)
	ctx := context.Background()

	created, err := svc.Save(ctx, 1, ChartingInput{Title: "Temp"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 2, created.ID), ErrChartingNotFound)
	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, created.ID), ErrChartingNotFound)
}
