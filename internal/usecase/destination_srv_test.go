package usecase

import (
	"context"
	"testing"

	"paradise-tours/internal/data/entity"
	"paradise-tours/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDestinationService(st *store) DestinationService {
	return NewDestinationService(&fakeDestinationRepo{st}, zap.NewNop())
}

func TestDestinationCreateAndList(t *testing.T) {
	st := newStore()
	svc := newDestinationService(st)

	created, err := svc.Create(context.Background(), &request.CreateDestinationRequest{
		Name:        "Raja Ampat",
		Description: "Diving among the richest reefs on earth",
		Location:    "West Papua",
		BasePrice:   7500,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	// New destinations show up in the public catalog.
	active, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDestinationUpdateDeactivates(t *testing.T) {
	st := newStore()
	svc := newDestinationService(st)

	created, err := svc.Create(context.Background(), &request.CreateDestinationRequest{
		Name:        "Raja Ampat",
		Description: "Diving among the richest reefs on earth",
		Location:    "West Papua",
		BasePrice:   7500,
	})
	require.NoError(t, err)

	off := false
	price := 8000.0
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), &request.UpdateDestinationRequest{
		BasePrice: &price,
		IsActive:  &off,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, 8000.0, updated.BasePrice)
	assert.Equal(t, "Raja Ampat", updated.Name)

	// Deactivated destinations leave the public catalog but not the
	// admin listing.
	active, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDestinationGetUnknown(t *testing.T) {
	st := newStore()
	svc := newDestinationService(st)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
