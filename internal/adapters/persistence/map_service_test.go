package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/test/helpers"
)

func TestMapServiceAdjacentSectors(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := persistence.NewGormMapService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&persistence.SectorModel{
		ID:       7,
		Region:   "frontier",
		Adjacent: "[3,8,12]",
	}).Error)

	adjacent, err := svc.AdjacentSectors(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 8, 12}, adjacent)
}

func TestMapServiceMissingSector(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := persistence.NewGormMapService(db)

	_, err := svc.AdjacentSectors(context.Background(), 404)
	require.Error(t, err)
	assert.IsType(t, &shared.SectorUnavailableError{}, err)
}

func TestMapServiceFederationSpaceAndRegion(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := persistence.NewGormMapService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&persistence.SectorModel{
		ID:              1,
		Region:          "federation",
		FederationSpace: true,
	}).Error)

	fed, err := svc.IsFederationSpace(ctx, 1)
	require.NoError(t, err)
	assert.True(t, fed)

	region, err := svc.Region(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "federation", region)
}

func TestMapServicePortSummary(t *testing.T) {
	db := helpers.NewTestDB(t)
	svc := persistence.NewGormMapService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&persistence.PortModel{
		SectorID: 7,
		Name:     "Deepwater Station",
		Class:    "BBS",
	}).Error)

	summary, err := svc.PortSummary(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "Deepwater Station", "class": "BBS"}, summary)

	// Portless sectors yield nil without error
	summary, err = svc.PortSummary(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, summary)
}
