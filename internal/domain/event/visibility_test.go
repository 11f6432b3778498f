package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSources struct {
	sector    map[int][]string
	corps     map[string][]string
	garrisons map[int][]GarrisonOwner
}

func (f *fakeSources) SectorCharacterIDs(ctx context.Context, sectorID int) ([]string, error) {
	return f.sector[sectorID], nil
}

func (f *fakeSources) CorporationMemberIDs(ctx context.Context, corporationID string) ([]string, error) {
	return f.corps[corporationID], nil
}

func (f *fakeSources) SectorGarrisonOwners(ctx context.Context, sectorID int) ([]GarrisonOwner, error) {
	return f.garrisons[sectorID], nil
}

func intPtr(v int) *int { return &v }

func TestComputeFirstReasonWins(t *testing.T) {
	sources := &fakeSources{
		sector: map[int][]string{7: {"alice", "bob"}},
		corps:  map[string][]string{"corp-1": {"alice", "carol"}},
	}
	rc := NewRecipientComputer(sources)

	out, err := rc.Compute(context.Background(), RecipientSpec{
		Direct:         []string{"alice"},
		SectorID:       intPtr(7),
		CorporationIDs: []string{"corp-1"},
	})
	require.NoError(t, err)

	byID := make(map[string]Reason)
	for _, r := range out {
		byID[r.CharacterID] = r.Reason
	}

	assert.Len(t, out, 3)
	assert.Equal(t, ReasonDirect, byID["alice"], "direct wins over sector and corp")
	assert.Equal(t, ReasonSectorSnapshot, byID["bob"])
	assert.Equal(t, ReasonCorpMember, byID["carol"])
}

func TestComputeExclude(t *testing.T) {
	sources := &fakeSources{sector: map[int][]string{7: {"alice", "bob"}}}
	rc := NewRecipientComputer(sources)

	out, err := rc.Compute(context.Background(), RecipientSpec{
		SectorID: intPtr(7),
		Exclude:  []string{"alice"},
	})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "bob", out[0].CharacterID)
}

func TestComputeGarrisonOwnersAndTheirCorp(t *testing.T) {
	sources := &fakeSources{
		garrisons: map[int][]GarrisonOwner{
			7: {{OwnerID: "carol", CorporationID: "corp-1"}, {OwnerID: "dave"}},
		},
		corps: map[string][]string{"corp-1": {"carol", "erin"}},
	}
	rc := NewRecipientComputer(sources)

	out, err := rc.Compute(context.Background(), RecipientSpec{
		SectorID:         intPtr(7),
		IncludeGarrisons: true,
	})
	require.NoError(t, err)

	byID := make(map[string]Reason)
	for _, r := range out {
		byID[r.CharacterID] = r.Reason
	}

	assert.Len(t, out, 3)
	assert.Equal(t, ReasonGarrisonOwner, byID["carol"])
	assert.Equal(t, ReasonGarrisonOwner, byID["dave"])
	assert.Equal(t, ReasonGarrisonCorpMember, byID["erin"])
}

func TestComputeGarrisonsRequireFlag(t *testing.T) {
	sources := &fakeSources{
		garrisons: map[int][]GarrisonOwner{7: {{OwnerID: "carol"}}},
	}
	rc := NewRecipientComputer(sources)

	out, err := rc.Compute(context.Background(), RecipientSpec{SectorID: intPtr(7)})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestComputeDirectReasonOverride(t *testing.T) {
	rc := NewRecipientComputer(&fakeSources{})

	out, err := rc.Compute(context.Background(), RecipientSpec{
		Direct:       []string{"alice"},
		DirectReason: ReasonError,
	})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, ReasonError, out[0].Reason)
}

func TestComputeEmptySetIsValid(t *testing.T) {
	rc := NewRecipientComputer(&fakeSources{})

	out, err := rc.Compute(context.Background(), RecipientSpec{SectorID: intPtr(99)})
	require.NoError(t, err)
	assert.Empty(t, out)
}
