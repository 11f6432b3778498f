package event

import (
	"context"
	"sort"
)

// Recipient-set computation. Four sources feed a recipient set: an explicit
// combatant list, sector presence, corporation membership, and garrison
// ownership. Deduplication keeps the first reason seen per character, in
// source order: direct, sector, corp, garrison.

// Reason records why a character is in a recipient set
type Reason string

const (
	ReasonDirect             Reason = "direct"
	ReasonSectorSnapshot     Reason = "sector_snapshot"
	ReasonCorpMember         Reason = "corp_member"
	ReasonGarrisonOwner      Reason = "garrison_owner"
	ReasonGarrisonCorpMember Reason = "garrison_corp_member"
	ReasonError              Reason = "error"
)

// Recipient is one (character, reason) pair in a recipient set
type Recipient struct {
	CharacterID string
	Reason      Reason
}

// GarrisonOwner is the slice of garrison data visibility needs
type GarrisonOwner struct {
	OwnerID       string
	CorporationID string
}

// RecipientSources supplies the three membership lookups behind the
// non-direct visibility sources.
type RecipientSources interface {
	// SectorCharacterIDs returns characters whose current ship is in the
	// sector and not in hyperspace.
	SectorCharacterIDs(ctx context.Context, sectorID int) ([]string, error)
	CorporationMemberIDs(ctx context.Context, corporationID string) ([]string, error)
	SectorGarrisonOwners(ctx context.Context, sectorID int) ([]GarrisonOwner, error)
}

// RecipientSpec describes one recipient-set request
type RecipientSpec struct {
	SectorID         *int
	CorporationIDs   []string
	Direct           []string
	DirectReason     Reason // defaults to ReasonDirect
	Exclude          []string
	IncludeGarrisons bool
}

// RecipientComputer computes deduplicated recipient sets
type RecipientComputer struct {
	sources RecipientSources
}

// NewRecipientComputer creates a recipient computer over the given sources
func NewRecipientComputer(sources RecipientSources) *RecipientComputer {
	return &RecipientComputer{sources: sources}
}

// Compute returns the deduplicated ordered recipient set for a RecipientSpec. An
// empty result is a valid value; the emitter decides whether to skip.
func (rc *RecipientComputer) Compute(ctx context.Context, spec RecipientSpec) ([]Recipient, error) {
	excluded := make(map[string]bool, len(spec.Exclude))
	for _, id := range spec.Exclude {
		excluded[id] = true
	}

	seen := make(map[string]bool)
	var out []Recipient
	add := func(id string, reason Reason) {
		if id == "" || seen[id] || excluded[id] {
			return
		}
		seen[id] = true
		out = append(out, Recipient{CharacterID: id, Reason: reason})
	}

	directReason := spec.DirectReason
	if directReason == "" {
		directReason = ReasonDirect
	}
	for _, id := range spec.Direct {
		add(id, directReason)
	}

	if spec.SectorID != nil {
		ids, err := rc.sources.SectorCharacterIDs(ctx, *spec.SectorID)
		if err != nil {
			return nil, err
		}
		sort.Strings(ids)
		for _, id := range ids {
			add(id, ReasonSectorSnapshot)
		}
	}

	for _, corpID := range spec.CorporationIDs {
		if corpID == "" {
			continue
		}
		ids, err := rc.sources.CorporationMemberIDs(ctx, corpID)
		if err != nil {
			return nil, err
		}
		sort.Strings(ids)
		for _, id := range ids {
			add(id, ReasonCorpMember)
		}
	}

	if spec.SectorID != nil && spec.IncludeGarrisons {
		owners, err := rc.sources.SectorGarrisonOwners(ctx, *spec.SectorID)
		if err != nil {
			return nil, err
		}
		sort.Slice(owners, func(i, j int) bool { return owners[i].OwnerID < owners[j].OwnerID })
		for _, owner := range owners {
			add(owner.OwnerID, ReasonGarrisonOwner)
			if owner.CorporationID == "" {
				continue
			}
			ids, err := rc.sources.CorporationMemberIDs(ctx, owner.CorporationID)
			if err != nil {
				return nil, err
			}
			sort.Strings(ids)
			for _, id := range ids {
				add(id, ReasonGarrisonCorpMember)
			}
		}
	}

	return out, nil
}
