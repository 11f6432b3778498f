package services

import (
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
)

// StatusBuilder assembles the per-character status.snapshot payload. It is
// consumed by join and embedded as the viewer-specific ship entry inside
// personalized combat.ended events.
type StatusBuilder struct {
	catalog ship.TemplateCatalog
}

// NewStatusBuilder creates a status builder
func NewStatusBuilder(catalog ship.TemplateCatalog) *StatusBuilder {
	return &StatusBuilder{catalog: catalog}
}

// ShipView builds the public ship snapshot for one character
func (b *StatusBuilder) ShipView(character *player.Character, s *ship.Ship) (map[string]interface{}, error) {
	if s == nil {
		return nil, nil
	}
	tpl, err := b.catalog.Template(s.Type)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"ship_id":       s.ID.String(),
		"name":          s.Name,
		"type":          s.Type,
		"type_name":     tpl.DisplayName,
		"sector":        map[string]interface{}{"id": s.SectorID},
		"fighters":      s.CurrentFighters(tpl),
		"shields":       s.CurrentShields(tpl),
		"max_fighters":  tpl.MaxFighters,
		"max_shields":   tpl.MaxShields,
		"cargo":         cargoPayload(s.Cargo),
		"cargo_holds":   tpl.CargoHolds,
		"credits":       s.Credits,
		"is_escape_pod": s.IsEscapePod,
		"destroyed":     s.Destroyed,
	}, nil
}

// Snapshot builds the full status.snapshot payload
func (b *StatusBuilder) Snapshot(character *player.Character, s *ship.Ship) (map[string]interface{}, error) {
	shipView, err := b.ShipView(character, s)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"character": map[string]interface{}{
			"id":             character.ID,
			"name":           character.Name,
			"type":           string(character.Type),
			"corporation_id": character.CorporationID,
			"credits":        character.Credits,
		},
		"ship": shipView,
	}, nil
}
