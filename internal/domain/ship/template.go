package ship

import (
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// Template describes a ship type's immutable characteristics
type Template struct {
	Type          string
	DisplayName   string
	CargoHolds    int
	MaxShields    int
	MaxFighters   int
	TurnsPerWarp  int
	PurchasePrice int
}

// TemplateCatalog resolves ship types to templates
type TemplateCatalog interface {
	Template(shipType string) (*Template, error)
}

// StaticCatalog is the in-process template catalog
type StaticCatalog struct {
	templates map[string]*Template
}

// NewStandardCatalog builds the catalog with the stock ship classes
func NewStandardCatalog() *StaticCatalog {
	c := &StaticCatalog{templates: make(map[string]*Template)}
	for _, tpl := range []*Template{
		{Type: "scout", DisplayName: "Scout Marauder", CargoHolds: 25, MaxShields: 100, MaxFighters: 300, TurnsPerWarp: 2, PurchasePrice: 15950},
		{Type: "freighter", DisplayName: "Merchant Freighter", CargoHolds: 65, MaxShields: 400, MaxFighters: 300, TurnsPerWarp: 3, PurchasePrice: 41300},
		{Type: "corvette", DisplayName: "Corporate Corvette", CargoHolds: 40, MaxShields: 600, MaxFighters: 600, TurnsPerWarp: 3, PurchasePrice: 163500},
		{Type: "battlecruiser", DisplayName: "Imperial Battlecruiser", CargoHolds: 80, MaxShields: 1500, MaxFighters: 2500, TurnsPerWarp: 4, PurchasePrice: 329000},
		{Type: EscapePodType, DisplayName: "Escape Pod", CargoHolds: 5, MaxShields: 0, MaxFighters: 0, TurnsPerWarp: 1, PurchasePrice: 0},
	} {
		c.templates[tpl.Type] = tpl
	}
	return c
}

// Template returns the template for a ship type or a DataIntegrityError when
// the type is unknown.
func (c *StaticCatalog) Template(shipType string) (*Template, error) {
	tpl, ok := c.templates[shipType]
	if !ok {
		return nil, shared.NewDataIntegrityError("unknown ship template: " + shipType)
	}
	return tpl, nil
}
