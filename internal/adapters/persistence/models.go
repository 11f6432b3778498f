package persistence

import (
	"time"
)

// EncounterModel represents the encounters table. Participants, pending
// actions, the round log and the creation context travel together in the
// state blob; every Save writes a full snapshot.
type EncounterModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	SectorID           int        `gorm:"column:sector_id;index;not null"`
	Round              int        `gorm:"column:round;not null"`
	Deadline           *time.Time `gorm:"column:deadline"`
	BaseSeed           string     `gorm:"column:base_seed;not null"` // uint64 as decimal string (portable across dialects)
	State              string     `gorm:"column:state;type:text;not null"`
	AwaitingResolution bool       `gorm:"column:awaiting_resolution;not null;default:false"`
	Ended              bool       `gorm:"column:ended;index;not null;default:false"`
	EndState           string     `gorm:"column:end_state"`
	CreatedAt          time.Time  `gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;not null;autoUpdateTime"`
}

func (EncounterModel) TableName() string {
	return "encounters"
}

// ShipModel represents the ships table. Version backs optimistic-concurrency
// updates; fighters and shields stay NULL until first written so the template
// values apply.
type ShipModel struct {
	ID                 string `gorm:"column:id;primaryKey"`
	Name               string `gorm:"column:name;not null"`
	Type               string `gorm:"column:type;not null"`
	SectorID           int    `gorm:"column:sector_id;index;not null"`
	OwnerCharacterID   string `gorm:"column:owner_character_id;index"`
	OwnerCorporationID string `gorm:"column:owner_corporation_id"`
	Fighters           *int   `gorm:"column:fighters"`
	Shields            *int   `gorm:"column:shields"`
	Cargo              string `gorm:"column:cargo;type:text"` // JSON map as text
	Credits            int    `gorm:"column:credits;not null;default:0"`
	IsEscapePod        bool   `gorm:"column:is_escape_pod;not null;default:false"`
	InHyperspace       bool   `gorm:"column:in_hyperspace;not null;default:false"`
	Destroyed          bool   `gorm:"column:destroyed;not null;default:false"`
	Version            int    `gorm:"column:version;not null;default:1"`
}

func (ShipModel) TableName() string {
	return "ships"
}

// CharacterModel represents the characters table: human players and the
// pseudo-characters piloting corporation ships.
type CharacterModel struct {
	ID            string  `gorm:"column:id;primaryKey"`
	Name          string  `gorm:"column:name;not null"`
	Type          string  `gorm:"column:type;not null"`
	CorporationID string  `gorm:"column:corporation_id;index"`
	CurrentShipID *string `gorm:"column:current_ship_id"`
	Credits       int     `gorm:"column:credits;not null;default:0"`
}

func (CharacterModel) TableName() string {
	return "characters"
}

// CorporationMemberModel represents the corporation_members table. A member
// with a NULL left_at is active.
type CorporationMemberModel struct {
	CorporationID string     `gorm:"column:corporation_id;primaryKey"`
	CharacterID   string     `gorm:"column:character_id;primaryKey"`
	JoinedAt      time.Time  `gorm:"column:joined_at;not null"`
	LeftAt        *time.Time `gorm:"column:left_at"`
}

func (CorporationMemberModel) TableName() string {
	return "corporation_members"
}

// GarrisonModel represents the garrisons table. One garrison per
// (sector, owner); a row exists only while fighters > 0.
type GarrisonModel struct {
	SectorID           int       `gorm:"column:sector_id;primaryKey"`
	OwnerID            string    `gorm:"column:owner_id;primaryKey"`
	OwnerName          string    `gorm:"column:owner_name;not null"`
	OwnerCorporationID string    `gorm:"column:owner_corporation_id"`
	Mode               string    `gorm:"column:mode;not null"`
	Fighters           int       `gorm:"column:fighters;not null"`
	TollAmount         int       `gorm:"column:toll_amount;not null;default:0"`
	TollBalance        int       `gorm:"column:toll_balance;not null;default:0"`
	DeployedAt         time.Time `gorm:"column:deployed_at;not null"`
}

func (GarrisonModel) TableName() string {
	return "garrisons"
}

// SalvageModel represents the salvage table
type SalvageModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	SectorID     int       `gorm:"column:sector_id;index;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	ExpiresAt    time.Time `gorm:"column:expires_at;index;not null"`
	Cargo        string    `gorm:"column:cargo;type:text"` // JSON map as text
	Scrap        int       `gorm:"column:scrap;not null;default:0"`
	Credits      int       `gorm:"column:credits;not null;default:0"`
	Claimed      bool      `gorm:"column:claimed;not null;default:false"`
	FromShipName string    `gorm:"column:from_ship_name"`
	FromShipType string    `gorm:"column:from_ship_type"`
	Metadata     string    `gorm:"column:metadata;type:text"`
}

func (SalvageModel) TableName() string {
	return "salvage"
}

// EventModel represents the events table. The autoincrement id is the
// monotonic order clients rely on.
type EventModel struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Type             string    `gorm:"column:type;index;not null"`
	Scope            string    `gorm:"column:scope;not null"`
	SectorID         *int      `gorm:"column:sector_id;index"`
	ActorCharacterID string    `gorm:"column:actor_character_id"`
	CorporationID    string    `gorm:"column:corporation_id"`
	ShipID           string    `gorm:"column:ship_id"`
	Payload          string    `gorm:"column:payload;type:text;not null"`
	SourceMethod     string    `gorm:"column:source_method;not null"`
	SourceRequestID  string    `gorm:"column:source_request_id;not null"`
	SourceTimestamp  time.Time `gorm:"column:source_timestamp;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;not null"`
}

func (EventModel) TableName() string {
	return "events"
}

// EventRecipientModel represents the event_recipients table: the
// subscription index clients query their inbox against.
type EventRecipientModel struct {
	EventID     int64  `gorm:"column:event_id;primaryKey"`
	CharacterID string `gorm:"column:character_id;primaryKey;index"`
	Reason      string `gorm:"column:reason;not null"`
}

func (EventRecipientModel) TableName() string {
	return "event_recipients"
}

// SectorModel represents the sectors table: the universe topology
type SectorModel struct {
	ID              int    `gorm:"column:id;primaryKey"`
	Region          string `gorm:"column:region;not null"`
	FederationSpace bool   `gorm:"column:federation_space;not null;default:false"`
	Adjacent        string `gorm:"column:adjacent;type:text"` // JSON array of sector ids
}

func (SectorModel) TableName() string {
	return "sectors"
}

// PortModel represents the ports table. The combat core only reads the
// public summary for sector snapshots.
type PortModel struct {
	SectorID int    `gorm:"column:sector_id;primaryKey"`
	Name     string `gorm:"column:name;not null"`
	Class    string `gorm:"column:class;not null"`
}

func (PortModel) TableName() string {
	return "ports"
}
