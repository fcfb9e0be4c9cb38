package models

import (
	"time"

	"github.com/google/uuid"
)

// Deal tracks a sales opportunity against a lead. Value and Forecast are
// whole currency units. DictionaryID references a DEAL_STAGE entry.
type Deal struct {
	ID            uuid.UUID  `db:"id"             json:"id"`
	Comment       string     `db:"comment"        json:"comment"`
	Value         int64      `db:"value"          json:"value"`
	Forecast      int64      `db:"forecast"       json:"forecast"`
	DictionaryID  *uuid.UUID `db:"dictionary_id"  json:"dictionary_id,omitempty"`
	LeadID        *uuid.UUID `db:"lead_id"        json:"lead_id,omitempty"`
	Owner         string     `db:"owner"          json:"owner"`
	OwnerFullname string     `db:"owner_fullname" json:"owner_fullname"`
	Team          string     `db:"team"           json:"team"`
	TeamName      string     `db:"team_name"      json:"team_name"`
	CreatedBy     string     `db:"created_by"     json:"created_by"`
	UpdatedBy     string     `db:"updated_by"     json:"updated_by"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updated_at"`
}
