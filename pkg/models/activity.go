package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity is a scheduled action (call, meeting, follow-up) tied to a lead.
// DictionaryID references an ACTIVITY_STATUS entry.
type Activity struct {
	ID            uuid.UUID  `db:"id"             json:"id"`
	Title         string     `db:"title"          json:"title"`
	Description   string     `db:"description"    json:"description"`
	Location      string     `db:"location"       json:"location"`
	Date          time.Time  `db:"date"           json:"date"`
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
