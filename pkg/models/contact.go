package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a person record. Team, TeamName, CreatedBy and UpdatedBy are
// stamped server-side from the caller's identity and never taken from input.
type Contact struct {
	ID            uuid.UUID  `db:"id"             json:"id"`
	FirstName     string     `db:"first_name"     json:"first_name"`
	LastName      string     `db:"last_name"      json:"last_name"`
	Email         string     `db:"email"          json:"email"`
	Company       string     `db:"company"        json:"company"`
	Title         string     `db:"title"          json:"title"`
	Phone         string     `db:"phone"          json:"phone"`
	Location      string     `db:"location"       json:"location"`
	Comment       string     `db:"comment"        json:"comment"`
	DictionaryID  *uuid.UUID `db:"dictionary_id"  json:"dictionary_id,omitempty"`
	Owner         string     `db:"owner"          json:"owner"`
	OwnerFullname string     `db:"owner_fullname" json:"owner_fullname"`
	Team          string     `db:"team"           json:"team"`
	TeamName      string     `db:"team_name"      json:"team_name"`
	CreatedBy     string     `db:"created_by"     json:"created_by"`
	UpdatedBy     string     `db:"updated_by"     json:"updated_by"`
	CreatedAt     time.Time  `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"     json:"updated_at"`
}
