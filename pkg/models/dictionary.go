package models

import (
	"time"

	"github.com/google/uuid"
)

// Dictionary categories. Lookup values are tenant-scoped: two organizations
// may each define their own set under the same type.
const (
	DictContactType    = "CONTACT_TYPE"
	DictLeadStatus     = "LEAD_STATUS"
	DictDealStage      = "DEAL_STAGE"
	DictActivityStatus = "ACTIVITY_STATUS"
)

// DictionaryEntry is a tenant-scoped named lookup value used as a
// status/stage/type reference by the business entities.
type DictionaryEntry struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Type      string    `db:"type"       json:"type"`
	Label     string    `db:"label"      json:"label"`
	Value     string    `db:"value"      json:"value"`
	OrgID     string    `db:"org_id"     json:"org_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
