package model

import "time"

type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by,omitempty"`
	ModifiedBy string    `db:"modified_by" json:"modified_by,omitempty"`
}

// Stamp sets creation and modification fields for a new record.
func (m *Metadata) Stamp(at time.Time, by string) {
	m.CreatedAt = at
	m.ModifiedAt = at
	m.CreatedBy = by
	m.ModifiedBy = by
}

// Touch refreshes the modification fields.
func (m *Metadata) Touch(at time.Time, by string) {
	m.ModifiedAt = at
	m.ModifiedBy = by
}
