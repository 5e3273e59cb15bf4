package dto

import (
	"umrahcrm/shared/constant"
	"umrahcrm/shared/model"
	"umrahcrm/shared/timezone"
)

// Metadata is the audit trail as rendered in API responses, timestamps in the configured zone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at"`
	ModifiedBy string `json:"modified_by"`
}

func NewMetadata(m model.Metadata) Metadata {
	return Metadata{
		CreatedAt:  timezone.Format(m.CreatedAt, constant.DateFormat),
		CreatedBy:  m.CreatedBy,
		ModifiedAt: timezone.Format(m.ModifiedAt, constant.DateFormat),
		ModifiedBy: m.ModifiedBy,
	}
}
