package dto_test

import (
	"testing"
	"time"

	"umrahcrm/internal/domains/lead/model"
	"umrahcrm/internal/domains/lead/model/dto"
	gDto "umrahcrm/shared/dto"

	"github.com/stretchr/testify/assert"
)

func TestLeadResponse_Refresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	lead := model.DemoLead(now)
	lead.TimerExpiry = now.Add(time.Minute).UnixMilli()

	var res dto.LeadResponse

	res.FromModel(lead, now)
	assert.False(t, res.Expired)

	res.Refresh(now.Add(2 * time.Minute))
	assert.True(t, res.Expired)

	res.Refresh(now)
	assert.False(t, res.Expired)
}

func TestGetLeadsResponse_Refresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	leads := model.SeedLeads(now)
	for i := range leads {
		leads[i].TimerExpiry = now.Add(time.Duration(i+1) * time.Hour).UnixMilli()
	}

	var res dto.GetLeadsResponse

	res.FromModels(leads, gDto.QueryParams{}, now)
	res.Refresh(now.Add(90 * time.Minute))

	got := make([]bool, len(res.Leads))
	for i, lead := range res.Leads {
		got[i] = lead.Expired
	}

	assert.Equal(t, []bool{true, false, false}, got)
}
