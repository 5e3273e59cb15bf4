package model_test

import (
	"testing"
	"time"

	"umrahcrm/internal/domains/lead/model"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	tests := []struct {
		name string
		from model.Status
		to   model.Status
		want bool
	}{
		{name: "same status", from: model.StatusQuotationReceived, to: model.StatusQuotationReceived, want: true},
		{name: "next workflow step", from: model.StatusPaymentReceived, to: model.StatusPaymentVerified, want: true},
		{name: "resend after rejection", from: model.StatusQuotationRejected, to: model.StatusQuotationSentToCustomer, want: true},
		{name: "skipping verification", from: model.StatusPaymentReceived, to: model.StatusJourneyStarted, want: false},
		{name: "backwards", from: model.StatusJourneyEnded, to: model.StatusLeadCreated, want: false},
		{name: "to legacy status", from: model.StatusJourneyStarted, to: model.StatusClosed, want: true},
		{name: "to unknown status", from: model.StatusNew, to: model.Status("Archived"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ValidTransition(tt.from, tt.to))
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, status := range model.WorkflowStatuses {
		assert.True(t, status.Valid(), status)
	}

	assert.True(t, model.StatusInProgress.Valid())
	assert.False(t, model.Status("in progress").Valid())
	assert.True(t, model.VoucherNone.Valid())
	assert.False(t, model.PaymentStatus("Overdue").Valid())
}

func TestAcceptVoucher(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	pending := model.Lead{ID: "3", VoucherStatus: model.VoucherPending, TimerExpiry: now.Add(-time.Minute).UnixMilli()}

	tests := []struct {
		name    string
		lead    model.Lead
		proof   string
		enforce bool
		wantErr error
	}{
		{name: "missing proof", lead: pending, wantErr: model.ErrPaymentProofRequired},
		{name: "already rejected", lead: model.Lead{VoucherStatus: model.VoucherRejected}, proof: "https://cdn/p.png", wantErr: model.ErrVoucherAlreadyDecided},
		{name: "expired and enforced", lead: pending, proof: "https://cdn/p.png", enforce: true, wantErr: model.ErrVoucherExpired},
		{name: "expired but display only", lead: pending, proof: "https://cdn/p.png"},
		{name: "lead without voucher", lead: model.Lead{}, proof: "https://cdn/p.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := model.AcceptVoucher(tt.lead, tt.proof, now, tt.enforce)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, model.Patch{}, patch)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.VoucherAccepted, *patch.VoucherStatus)
			assert.Equal(t, model.PaymentPaid, *patch.PaymentStatus)
			assert.Equal(t, model.StatusInProgress, *patch.Status)
			assert.Equal(t, tt.proof, *patch.PaymentProofURL)
		})
	}
}

func TestRejectVoucher(t *testing.T) {
	pending := model.Lead{VoucherStatus: model.VoucherPending}

	tests := []struct {
		name    string
		lead    model.Lead
		reason  model.RejectionReason
		comment string
		wantErr error
	}{
		{name: "missing reason", lead: pending, wantErr: model.ErrRejectionReasonRequired},
		{name: "unknown reason", lead: pending, reason: "Too far", wantErr: model.ErrUnknownRejectionReason},
		{name: "already accepted", lead: model.Lead{VoucherStatus: model.VoucherAccepted}, reason: model.ReasonOther, wantErr: model.ErrVoucherAlreadyDecided},
		{name: "with comment", lead: pending, reason: model.ReasonPriceTooHigh, comment: "  found cheaper  "},
		{name: "empty comment kept", lead: pending, reason: model.ReasonOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := model.RejectVoucher(tt.lead, tt.reason, tt.comment)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.VoucherRejected, *patch.VoucherStatus)
			assert.Equal(t, tt.reason, *patch.RejectionReason)
			assert.Equal(t, tt.comment, *patch.RejectionComment)
			assert.Equal(t, model.StatusContacted, *patch.Status)
			assert.Nil(t, patch.PaymentStatus)
		})
	}
}

func TestLead_Expired(t *testing.T) {
	now := time.Now()

	assert.False(t, model.Lead{}.Expired(now))
	assert.False(t, model.Lead{TimerExpiry: now.Add(time.Hour).UnixMilli()}.Expired(now))
	assert.True(t, model.Lead{TimerExpiry: now.Add(-time.Second).UnixMilli()}.Expired(now))
}

func TestSeedLeads(t *testing.T) {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	leads := model.SeedLeads(now)

	assert.Len(t, leads, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{leads[0].ID, leads[1].ID, leads[2].ID})

	demo := leads[2]
	assert.Equal(t, "QT-9999", demo.QuotationNumber)
	assert.Equal(t, "Package2026", demo.VoucherCode)
	assert.Equal(t, model.VoucherPending, demo.VoucherStatus)
	assert.Equal(t, now.Add(time.Hour).UnixMilli(), demo.TimerExpiry)
	assert.InDelta(t, 4250.0, demo.TotalAmount, 0.001)
	assert.Len(t, demo.PriceBreakdown, 4)
	assert.Len(t, demo.Pilgrims, 3)

	var sum float64
	for _, item := range demo.PriceBreakdown {
		sum += item.Amount
	}

	assert.InDelta(t, demo.TotalAmount, sum, 0.001)
}

func TestJourneyItem_Summary(t *testing.T) {
	item := model.JourneyItem{Name: "Saudia SV 721", Details: "KHI → JED"}

	assert.Equal(t, "Saudia SV 721 (KHI → JED)", item.Summary())
}
