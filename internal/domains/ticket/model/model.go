package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	IDPrefix = "T-"
	SeedID   = "T-1001"
)

type Action string

const (
	ActionDowngradeService     Action = "Downgrade Service"
	ActionUpgradeService       Action = "Upgrade Service"
	ActionUpdateFinalQuotation Action = "Update Final Quotation"
	ActionChangeFlight         Action = "Change Flight"
	ActionChangeHotel          Action = "Change Hotel"
	ActionRefund               Action = "Refund"
	ActionGeneralInquiry       Action = "General Inquiry"
	ActionOther                Action = "Other"
)

var Actions = []Action{
	ActionDowngradeService,
	ActionUpgradeService,
	ActionUpdateFinalQuotation,
	ActionChangeFlight,
	ActionChangeHotel,
	ActionRefund,
	ActionGeneralInquiry,
	ActionOther,
}

func (a Action) Valid() bool {
	return slices.Contains(Actions, a)
}

// ChangesService reports whether the action carries upgrade or downgrade details.
func (a Action) ChangesService() bool {
	return a == ActionUpgradeService || a == ActionDowngradeService
}

type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}

	return false
}

// Ticket is a follow-up request raised against a lead. LeadName is copied at creation
// so the ticket stays readable after the lead is gone.
type Ticket struct {
	ID          string  `json:"id"`
	LeadID      string  `json:"lead_id"`
	LeadName    string  `json:"lead_name"`
	Action      Action  `json:"action"`
	Description string  `json:"description"`
	Status      Status  `json:"status"`
	Payload     Payload `json:"-"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	CreatedBy   string  `json:"created_by,omitempty"`
	UpdatedBy   string  `json:"updated_by,omitempty"`
}

type ticketAlias Ticket

type ticketJSON struct {
	ticketAlias
	RefundDetails        *RefundDetails        `json:"refund_details,omitempty"`
	ServiceChangeDetails *ServiceChangeDetails `json:"upgrade_downgrade_details,omitempty"`
}

func (t Ticket) MarshalJSON() ([]byte, error) {
	aux := ticketJSON{ticketAlias: ticketAlias(t)}

	switch p := t.Payload.(type) {
	case RefundDetails:
		aux.RefundDetails = &p
	case ServiceChangeDetails:
		aux.ServiceChangeDetails = &p
	}

	raw, err := json.Marshal(aux)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket: %w", err)
	}

	return raw, nil
}

// UnmarshalJSON keeps only the payload that belongs to the decoded action.
func (t *Ticket) UnmarshalJSON(data []byte) error {
	var aux ticketJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("failed to decode ticket: %w", err)
	}

	*t = Ticket(aux.ticketAlias)
	t.Payload = nil

	switch {
	case t.Action == ActionRefund && aux.RefundDetails != nil:
		t.Payload = *aux.RefundDetails
	case t.Action.ChangesService() && aux.ServiceChangeDetails != nil:
		t.Payload = *aux.ServiceChangeDetails
	}

	return nil
}

// RefundDetails returns the refund payload, if any.
func (t Ticket) RefundDetails() (RefundDetails, bool) {
	p, ok := t.Payload.(RefundDetails)

	return p, ok
}

// ServiceChangeDetails returns the upgrade or downgrade payload, if any.
func (t Ticket) ServiceChangeDetails() (ServiceChangeDetails, bool) {
	p, ok := t.Payload.(ServiceChangeDetails)

	return p, ok
}

// Patch carries a partial ticket update. Nil fields are left untouched.
type Patch struct {
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}
