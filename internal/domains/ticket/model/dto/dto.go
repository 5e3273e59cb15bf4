package dto

import (
	"umrahcrm/internal/domains/ticket/model"
	"umrahcrm/shared"
	gDto "umrahcrm/shared/dto"
)

type RefundRequest struct {
	Amount   float64  `json:"amount"    validate:"gt=0"`
	Services []string `json:"services"  validate:"required,min=1,dive,required,max=64"`
	Reason   string   `json:"reason"    validate:"required,max=1000"`
	ProofURL string   `json:"proof_url" validate:"omitempty,url"`
}

type ServiceChangeRequest struct {
	ServiceType model.ServiceType      `json:"service_type" validate:"required,enum"`
	Hotel       *model.HotelChange     `json:"hotel"`
	Transport   *model.TransportChange `json:"transport"`
	Flight      *model.FlightChange    `json:"flight"`
}

type CreateTicketRequest struct {
	LeadID                  string                `json:"lead_id"                   validate:"required,max=64"`
	Action                  model.Action          `json:"action"                    validate:"required,enum"`
	Description             string                `json:"description"               validate:"omitempty,max=2000"`
	RefundDetails           *RefundRequest        `json:"refund_details"            validate:"omitempty"`
	UpgradeDowngradeDetails *ServiceChangeRequest `json:"upgrade_downgrade_details" validate:"omitempty"`
}

// Payload picks the structured details matching the action. Details sent for another
// action are returned as well so the caller can reject the mismatch.
func (c *CreateTicketRequest) Payload() model.Payload {
	switch {
	case c.Action == model.ActionRefund && c.RefundDetails != nil:
		return c.refund()
	case c.Action.ChangesService() && c.UpgradeDowngradeDetails != nil:
		return c.serviceChange()
	case c.RefundDetails != nil:
		return c.refund()
	case c.UpgradeDowngradeDetails != nil:
		return c.serviceChange()
	}

	return nil
}

func (c *CreateTicketRequest) refund() model.RefundDetails {
	return model.RefundDetails{
		Amount:   c.RefundDetails.Amount,
		Services: c.RefundDetails.Services,
		Reason:   c.RefundDetails.Reason,
		ProofURL: c.RefundDetails.ProofURL,
	}
}

func (c *CreateTicketRequest) serviceChange() model.ServiceChangeDetails {
	return model.ServiceChangeDetails{
		ServiceType: c.UpgradeDowngradeDetails.ServiceType,
		Hotel:       c.UpgradeDowngradeDetails.Hotel,
		Transport:   c.UpgradeDowngradeDetails.Transport,
		Flight:      c.UpgradeDowngradeDetails.Flight,
	}
}

type UpdateTicketRequest struct {
	Description *string       `json:"description" validate:"omitempty,max=2000"`
	Status      *model.Status `json:"status"      validate:"omitempty,enum"`
}

func (u *UpdateTicketRequest) Empty() bool {
	return u.Description == nil && u.Status == nil
}

func (u *UpdateTicketRequest) ToPatch() model.Patch {
	return model.Patch{Description: u.Description, Status: u.Status}
}

type TicketFilter struct {
	Status model.Status `json:"status"  validate:"omitempty,enum"`
	Action model.Action `json:"action"  validate:"omitempty,enum"`
	LeadID string       `json:"lead_id" validate:"omitempty,max=64"`
}

func (f TicketFilter) Map() map[string]string {
	return map[string]string{
		"status":  string(f.Status),
		"action":  string(f.Action),
		"lead_id": f.LeadID,
	}
}

func (f TicketFilter) Match(ticket model.Ticket) bool {
	return (f.Status == "" || ticket.Status == f.Status) &&
		(f.Action == "" || ticket.Action == f.Action) &&
		(f.LeadID == "" || ticket.LeadID == f.LeadID)
}

type TicketResponse struct {
	ID                      string                      `json:"id"`
	LeadID                  string                      `json:"lead_id"`
	LeadName                string                      `json:"lead_name"`
	Action                  model.Action                `json:"action"`
	Description             string                      `json:"description"`
	Status                  model.Status                `json:"status"`
	RefundDetails           *model.RefundDetails        `json:"refund_details,omitempty"`
	UpgradeDowngradeDetails *model.ServiceChangeDetails `json:"upgrade_downgrade_details,omitempty"`
	CreatedAt               string                      `json:"created_at"`
	UpdatedAt               string                      `json:"updated_at"`
	CreatedBy               string                      `json:"created_by,omitempty"`
	UpdatedBy               string                      `json:"updated_by,omitempty"`
}

func (r *TicketResponse) FromModel(ticket model.Ticket) {
	r.ID = ticket.ID
	r.LeadID = ticket.LeadID
	r.LeadName = ticket.LeadName
	r.Action = ticket.Action
	r.Description = ticket.Description
	r.Status = ticket.Status
	r.CreatedAt = ticket.CreatedAt
	r.UpdatedAt = ticket.UpdatedAt
	r.CreatedBy = ticket.CreatedBy
	r.UpdatedBy = ticket.UpdatedBy

	if details, ok := ticket.RefundDetails(); ok {
		r.RefundDetails = &details
	}

	if details, ok := ticket.ServiceChangeDetails(); ok {
		r.UpgradeDowngradeDetails = &details
	}
}

type GetTicketsResponse struct {
	Tickets   []TicketResponse `json:"tickets"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetTicketsResponse) FromModels(tickets []model.Ticket, params gDto.QueryParams) {
	r.TotalData = len(tickets)
	r.TotalPage = shared.CalculateTotalPage(r.TotalData, params.Limit)

	page := gDto.Paginate(tickets, params)

	r.Tickets = make([]TicketResponse, len(page))
	for i, ticket := range page {
		r.Tickets[i].FromModel(ticket)
	}
}
