package dto

import (
	"strings"
	"time"

	"umrahcrm/internal/domains/lead/model"
	"umrahcrm/shared"
	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/timezone"

	"github.com/google/uuid"
)

const documentIDLength = 9

type PilgrimRequest struct {
	Name           string            `json:"name"            validate:"required,max=255"`
	PassportNumber string            `json:"passport_number" validate:"required,max=32"`
	Type           model.PilgrimType `json:"type"            validate:"required,enum"`
}

type PriceItemRequest struct {
	Service string  `json:"service" validate:"required,max=255"`
	Amount  float64 `json:"amount"  validate:"gte=0"`
}

type CreateLeadRequest struct {
	Name            string                `json:"name"             validate:"required,max=255"`
	Email           string                `json:"email"            validate:"required,email"`
	Phone           string                `json:"phone"            validate:"required,max=32"`
	Flight          string                `json:"flight"           validate:"omitempty,max=255"`
	Visa            string                `json:"visa"             validate:"omitempty,max=255"`
	Transport       string                `json:"transport"        validate:"omitempty,max=255"`
	Hotel           string                `json:"hotel"            validate:"omitempty,max=255"`
	Status          model.Status          `json:"status"           validate:"omitempty,enum"`
	PaymentStatus   model.PaymentStatus   `json:"payment_status"   validate:"omitempty,enum"`
	QuotationStatus model.QuotationStatus `json:"quotation_status" validate:"omitempty,enum"`
	PackageStatus   model.PackageStatus   `json:"package_status"   validate:"omitempty,enum"`
	VoucherCode     string                `json:"voucher_code"     validate:"omitempty,max=64"`
	TotalAmount     float64               `json:"total_amount"     validate:"gte=0"`
	PriceBreakdown  []PriceItemRequest    `json:"price_breakdown"  validate:"omitempty,dive"`
	Pilgrims        []PilgrimRequest      `json:"pilgrims"         validate:"omitempty,dive"`
}

func (c *CreateLeadRequest) ToModel(user string, now time.Time) model.Lead {
	lead := model.Lead{
		ID:              uuid.NewString(),
		QuotationNumber: model.QuotationNumberPrefix + shared.RandomDigits(1000, 9999),
		Name:            c.Name,
		Email:           c.Email,
		Phone:           c.Phone,
		Flight:          c.Flight,
		Visa:            c.Visa,
		Transport:       c.Transport,
		Hotel:           c.Hotel,
		Status:          defaultValue(c.Status, model.StatusNew),
		PaymentStatus:   defaultValue(c.PaymentStatus, model.PaymentPending),
		QuotationStatus: defaultValue(c.QuotationStatus, model.QuotationPending),
		PackageStatus:   defaultValue(c.PackageStatus, model.PackageStandard),
		Date:            timezone.Format(now, constant.DisplayDateFormat),
		VoucherCode:     c.VoucherCode,
		TotalAmount:     c.TotalAmount,
	}

	if lead.VoucherCode != "" {
		lead.VoucherStatus = model.VoucherPending
	}

	for _, item := range c.PriceBreakdown {
		lead.PriceBreakdown = append(lead.PriceBreakdown, model.PriceItem{Service: item.Service, Amount: item.Amount})
	}

	for _, p := range c.Pilgrims {
		lead.Pilgrims = append(lead.Pilgrims, model.Pilgrim{Name: p.Name, PassportNumber: p.PassportNumber, Type: p.Type})
	}

	lead.Stamp(now, user)

	return lead
}

func defaultValue[T ~string](value, fallback T) T {
	if value == "" {
		return fallback
	}

	return value
}

// UpdateLeadRequest only touches the fields it carries.
type UpdateLeadRequest struct {
	Name            *string                `json:"name"             validate:"omitempty,max=255"`
	Email           *string                `json:"email"            validate:"omitempty,email"`
	Phone           *string                `json:"phone"            validate:"omitempty,max=32"`
	Flight          *string                `json:"flight"           validate:"omitempty,max=255"`
	Visa            *string                `json:"visa"             validate:"omitempty,max=255"`
	Transport       *string                `json:"transport"        validate:"omitempty,max=255"`
	Hotel           *string                `json:"hotel"            validate:"omitempty,max=255"`
	Status          *model.Status          `json:"status"           validate:"omitempty,enum"`
	PaymentStatus   *model.PaymentStatus   `json:"payment_status"   validate:"omitempty,enum"`
	QuotationStatus *model.QuotationStatus `json:"quotation_status" validate:"omitempty,enum"`
	PackageStatus   *model.PackageStatus   `json:"package_status"   validate:"omitempty,enum"`
	VoucherCode     *string                `json:"voucher_code"     validate:"omitempty,max=64"`
	TotalAmount     *float64               `json:"total_amount"     validate:"omitempty,gte=0"`
	PriceBreakdown  *[]PriceItemRequest    `json:"price_breakdown"  validate:"omitempty,dive"`
	Pilgrims        *[]PilgrimRequest      `json:"pilgrims"         validate:"omitempty,dive"`

	FlightDetails        *[]model.FlightDetail        `json:"flight_details"`
	PassengerDetails     *[]model.PassengerDetail     `json:"passenger_details"`
	TransportDetails     *[]model.TransportDetail     `json:"transport_details"`
	AccommodationDetails *[]model.AccommodationDetail `json:"accommodation_details"`
	TermsAndConditions   *[]string                    `json:"terms_and_conditions"`
}

func (u *UpdateLeadRequest) Empty() bool {
	return *u == UpdateLeadRequest{}
}

func (u *UpdateLeadRequest) ToPatch() model.Patch {
	patch := model.Patch{
		Name:                 u.Name,
		Email:                u.Email,
		Phone:                u.Phone,
		Flight:               u.Flight,
		Visa:                 u.Visa,
		Transport:            u.Transport,
		Hotel:                u.Hotel,
		Status:               u.Status,
		PaymentStatus:        u.PaymentStatus,
		QuotationStatus:      u.QuotationStatus,
		PackageStatus:        u.PackageStatus,
		VoucherCode:          u.VoucherCode,
		TotalAmount:          u.TotalAmount,
		FlightDetails:        u.FlightDetails,
		PassengerDetails:     u.PassengerDetails,
		TransportDetails:     u.TransportDetails,
		AccommodationDetails: u.AccommodationDetails,
		TermsAndConditions:   u.TermsAndConditions,
	}

	if u.PriceBreakdown != nil {
		items := make([]model.PriceItem, len(*u.PriceBreakdown))
		for i, item := range *u.PriceBreakdown {
			items[i] = model.PriceItem{Service: item.Service, Amount: item.Amount}
		}

		patch.PriceBreakdown = &items
	}

	if u.Pilgrims != nil {
		pilgrims := make([]model.Pilgrim, len(*u.Pilgrims))
		for i, p := range *u.Pilgrims {
			pilgrims[i] = model.Pilgrim{Name: p.Name, PassportNumber: p.PassportNumber, Type: p.Type}
		}

		patch.Pilgrims = &pilgrims
	}

	return patch
}

// AcceptVoucherRequest carries the proof reference, either uploaded or already hosted.
type AcceptVoucherRequest struct {
	PaymentProofURL string     `json:"payment_proof_url" validate:"omitempty,url"`
	Proof           *gDto.File `json:"-"`
}

type RejectVoucherRequest struct {
	Reason  model.RejectionReason `json:"reason"  validate:"omitempty,max=255"`
	Comment string                `json:"comment" validate:"omitempty,max=2000"`
}

// AddDocumentRequest references an already hosted URL unless a file is attached.
type AddDocumentRequest struct {
	Type     model.DocumentType     `json:"type"     validate:"required,enum"`
	Category model.DocumentCategory `json:"category" validate:"required,enum"`
	Name     string                 `json:"name"     validate:"omitempty,max=255"`
	URL      string                 `json:"url"      validate:"omitempty,url"`
	File     *gDto.File             `json:"-"`
}

func (a *AddDocumentRequest) ToModel(now time.Time) model.Document {
	return model.Document{
		ID:         shared.RandomString(documentIDLength),
		Type:       a.Type,
		Category:   a.Category,
		Name:       a.Name,
		URL:        a.URL,
		UploadedAt: timezone.Format(now, constant.DisplayDateFormat),
	}
}

type GuestRequest struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,max=32"`
}

type JourneyItemRequest struct {
	ID         string         `json:"id"          validate:"required,max=64"`
	Type       model.ItemType `json:"type"        validate:"required,enum"`
	Name       string         `json:"name"        validate:"required,max=255"`
	Details    string         `json:"details"     validate:"omitempty,max=255"`
	SubDetails string         `json:"sub_details" validate:"omitempty,max=255"`
	Price      *float64       `json:"price"       validate:"omitempty,gte=0"`
}

func (j JourneyItemRequest) ToModel() model.JourneyItem {
	return model.JourneyItem{
		ID:         j.ID,
		Type:       j.Type,
		Name:       j.Name,
		Details:    j.Details,
		SubDetails: j.SubDetails,
		Price:      j.Price,
	}
}

// CreateQuotationRequest replays a consultant's journey selections in order.
type CreateQuotationRequest struct {
	Guest    GuestRequest         `json:"guest"    validate:"required"`
	Services []string             `json:"services" validate:"required,min=1,dive,oneof=visas flights hotels transport"`
	Items    []JourneyItemRequest `json:"items"    validate:"dive"`
}

type LeadFilter struct {
	Status        model.Status        `json:"status"         validate:"omitempty,enum"`
	PaymentStatus model.PaymentStatus `json:"payment_status" validate:"omitempty,enum"`
	Search        string              `json:"search"         validate:"omitempty,max=255"`
}

func (f LeadFilter) Map() map[string]string {
	return map[string]string{
		"status":         string(f.Status),
		"payment_status": string(f.PaymentStatus),
		"search":         f.Search,
	}
}

// Match reports whether the lead passes every set criterion. Search is case-insensitive
// over name, email and quotation number.
func (f LeadFilter) Match(lead model.Lead) bool {
	if f.Status != "" && lead.Status != f.Status {
		return false
	}

	if f.PaymentStatus != "" && lead.PaymentStatus != f.PaymentStatus {
		return false
	}

	if f.Search == "" {
		return true
	}

	term := strings.ToLower(f.Search)

	return strings.Contains(strings.ToLower(lead.Name), term) ||
		strings.Contains(strings.ToLower(lead.Email), term) ||
		strings.Contains(strings.ToLower(lead.QuotationNumber), term)
}

type LeadResponse struct {
	ID              string                `json:"id"`
	QuotationNumber string                `json:"quotation_number"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Phone           string                `json:"phone"`
	Flight          string                `json:"flight"`
	Visa            string                `json:"visa"`
	Transport       string                `json:"transport"`
	Hotel           string                `json:"hotel"`
	Status          model.Status          `json:"status"`
	PaymentStatus   model.PaymentStatus   `json:"payment_status"`
	QuotationStatus model.QuotationStatus `json:"quotation_status"`
	PackageStatus   model.PackageStatus   `json:"package_status"`
	Date            string                `json:"date"`

	VoucherCode      string                `json:"voucher_code,omitempty"`
	VoucherStatus    model.VoucherStatus   `json:"voucher_status,omitempty"`
	RejectionReason  model.RejectionReason `json:"rejection_reason,omitempty"`
	RejectionComment string                `json:"rejection_comment,omitempty"`
	PaymentProofURL  string                `json:"payment_proof_url,omitempty"`
	TimerExpiry      int64                 `json:"timer_expiry,omitempty"`
	Expired          bool                  `json:"expired"`

	TotalAmount    float64           `json:"total_amount"`
	PriceBreakdown []model.PriceItem `json:"price_breakdown"`

	FlightDetails        []model.FlightDetail        `json:"flight_details"`
	PassengerDetails     []model.PassengerDetail     `json:"passenger_details"`
	TransportDetails     []model.TransportDetail     `json:"transport_details"`
	AccommodationDetails []model.AccommodationDetail `json:"accommodation_details"`
	Pilgrims             []model.Pilgrim             `json:"pilgrims"`
	TermsAndConditions   []string                    `json:"terms_and_conditions"`
	Documents            []model.Document            `json:"documents"`
	Journey              []model.JourneyItem         `json:"journey"`

	gDto.Metadata
}

func (r *LeadResponse) FromModel(lead model.Lead, now time.Time) {
	r.ID = lead.ID
	r.QuotationNumber = lead.QuotationNumber
	r.Name = lead.Name
	r.Email = lead.Email
	r.Phone = lead.Phone
	r.Flight = lead.Flight
	r.Visa = lead.Visa
	r.Transport = lead.Transport
	r.Hotel = lead.Hotel
	r.Status = lead.Status
	r.PaymentStatus = lead.PaymentStatus
	r.QuotationStatus = lead.QuotationStatus
	r.PackageStatus = lead.PackageStatus
	r.Date = lead.Date
	r.VoucherCode = lead.VoucherCode
	r.VoucherStatus = lead.VoucherStatus
	r.RejectionReason = lead.RejectionReason
	r.RejectionComment = lead.RejectionComment
	r.PaymentProofURL = lead.PaymentProofURL
	r.TimerExpiry = lead.TimerExpiry
	r.Expired = lead.Expired(now)
	r.TotalAmount = lead.TotalAmount
	r.PriceBreakdown = nonNil(lead.PriceBreakdown)
	r.FlightDetails = nonNil(lead.FlightDetails)
	r.PassengerDetails = nonNil(lead.PassengerDetails)
	r.TransportDetails = nonNil(lead.TransportDetails)
	r.AccommodationDetails = nonNil(lead.AccommodationDetails)
	r.Pilgrims = nonNil(lead.Pilgrims)
	r.TermsAndConditions = nonNil(lead.TermsAndConditions)
	r.Documents = nonNil(lead.Documents)
	r.Journey = nonNil(lead.Journey)
	r.Metadata = gDto.NewMetadata(lead.Metadata)
}

// Refresh recomputes the clock dependent fields of a response read back from cache.
func (r *LeadResponse) Refresh(now time.Time) {
	r.Expired = model.Lead{TimerExpiry: r.TimerExpiry}.Expired(now)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}

	return items
}

type GetLeadsResponse struct {
	Leads     []LeadResponse `json:"leads"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

// FromModels pages through already filtered leads. A zero limit returns everything.
func (r *GetLeadsResponse) FromModels(leads []model.Lead, params gDto.QueryParams, now time.Time) {
	r.TotalData = len(leads)
	r.TotalPage = shared.CalculateTotalPage(r.TotalData, params.Limit)

	page := gDto.Paginate(leads, params)

	r.Leads = make([]LeadResponse, len(page))
	for i, lead := range page {
		r.Leads[i].FromModel(lead, now)
	}
}

func (r *GetLeadsResponse) Refresh(now time.Time) {
	for i := range r.Leads {
		r.Leads[i].Refresh(now)
	}
}

type DocumentResponse struct {
	Document model.Document `json:"document"`
}

type QuotationResponse struct {
	Lead LeadResponse `json:"lead"`
}
