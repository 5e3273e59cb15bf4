package model

import "umrahcrm/shared/model"

const (
	EntityName = "lead"

	// DemoLeadID is the seeded voucher lead that GetAll always restores.
	DemoLeadID = "3"

	QuotationNumberPrefix = "QT-"
)

type Lead struct {
	ID              string `json:"id"`
	QuotationNumber string `json:"quotation_number"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`

	Flight    string `json:"flight"`
	Visa      string `json:"visa"`
	Transport string `json:"transport"`
	Hotel     string `json:"hotel"`

	Status          Status          `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	QuotationStatus QuotationStatus `json:"quotation_status"`
	PackageStatus   PackageStatus   `json:"package_status"`

	// en-GB DD/MM/YYYY
	Date string `json:"date"`

	VoucherCode      string          `json:"voucher_code,omitempty"`
	VoucherStatus    VoucherStatus   `json:"voucher_status,omitempty"`
	RejectionReason  RejectionReason `json:"rejection_reason,omitempty"`
	RejectionComment string          `json:"rejection_comment,omitempty"`
	PaymentProofURL  string          `json:"payment_proof_url,omitempty"`

	// epoch milliseconds
	TimerExpiry int64 `json:"timer_expiry,omitempty"`

	TotalAmount    float64     `json:"total_amount,omitempty"`
	PriceBreakdown []PriceItem `json:"price_breakdown,omitempty"`

	FlightDetails        []FlightDetail        `json:"flight_details,omitempty"`
	PassengerDetails     []PassengerDetail     `json:"passenger_details,omitempty"`
	TransportDetails     []TransportDetail     `json:"transport_details,omitempty"`
	AccommodationDetails []AccommodationDetail `json:"accommodation_details,omitempty"`
	Pilgrims             []Pilgrim             `json:"pilgrims,omitempty"`
	TermsAndConditions   []string              `json:"terms_and_conditions,omitempty"`
	Documents            []Document            `json:"documents,omitempty"`
	Journey              []JourneyItem         `json:"journey,omitempty"`

	model.Metadata
}

type PriceItem struct {
	Service string  `json:"service"`
	Amount  float64 `json:"amount"`
}

type FlightDetail struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
	DepartureCity string `json:"departure_city"`
	ArrivalCity   string `json:"arrival_city"`
	DepartureDate string `json:"departure_date"`
	DepartureTime string `json:"departure_time"`
	ArrivalTime   string `json:"arrival_time"`
	PNR           string `json:"pnr"`
	Passengers    int    `json:"passengers"`
}

type PassengerDetail struct {
	RRN                string `json:"rrn"`
	Description        string `json:"description"`
	Adults             int    `json:"adults"`
	Children           int    `json:"children"`
	Infants            int    `json:"infants"`
	AdditionalServices string `json:"additional_services"`
}

type TransportDetail struct {
	RRN           string `json:"rrn"`
	TransportType string `json:"transport_type"`
	Pickup        string `json:"pickup"`
	DropOff       string `json:"drop_off"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

type AccommodationDetail struct {
	HCN       string `json:"hcn"`
	City      string `json:"city"`
	HotelName string `json:"hotel_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Nights    int    `json:"nights"`
	Occupancy string `json:"occupancy"`
	Qty       int    `json:"qty"`
	Food      string `json:"food"`
}

type Pilgrim struct {
	Name           string      `json:"name"`
	PassportNumber string      `json:"passport_number"`
	Type           PilgrimType `json:"type"`
}

type Document struct {
	ID         string           `json:"id"`
	Type       DocumentType     `json:"type"`
	Category   DocumentCategory `json:"category"`
	Name       string           `json:"name"`
	URL        string           `json:"url"`
	UploadedAt string           `json:"uploaded_at"`
}

// JourneyItem is one service selection made while composing a quotation.
type JourneyItem struct {
	ID         string   `json:"id"`
	Type       ItemType `json:"type"`
	Name       string   `json:"name"`
	Details    string   `json:"details"`
	SubDetails string   `json:"sub_details"`
	Price      *float64 `json:"price,omitempty"`
}

// Summary is the flat description stored on the lead for the item's service.
func (j JourneyItem) Summary() string {
	return j.Name + " (" + j.Details + ")"
}

// HasDocument reports whether a document with the given id is attached.
func (l Lead) HasDocument(id string) bool {
	for _, doc := range l.Documents {
		if doc.ID == id {
			return true
		}
	}

	return false
}
