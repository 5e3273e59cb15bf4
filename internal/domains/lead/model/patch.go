package model

// Patch carries a partial lead update. Nil fields are left untouched; list
// fields replace the stored list as a whole.
type Patch struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Flight    *string `json:"flight,omitempty"`
	Visa      *string `json:"visa,omitempty"`
	Transport *string `json:"transport,omitempty"`
	Hotel     *string `json:"hotel,omitempty"`

	Status          *Status          `json:"status,omitempty"`
	PaymentStatus   *PaymentStatus   `json:"payment_status,omitempty"`
	QuotationStatus *QuotationStatus `json:"quotation_status,omitempty"`
	PackageStatus   *PackageStatus   `json:"package_status,omitempty"`

	VoucherCode      *string          `json:"voucher_code,omitempty"`
	VoucherStatus    *VoucherStatus   `json:"voucher_status,omitempty"`
	RejectionReason  *RejectionReason `json:"rejection_reason,omitempty"`
	RejectionComment *string          `json:"rejection_comment,omitempty"`
	PaymentProofURL  *string          `json:"payment_proof_url,omitempty"`
	TimerExpiry      *int64           `json:"timer_expiry,omitempty"`

	TotalAmount    *float64     `json:"total_amount,omitempty"`
	PriceBreakdown *[]PriceItem `json:"price_breakdown,omitempty"`

	FlightDetails        *[]FlightDetail        `json:"flight_details,omitempty"`
	PassengerDetails     *[]PassengerDetail     `json:"passenger_details,omitempty"`
	TransportDetails     *[]TransportDetail     `json:"transport_details,omitempty"`
	AccommodationDetails *[]AccommodationDetail `json:"accommodation_details,omitempty"`
	Pilgrims             *[]Pilgrim             `json:"pilgrims,omitempty"`
	TermsAndConditions   *[]string              `json:"terms_and_conditions,omitempty"`
	Documents            *[]Document            `json:"documents,omitempty"`
}

func ref[T any](v T) *T {
	return &v
}
