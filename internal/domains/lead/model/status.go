package model

import "slices"

type Status string

const (
	StatusNew        Status = "New"
	StatusContacted  Status = "Contacted"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"

	StatusLeadCreated             Status = "Lead Created"
	StatusSentToCompanions        Status = "Sent to Companions"
	StatusQuotationReceived       Status = "Quotation Received"
	StatusQuotationSentToCustomer Status = "Quotation Sent to Customer"
	StatusQuotationAccepted       Status = "Quotation Accepted"
	StatusQuotationRejected       Status = "Quotation Rejected"
	StatusPaymentReceived         Status = "Payment Received"
	StatusPaymentVerified         Status = "Payment Verified"
	StatusJourneyStarted          Status = "Journey Started"
	StatusJourneyEnded            Status = "Journey Ended"
)

// WorkflowStatuses lists the extended vocabulary in its intended order.
var WorkflowStatuses = []Status{
	StatusLeadCreated,
	StatusSentToCompanions,
	StatusQuotationReceived,
	StatusQuotationSentToCustomer,
	StatusQuotationAccepted,
	StatusQuotationRejected,
	StatusPaymentReceived,
	StatusPaymentVerified,
	StatusJourneyStarted,
	StatusJourneyEnded,
}

var legacyStatuses = []Status{StatusNew, StatusContacted, StatusInProgress, StatusClosed}

func (s Status) Valid() bool {
	return slices.Contains(legacyStatuses, s) || slices.Contains(WorkflowStatuses, s)
}

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "Pending"
	PaymentPaid          PaymentStatus = "Paid"
	PaymentUnpaid        PaymentStatus = "Unpaid"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentRefunded      PaymentStatus = "Refunded"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentUnpaid, PaymentPartiallyPaid, PaymentRefunded:
		return true
	}

	return false
}

type QuotationStatus string

const (
	QuotationPending  QuotationStatus = "Pending"
	QuotationSent     QuotationStatus = "Sent"
	QuotationApproved QuotationStatus = "Approved"
	QuotationRejected QuotationStatus = "Rejected"
)

func (q QuotationStatus) Valid() bool {
	switch q {
	case QuotationPending, QuotationSent, QuotationApproved, QuotationRejected:
		return true
	}

	return false
}

type PackageStatus string

const (
	PackagePremium  PackageStatus = "Premium"
	PackageStandard PackageStatus = "Standard"
	PackageBudget   PackageStatus = "Budget"
)

func (p PackageStatus) Valid() bool {
	return p == PackagePremium || p == PackageStandard || p == PackageBudget
}

// VoucherStatus is empty for leads that never carried a voucher.
type VoucherStatus string

const (
	VoucherNone     VoucherStatus = ""
	VoucherPending  VoucherStatus = "Pending"
	VoucherAccepted VoucherStatus = "Accepted"
	VoucherRejected VoucherStatus = "Rejected"
)

func (v VoucherStatus) Valid() bool {
	switch v {
	case VoucherNone, VoucherPending, VoucherAccepted, VoucherRejected:
		return true
	}

	return false
}

// Decided reports whether the customer already accepted or rejected the voucher.
func (v VoucherStatus) Decided() bool {
	return v == VoucherAccepted || v == VoucherRejected
}

type RejectionReason string

const (
	ReasonPriceTooHigh     RejectionReason = "Price is too high"
	ReasonScheduleMismatch RejectionReason = "Schedule does not match"
	ReasonPreferredAgent   RejectionReason = "Customer preferred another agent"
	ReasonPackageChanged   RejectionReason = "Package details changed"
	ReasonIncorrectVoucher RejectionReason = "Incorrect voucher applied"
	ReasonOther            RejectionReason = "Other"
)

var RejectionReasons = []RejectionReason{
	ReasonPriceTooHigh,
	ReasonScheduleMismatch,
	ReasonPreferredAgent,
	ReasonPackageChanged,
	ReasonIncorrectVoucher,
	ReasonOther,
}

func (r RejectionReason) Valid() bool {
	return slices.Contains(RejectionReasons, r)
}

type DocumentType string

const (
	DocumentAgency   DocumentType = "Agency"
	DocumentCustomer DocumentType = "Customer"
)

func (d DocumentType) Valid() bool {
	return d == DocumentAgency || d == DocumentCustomer
}

type DocumentCategory string

const (
	CategoryPassport DocumentCategory = "Passport"
	CategoryIDCard   DocumentCategory = "ID Card"
	CategoryVisa     DocumentCategory = "Visa"
	CategoryTicket   DocumentCategory = "Ticket"
	CategoryVoucher  DocumentCategory = "Voucher"
	CategoryOther    DocumentCategory = "Other"
)

func (d DocumentCategory) Valid() bool {
	switch d {
	case CategoryPassport, CategoryIDCard, CategoryVisa, CategoryTicket, CategoryVoucher, CategoryOther:
		return true
	}

	return false
}

type PilgrimType string

const (
	PilgrimAdult  PilgrimType = "Adult"
	PilgrimChild  PilgrimType = "Child"
	PilgrimInfant PilgrimType = "Infant"
)

func (p PilgrimType) Valid() bool {
	return p == PilgrimAdult || p == PilgrimChild || p == PilgrimInfant
}

type ItemType string

const (
	ItemVisa      ItemType = "visa"
	ItemFlight    ItemType = "flight"
	ItemHotel     ItemType = "hotel"
	ItemTransport ItemType = "transport"
)

func (i ItemType) Valid() bool {
	switch i {
	case ItemVisa, ItemFlight, ItemHotel, ItemTransport:
		return true
	}

	return false
}
