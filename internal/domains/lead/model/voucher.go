package model

import (
	"errors"
	"time"
)

var (
	ErrPaymentProofRequired    = errors.New("payment proof is required")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrUnknownRejectionReason  = errors.New("unknown rejection reason")
	ErrVoucherAlreadyDecided   = errors.New("voucher has already been decided")
	ErrVoucherExpired          = errors.New("voucher has expired")
)

// Expired reports whether the voucher countdown has run out. Leads without a deadline never expire.
func (l Lead) Expired(now time.Time) bool {
	return l.TimerExpiry > 0 && now.UnixMilli() > l.TimerExpiry
}

// VoucherOpen returns nil while the customer can still decide the voucher.
func VoucherOpen(lead Lead, now time.Time, enforceExpiry bool) error {
	if lead.VoucherStatus.Decided() {
		return ErrVoucherAlreadyDecided
	}

	if enforceExpiry && lead.Expired(now) {
		return ErrVoucherExpired
	}

	return nil
}

// AcceptVoucher returns the update recording the customer's acceptance.
// Nothing is produced unless a payment proof reference is supplied.
func AcceptVoucher(lead Lead, proofURL string, now time.Time, enforceExpiry bool) (Patch, error) {
	if proofURL == "" {
		return Patch{}, ErrPaymentProofRequired
	}

	if err := VoucherOpen(lead, now, enforceExpiry); err != nil {
		return Patch{}, err
	}

	return Patch{
		VoucherStatus:   ref(VoucherAccepted),
		PaymentStatus:   ref(PaymentPaid),
		Status:          ref(StatusInProgress),
		PaymentProofURL: ref(proofURL),
	}, nil
}

// RejectVoucher returns the update recording the customer's rejection.
// The comment is stored verbatim, including when empty.
func RejectVoucher(lead Lead, reason RejectionReason, comment string) (Patch, error) {
	if reason == "" {
		return Patch{}, ErrRejectionReasonRequired
	}

	if !reason.Valid() {
		return Patch{}, ErrUnknownRejectionReason
	}

	if lead.VoucherStatus.Decided() {
		return Patch{}, ErrVoucherAlreadyDecided
	}

	return Patch{
		VoucherStatus:    ref(VoucherRejected),
		RejectionReason:  ref(reason),
		RejectionComment: ref(comment),
		Status:           ref(StatusContacted),
	}, nil
}
