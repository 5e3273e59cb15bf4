package model

import (
	"strings"
	"time"

	"umrahcrm/shared/model"
)

type Status string

const (
	StatusStep1Complete   Status = "step1_complete"
	StatusStep2Complete   Status = "step2_complete"
	StatusPendingApproval Status = "pending_approval"
	StatusActive          Status = "active"
	StatusInactive        Status = "inactive"
	StatusCompleted       Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusStep1Complete, StatusStep2Complete, StatusPendingApproval, StatusActive, StatusInactive, StatusCompleted:
		return true
	}

	return false
}

// Routes the dashboard sends a consultant to after signing in.
const (
	RouteApply     = "/apply"
	RouteVideo     = "/video"
	RoutePending   = "/pending"
	RouteContract  = "/contract"
	RouteDashboard = "/dashboard"
)

// NextStep returns where onboarding continues for the given status.
func (s Status) NextStep() string {
	switch s {
	case StatusStep1Complete:
		return RouteVideo
	case StatusStep2Complete, StatusPendingApproval:
		return RoutePending
	case StatusActive:
		return RouteContract
	case StatusCompleted:
		return RouteDashboard
	}

	return RouteApply
}

// CanUploadVideo reports whether the introduction video may still be (re)submitted.
func (s Status) CanUploadVideo() bool {
	return s == StatusStep1Complete || s == StatusStep2Complete || s == StatusPendingApproval
}

type User struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	City              string     `json:"city"`
	Country           string     `json:"country"`
	HasPerformedUmrah bool       `json:"has_performed_umrah"`
	IsTechDriven      bool       `json:"is_tech_driven"`
	Qualification     string     `json:"qualification"`
	VideoUploaded     bool       `json:"video_uploaded"`
	VideoURL          string     `json:"video_url,omitempty"`
	ContractSigned    bool       `json:"contract_signed"`
	ContractURL       string     `json:"contract_url,omitempty"`
	Role              string     `json:"role"`
	Status            Status     `json:"status"`
	PasswordHash      string     `json:"password_hash"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	model.Metadata
}

// Patch carries a partial user update. Nil fields are left untouched.
type Patch struct {
	VideoUploaded  *bool      `json:"video_uploaded,omitempty"`
	VideoURL       *string    `json:"video_url,omitempty"`
	ContractSigned *bool      `json:"contract_signed,omitempty"`
	ContractURL    *string    `json:"contract_url,omitempty"`
	Status         *Status    `json:"status,omitempty"`
	PasswordHash   *string    `json:"password_hash,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
