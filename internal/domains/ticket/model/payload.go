package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrPayloadMismatch     = errors.New("payload does not match the ticket action")
	ErrDescriptionRequired = errors.New("description is required")
	ErrRefundAmount        = errors.New("refund amount must be greater than zero")
	ErrRefundServices      = errors.New("refund must name at least one service")
	ErrRefundReason        = errors.New("refund reason is required")
	ErrServiceType         = errors.New("service type must be Hotel, Transport or Flight")
	ErrServiceDetails      = errors.New("details for the selected service type are incomplete")
)

// Payload is the structured part of a ticket. Only RefundDetails and
// ServiceChangeDetails implement it.
type Payload interface {
	Describe() string
	Validate() error
	sealed()
}

type RefundDetails struct {
	Amount          float64  `json:"amount"`
	Services        []string `json:"services"`
	Reason          string   `json:"reason"`
	ProofURL        string   `json:"proof_url,omitempty"`
	QuotationNumber string   `json:"quotation_number,omitempty"`
	CustomerName    string   `json:"customer_name,omitempty"`
}

func (RefundDetails) sealed() {}

func (r RefundDetails) Describe() string {
	return fmt.Sprintf("Refund of %s requested for %s. Reason: %s",
		strconv.FormatFloat(r.Amount, 'f', 2, 64), strings.Join(r.Services, ", "), r.Reason)
}

func (r RefundDetails) Validate() error {
	switch {
	case r.Amount <= 0:
		return ErrRefundAmount
	case len(r.Services) == 0:
		return ErrRefundServices
	case strings.TrimSpace(r.Reason) == "":
		return ErrRefundReason
	}

	return nil
}

type ServiceType string

const (
	ServiceHotel     ServiceType = "Hotel"
	ServiceTransport ServiceType = "Transport"
	ServiceFlight    ServiceType = "Flight"
)

func (s ServiceType) Valid() bool {
	return s == ServiceHotel || s == ServiceTransport || s == ServiceFlight
}

type HotelChange struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Nights int    `json:"nights"`
	Rooms  int    `json:"rooms"`
}

type TransportChange struct {
	Vehicle  string `json:"vehicle"`
	Route    string `json:"route"`
	Quantity int    `json:"qty"`
}

type FlightChange struct {
	Airline       string `json:"airline"`
	Date          string `json:"date"`
	DepartureCity string `json:"departure_city"`
}

// ServiceChangeDetails describes an upgrade or downgrade. Only the block matching
// ServiceType is meaningful.
type ServiceChangeDetails struct {
	ServiceType ServiceType      `json:"service_type"`
	Hotel       *HotelChange     `json:"hotel,omitempty"`
	Transport   *TransportChange `json:"transport,omitempty"`
	Flight      *FlightChange    `json:"flight,omitempty"`
}

func (ServiceChangeDetails) sealed() {}

func (s ServiceChangeDetails) Describe() string {
	switch s.ServiceType {
	case ServiceHotel:
		if h := s.Hotel; h != nil {
			return fmt.Sprintf("Hotel: %s (%d star), %d nights, %d rooms", h.Name, h.Rating, h.Nights, h.Rooms)
		}
	case ServiceTransport:
		if t := s.Transport; t != nil {
			return fmt.Sprintf("Transport: %s on %s, quantity %d", t.Vehicle, t.Route, t.Quantity)
		}
	case ServiceFlight:
		if f := s.Flight; f != nil {
			return fmt.Sprintf("Flight: %s on %s from %s", f.Airline, f.Date, f.DepartureCity)
		}
	}

	return string(s.ServiceType)
}

func (s ServiceChangeDetails) Validate() error {
	switch s.ServiceType {
	case ServiceHotel:
		if h := s.Hotel; h == nil || h.Name == "" || h.Rating < 1 || h.Rating > 5 || h.Nights < 1 || h.Rooms < 1 {
			return ErrServiceDetails
		}
	case ServiceTransport:
		if t := s.Transport; t == nil || t.Vehicle == "" || t.Route == "" || t.Quantity < 1 {
			return ErrServiceDetails
		}
	case ServiceFlight:
		if f := s.Flight; f == nil || f.Airline == "" || f.Date == "" || f.DepartureCity == "" {
			return ErrServiceDetails
		}
	default:
		return ErrServiceType
	}

	return nil
}

// PayloadMatches reports whether payload is the shape action carries.
// Actions without structured details take no payload.
func PayloadMatches(action Action, payload Payload) bool {
	switch payload.(type) {
	case RefundDetails:
		return action == ActionRefund
	case ServiceChangeDetails:
		return action.ChangesService()
	case nil:
		return action != ActionRefund && !action.ChangesService()
	}

	return false
}

// Describe composes the description stored with a ticket. Structured actions
// derive it from their payload; the rest keep the free text.
func Describe(action Action, payload Payload, text string) (string, error) {
	if !PayloadMatches(action, payload) {
		return "", ErrPayloadMismatch
	}

	if payload == nil {
		if strings.TrimSpace(text) == "" {
			return "", ErrDescriptionRequired
		}

		return text, nil
	}

	if err := payload.Validate(); err != nil {
		return "", err
	}

	if action.ChangesService() {
		return string(action) + ". " + payload.Describe(), nil
	}

	return payload.Describe(), nil
}
