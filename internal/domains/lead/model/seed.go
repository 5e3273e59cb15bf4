package model

import "time"

const (
	seedActor      = "system"
	seedValidFor   = time.Hour
	demoVoucherKey = "Package2026"
)

// SeedLeads returns the sample leads written to an empty collection.
// The demo lead's voucher countdown starts at now.
func SeedLeads(now time.Time) []Lead {
	leads := []Lead{
		{
			ID:              "1",
			QuotationNumber: "QT-8421",
			Name:            "Ahmad Khan",
			Email:           "ahmad@example.com",
			Phone:           "+966 50 123 4567",
			Flight:          "PIA (Karachi → Jeddah)",
			Visa:            "Umrah Visa (4 Applicants)",
			Transport:       "GMC (Airport Transfer)",
			Hotel:           "Swissôtel Makkah (5 Nights)",
			Status:          StatusNew,
			PaymentStatus:   PaymentPending,
			QuotationStatus: QuotationSent,
			PackageStatus:   PackagePremium,
			Date:            "24/10/2023",
		},
		{
			ID:              "2",
			QuotationNumber: "QT-3215",
			Name:            "Sarah Wilson",
			Email:           "sarah.w@example.com",
			Phone:           "+1 415 555 0123",
			Flight:          "Air Blue (Lahore → Madinah)",
			Visa:            "Tourist Visa (2 Applicants)",
			Transport:       "Hiace (Group Travel)",
			Hotel:           "Fairmont Makkah (7 Nights)",
			Status:          StatusInProgress,
			PaymentStatus:   PaymentPaid,
			QuotationStatus: QuotationApproved,
			PackageStatus:   PackageStandard,
			Date:            "22/10/2023",
		},
		DemoLead(now),
	}

	for i := range leads {
		leads[i].Stamp(now, seedActor)
	}

	return leads
}

// DemoLead is the sample lead carrying a pending voucher and full itinerary detail.
func DemoLead(now time.Time) Lead {
	lead := Lead{
		ID:              DemoLeadID,
		QuotationNumber: "QT-9999",
		Name:            "Demo Lead (Voucher)",
		Email:           "demo@example.com",
		Phone:           "+1 234 567 8900",
		Flight:          "Emirates (Dubai → Jeddah)",
		Visa:            "Umrah Visa (1 Applicant)",
		Transport:       "Private Car",
		Hotel:           "Raffles Makkah (3 Nights)",
		Status:          StatusNew,
		PaymentStatus:   PaymentPending,
		QuotationStatus: QuotationSent,
		PackageStatus:   PackagePremium,
		Date:            "02/01/2026",
		VoucherCode:     demoVoucherKey,
		VoucherStatus:   VoucherPending,
		TimerExpiry:     now.Add(seedValidFor).UnixMilli(),
		TotalAmount:     4250,
		PriceBreakdown: []PriceItem{
			{Service: "Flights (Emirates)", Amount: 1800},
			{Service: "Hotel (Raffles Makkah)", Amount: 1500},
			{Service: "Visa Processing", Amount: 450},
			{Service: "Private Transport", Amount: 500},
		},
		FlightDetails: []FlightDetail{
			{
				Airline:       "Emirates",
				FlightNumber:  "EK 801",
				DepartureCity: "Dubai",
				ArrivalCity:   "Jeddah",
				DepartureDate: "10/01/2026",
				DepartureTime: "09:15",
				ArrivalTime:   "11:05",
				PNR:           "EK9QX2",
				Passengers:    3,
			},
		},
		PassengerDetails: []PassengerDetail{
			{RRN: "RRN-1001", Description: "Family package", Adults: 2, Children: 1},
		},
		TransportDetails: []TransportDetail{
			{RRN: "RRN-1001", TransportType: "Private Car", Pickup: "Jeddah Airport", DropOff: "Raffles Makkah", Date: "10/01/2026", Time: "12:00"},
		},
		AccommodationDetails: []AccommodationDetail{
			{HCN: "HCN-55120", City: "Makkah", HotelName: "Raffles Makkah", CheckIn: "10/01/2026", CheckOut: "13/01/2026", Nights: 3, Occupancy: "Triple", Qty: 1, Food: "Breakfast"},
		},
		Pilgrims: []Pilgrim{
			{Name: "John Doe", PassportNumber: "A1234567", Type: PilgrimAdult},
			{Name: "Jane Doe", PassportNumber: "B7654321", Type: PilgrimAdult},
			{Name: "Junior Doe", PassportNumber: "C9876543", Type: PilgrimChild},
		},
		TermsAndConditions: []string{
			"Voucher is valid only for the travel dates shown above.",
			"Hotel check-in is subject to availability after 16:00.",
			"Changes after acceptance may incur supplier fees.",
		},
	}

	lead.Stamp(now, seedActor)

	return lead
}
