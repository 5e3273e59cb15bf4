package model

// SeedTickets is written to an empty ticket collection.
func SeedTickets() []Ticket {
	return []Ticket{
		{
			ID:          SeedID,
			LeadID:      "1",
			LeadName:    "Ahmad Khan",
			Action:      ActionChangeFlight,
			Description: "Client wants to change departure date to 12 Jan if possible.",
			Status:      StatusOpen,
			CreatedAt:   "04/01/2026",
			UpdatedAt:   "04/01/2026",
		},
	}
}
