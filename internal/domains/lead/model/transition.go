package model

// transitionMap lists, per workflow target, the statuses a lead may come from.
// It backs an optional policy; status updates are unrestricted unless it is enabled.
var transitionMap = map[Status][]Status{
	StatusLeadCreated:             {StatusNew},
	StatusSentToCompanions:        {StatusLeadCreated, StatusNew, StatusContacted},
	StatusQuotationReceived:       {StatusSentToCompanions},
	StatusQuotationSentToCustomer: {StatusQuotationReceived, StatusQuotationRejected},
	StatusQuotationAccepted:       {StatusQuotationSentToCustomer},
	StatusQuotationRejected:       {StatusQuotationSentToCustomer},
	StatusPaymentReceived:         {StatusQuotationAccepted},
	StatusPaymentVerified:         {StatusPaymentReceived},
	StatusJourneyStarted:          {StatusPaymentVerified},
	StatusJourneyEnded:            {StatusJourneyStarted},
}

// ValidTransition reports whether from -> to follows the workflow order.
// Staying put is always allowed, as is moving to a legacy status.
func ValidTransition(from, to Status) bool {
	if from == to {
		return true
	}

	allowed, ok := transitionMap[to]
	if !ok {
		return to.Valid()
	}

	for _, status := range allowed {
		if status == from {
			return true
		}
	}

	return false
}
