// Package builder composes a quotation lead from journey items picked one at a time.
//
// The order in which items may be added is a guide for the consultant rather
// than a rule on the data: visa before flight, and both before hotels or
// transport, but only for the services the guest actually asked for.
package builder

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"umrahcrm/internal/domains/lead/model"
	"umrahcrm/shared"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/timezone"

	"github.com/google/uuid"
)

type Service string

const (
	ServiceVisas     Service = "visas"
	ServiceFlights   Service = "flights"
	ServiceHotels    Service = "hotels"
	ServiceTransport Service = "transport"
)

var (
	ErrNotAddable     = errors.New("journey item cannot be added")
	ErrUnknownService = errors.New("unknown service")
)

var serviceByItem = map[model.ItemType]Service{
	model.ItemVisa:      ServiceVisas,
	model.ItemFlight:    ServiceFlights,
	model.ItemHotel:     ServiceHotels,
	model.ItemTransport: ServiceTransport,
}

type Guest struct {
	Name  string
	Email string
	Phone string
}

type Options struct {
	Now   time.Time
	Actor string
	// QuotationNumber is drawn at random when empty.
	QuotationNumber string
	// ComputeTotals prices the lead from its items instead of leaving totals at zero.
	ComputeTotals bool
}

type Builder struct {
	guest     Guest
	requested map[Service]bool
	items     []model.JourneyItem
}

func New(guest Guest, services ...Service) (*Builder, error) {
	requested := make(map[Service]bool, len(services))

	for _, svc := range services {
		switch svc {
		case ServiceVisas, ServiceFlights, ServiceHotels, ServiceTransport:
			requested[svc] = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownService, svc)
		}
	}

	return &Builder{guest: guest, requested: requested}, nil
}

// Addable returns nil when an item of the given type may be added now, or the reason it may not.
func (b *Builder) Addable(itemType model.ItemType) error {
	svc, ok := serviceByItem[itemType]
	if !ok {
		return fmt.Errorf("%w: unknown item type %q", ErrNotAddable, itemType)
	}

	if !b.requested[svc] {
		return fmt.Errorf("%w: %s were not requested", ErrNotAddable, svc)
	}

	visaReady := !b.requested[ServiceVisas] || b.has(model.ItemVisa)
	flightReady := !b.requested[ServiceFlights] || b.has(model.ItemFlight)

	switch itemType {
	case model.ItemVisa:
		if b.has(model.ItemVisa) {
			return fmt.Errorf("%w: a visa is already selected", ErrNotAddable)
		}
	case model.ItemFlight:
		if b.has(model.ItemFlight) {
			return fmt.Errorf("%w: a flight is already selected", ErrNotAddable)
		}

		if !visaReady {
			return fmt.Errorf("%w: select a visa first", ErrNotAddable)
		}
	case model.ItemHotel, model.ItemTransport:
		if !visaReady || !flightReady {
			return fmt.Errorf("%w: select the visa and flight first", ErrNotAddable)
		}
	}

	return nil
}

func (b *Builder) Add(item model.JourneyItem) error {
	if err := b.Addable(item.Type); err != nil {
		return err
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if slices.ContainsFunc(b.items, func(existing model.JourneyItem) bool { return existing.ID == item.ID }) {
		return fmt.Errorf("%w: item %s is already in the journey", ErrNotAddable, item.ID)
	}

	b.items = append(b.items, item)

	return nil
}

// Remove drops the item with the given id and reports whether it was present.
func (b *Builder) Remove(id string) bool {
	before := len(b.items)

	b.items = slices.DeleteFunc(b.items, func(item model.JourneyItem) bool { return item.ID == id })

	return len(b.items) != before
}

func (b *Builder) Items() []model.JourneyItem {
	return slices.Clone(b.items)
}

// Build assembles the lead. Each flat summary comes from the first item of its type,
// so only the first transport leg reaches the transport field; all legs stay in the journey.
// A journey without items is submitted as is, with empty summaries.
func (b *Builder) Build(opts Options) (model.Lead, error) {
	now := opts.Now
	if now.IsZero() {
		now = timezone.Now()
	}

	number := opts.QuotationNumber
	if number == "" {
		number = model.QuotationNumberPrefix + shared.RandomDigits(1000, 9999)
	}

	lead := model.Lead{
		ID:              uuid.NewString(),
		QuotationNumber: number,
		Name:            b.guest.Name,
		Email:           b.guest.Email,
		Phone:           b.guest.Phone,
		Flight:          b.summary(model.ItemFlight),
		Visa:            b.summary(model.ItemVisa),
		Transport:       b.summary(model.ItemTransport),
		Hotel:           b.summary(model.ItemHotel),
		Status:          model.StatusNew,
		PaymentStatus:   model.PaymentUnpaid,
		QuotationStatus: model.QuotationPending,
		PackageStatus:   model.PackageStandard,
		Date:            timezone.Format(now, constant.DisplayDateFormat),
		Journey:         b.Items(),
	}

	if opts.ComputeTotals {
		for _, item := range b.items {
			var amount float64
			if item.Price != nil {
				amount = *item.Price
			}

			lead.TotalAmount += amount
			lead.PriceBreakdown = append(lead.PriceBreakdown, model.PriceItem{Service: item.Summary(), Amount: amount})
		}
	}

	lead.Stamp(now, opts.Actor)

	return lead, nil
}

func (b *Builder) has(itemType model.ItemType) bool {
	return slices.ContainsFunc(b.items, func(item model.JourneyItem) bool { return item.Type == itemType })
}

func (b *Builder) summary(itemType model.ItemType) string {
	idx := slices.IndexFunc(b.items, func(item model.JourneyItem) bool { return item.Type == itemType })
	if idx < 0 {
		return ""
	}

	return b.items[idx].Summary()
}
