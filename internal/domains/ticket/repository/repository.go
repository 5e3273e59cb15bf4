package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"umrahcrm/infras/otel"
	"umrahcrm/internal/domains/ticket/model"
	"umrahcrm/shared"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/store"
	"umrahcrm/shared/timezone"
)

const idAttempts = 50

var (
	ErrNotFound    = errors.New("ticket not found")
	ErrIDExhausted = errors.New("no free ticket id")
)

type Ticket interface {
	GetAll(ctx context.Context) ([]model.Ticket, error)
	Get(ctx context.Context, id string) (model.Ticket, error)
	GetByLead(ctx context.Context, leadID string) ([]model.Ticket, error)
	// Insert assigns the id, opening status and dates, then puts the ticket first.
	// It returns the stored collection.
	Insert(ctx context.Context, ticket model.Ticket) ([]model.Ticket, error)
	Update(ctx context.Context, id string, patch model.Patch) (model.Ticket, error)
}

type repositoryImpl struct {
	tickets store.Collection[model.Ticket]
	otel    otel.Otel
	now     func() time.Time
}

func New(s store.Store, otel otel.Otel) Ticket {
	return &repositoryImpl{
		tickets: store.NewCollection[model.Ticket](s, store.KeySupportTickets),
		otel:    otel,
		now:     timezone.Now,
	}
}

func (r *repositoryImpl) GetAll(ctx context.Context) (tickets []model.Ticket, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ticket.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tickets, err = r.tickets.Mutate(ctx, func(items []model.Ticket) ([]model.Ticket, error) {
		if len(items) > 0 {
			return nil, store.ErrNoChange
		}

		return model.SeedTickets(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	return tickets, nil
}

func (r *repositoryImpl) Get(ctx context.Context, id string) (ticket model.Ticket, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ticket.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tickets, err := r.GetAll(ctx)
	if err != nil {
		return ticket, err
	}

	idx := indexOf(tickets, id)
	if idx < 0 {
		return ticket, ErrNotFound
	}

	return tickets[idx], nil
}

func (r *repositoryImpl) GetByLead(ctx context.Context, leadID string) (res []model.Ticket, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ticket.GetByLead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tickets, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	res = []model.Ticket{}

	for _, ticket := range tickets {
		if ticket.LeadID == leadID {
			res = append(res, ticket)
		}
	}

	return res, nil
}

func (r *repositoryImpl) Insert(ctx context.Context, ticket model.Ticket) (tickets []model.Ticket, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ticket.Insert")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := timezone.Format(r.now(), constant.DisplayDateFormat)

	ticket.Status = model.StatusOpen
	ticket.CreatedAt = today
	ticket.UpdatedAt = today
	ticket.UpdatedBy = ticket.CreatedBy

	tickets, err = r.tickets.Mutate(ctx, func(items []model.Ticket) ([]model.Ticket, error) {
		if len(items) == 0 {
			items = model.SeedTickets()
		}

		id, err := nextID(items)
		if err != nil {
			return nil, err
		}

		ticket.ID = id

		return append([]model.Ticket{ticket}, items...), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert ticket: %w", err)
	}

	return tickets, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id string, patch model.Patch) (ticket model.Ticket, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ticket.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, _ := ctx.Value(constant.ContextKeyUserID).(string)

	_, err = r.tickets.Mutate(ctx, func(items []model.Ticket) ([]model.Ticket, error) {
		if len(items) == 0 {
			items = model.SeedTickets()
		}

		idx := indexOf(items, id)
		if idx < 0 {
			return nil, ErrNotFound
		}

		next, err := shared.ShallowMerge(items[idx], patch)
		if err != nil {
			return nil, err
		}

		next.ID = id
		next.UpdatedAt = timezone.Format(r.now(), constant.DisplayDateFormat)
		next.UpdatedBy = actor

		items[idx] = next
		ticket = next

		return items, nil
	})
	if errors.Is(err, ErrNotFound) {
		return ticket, ErrNotFound
	}

	if err != nil {
		return ticket, fmt.Errorf("failed to update ticket: %w", err)
	}

	return ticket, nil
}

// nextID draws T-#### ids until one is not taken.
func nextID(tickets []model.Ticket) (string, error) {
	for range idAttempts {
		id := model.IDPrefix + shared.RandomDigits(1000, 9999)
		if indexOf(tickets, id) < 0 {
			return id, nil
		}
	}

	return "", ErrIDExhausted
}

func indexOf(tickets []model.Ticket, id string) int {
	for i, ticket := range tickets {
		if ticket.ID == id {
			return i
		}
	}

	return -1
}
