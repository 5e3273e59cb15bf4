package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"

	"umrahcrm/config"
	"umrahcrm/infras/otel"
	leadRepository "umrahcrm/internal/domains/lead/repository"
	"umrahcrm/internal/domains/ticket/model"
	"umrahcrm/internal/domains/ticket/model/dto"
	"umrahcrm/internal/domains/ticket/repository"
	"umrahcrm/internal/events"
	"umrahcrm/shared"
	"umrahcrm/shared/cache"
	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/failure"
	"umrahcrm/shared/store"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetTicket    = "ticket:get"
	cacheGetAllTicket = "ticket:get_all"
)

const (
	MsgTicketNotFound = "ticket not found"
	MsgLeadNotFound   = "lead not found"
)

type Ticket interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.TicketFilter) (dto.GetTicketsResponse, error)
	Get(ctx context.Context, id string) (dto.TicketResponse, error)
	GetByLead(ctx context.Context, leadID string) ([]dto.TicketResponse, error)
	Create(ctx context.Context, req dto.CreateTicketRequest) (dto.TicketResponse, error)
	Update(ctx context.Context, req dto.UpdateTicketRequest, id string) (dto.TicketResponse, error)
}

type serviceImpl struct {
	repo      repository.Ticket
	leads     leadRepository.Lead
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	publisher events.Publisher
	gen       cache.Generation
}

func New(
	repo repository.Ticket,
	leads leadRepository.Lead,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	publisher events.Publisher,
) Ticket {
	return &serviceImpl{
		repo:      repo,
		leads:     leads,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		publisher: publisher,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.TicketFilter) (res dto.GetTicketsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(s.gen.Prefix(cacheGetAllTicket), params, filter.Map())

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tickets")

		return res, nil
	}

	tickets, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tickets")

		return res, s.translate(err)
	}

	matched := make([]model.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if filter.Match(ticket) {
			matched = append(matched, ticket)
		}
	}

	res.FromModels(matched, params)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save tickets to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TicketResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(s.gen.Prefix(cacheGetTicket), id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	ticket, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, s.translate(err)
	}

	res.FromModel(ticket)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save ticket to cache")
	}

	return res, nil
}

// GetByLead lists the tickets raised against a lead, whether or not the lead still exists.
func (s *serviceImpl) GetByLead(ctx context.Context, leadID string) (res []dto.TicketResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.GetByLead")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tickets, err := s.repo.GetByLead(ctx, leadID)
	if err != nil {
		return nil, s.translate(err)
	}

	res = make([]dto.TicketResponse, len(tickets))
	for i, ticket := range tickets {
		res[i].FromModel(ticket)
	}

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTicketRequest) (res dto.TicketResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	payload := req.Payload()

	description, err := model.Describe(req.Action, payload, req.Description)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	lead, err := s.leads.Get(ctx, req.LeadID)
	if errors.Is(err, leadRepository.ErrNotFound) {
		return res, failure.NotFound(MsgLeadNotFound) //nolint:wrapcheck
	}

	if err != nil {
		return res, s.translate(err)
	}

	if refund, ok := payload.(model.RefundDetails); ok {
		refund.QuotationNumber = lead.QuotationNumber
		refund.CustomerName = lead.Name
		payload = refund
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	tickets, err := s.repo.Insert(ctx, model.Ticket{
		LeadID:      lead.ID,
		LeadName:    lead.Name,
		Action:      req.Action,
		Description: description,
		Payload:     payload,
		CreatedBy:   user,
	})
	if err != nil {
		log.Error().Err(err).Str("lead", req.LeadID).Msg("failed to create ticket")

		return res, s.translate(err)
	}

	created := tickets[0]

	s.invalidate(ctx)
	s.publisher.Publish(ctx, events.New(events.TicketCreated, created.ID, user, map[string]string{
		events.AttrLeadName:        created.LeadName,
		events.AttrQuotationNumber: lead.QuotationNumber,
		events.AttrAction:          string(created.Action),
		events.AttrDescription:     created.Description,
	}))

	res.FromModel(created)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTicketRequest, id string) (res dto.TicketResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ticket.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	ticket, err := s.repo.Update(ctx, id, req.ToPatch())
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update ticket")

		return res, s.translate(err)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	s.invalidate(ctx)
	s.publisher.Publish(ctx, events.New(events.TicketUpdated, ticket.ID, user, map[string]string{
		events.AttrLeadName:    ticket.LeadName,
		events.AttrAction:      string(ticket.Action),
		events.AttrStatus:      string(ticket.Status),
		events.AttrDescription: ticket.Description,
	}))

	res.FromModel(ticket)

	return res, nil
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	s.gen.Bump()

	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheGetTicket)
	shared.InvalidateCaches(c, s.cache, cacheGetAllTicket)
}

func (s *serviceImpl) translate(err error) error {
	var fail *failure.Failure

	switch {
	case errors.As(err, &fail):
		return fail
	case errors.Is(err, repository.ErrNotFound):
		return failure.NotFound(MsgTicketNotFound) //nolint:wrapcheck
	case errors.Is(err, store.ErrVersionConflict):
		return failure.Conflict("tickets were changed by someone else, please retry") //nolint:wrapcheck
	default:
		return err
	}
}
