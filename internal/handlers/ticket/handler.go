package ticket

import (
	"net/http"

	"umrahcrm/infras/otel"
	"umrahcrm/internal/domains/ticket/model"
	"umrahcrm/internal/domains/ticket/model/dto"
	"umrahcrm/internal/domains/ticket/service"
	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/validator"
	"umrahcrm/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Ticket
	otel    otel.Otel
}

func New(service service.Ticket, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/tickets", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetTickets)
		routerGroup.Post("/", handler.CreateTicket)
		routerGroup.Get("/{id}", handler.GetTicketByID)
		routerGroup.Patch("/{id}", handler.UpdateTicket)
	})
}

// GetTickets
// @Summary Get all support tickets
// @Tags Ticket
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param status query string false "Ticket status"
// @Param action query string false "Requested action"
// @Param lead_id query string false "Lead ID"
// @Success 200 {object} dto.GetTicketsResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tickets [get]
// @Security BearerAuth
func (handler *Handler) GetTickets(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTickets")
	defer scope.End()

	queryParams := gDto.ParseQueryParams(r)

	query := r.URL.Query()
	filter := dto.TicketFilter{
		Status: model.Status(query.Get("status")),
		Action: model.Action(query.Get("action")),
		LeadID: query.Get("lead_id"),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	tickets, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get tickets")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tickets)
}

// GetTicketByID
// @Summary Get a support ticket by ID
// @Tags Ticket
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} dto.TicketResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tickets/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTicketByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTicketByID")
	defer scope.End()

	ticket, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get ticket")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, ticket)
}

// CreateTicket raises a support request against a lead.
// @Summary Create a support ticket
// @Description Refund and upgrade/downgrade tickets compose their description from the attached details.
// @Tags Ticket
// @Accept json
// @Produce json
// @Param request body dto.CreateTicketRequest true "Create Ticket Request"
// @Success 201 {object} dto.TicketResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tickets [post]
// @Security BearerAuth
func (handler *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTicket")
	defer scope.End()

	req := dto.CreateTicketRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	ticket, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create ticket")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Ticket created successfully")

	response.WithJSON(w, http.StatusCreated, ticket)
}

// UpdateTicket
// @Summary Update a support ticket
// @Tags Ticket
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param request body dto.UpdateTicketRequest true "Update Ticket Request"
// @Success 200 {object} dto.TicketResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/tickets/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateTicket")
	defer scope.End()

	req := dto.UpdateTicketRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	ticket, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update ticket")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, ticket)
}
