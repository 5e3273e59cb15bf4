package lead

import (
	"net/http"

	"umrahcrm/infras/otel"
	"umrahcrm/internal/domains/lead/model"
	"umrahcrm/internal/domains/lead/model/dto"
	"umrahcrm/internal/domains/lead/service"
	ticketService "umrahcrm/internal/domains/ticket/service"
	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/validator"
	"umrahcrm/transport/http/request"
	"umrahcrm/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Lead
	tickets ticketService.Ticket
	otel    otel.Otel
}

func New(service service.Lead, tickets ticketService.Ticket, otel otel.Otel) Handler {
	return Handler{
		service: service,
		tickets: tickets,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/leads", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetLeads)
		routerGroup.Post("/", handler.CreateLead)
		routerGroup.Post("/quotations", handler.CreateQuotation)
		routerGroup.Get("/{id}", handler.GetLeadByID)
		routerGroup.Patch("/{id}", handler.UpdateLead)
		routerGroup.Delete("/{id}", handler.DeleteLead)
		routerGroup.Post("/{id}/voucher/accept", handler.AcceptVoucher)
		routerGroup.Post("/{id}/voucher/reject", handler.RejectVoucher)
		routerGroup.Post("/{id}/documents", handler.AddDocument)
		routerGroup.Get("/{id}/tickets", handler.GetLeadTickets)
	})
}

// GetLeads lists leads, most recent first.
// @Summary Get all leads
// @Description Retrieve leads with optional status, payment status and free text filters.
// @Tags Lead
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param status query string false "Workflow status"
// @Param payment_status query string false "Payment status"
// @Param search query string false "Matches name, email or quotation number"
// @Success 200 {object} dto.GetLeadsResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads [get]
// @Security BearerAuth
func (handler *Handler) GetLeads(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLeads")
	defer scope.End()

	queryParams := gDto.ParseQueryParams(r)

	query := r.URL.Query()
	filter := dto.LeadFilter{
		Status:        model.Status(query.Get("status")),
		PaymentStatus: model.PaymentStatus(query.Get("payment_status")),
		Search:        query.Get("search"),
	}

	if err := validator.ValidateStruct(&filter); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	leads, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get leads")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, leads)
}

// GetLeadByID
// @Summary Get a lead by ID
// @Tags Lead
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} dto.LeadResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetLeadByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLeadByID")
	defer scope.End()

	lead, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get lead")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, lead)
}

// CreateLead stores a lead entered directly on the leads page.
// @Summary Create a lead
// @Tags Lead
// @Accept json
// @Produce json
// @Param request body dto.CreateLeadRequest true "Create Lead Request"
// @Success 201 {object} dto.LeadResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads [post]
// @Security BearerAuth
func (handler *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateLead")
	defer scope.End()

	req := dto.CreateLeadRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	lead, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create lead")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Lead created successfully")

	response.WithJSON(w, http.StatusCreated, lead)
}

// CreateQuotation replays the journey builder selections and stores the resulting lead.
// @Summary Create a quotation
// @Tags Lead
// @Accept json
// @Produce json
// @Param request body dto.CreateQuotationRequest true "Create Quotation Request"
// @Success 201 {object} dto.LeadResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/quotations [post]
// @Security BearerAuth
func (handler *Handler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateQuotation")
	defer scope.End()

	req := dto.CreateQuotationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	lead, err := handler.service.CreateQuotation(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create quotation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Quotation created successfully")

	response.WithJSON(w, http.StatusCreated, lead)
}

// UpdateLead
// @Summary Update a lead
// @Description Only the fields present in the body are changed. Lists are replaced as a whole.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.UpdateLeadRequest true "Update Lead Request"
// @Success 200 {object} dto.LeadResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLead")
	defer scope.End()

	req := dto.UpdateLeadRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	lead, err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update lead")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, lead)
}

// DeleteLead
// @Summary Delete a lead
// @Tags Lead
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteLead")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete lead")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Lead deleted successfully")
}

// AcceptVoucher
// @Summary Accept a voucher
// @Description Send the payment proof as a multipart "file" or as a hosted payment_proof_url.
// @Tags Voucher
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Lead ID"
// @Param file formData file false "Payment proof"
// @Param request body dto.AcceptVoucherRequest false "Hosted payment proof"
// @Success 200 {object} dto.LeadResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/voucher/accept [post]
// @Security BearerAuth
func (handler *Handler) AcceptVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AcceptVoucher")
	defer scope.End()

	req := dto.AcceptVoucherRequest{}

	if request.IsMultipart(r) {
		proof, err := request.FormFile(r)
		if err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
		defer request.Close(proof)

		req.Proof = proof
		req.PaymentProofURL = r.FormValue(constant.FormPaymentProofURL)

		err = validator.ValidateStruct(&req)
		if err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
	} else if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	lead, err := handler.service.AcceptVoucher(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to accept voucher")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Voucher accepted")

	response.WithJSON(w, http.StatusOK, lead)
}

// RejectVoucher
// @Summary Reject a voucher
// @Tags Voucher
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.RejectVoucherRequest true "Reject Voucher Request"
// @Success 200 {object} dto.LeadResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/voucher/reject [post]
// @Security BearerAuth
func (handler *Handler) RejectVoucher(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RejectVoucher")
	defer scope.End()

	req := dto.RejectVoucherRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	lead, err := handler.service.RejectVoucher(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reject voucher")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Voucher rejected")

	response.WithJSON(w, http.StatusOK, lead)
}

// AddDocument attaches an agency or customer document to a lead.
// @Summary Add a document
// @Tags Document
// @Accept json,mpfd
// @Produce json
// @Param id path string true "Lead ID"
// @Param file formData file false "Document"
// @Param type formData string false "Agency or Customer"
// @Param category formData string false "Passport, ID Card, Visa, Ticket, Voucher or Other"
// @Param request body dto.AddDocumentRequest false "Hosted document"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/documents [post]
// @Security BearerAuth
func (handler *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddDocument")
	defer scope.End()

	req := dto.AddDocumentRequest{}

	if request.IsMultipart(r) {
		file, err := request.FormFile(r)
		if err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
		defer request.Close(file)

		req.File = file
		req.Type = model.DocumentType(r.FormValue(constant.FormType))
		req.Category = model.DocumentCategory(r.FormValue(constant.FormCategory))
		req.Name = r.FormValue("name")
		req.URL = r.FormValue("url")

		err = validator.ValidateStruct(&req)
		if err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
	} else if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	doc, err := handler.service.AddDocument(ctx, req, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add document")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, doc)
}

// GetLeadTickets
// @Summary Get the support tickets raised against a lead
// @Tags Ticket
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {array} object
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/tickets [get]
// @Security BearerAuth
func (handler *Handler) GetLeadTickets(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLeadTickets")
	defer scope.End()

	tickets, err := handler.tickets.GetByLead(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get lead tickets")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tickets)
}
