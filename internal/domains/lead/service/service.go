package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"umrahcrm/config"
	"umrahcrm/infras/otel"
	"umrahcrm/infras/s3"
	"umrahcrm/internal/domains/lead/builder"
	"umrahcrm/internal/domains/lead/model"
	"umrahcrm/internal/domains/lead/model/dto"
	"umrahcrm/internal/domains/lead/repository"
	"umrahcrm/internal/events"
	"umrahcrm/shared"
	"umrahcrm/shared/cache"
	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/failure"
	"umrahcrm/shared/store"
	"umrahcrm/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetLead    = "lead:get"
	cacheGetAllLead = "lead:get_all"
)

const quotationNumberAttempts = 20

const (
	MsgLeadNotFound           = "lead not found"
	MsgPaymentProofRequired   = "Please upload payment proof before accepting."
	MsgRejectionReasonMissing = "Please select a reason for rejection."
	MsgConcurrentUpdate       = "lead was changed by someone else, please retry"
)

type Lead interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.LeadFilter) (dto.GetLeadsResponse, error)
	Get(ctx context.Context, id string) (dto.LeadResponse, error)
	Create(ctx context.Context, req dto.CreateLeadRequest) (dto.LeadResponse, error)
	CreateQuotation(ctx context.Context, req dto.CreateQuotationRequest) (dto.LeadResponse, error)
	Update(ctx context.Context, req dto.UpdateLeadRequest, id string) (dto.LeadResponse, error)
	Delete(ctx context.Context, id string) error
	AcceptVoucher(ctx context.Context, req dto.AcceptVoucherRequest, id string) (dto.LeadResponse, error)
	RejectVoucher(ctx context.Context, req dto.RejectVoucherRequest, id string) (dto.LeadResponse, error)
	AddDocument(ctx context.Context, req dto.AddDocumentRequest, id string) (dto.DocumentResponse, error)
}

type serviceImpl struct {
	repo      repository.Lead
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
	publisher events.Publisher
	gen       cache.Generation
}

func New(repo repository.Lead, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, publisher events.Publisher) Lead {
	return &serviceImpl{
		repo:      repo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
		publisher: publisher,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.LeadFilter) (res dto.GetLeadsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(s.gen.Prefix(cacheGetAllLead), params, filter.Map())

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for leads")

		res.Refresh(timezone.Now())

		return res, nil
	}

	leads, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get leads")

		return res, s.translate(err)
	}

	matched := make([]model.Lead, 0, len(leads))
	for _, lead := range leads {
		if filter.Match(lead) {
			matched = append(matched, lead)
		}
	}

	res.FromModels(matched, params, timezone.Now())

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save leads to cache")
	}

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.LeadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(s.gen.Prefix(cacheGetLead), id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for lead")

		res.Refresh(timezone.Now())

		return res, nil
	}

	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, s.translate(err)
	}

	res.FromModel(lead, timezone.Now())

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save lead to cache")
	}

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateLeadRequest) (res dto.LeadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	lead := req.ToModel(user, now)

	if lead.QuotationNumber, err = s.quotationNumber(ctx); err != nil {
		return res, err
	}

	return s.insert(ctx, lead, user, now)
}

func (s *serviceImpl) CreateQuotation(ctx context.Context, req dto.CreateQuotationRequest) (res dto.LeadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.CreateQuotation")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	now := timezone.Now()

	services := make([]builder.Service, len(req.Services))
	for i, svc := range req.Services {
		services[i] = builder.Service(svc)
	}

	b, err := builder.New(builder.Guest{Name: req.Guest.Name, Email: req.Guest.Email, Phone: req.Guest.Phone}, services...)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	for _, item := range req.Items {
		if err = b.Add(item.ToModel()); err != nil {
			return res, failure.BadRequest(err) //nolint:wrapcheck
		}
	}

	number, err := s.quotationNumber(ctx)
	if err != nil {
		return res, err
	}

	lead, err := b.Build(builder.Options{
		Now:             now,
		Actor:           user,
		QuotationNumber: number,
		ComputeTotals:   s.cfg.App.Quotation.ComputeTotals,
	})
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	return s.insert(ctx, lead, user, now)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateLeadRequest, id string) (res dto.LeadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Empty() {
		return res, failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	patch := req.ToPatch()

	var lead model.Lead

	if s.cfg.App.Lead.EnforceTransitions && patch.Status != nil {
		lead, err = s.repo.Apply(ctx, id, func(current model.Lead) (model.Patch, error) {
			if !model.ValidTransition(current.Status, *patch.Status) {
				return patch, failure.Conflict(fmt.Sprintf("lead cannot move from %q to %q", current.Status, *patch.Status))
			}

			return patch, nil
		})
	} else {
		lead, err = s.repo.Update(ctx, id, patch)
	}

	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update lead")

		return res, s.translate(err)
	}

	s.invalidate(ctx)

	res.FromModel(lead, timezone.Now())

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.repo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete lead")

		return s.translate(err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) AcceptVoucher(ctx context.Context, req dto.AcceptVoucherRequest, id string) (res dto.LeadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.AcceptVoucher")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Proof == nil && req.PaymentProofURL == "" {
		return res, s.translate(model.ErrPaymentProofRequired)
	}

	enforce := s.cfg.App.Voucher.EnforceExpiry

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, s.translate(err)
	}

	if err = model.VoucherOpen(current, timezone.Now(), enforce); err != nil {
		return res, s.translate(err)
	}

	proofURL := req.PaymentProofURL

	if req.Proof != nil {
		proofURL, err = s.s3.Upload(ctx, s3.DirPaymentProofs, req.Proof.File, req.Proof.Header)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to upload payment proof")

			return res, fmt.Errorf("failed to upload payment proof: %w", err)
		}
	}

	lead, err := s.repo.Apply(ctx, id, func(current model.Lead) (model.Patch, error) {
		return model.AcceptVoucher(current, proofURL, timezone.Now(), enforce)
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to accept voucher")

		if req.Proof != nil {
			s.discard(ctx, proofURL)
		}

		return res, s.translate(err)
	}

	s.invalidate(ctx)
	s.publish(ctx, events.VoucherAccepted, lead, map[string]string{events.AttrProofURL: proofURL})

	res.FromModel(lead, timezone.Now())

	return res, nil
}

func (s *serviceImpl) RejectVoucher(ctx context.Context, req dto.RejectVoucherRequest, id string) (res dto.LeadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.RejectVoucher")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	lead, err := s.repo.Apply(ctx, id, func(current model.Lead) (model.Patch, error) {
		return model.RejectVoucher(current, req.Reason, req.Comment)
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to reject voucher")

		return res, s.translate(err)
	}

	s.invalidate(ctx)
	s.publish(ctx, events.VoucherRejected, lead, map[string]string{
		events.AttrReason:  string(lead.RejectionReason),
		events.AttrComment: lead.RejectionComment,
	})

	res.FromModel(lead, timezone.Now())

	return res, nil
}

func (s *serviceImpl) AddDocument(ctx context.Context, req dto.AddDocumentRequest, id string) (res dto.DocumentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".lead.AddDocument")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.File == nil && req.URL == "" {
		return res, failure.BadRequestFromString("file or url is required") //nolint:wrapcheck
	}

	if _, err = s.repo.Get(ctx, id); err != nil {
		return res, s.translate(err)
	}

	if req.File != nil {
		req.URL, err = s.s3.Upload(ctx, path.Join(s3.DirDocuments, id), req.File.File, req.File.Header)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to upload document")

			return res, fmt.Errorf("failed to upload document: %w", err)
		}

		if req.Name == "" {
			req.Name = req.File.Name()
		}
	}

	if req.Name == "" {
		req.Name = path.Base(req.URL)
	}

	doc := req.ToModel(timezone.Now())

	if _, err = s.repo.AddDocument(ctx, id, doc); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to add document")

		if req.File != nil {
			s.discard(ctx, doc.URL)
		}

		return res, s.translate(err)
	}

	s.invalidate(ctx)

	res.Document = doc

	return res, nil
}

func (s *serviceImpl) insert(ctx context.Context, lead model.Lead, user string, now time.Time) (res dto.LeadResponse, err error) {
	if _, err = s.repo.Insert(ctx, lead); err != nil {
		log.Error().Err(err).Msg("failed to create lead")

		return res, s.translate(err)
	}

	s.invalidate(ctx)
	s.publish(ctx, events.LeadCreated, lead, nil)

	log.Info().Str("id", lead.ID).Str("quotation", lead.QuotationNumber).Str("by", user).Msg("lead created")

	res.FromModel(lead, now)

	return res, nil
}

// quotationNumber draws QT-#### numbers until one is unused.
func (s *serviceImpl) quotationNumber(ctx context.Context) (string, error) {
	leads, err := s.repo.GetAll(ctx)
	if err != nil {
		return "", s.translate(err)
	}

	taken := make(map[string]struct{}, len(leads))
	for _, lead := range leads {
		taken[lead.QuotationNumber] = struct{}{}
	}

	for range quotationNumberAttempts {
		number := model.QuotationNumberPrefix + shared.RandomDigits(1000, 9999)
		if _, ok := taken[number]; !ok {
			return number, nil
		}
	}

	return "", failure.Conflict("no quotation number available, please retry") //nolint:wrapcheck
}

// invalidate runs before a write returns. The bump strands fills that read the old data.
func (s *serviceImpl) invalidate(ctx context.Context) {
	s.gen.Bump()

	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheGetLead)
	shared.InvalidateCaches(c, s.cache, cacheGetAllLead)
}

// discard removes an upload whose lead write did not land.
func (s *serviceImpl) discard(ctx context.Context, url string) {
	if err := s.s3.Delete(context.WithoutCancel(ctx), url); err != nil {
		log.Error().Err(err).Str("url", url).Msg("failed to delete orphaned upload")
	}
}

func (s *serviceImpl) publish(ctx context.Context, t events.Type, lead model.Lead, attrs map[string]string) {
	if attrs == nil {
		attrs = map[string]string{}
	}

	attrs[events.AttrLeadName] = lead.Name
	attrs[events.AttrQuotationNumber] = lead.QuotationNumber

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	s.publisher.Publish(ctx, events.New(t, lead.ID, user, attrs))
}

// translate maps repository and model errors onto client facing failures.
func (s *serviceImpl) translate(err error) error {
	var fail *failure.Failure

	switch {
	case errors.As(err, &fail):
		return fail
	case errors.Is(err, repository.ErrNotFound):
		return failure.NotFound(MsgLeadNotFound) //nolint:wrapcheck
	case errors.Is(err, store.ErrVersionConflict):
		return failure.Conflict(MsgConcurrentUpdate) //nolint:wrapcheck
	case errors.Is(err, model.ErrPaymentProofRequired):
		return failure.BadRequestFromString(MsgPaymentProofRequired) //nolint:wrapcheck
	case errors.Is(err, model.ErrRejectionReasonRequired):
		return failure.BadRequestFromString(MsgRejectionReasonMissing) //nolint:wrapcheck
	case errors.Is(err, model.ErrUnknownRejectionReason):
		return failure.BadRequestFromString("reason has an unsupported value") //nolint:wrapcheck
	case errors.Is(err, model.ErrVoucherAlreadyDecided), errors.Is(err, model.ErrVoucherExpired):
		return failure.Conflict(err.Error()) //nolint:wrapcheck
	default:
		return err
	}
}
