package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"umrahcrm/config"
	"umrahcrm/infras/mailer"
	"umrahcrm/infras/otel"
	"umrahcrm/infras/s3"
	"umrahcrm/internal/domains/user/model"
	"umrahcrm/internal/domains/user/model/dto"
	"umrahcrm/internal/domains/user/repository"
	"umrahcrm/shared"
	"umrahcrm/shared/cache"
	"umrahcrm/shared/constant"
	gDto "umrahcrm/shared/dto"
	"umrahcrm/shared/failure"
	"umrahcrm/shared/password"
	"umrahcrm/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser    = "user:get"
	cacheGetAllUser = "user:get_all"
)

const (
	MsgUserNotFound        = "user not found"
	MsgVideoOrLinkRequired = "please upload a video or provide a link"
	MsgContractRequired    = "please upload the signed contract"
)

type User interface {
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (dto.GetUsersResponse, error)
	GetPending(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Activate(ctx context.Context, id string) (dto.UserResponse, error)
	Deactivate(ctx context.Context, id string) (dto.UserResponse, error)
	UploadVideo(ctx context.Context, req dto.UploadVideoRequest, id string) (dto.UserResponse, error)
	UploadContract(ctx context.Context, req dto.UploadContractRequest, id string) (dto.UserResponse, error)
	// EnsureAdmin creates the configured admin account when it does not exist yet.
	EnsureAdmin(ctx context.Context) error
}

type serviceImpl struct {
	repo   repository.User
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
	s3     s3.S3
	mailer mailer.Mailer
	gen    cache.Generation
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, mailer mailer.Mailer) User {
	return &serviceImpl{
		repo:   repo,
		cfg:    cfg,
		cache:  cache,
		otel:   otel,
		s3:     s3,
		mailer: mailer,
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.UserFilter) (res dto.GetUsersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(s.gen.Prefix(cacheGetAllUser), params, filter.Map())

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for users")

		return res, nil
	}

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	matched := make([]model.User, 0, len(users))
	for _, user := range users {
		if filter.Match(user) {
			matched = append(matched, user)
		}
	}

	res.FromModels(matched, params)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save users to cache")
	}

	return res, nil
}

func (s *serviceImpl) GetPending(ctx context.Context) ([]dto.UserResponse, error) {
	res, err := s.GetAll(ctx, gDto.QueryParams{}, dto.UserFilter{Status: model.StatusPendingApproval})
	if err != nil {
		return nil, err
	}

	return res.Users, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(s.gen.Prefix(cacheGetUser), id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, s.translate(err)
	}

	res.FromModel(user)

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save user to cache")
	}

	return res, nil
}

// Activate approves a consultant. A consultant who already signed the contract keeps that status.
func (s *serviceImpl) Activate(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Activate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.repo.Apply(ctx, id, func(current model.User) (model.Patch, error) {
		next := model.StatusActive
		if current.ContractSigned {
			next = model.StatusCompleted
		}

		return model.Patch{Status: &next}, nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to activate user")

		return res, s.translate(err)
	}

	s.invalidate(ctx)

	if user.Status == model.StatusActive {
		s.send(ctx, mailer.Activated(mailer.Recipient{Name: user.Name, Email: user.Email}, s.loginLink()))
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Deactivate(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Deactivate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	inactive := model.StatusInactive

	user, err := s.repo.Apply(ctx, id, func(current model.User) (model.Patch, error) {
		if current.Role == constant.RoleAdmin {
			return model.Patch{}, failure.Forbidden("admin accounts cannot be deactivated") //nolint:wrapcheck
		}

		return model.Patch{Status: &inactive}, nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to deactivate user")

		return res, s.translate(err)
	}

	s.invalidate(ctx)

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) UploadVideo(ctx context.Context, req dto.UploadVideoRequest, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.UploadVideo")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.File == nil && req.VideoURL == "" {
		return res, failure.BadRequestFromString(MsgVideoOrLinkRequired) //nolint:wrapcheck
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, s.translate(err)
	}

	if !current.Status.CanUploadVideo() {
		return res, failure.Conflict("introduction video was already reviewed") //nolint:wrapcheck
	}

	link := req.VideoURL

	if req.File != nil {
		link, err = s.s3.Upload(ctx, s3.DirVideos, req.File.File, req.File.Header)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to upload video")

			return res, fmt.Errorf("failed to upload video: %w", err)
		}
	}

	uploaded := true
	pending := model.StatusPendingApproval

	user, err := s.repo.Apply(ctx, id, func(current model.User) (model.Patch, error) {
		if !current.Status.CanUploadVideo() {
			return model.Patch{}, failure.Conflict("introduction video was already reviewed") //nolint:wrapcheck
		}

		return model.Patch{VideoUploaded: &uploaded, VideoURL: &link, Status: &pending}, nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to record video")

		return res, s.translate(err)
	}

	s.invalidate(ctx)

	if admin := s.mailer.AdminEmail(); admin != "" {
		s.send(ctx, mailer.VideoUploaded(admin, mailer.Recipient{Name: user.Name, Email: user.Email}, link))
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) UploadContract(ctx context.Context, req dto.UploadContractRequest, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.UploadContract")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.File == nil && req.ContractURL == "" {
		return res, failure.BadRequestFromString(MsgContractRequired) //nolint:wrapcheck
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return res, s.translate(err)
	}

	if current.Status != model.StatusActive {
		return res, failure.Conflict("contract can only be signed by an approved consultant") //nolint:wrapcheck
	}

	link := req.ContractURL

	if req.File != nil {
		link, err = s.s3.Upload(ctx, s3.DirContracts, req.File.File, req.File.Header)
		if err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to upload contract")

			return res, fmt.Errorf("failed to upload contract: %w", err)
		}
	}

	signed := true
	completed := model.StatusCompleted

	user, err := s.repo.Apply(ctx, id, func(current model.User) (model.Patch, error) {
		if current.Status != model.StatusActive {
			return model.Patch{}, failure.Conflict("contract can only be signed by an approved consultant") //nolint:wrapcheck
		}

		return model.Patch{ContractSigned: &signed, ContractURL: &link, Status: &completed}, nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to record contract")

		return res, s.translate(err)
	}

	s.invalidate(ctx)

	mails := mailer.Completed(s.mailer.AdminEmail(), mailer.Recipient{Name: user.Name, Email: user.Email})
	if s.mailer.AdminEmail() == "" {
		mails = mails[1:]
	}

	s.send(ctx, mails...)

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) EnsureAdmin(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.EnsureAdmin")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	admin := s.cfg.App.Admin
	if admin.Email == "" || admin.Password == "" {
		log.Warn().Msg("admin credentials are not configured, skipping admin bootstrap")

		return nil
	}

	_, err = s.repo.GetByEmail(ctx, admin.Email)
	if err == nil {
		return nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hashedPassword, err := password.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Name:         admin.Name,
		Email:        model.NormalizeEmail(admin.Email),
		Role:         constant.RoleAdmin,
		Status:       model.StatusCompleted,
		PasswordHash: hashedPassword,
	}
	user.Stamp(timezone.Now(), "system")

	err = s.repo.Insert(ctx, user)
	if errors.Is(err, repository.ErrEmailTaken) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Str("email", user.Email).Msg("admin account created")

	return nil
}

func (s *serviceImpl) loginLink() string {
	return strings.TrimSuffix(s.cfg.App.BaseURL, "/") + "/login"
}

func (s *serviceImpl) send(ctx context.Context, mails ...mailer.Mail) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, mail := range mails {
			if err := s.mailer.Send(c, mail); err != nil {
				log.Error().Err(err).Str("to", mail.ToEmail).Str("subject", mail.Subject).Msg("failed to send email")
			}
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context) {
	s.gen.Bump()

	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, cacheGetUser)
	shared.InvalidateCaches(c, s.cache, cacheGetAllUser)
}

func (s *serviceImpl) translate(err error) error {
	var fail *failure.Failure

	switch {
	case errors.As(err, &fail):
		return fail
	case errors.Is(err, repository.ErrNotFound):
		return failure.NotFound(MsgUserNotFound) //nolint:wrapcheck
	default:
		return err
	}
}
