package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"umrahcrm/config"
	"umrahcrm/infras/jwt"
	"umrahcrm/infras/mailer"
	"umrahcrm/infras/otel"
	"umrahcrm/internal/domains/auth/model/dto"
	userModel "umrahcrm/internal/domains/user/model"
	userRepo "umrahcrm/internal/domains/user/repository"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/failure"
	"umrahcrm/shared/password"
	"umrahcrm/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	MsgInvalidCredentials = "invalid email or password"
	MsgAccountInactive    = "account is deactivated"
	MsgEmailTaken         = "email already registered"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
	mailer     mailer.Mailer
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT, mailer mailer.Mailer) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
		mailer:     mailer,
	}
}

// Register stores the application form with a generated password and mails the credentials.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.RegisterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	plain, err := password.Generate()
	if err != nil {
		return res, fmt.Errorf("failed to generate password: %w", err)
	}

	hashedPassword, err := password.Hash(plain)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(hashedPassword, timezone.Now())

	if err = s.userRepo.Insert(ctx, user); err != nil {
		if errors.Is(err, userRepo.ErrEmailTaken) {
			return res, failure.Conflict(MsgEmailTaken) //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	s.send(ctx, mailer.Welcome(mailer.Recipient{Name: user.Name, Email: user.Email}, plain, s.loginLink()))

	res.User.FromModel(user)
	res.Password = plain

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, userRepo.ErrNotFound) {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString(MsgInvalidCredentials) //nolint:wrapcheck
	}

	if err != nil {
		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if err = password.Verify(req.Password, user.PasswordHash); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString(MsgInvalidCredentials) //nolint:wrapcheck
	}

	if user.Status == userModel.StatusInactive {
		return res, failure.Forbidden(MsgAccountInactive) //nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()

	updated, err := s.userRepo.Update(context.WithValue(ctx, constant.ContextKeyUserID, user.ID), user.ID, userModel.Patch{LastLogin: &now})
	if err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")

		updated = user
	}

	res.FromTokenPair(tokenPair)
	res.User.FromModel(updated)
	res.NextStep = updated.Status.NextStep()

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.userRepo.Apply(ctx, userID, func(user userModel.User) (userModel.Patch, error) {
		if err := password.Verify(req.CurrentPassword, user.PasswordHash); err != nil {
			return userModel.Patch{}, failure.BadRequestFromString("current password is incorrect") //nolint:wrapcheck
		}

		return userModel.Patch{PasswordHash: &hashedPassword}, nil
	})

	var fail *failure.Failure

	switch {
	case err == nil:
		return nil
	case errors.As(err, &fail):
		return fail
	case errors.Is(err, userRepo.ErrNotFound):
		return failure.NotFound("user not found") //nolint:wrapcheck
	default:
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}
}

func (s *serviceImpl) loginLink() string {
	return strings.TrimSuffix(s.cfg.App.BaseURL, "/") + "/login"
}

// send delivers mails in the background. Failures are logged and never retried.
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
