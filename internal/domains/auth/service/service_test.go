package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"umrahcrm/config"
	"umrahcrm/infras/jwt"
	jwtMocks "umrahcrm/infras/jwt/mocks"
	"umrahcrm/infras/mailer"
	mailerMocks "umrahcrm/infras/mailer/mocks"
	"umrahcrm/infras/otel/mocks"
	"umrahcrm/internal/domains/auth/model/dto"
	"umrahcrm/internal/domains/auth/service"
	userMocks "umrahcrm/internal/domains/user/mocks"
	userModel "umrahcrm/internal/domains/user/model"
	userRepo "umrahcrm/internal/domains/user/repository"
	"umrahcrm/shared/constant"
	"umrahcrm/shared/failure"
	"umrahcrm/shared/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	users  *userMocks.MockUser
	jwt    *jwtMocks.MockJWT
	mailer *mailerMocks.MockMailer
	svc    service.Auth
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		users:  userMocks.NewMockUser(ctrl),
		jwt:    jwtMocks.NewMockJWT(ctrl),
		mailer: mailerMocks.NewMockMailer(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.BaseURL = "https://crm.example.com"

	f.svc = service.New(f.users, cfg, mocks.NewOtel(), f.jwt, f.mailer)

	return f
}

func storedUser(t *testing.T, plain string, status userModel.Status) userModel.User {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return userModel.User{
		ID:           "u-1",
		Name:         "Sarah Malik",
		Email:        "sarah@example.com",
		Role:         constant.RoleConsultant,
		Status:       status,
		PasswordHash: hash,
	}
}

func tokens() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Name:    "Sarah Malik",
		Email:   "Sarah@Example.com",
		Phone:   "+44 7700 900123",
		City:    "Birmingham",
		Country: "United Kingdom",
	}

	t.Run("credentials are generated and mailed", func(t *testing.T) {
		f := newFixture(t)

		var stored userModel.User

		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
			stored = user

			return nil
		})
		sent := make(chan mailer.Mail, 1)

		f.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, mail mailer.Mail) error {
			sent <- mail

			return nil
		})

		res, err := f.svc.Register(context.Background(), req)

		require.NoError(t, err)
		assert.Len(t, res.Password, password.GeneratedLength)
		assert.Equal(t, "sarah@example.com", res.User.Email)
		assert.Equal(t, userModel.StatusStep1Complete, res.User.Status)
		assert.NoError(t, password.Verify(res.Password, stored.PasswordHash))

		select {
		case mail := <-sent:
			assert.Equal(t, "sarah@example.com", mail.ToEmail)
		case <-time.After(time.Second):
			t.Fatal("welcome mail was not sent")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(userRepo.ErrEmailTaken)

		_, err := f.svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.EqualError(t, err, service.MsgEmailTaken)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err := f.svc.Register(context.Background(), req)

		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(t *testing.T, f *fixture)
		wantCode  int
		wantNext  string
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "sarah@example.com", Password: "Ab3dEf7h"},
			setupMock: func(t *testing.T, f *fixture) {
				user := storedUser(t, "Ab3dEf7h", userModel.StatusStep1Complete)

				f.users.EXPECT().GetByEmail(gomock.Any(), "sarah@example.com").Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(user.ID, user.Email, user.Role).Return(tokens(), nil)
				f.users.EXPECT().Update(gomock.Any(), user.ID, gomock.Any()).DoAndReturn(
					func(ctx context.Context, _ string, patch userModel.Patch) (userModel.User, error) {
						assert.Equal(t, user.ID, ctx.Value(constant.ContextKeyUserID))
						assert.NotNil(t, patch.LastLogin)

						user.LastLogin = patch.LastLogin

						return user, nil
					})
			},
			wantNext: userModel.RouteVideo,
		},
		{
			name: "last login failure does not block sign in",
			req:  dto.LoginRequest{Email: "sarah@example.com", Password: "Ab3dEf7h"},
			setupMock: func(t *testing.T, f *fixture) {
				user := storedUser(t, "Ab3dEf7h", userModel.StatusCompleted)

				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(tokens(), nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("locked"))
			},
			wantNext: userModel.RouteDashboard,
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"},
			setupMock: func(_ *testing.T, f *fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(userModel.User{}, userRepo.ErrNotFound)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "sarah@example.com", Password: "nope-nope"},
			setupMock: func(t *testing.T, f *fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(storedUser(t, "Ab3dEf7h", userModel.StatusActive), nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "sarah@example.com", Password: "Ab3dEf7h"},
			setupMock: func(t *testing.T, f *fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(storedUser(t, "Ab3dEf7h", userModel.StatusInactive), nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation failure",
			req:  dto.LoginRequest{Email: "sarah@example.com", Password: "Ab3dEf7h"},
			setupMock: func(t *testing.T, f *fixture) {
				f.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(storedUser(t, "Ab3dEf7h", userModel.StatusActive), nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, jwt.ErrInvalidClaim)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(t, f)

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "refresh", res.RefreshToken)
			assert.Equal(t, tt.wantNext, res.NextStep)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().RefreshTokens("refresh").Return(tokens(), nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, int64(900), res.ExpiresIn)
	})

	t.Run("expired", func(t *testing.T) {
		f := newFixture(t)

		f.jwt.EXPECT().RefreshTokens(gomock.Any()).Return(nil, jwt.ErrExpiredToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "old"})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	apply := func(user userModel.User) func(context.Context, string, func(userModel.User) (userModel.Patch, error)) (userModel.User, error) {
		return func(_ context.Context, _ string, fn func(userModel.User) (userModel.Patch, error)) (userModel.User, error) {
			patch, err := fn(user)
			if err != nil {
				return userModel.User{}, err
			}

			user.PasswordHash = *patch.PasswordHash

			return user, nil
		}
	}

	t.Run("changed", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Apply(gomock.Any(), "u-1", gomock.Any()).DoAndReturn(apply(storedUser(t, "Ab3dEf7h", userModel.StatusActive)))

		err := f.svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "Ab3dEf7h", NewPassword: "new-secret-1"}, "u-1")

		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Apply(gomock.Any(), "u-1", gomock.Any()).DoAndReturn(apply(storedUser(t, "Ab3dEf7h", userModel.StatusActive)))

		err := f.svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "guess", NewPassword: "new-secret-1"}, "u-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture(t)

		f.users.EXPECT().Apply(gomock.Any(), "gone", gomock.Any()).Return(userModel.User{}, userRepo.ErrNotFound)

		err := f.svc.ChangePassword(context.Background(), dto.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "new-secret-1"}, "gone")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
