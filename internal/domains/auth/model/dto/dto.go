package dto

import (
	"time"

	"umrahcrm/infras/jwt"
	userModel "umrahcrm/internal/domains/user/model"
	userDto "umrahcrm/internal/domains/user/model/dto"
	"umrahcrm/shared/constant"

	"github.com/google/uuid"
)

// RegisterRequest is the application form filled in before any credentials exist.
type RegisterRequest struct {
	Name              string `json:"name"                validate:"required,max=255"`
	Email             string `json:"email"               validate:"required,email"`
	Phone             string `json:"phone"               validate:"required,max=32"`
	City              string `json:"city"                validate:"required,max=128"`
	Country           string `json:"country"             validate:"required,max=128"`
	HasPerformedUmrah bool   `json:"has_performed_umrah"`
	IsTechDriven      bool   `json:"is_tech_driven"`
	Qualification     string `json:"qualification"       validate:"omitempty,max=255"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword string, now time.Time) userModel.User {
	user := userModel.User{
		ID:                uuid.NewString(),
		Name:              r.Name,
		Email:             userModel.NormalizeEmail(r.Email),
		Phone:             r.Phone,
		City:              r.City,
		Country:           r.Country,
		HasPerformedUmrah: r.HasPerformedUmrah,
		IsTechDriven:      r.IsTechDriven,
		Qualification:     r.Qualification,
		Role:              constant.RoleConsultant,
		Status:            userModel.StatusStep1Complete,
		PasswordHash:      hashedPassword,
	}

	user.Stamp(now, constant.ContextGuest)

	return user
}

// RegisterResponse carries the generated password once. It is also sent by email.
type RegisterResponse struct {
	User     userDto.UserResponse `json:"user"`
	Password string               `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
	NextStep     string               `json:"next_step"`
	User         userDto.UserResponse `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.AccessToken = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}
