package handler

import "github.com/tokomart/account-system/internal/core/domain"

type registerRequest struct {
	Fullname        string `json:"fullname"         validate:"required"`
	Username        string `json:"username"         validate:"required"`
	Email           string `json:"email"            validate:"required"`
	Role            string `json:"role"             validate:"omitempty,oneof=seller customer"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	Account      *domain.PublicAccount `json:"account"`
}

// updateProfileRequest is a sparse update: absent fields stay unchanged, which
// is why every field is a pointer. Field-level rules live in the domain
// validators, not in struct tags.
type updateProfileRequest struct {
	Fullname       *string `json:"fullname"`
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	PhoneNumber    *string `json:"phone_number"`
	Gender         *string `json:"gender"`
	BirthDate      *string `json:"birth_date"`
	ProfilePicture *string `json:"profile_picture"`
	Language       *string `json:"language"`
	Currency       *string `json:"currency"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type verifyOtpRequest struct {
	Code string `json:"code" validate:"required"`
}

type otpResponse struct {
	Code string `json:"code"`
}

type messageResponse struct {
	Message string `json:"message"`
}
