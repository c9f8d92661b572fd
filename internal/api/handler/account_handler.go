package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tokomart/account-system/internal/api/metrics"
	"github.com/tokomart/account-system/internal/core/ports"
)

// AccountHandler exposes the account lifecycle endpoints. The acting account
// is always taken from the JWT claims, never from the payload.
type AccountHandler struct {
	accountService ports.AccountService
	authService    ports.AuthService
}

func NewAccountHandler(accountService ports.AccountService, authService ports.AuthService) *AccountHandler {
	return &AccountHandler{accountService: accountService, authService: authService}
}

// Me handles GET /v1/account/me.
//
// @Summary      Get the authenticated account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  domain.PublicAccount
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/account/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	account, err := h.accountService.GetPublicAccount(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// UpdateProfile handles PATCH /v1/account/profile. Absent fields are left
// unchanged; supplied fields are merged and the whole record re-validated.
//
// @Summary      Update profile fields
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Sparse profile fields"
// @Success      200   {object}  domain.PublicAccount
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/account/profile [patch]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.accountService.UpdateProfile(c.Request().Context(), accountID, ports.UpdateProfileInput{
		Fullname:       req.Fullname,
		Username:       req.Username,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		BirthDate:      req.BirthDate,
		ProfilePicture: req.ProfilePicture,
		Language:       req.Language,
		Currency:       req.Currency,
	})
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.ProfileUpdatesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, account)
}

// ChangePassword handles PUT /v1/account/password.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  domain.PublicAccount
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/account/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accountService.ChangePassword(
		c.Request().Context(),
		accountID,
		req.CurrentPassword,
		req.NewPassword,
		req.ConfirmPassword,
	)
	if err != nil {
		metrics.PasswordChangesTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.PasswordChangesTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /v1/account. Deletion is terminal: the account and
// all of its refresh tokens and OTPs are removed.
//
// @Summary      Delete the authenticated account
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/account [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), accountID); err != nil {
		return err
	}

	metrics.AccountDeletionsTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

// IssueOtp handles POST /v1/account/otp — issues a passcode for email
// verification. The code is returned directly; delivery transports are a
// separate concern.
//
// @Summary      Issue an email-verification OTP
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      201   {object}  otpResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/account/otp [post]
func (h *AccountHandler) IssueOtp(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	code, err := h.authService.IssueOtp(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, otpResponse{Code: code})
}

// VerifyOtp handles POST /v1/account/otp/verify — marks the email verified
// when the latest unexpired code matches.
//
// @Summary      Verify an email-verification OTP
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      verifyOtpRequest  true  "OTP code"
// @Success      200   {object}  domain.PublicAccount
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/account/otp/verify [post]
func (h *AccountHandler) VerifyOtp(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	var req verifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.VerifyOtp(c.Request().Context(), accountID, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
