package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tokomart/account-system/internal/api/metrics"
	"github.com/tokomart/account-system/internal/core/domain"
)

func testContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestResolveError_DomainSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"account exists", domain.ErrAccountExists, http.StatusConflict},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized},
		{"wrong password", domain.ErrWrongPassword, http.StatusBadRequest},
		{"too many attempts", domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{"otp invalid", domain.ErrOtpInvalid, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := resolveError(tc.err, zerolog.Nop(), testContext())
			if code != tc.code {
				t.Errorf("status = %d, want %d", code, tc.code)
			}
		})
	}
}

func TestResolveError_ViolationsCountedPerField(t *testing.T) {
	violations := domain.Violations{
		{Field: "username", Message: "username is not valid"},
		{Field: "email", Message: "email is not valid"},
	}

	usernameBefore := testutil.ToFloat64(metrics.ValidationFailuresTotal.WithLabelValues("username"))
	emailBefore := testutil.ToFloat64(metrics.ValidationFailuresTotal.WithLabelValues("email"))

	code, resp := resolveError(violations, zerolog.Nop(), testContext())
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", code, http.StatusBadRequest)
	}
	if resp.Error != "username is not valid" {
		t.Errorf("error = %q, want first violation message", resp.Error)
	}
	if len(resp.Details) != 2 {
		t.Fatalf("details length = %d, want 2", len(resp.Details))
	}

	if got := testutil.ToFloat64(metrics.ValidationFailuresTotal.WithLabelValues("username")); got != usernameBefore+1 {
		t.Errorf("username failure counter = %v, want %v", got, usernameBefore+1)
	}
	if got := testutil.ToFloat64(metrics.ValidationFailuresTotal.WithLabelValues("email")); got != emailBefore+1 {
		t.Errorf("email failure counter = %v, want %v", got, emailBefore+1)
	}
}

func TestResolveError_SingleViolation(t *testing.T) {
	v := &domain.Violation{Field: "new_password", Message: "new password must not contain spaces"}

	code, resp := resolveError(v, zerolog.Nop(), testContext())
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", code, http.StatusBadRequest)
	}
	if len(resp.Details) != 1 || resp.Details[0].Field != "new_password" {
		t.Errorf("details = %+v, want the single violation", resp.Details)
	}
}
