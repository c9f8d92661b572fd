package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/tokomart/account-system/internal/core/domain"
	"github.com/tokomart/account-system/internal/core/ports"
)

type authFixture struct {
	accounts *stubAccountRepo
	tokens   *stubRefreshTokenRepo
	otps     *stubOtpRepo
	clock    *clockwork.FakeClock
	svc      *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		accounts: newStubAccountRepo(),
		tokens:   newStubRefreshTokenRepo(),
		otps:     newStubOtpRepo(),
		clock:    clockwork.NewFakeClockAt(testEpoch),
	}
	f.svc = NewAuthService(
		f.accounts, f.tokens, f.otps,
		stubHasher{}, stubCodes{}, f.clock, discardLogger,
		"test-secret",
		15*time.Minute, 24*time.Hour, 5*time.Minute,
	)
	return f
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Fullname:        "Alice Example",
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "secret12",
		ConfirmPassword: "secret12",
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestRegister_AppliesSchemaDefaults(t *testing.T) {
	f := newAuthFixture()

	out, err := f.svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Role != domain.RoleCustomer {
		t.Errorf("expected default role customer, got %q", out.Role)
	}
	if out.Gender != domain.GenderMale {
		t.Errorf("expected default gender male, got %q", out.Gender)
	}
	if out.Language != "en" || out.Currency != "USD" {
		t.Errorf("expected default locale en/USD, got %s/%s", out.Language, out.Currency)
	}
	if out.EmailVerified {
		t.Error("new accounts must start unverified")
	}
	if out.ID == "" {
		t.Error("missing generated id")
	}
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	f := newAuthFixture()

	out, err := f.svc.Register(context.Background(), registerInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.accounts.byID[out.ID]
	if stored.Password != "hashed:secret12" {
		t.Errorf("expected stored hash, got %q", stored.Password)
	}
}

func TestRegister_DuplicateUsernameConflicts(t *testing.T) {
	f := newAuthFixture()

	if _, err := f.svc.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}

	in := registerInput()
	in.Email = "other@example.com" // same username, different email
	_, err := f.svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	f := newAuthFixture()

	in := registerInput()
	in.Password = "ab12"
	in.ConfirmPassword = "ab12"

	_, err := f.svc.Register(context.Background(), in)
	var v *domain.Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected Violation, got %v", err)
	}
	if len(f.accounts.byID) != 0 {
		t.Error("account persisted despite rejection")
	}
}

func TestRegister_RejectsInvalidEmail(t *testing.T) {
	f := newAuthFixture()

	in := registerInput()
	in.Email = "noatsign.com"

	_, err := f.svc.Register(context.Background(), in)
	var violations domain.Violations
	if !errors.As(err, &violations) {
		t.Fatalf("expected Violations, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login / Refresh / Logout
// ---------------------------------------------------------------------------

func TestLogin_IssuesTokenPair(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())

	result, err := f.svc.Login(context.Background(), "alice@example.com", "secret12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if result.Account.ID != created.ID {
		t.Errorf("unexpected account: %s", result.Account.ID)
	}

	// refresh token is persisted for the owner
	if _, err := f.tokens.FindLastByOwner(context.Background(), created.ID); err != nil {
		t.Errorf("refresh token not stored: %v", err)
	}

	// access token carries the subject and role
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(result.Tokens.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(f.clock.Now))
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims["sub"] != created.ID {
		t.Errorf("expected sub %s, got %v", created.ID, claims["sub"])
	}
	if claims["role"] != string(domain.RoleCustomer) {
		t.Errorf("expected role customer, got %v", claims["role"])
	}
}

func TestLogin_StampsLastActive(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())

	f.clock.Advance(time.Hour)
	if _, err := f.svc.Login(context.Background(), "alice@example.com", "secret12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.accounts.byID[created.ID]
	if stored.LastActive != testEpoch.Add(time.Hour).Unix() {
		t.Errorf("last_active not stamped: %d", stored.LastActive)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), registerInput())

	if _, err := f.svc.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("bad password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "ghost@example.com", "secret12"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), registerInput())
	result, _ := f.svc.Login(context.Background(), "alice@example.com", "secret12")

	pair, err := f.svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pair.RefreshToken == result.Tokens.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// the consumed token cannot be replayed
	if _, err := f.svc.Refresh(context.Background(), result.Tokens.RefreshToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials on replay, got %v", err)
	}
}

func TestRefresh_ExpiredToken(t *testing.T) {
	f := newAuthFixture()
	_, _ = f.svc.Register(context.Background(), registerInput())
	result, _ := f.svc.Login(context.Background(), "alice@example.com", "secret12")

	f.clock.Advance(25 * time.Hour)

	_, err := f.svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestLogout_RevokesAllTokens(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())
	_, _ = f.svc.Login(context.Background(), "alice@example.com", "secret12")
	_, _ = f.svc.Login(context.Background(), "alice@example.com", "secret12")

	if err := f.svc.Logout(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.tokens.FindLastByOwner(context.Background(), created.ID); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Error("tokens survived logout")
	}
}

// ---------------------------------------------------------------------------
// OTP
// ---------------------------------------------------------------------------

func TestIssueOtp_StoresCode(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())

	code, err := f.svc.IssueOtp(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != otpLength {
		t.Errorf("expected %d-digit code, got %q", otpLength, code)
	}

	stored, err := f.otps.FindLastByOwner(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("otp not stored: %v", err)
	}
	if stored.Code != code {
		t.Errorf("stored code %q differs from returned %q", stored.Code, code)
	}
}

func TestVerifyOtp_MarksEmailVerified(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())
	code, _ := f.svc.IssueOtp(context.Background(), created.ID)

	out, err := f.svc.VerifyOtp(context.Background(), created.ID, code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.EmailVerified {
		t.Error("expected email_verified=true")
	}

	// the code is consumed
	if _, err := f.svc.VerifyOtp(context.Background(), created.ID, code); !errors.Is(err, domain.ErrOtpInvalid) {
		t.Errorf("expected ErrOtpInvalid on reuse, got %v", err)
	}
}

func TestVerifyOtp_WrongCode(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())
	code, _ := f.svc.IssueOtp(context.Background(), created.ID)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if _, err := f.svc.VerifyOtp(context.Background(), created.ID, wrong); !errors.Is(err, domain.ErrOtpInvalid) {
		t.Fatalf("expected ErrOtpInvalid, got %v", err)
	}
	if f.accounts.byID[created.ID].EmailVerified {
		t.Error("email verified despite wrong code")
	}
}

func TestVerifyOtp_ExpiredCode(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())
	code, _ := f.svc.IssueOtp(context.Background(), created.ID)

	f.clock.Advance(6 * time.Minute)

	if _, err := f.svc.VerifyOtp(context.Background(), created.ID, code); !errors.Is(err, domain.ErrOtpInvalid) {
		t.Fatalf("expected ErrOtpInvalid, got %v", err)
	}
}

func TestVerifyOtp_NoCodeIssued(t *testing.T) {
	f := newAuthFixture()
	created, _ := f.svc.Register(context.Background(), registerInput())

	if _, err := f.svc.VerifyOtp(context.Background(), created.ID, "123456"); !errors.Is(err, domain.ErrOtpInvalid) {
		t.Fatalf("expected ErrOtpInvalid, got %v", err)
	}
}
