package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tokomart/account-system/internal/core/domain"
	"github.com/tokomart/account-system/internal/core/ports"
)

const otpLength = 6

// AuthService implements registration, login, refresh-token rotation, and
// OTP-based email verification.
type AuthService struct {
	accounts      ports.AccountRepository
	refreshTokens ports.RefreshTokenRepository
	otps          ports.OtpRepository
	hasher        ports.PasswordHasher
	codes         domain.CodeChecker
	clock         clockwork.Clock
	logger        zerolog.Logger

	jwtSecret       string
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	otpTTL          time.Duration
}

func NewAuthService(
	accounts ports.AccountRepository,
	refreshTokens ports.RefreshTokenRepository,
	otps ports.OtpRepository,
	hasher ports.PasswordHasher,
	codes domain.CodeChecker,
	clock clockwork.Clock,
	logger zerolog.Logger,
	jwtSecret string,
	accessTokenTTL, refreshTokenTTL, otpTTL time.Duration,
) *AuthService {
	if accessTokenTTL <= 0 {
		accessTokenTTL = 15 * time.Minute
	}
	if refreshTokenTTL <= 0 {
		refreshTokenTTL = 30 * 24 * time.Hour
	}
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &AuthService{
		accounts:        accounts,
		refreshTokens:   refreshTokens,
		otps:            otps,
		hasher:          hasher,
		codes:           codes,
		clock:           clock,
		logger:          logger,
		jwtSecret:       jwtSecret,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		otpTTL:          otpTTL,
	}
}

// Register creates an account with schema defaults applied, a hashed password,
// and an unverified email. Duplicate username or email surfaces as
// domain.ErrAccountExists from the store's unique indexes.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicAccount, error) {
	if v := domain.ValidatePassword(in.Password, in.ConfirmPassword); v != nil {
		return nil, v
	}

	now := s.clock.Now().Unix()
	account := &domain.Account{
		ID:         uuid.NewString(),
		Role:       domain.Role(in.Role),
		Fullname:   in.Fullname,
		Username:   in.Username,
		Email:      in.Email,
		LastActive: now,
		UpdatedAt:  now,
	}
	account.UpdatedBy = account.ID

	if violations := domain.ValidateAccount(account, s.codes); len(violations) > 0 {
		return nil, violations
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account.Password = hash

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", created.ID).Str("username", created.Username).Msg("account registered")
	return created.Public(), nil
}

// Login authenticates by email and password, stamps last_active, and issues
// an access/refresh token pair. Unknown emails and bad passwords are both
// reported as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, account.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	account.LastActive = s.clock.Now().Unix()
	account.UpdatedAt = account.LastActive
	account.UpdatedBy = account.ID
	if _, err := s.accounts.Update(ctx, account.ID, account); err != nil {
		s.logger.Warn().Err(err).Str("account_id", account.ID).Msg("failed to stamp last_active on login")
	}

	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", account.ID).Msg("login succeeded")
	return &ports.LoginResult{Tokens: *pair, Account: account.Public()}, nil
}

// Refresh rotates the presented refresh token: the old record is consumed and
// a new access/refresh pair is issued. Expired or unknown tokens yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	stored, err := s.refreshTokens.FindByID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if s.clock.Now().Unix() > stored.CreatedAt+int64(s.refreshTokenTTL.Seconds()) {
		if err := s.refreshTokens.Delete(ctx, stored.ID); err != nil {
			s.logger.Warn().Err(err).Str("token_id", stored.ID).Msg("failed to drop expired refresh token")
		}
		return nil, domain.ErrTokenExpired
	}

	account, err := s.accounts.FindByID(ctx, stored.CreatedBy)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// orphaned token from a crashed cascade, consume it now
			_ = s.refreshTokens.Delete(ctx, stored.ID)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.refreshTokens.Delete(ctx, stored.ID); err != nil {
		s.logger.Warn().Err(err).Str("token_id", stored.ID).Msg("failed to consume rotated refresh token")
	}

	return s.issueTokens(ctx, account)
}

// Logout revokes every refresh token owned by the account.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	n, err := s.refreshTokens.DeleteManyByOwner(ctx, accountID)
	if err != nil {
		return err
	}
	s.logger.Info().Str("account_id", accountID).Int64("tokens_revoked", n).Msg("logout")
	return nil
}

// IssueOtp stores a fresh numeric passcode for the account and returns it.
// Delivery (mail, SMS) belongs to the calling layer.
func (s *AuthService) IssueOtp(ctx context.Context, accountID string) (string, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return "", err
	}

	code, err := generateOtpCode(otpLength)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	otp := &domain.Otp{
		ID:        uuid.NewString(),
		Code:      code,
		CreatedBy: accountID,
		CreatedAt: s.clock.Now().Unix(),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return "", err
	}

	s.logger.Info().Str("account_id", accountID).Msg("otp issued")
	return code, nil
}

// VerifyOtp compares the supplied code against the latest unexpired passcode.
// On success the consumed code is deleted and the account's email is marked
// verified.
func (s *AuthService) VerifyOtp(ctx context.Context, accountID, code string) (*domain.PublicAccount, error) {
	otp, err := s.otps.FindLastByOwner(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return nil, domain.ErrOtpInvalid
		}
		return nil, err
	}

	if s.clock.Now().Unix() > otp.CreatedAt+int64(s.otpTTL.Seconds()) {
		return nil, domain.ErrOtpInvalid
	}
	if otp.Code != code {
		return nil, domain.ErrOtpInvalid
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.EmailVerified = true
	account.UpdatedAt = s.clock.Now().Unix()
	account.UpdatedBy = accountID

	updated, err := s.accounts.Update(ctx, accountID, account)
	if err != nil {
		return nil, err
	}

	if err := s.otps.Delete(ctx, otp.ID); err != nil {
		s.logger.Warn().Err(err).Str("otp_id", otp.ID).Msg("failed to consume verified otp")
	}

	s.logger.Info().Str("account_id", accountID).Msg("email verified via otp")
	return updated.Public(), nil
}

func (s *AuthService) issueTokens(ctx context.Context, account *domain.Account) (*ports.TokenPair, error) {
	access, err := s.generateAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh := &domain.RefreshToken{
		ID:        uuid.NewString(),
		CreatedBy: account.ID,
		CreatedAt: s.clock.Now().Unix(),
	}
	if err := s.refreshTokens.Create(ctx, refresh); err != nil {
		return nil, err
	}

	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh.ID}, nil
}

func (s *AuthService) generateAccessToken(account *domain.Account) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":  account.ID,
		"role": string(account.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// generateOtpCode returns a random numeric code of the given length.
func generateOtpCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
