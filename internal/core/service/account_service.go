package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tokomart/account-system/internal/api/metrics"
	"github.com/tokomart/account-system/internal/core/domain"
	"github.com/tokomart/account-system/internal/core/ports"
)

// AccountService orchestrates the account lifecycle: profile updates with
// sparse-merge semantics, password changes, and cascading deletion.
//
// Concurrent updates to the same account follow last-write-wins: there is no
// version check, only the store's unique indexes are authoritative.
type AccountService struct {
	accounts      ports.AccountRepository
	refreshTokens ports.RefreshTokenRepository
	otps          ports.OtpRepository
	hasher        ports.PasswordHasher
	codes         domain.CodeChecker
	limiter       ports.AttemptLimiter
	clock         clockwork.Clock
	logger        zerolog.Logger
}

func NewAccountService(
	accounts ports.AccountRepository,
	refreshTokens ports.RefreshTokenRepository,
	otps ports.OtpRepository,
	hasher ports.PasswordHasher,
	codes domain.CodeChecker,
	limiter ports.AttemptLimiter,
	clock clockwork.Clock,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts:      accounts,
		refreshTokens: refreshTokens,
		otps:          otps,
		hasher:        hasher,
		codes:         codes,
		limiter:       limiter,
		clock:         clock,
		logger:        logger,
	}
}

// GetPublicAccount returns the external projection of the account.
func (s *AccountService) GetPublicAccount(ctx context.Context, id string) (*domain.PublicAccount, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return account.Public(), nil
}

// UpdateProfile merges the supplied fields into the current record, re-runs
// the full validation pass over the merged result, stamps the audit fields,
// and persists. Fields absent from the input are left byte-identical.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, in ports.UpdateProfileInput) (*domain.PublicAccount, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Fullname != nil {
		account.Fullname = *in.Fullname
	}
	if in.Username != nil {
		account.Username = *in.Username
	}
	if in.Email != nil {
		account.Email = *in.Email
		// a changed email is unverified until the owner proves it again
		account.EmailVerified = false
	}
	if in.PhoneNumber != nil {
		account.PhoneNumber = *in.PhoneNumber
	}
	if in.Gender != nil {
		account.Gender = domain.Gender(*in.Gender)
	}
	if in.BirthDate != nil {
		account.BirthDate = *in.BirthDate
	}
	if in.ProfilePicture != nil {
		account.ProfilePicture = *in.ProfilePicture
	}
	if in.Language != nil {
		account.Language = *in.Language
	}
	if in.Currency != nil {
		account.Currency = *in.Currency
	}

	if violations := domain.ValidateAccount(account, s.codes); len(violations) > 0 {
		s.logger.Debug().Str("account_id", id).Interface("violations", violations).Msg("profile update rejected")
		return nil, violations
	}

	account.UpdatedAt = s.clock.Now().Unix()
	account.UpdatedBy = id

	updated, err := s.accounts.Update(ctx, id, account)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			// the record vanished between fetch and write
			return nil, fmt.Errorf("update profile: account %s missing at write time", id)
		}
		return nil, err
	}

	s.logger.Info().Str("account_id", id).Msg("profile updated")
	return updated.Public(), nil
}

// VerifyPassword compares plaintext against the stored hash, throttled by the
// attempt limiter. A mismatch is domain.ErrWrongPassword, never a crash.
func (s *AccountService) VerifyPassword(ctx context.Context, id, password string) error {
	allowed, err := s.limiter.Allow(ctx, id)
	if err != nil {
		// limiter outage must not lock everyone out
		s.logger.Warn().Err(err).Str("account_id", id).Msg("attempt limiter unavailable, allowing check")
	} else if !allowed {
		return domain.ErrTooManyAttempts
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(password, account.Password) {
		if err := s.limiter.RecordFailure(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("account_id", id).Msg("failed to record password failure")
		}
		return domain.ErrWrongPassword
	}

	if err := s.limiter.Reset(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("account_id", id).Msg("failed to reset attempt window")
	}
	return nil
}

// ChangePassword verifies the current password, applies the password policy to
// the new one, and persists a fresh hash. No other field is re-validated since
// only the credential changes.
func (s *AccountService) ChangePassword(ctx context.Context, id, currentPassword, newPassword, confirmPassword string) (*domain.PublicAccount, error) {
	if err := s.VerifyPassword(ctx, id, currentPassword); err != nil {
		return nil, err
	}

	if v := domain.ValidatePassword(newPassword, confirmPassword); v != nil {
		return nil, v
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account.Password = hash
	account.UpdatedAt = s.clock.Now().Unix()
	account.UpdatedBy = id

	updated, err := s.accounts.Update(ctx, id, account)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("account_id", id).Msg("password changed")
	return updated.Public(), nil
}

// DeleteAccount removes the account, then purges dependent records from both
// collections. The two phases are not transactional: once the primary delete
// commits, cleanup failures are logged and the deletion stands. Purging is
// idempotent, so a retry against an already-clean owner id is a zero-count
// no-op.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if _, err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	tokens, err := s.refreshTokens.DeleteManyByOwner(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("failed to purge refresh tokens after account deletion")
	}
	metrics.DependentRecordsPurgedTotal.WithLabelValues("refresh_tokens").Add(float64(tokens))
	otps, err := s.otps.DeleteManyByOwner(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", id).Msg("failed to purge otps after account deletion")
	}
	metrics.DependentRecordsPurgedTotal.WithLabelValues("otps").Add(float64(otps))

	s.logger.Info().
		Str("account_id", id).
		Int64("refresh_tokens_purged", tokens).
		Int64("otps_purged", otps).
		Msg("account deleted")
	return nil
}
