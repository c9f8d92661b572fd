package ports

import (
	"context"

	"github.com/tokomart/account-system/internal/core/domain"
)

// AccountRepository defines persistence for accounts. The store must enforce
// username and email uniqueness atomically (unique indexes), not via
// check-then-write, and surface violations as domain.ErrAccountExists.
type AccountRepository interface {
	// Create inserts the account and returns the stored record.
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	// Update replaces every mutable field and returns the committed record.
	Update(ctx context.Context, id string, a *domain.Account) (*domain.Account, error)
	// Delete removes the account and returns the record as it was committed,
	// so the caller can react to the values just removed.
	Delete(ctx context.Context, id string) (*domain.Account, error)
}

// RefreshTokenRepository persists refresh tokens keyed by owning account.
type RefreshTokenRepository interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	FindByID(ctx context.Context, id string) (*domain.RefreshToken, error)
	// FindLastByOwner returns the most recently created token for the owner.
	FindLastByOwner(ctx context.Context, ownerID string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, id string) error
	// DeleteManyByOwner removes every token owned by ownerID and returns the
	// count. Zero matches is a successful no-op, never an error.
	DeleteManyByOwner(ctx context.Context, ownerID string) (int64, error)
}

// OtpRepository persists one-time passcodes keyed by owning account.
type OtpRepository interface {
	Create(ctx context.Context, o *domain.Otp) error
	FindByID(ctx context.Context, id string) (*domain.Otp, error)
	FindLastByOwner(ctx context.Context, ownerID string) (*domain.Otp, error)
	Delete(ctx context.Context, id string) error
	DeleteManyByOwner(ctx context.Context, ownerID string) (int64, error)
}
