package ports

import (
	"context"

	"github.com/tokomart/account-system/internal/core/domain"
)

// UpdateProfileInput is a sparse update: a nil field means "leave unchanged",
// which is distinct from a pointer to the empty string.
type UpdateProfileInput struct {
	Fullname       *string
	Username       *string
	Email          *string
	PhoneNumber    *string
	Gender         *string
	BirthDate      *string
	ProfilePicture *string
	Language       *string
	Currency       *string
}

// AccountService defines the account lifecycle use-cases.
type AccountService interface {
	GetPublicAccount(ctx context.Context, id string) (*domain.PublicAccount, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*domain.PublicAccount, error)
	// VerifyPassword compares plaintext against the stored hash. Mismatch is
	// domain.ErrWrongPassword; repeated failures trip the attempt limiter.
	VerifyPassword(ctx context.Context, id, password string) error
	ChangePassword(ctx context.Context, id, currentPassword, newPassword, confirmPassword string) (*domain.PublicAccount, error)
	// DeleteAccount removes the account, then purges its refresh tokens and
	// OTPs best-effort. Cleanup failure never reverses the deletion.
	DeleteAccount(ctx context.Context, id string) error
}

// RegisterInput carries the data needed to create an account.
type RegisterInput struct {
	Fullname        string
	Username        string
	Email           string
	Role            string
	Password        string
	ConfirmPassword string
}

// TokenPair is the credentials issued at login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult bundles the issued tokens with the authenticated account.
type LoginResult struct {
	Tokens  TokenPair
	Account *domain.PublicAccount
}

// AuthService defines registration, session, and email-verification use-cases.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicAccount, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Refresh rotates the presented refresh token and issues a new pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout revokes every refresh token owned by the account.
	Logout(ctx context.Context, accountID string) error
	// IssueOtp stores a fresh passcode for the account and returns it for
	// delivery (mail/SMS transport is out of scope here).
	IssueOtp(ctx context.Context, accountID string) (string, error)
	// VerifyOtp checks the latest unexpired code; success marks the account's
	// email as verified and consumes the code.
	VerifyOtp(ctx context.Context, accountID, code string) (*domain.PublicAccount, error)
}
