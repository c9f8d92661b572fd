package ports

import "context"

// PasswordHasher computes and checks one-way password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// AttemptLimiter throttles repeated failed password verifications per account.
type AttemptLimiter interface {
	// Allow reports whether another verification attempt may proceed.
	Allow(ctx context.Context, accountID string) (bool, error)
	// RecordFailure counts one failed attempt against the account.
	RecordFailure(ctx context.Context, accountID string) error
	// Reset clears the failure window after a successful verification.
	Reset(ctx context.Context, accountID string) error
}
