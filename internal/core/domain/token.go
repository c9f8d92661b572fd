package domain

// RefreshToken is a long-lived credential record referencing its owning
// account via CreatedBy. Tokens never own the account; they are purged
// wholesale when the account is deleted.
type RefreshToken struct {
	ID        string `json:"id"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}

// Otp is a short-lived one-time passcode tied to an account. Verifying the
// latest unexpired code marks the account's email as verified.
type Otp struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}
