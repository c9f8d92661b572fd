package domain

// Role classifies what an account is allowed to do in the marketplace.
type Role string

const (
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// DefaultRole is applied when registration does not specify one.
const DefaultRole = RoleCustomer

// Gender is the self-reported gender of the account holder.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

const (
	DefaultGender   = GenderMale
	DefaultLanguage = "en"
	DefaultCurrency = "USD"
)

// BirthDateLayout is the fixed calendar format accounts use (DD-MM-YYYY).
const BirthDateLayout = "02-01-2006"

// Account is the persisted identity and profile record for a user. It is the
// aggregate root of this service: refresh tokens and OTPs reference it by id
// but are owned by their own collections.
type Account struct {
	ID             string `json:"id"`
	Role           Role   `json:"role"`
	Fullname       string `json:"fullname"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	EmailVerified  bool   `json:"email_verified"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Gender         Gender `json:"gender"`
	BirthDate      string `json:"birth_date,omitempty"` // DD-MM-YYYY
	ProfilePicture string `json:"profile_picture,omitempty"`
	Language       string `json:"language"`
	Currency       string `json:"currency"`
	LastActive     int64  `json:"last_active"`

	// Password holds the one-way hash, never plaintext.
	Password string `json:"-"`

	UpdatedAt int64  `json:"-"`
	UpdatedBy string `json:"-"`
}

// PublicAccount is the externally safe projection of an Account: no credential
// material, no audit fields. Every outward-facing response uses this shape.
type PublicAccount struct {
	ID             string `json:"id"`
	Role           Role   `json:"role"`
	Fullname       string `json:"fullname"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	EmailVerified  bool   `json:"email_verified"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Gender         Gender `json:"gender"`
	BirthDate      string `json:"birth_date,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Language       string `json:"language"`
	Currency       string `json:"currency"`
	LastActive     int64  `json:"last_active"`
}

// Public returns the PublicAccount projection of a.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:             a.ID,
		Role:           a.Role,
		Fullname:       a.Fullname,
		Username:       a.Username,
		Email:          a.Email,
		EmailVerified:  a.EmailVerified,
		PhoneNumber:    a.PhoneNumber,
		Gender:         a.Gender,
		BirthDate:      a.BirthDate,
		ProfilePicture: a.ProfilePicture,
		Language:       a.Language,
		Currency:       a.Currency,
		LastActive:     a.LastActive,
	}
}
