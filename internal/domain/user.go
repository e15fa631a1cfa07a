package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password length bounds. bcrypt ignores everything past 72 bytes,
// so longer passwords are rejected instead of silently truncated.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
	MaxEmailLength    = 255
)

// User validation errors
var (
	ErrEmptyUserID         = NewValidationError("user ID", "cannot be empty", ErrValidation)
	ErrEmptyEmail          = NewValidationError("email", "cannot be empty", ErrValidation)
	ErrInvalidEmail        = NewValidationError("email", "has invalid format", ErrValidation)
	ErrEmailTooLong        = NewValidationError("email", "must be at most 255 characters long", ErrValidation)
	ErrEmptyPassword       = NewValidationError("password", "cannot be empty", ErrValidation)
	ErrPasswordTooShort    = NewValidationError("password", "must be at least 6 characters long", ErrValidation)
	ErrPasswordTooLong     = NewValidationError("password", "must be at most 72 bytes long", ErrValidation)
	ErrEmptyHashedPassword = NewValidationError("hashed password", "cannot be empty", ErrValidation)
)

// User represents a registered account.
// HashedPassword never leaves the auth service; use Public for anything
// that is returned to a caller.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set between NewUser and SetHashedPassword
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and plaintext password.
// The email is normalized (trimmed, lower-cased) so uniqueness is
// case-insensitive. The caller must hash the password with SetHashedPassword
// before the user is stored.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// SetHashedPassword stores the digest and drops the plaintext password.
func (u *User) SetHashedPassword(hash string) {
	u.HashedPassword = hash
	u.Password = ""
}

// Public returns the user's public fields.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Validate checks if the User has valid data.
// A user carries either a plaintext password (before hashing) or a hash.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks presence, length and basic shape of an address.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !validateEmailFormat(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks the plaintext password length bounds.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// validateEmailFormat requires a non-empty local part, a single '@', and a
// domain with a dot that is neither first nor last. Full RFC 5322 checking
// happens at the API boundary via the validator "email" tag.
func validateEmailFormat(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	at := strings.Index(email, "@")
	if at == 0 || at == len(email)-1 {
		return false
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}

	domainPart := email[at+1:]
	if len(domainPart) < 3 {
		return false
	}

	dot := strings.Index(domainPart, ".")
	return dot > 0 && !strings.HasSuffix(domainPart, ".")
}
