package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account roles. Roles are only ever promoted (user -> executer when a
// provider profile is created); the core never demotes a role.
const (
	RoleUser     = "user"
	RoleExecuter = "executer"
	RoleAdmin    = "admin"
)

// Account validation errors.
var (
	ErrEmptyAccountID      = errors.New("account ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTooLong     = errors.New("username must be at most 64 characters long")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidRole         = errors.New("invalid account role")
)

// Account represents a registered account of the marketplace.
// Username and email are globally unique. IsActive is false until the
// account is activated through the emailed activation token, and flips
// exactly once.
type Account struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAccount creates a pending-activation Account with role "user".
// The caller is responsible for hashing the password and assigning the
// result to HashedPassword before the account is stored.
func NewAccount(username, email string) (*Account, error) {
	account := &Account{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Role:      RoleUser,
		IsActive:  false,
		CreatedAt: time.Now().UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
// Returns an error if any field fails validation.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if a.Username == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > 64 {
		return ErrUsernameTooLong
	}

	if a.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(a.Email) {
		return ErrInvalidEmail
	}

	switch a.Role {
	case RoleUser, RoleExecuter, RoleAdmin:
	default:
		return ErrInvalidRole
	}

	return nil
}

// ValidatePassword checks a plaintext password against the length rules.
// The upper bound is bcrypt's 72-byte input limit.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < 8:
		return ErrPasswordTooShort
	case len(password) > 72:
		return ErrPasswordTooLong
	}
	return nil
}

// validEmailFormat performs a basic structural check: one '@' with a
// dotted domain part. Full RFC 5322 validation is left to the request
// validation layer.
func validEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
