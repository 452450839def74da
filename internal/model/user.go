package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/recipebox/recipebox-go/internal/crypto"
)

// PasswordHash holds a bcrypt hash. It can be set from a plaintext password and
// checked against one, but the hash itself is never handed out: there is no getter,
// JSON encoding fails and fmt prints a placeholder. The repository moves it in and
// out of the database through the driver.Valuer and sql.Scanner methods.
type PasswordHash struct {
	hash string
}

// Set hashes password and stores the result.
func (p *PasswordHash) Set(password string, cost int) error {
	h, err := crypto.HashPassword(password, cost)
	if err != nil {
		return err
	}
	p.hash = h
	return nil
}

// Matches reports whether password hashes to the stored value.
func (p PasswordHash) Matches(password string) bool {
	if p.hash == "" {
		return false
	}
	ok, err := crypto.VerifyPassword(password, p.hash)
	return err == nil && ok
}

// IsSet reports whether a hash has been stored.
func (p PasswordHash) IsSet() bool {
	return p.hash != ""
}

func (p PasswordHash) Value() (driver.Value, error) {
	if p.hash == "" {
		return nil, errors.New("password hash is not set")
	}
	return p.hash, nil
}

func (p *PasswordHash) Scan(src any) error {
	switch v := src.(type) {
	case string:
		p.hash = v
	case []byte:
		p.hash = string(v)
	case nil:
		p.hash = ""
	default:
		return fmt.Errorf("cannot scan %T into PasswordHash", src)
	}
	return nil
}

func (PasswordHash) MarshalJSON() ([]byte, error) {
	return nil, ErrPasswordHashUnreadable
}

func (PasswordHash) String() string {
	return "[redacted]"
}

func (PasswordHash) GoString() string {
	return "model.PasswordHash{[redacted]}"
}

// User represents a user in the database.
type User struct {
	ID        int64
	Username  string
	Password  PasswordHash
	ImageURL  *string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser validates the username and builds a user whose password is already hashed.
func NewUser(username, password string, imageURL, bio *string, cost int) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	u := &User{
		Username: username,
		ImageURL: imageURL,
		Bio:      bio,
	}
	if err := u.SetPassword(password, cost); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword hashes password into the user's write-only hash.
func (u *User) SetPassword(password string, cost int) error {
	return u.Password.Set(password, cost)
}

// Authenticate reports whether password matches the user's stored hash.
func (u *User) Authenticate(password string) bool {
	return u.Password.Matches(password)
}

// Public returns the projection of the user that is safe to send to clients.
func (u *User) Public() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		ImageURL: u.ImageURL,
		Bio:      u.Bio,
	}
}

const MaxUsernameLength = 255

func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return invalid("username", "username must not be empty")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return invalid("username", fmt.Sprintf("username must be at most %d characters long", MaxUsernameLength))
	}
	return nil
}

// SignupRequest represents a user signup request.
type SignupRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}
