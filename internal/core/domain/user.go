package domain

import (
	"errors"
	"time"
)

var (
	// ErrValidation is wrapped with a field-specific message.
	ErrValidation         = errors.New("validation failed")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingDocument    = errors.New("identity document is required")
	ErrInvalidDocument    = errors.New("identity document must be a PDF file")
	ErrDocumentNotFound   = errors.New("identity document not found")
)

// Password bounds enforced on registration. The minimum counts characters;
// the maximum counts bytes, the most bcrypt will hash.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// Address is the postal address captured at registration.
type Address struct {
	Street  string `json:"street"`
	Number  string `json:"number"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

// User models a registered customer. The password hash never leaves the
// process: it is excluded from every JSON rendering.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address
	PasswordHash   string    `json:"-"`
	IDDocumentPath string    `json:"id_document_path"`
	CreatedAt      time.Time `json:"created_at"`
}
