package ports

import (
	"context"
	"io"

	"github.com/cleanus/booking-api/internal/core/domain"
	"github.com/cleanus/booking-api/pkg/token"
)

// DocumentUpload is an identity document received at registration.
type DocumentUpload struct {
	Filename string
	Content  io.Reader
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	Address  domain.Address
	Document *DocumentUpload
}

// AuthService covers identity: registration, login, logout and the
// caller's own profile and document.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Logout(ctx context.Context, claims *token.Claims) error
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	Document(ctx context.Context, userID int64) (io.ReadCloser, error)
}
