package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/cleanus/booking-api/internal/core/domain"
	"github.com/cleanus/booking-api/internal/core/ports"
	"github.com/cleanus/booking-api/pkg/password"
	"github.com/cleanus/booking-api/pkg/token"
)

// AuthService implements registration, login and the caller's own profile.
type AuthService struct {
	repo    ports.UserRepository
	docs    ports.DocumentStore
	hasher  *password.Hasher
	tokens  *token.Manager
	revoker ports.TokenRevoker
	logger  zerolog.Logger
}

// NewAuthService wires the identity use cases. revoker may be nil, in which
// case tokens stay valid until they expire and Logout is a no-op.
func NewAuthService(
	repo ports.UserRepository,
	docs ports.DocumentStore,
	hasher *password.Hasher,
	tokens *token.Manager,
	revoker ports.TokenRevoker,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:    repo,
		docs:    docs,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		logger:  logger,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}
	if in.Document == nil || in.Document.Content == nil {
		return nil, domain.ErrMissingDocument
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	key, err := s.docs.Save(ctx, in.Document.Filename, in.Document.Content)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		PasswordHash:   hash,
		IDDocumentPath: key,
	})
	if err != nil {
		if rmErr := s.docs.Remove(key); rmErr != nil {
			s.logger.Warn().Err(rmErr).Str("document", key).Msg("failed to remove orphaned document")
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the credentials and mints an access token. Unknown emails and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, pass string) (string, *domain.User, error) {
	if email == "" || pass == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.CheckDummy(pass)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.hasher.Check(pass, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}

	signed, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	return signed, user, nil
}

// Logout denylists the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *token.Claims) error {
	if s.revoker == nil || claims == nil || claims.ID == "" {
		return nil
	}
	expiresAt := time.Now().Add(s.tokens.TTL())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// Document opens the identity document of userID. There is no way to reach
// another user's document through this call.
func (s *AuthService) Document(ctx context.Context, userID int64) (io.ReadCloser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IDDocumentPath == "" {
		return nil, domain.ErrDocumentNotFound
	}
	return s.docs.Open(user.IDDocumentPath)
}

func validateRegistration(in ports.RegisterInput) error {
	required := map[string]string{
		"fullName": in.FullName,
		"email":    in.Email,
		"phone":    in.Phone,
		"password": in.Password,
		"street":   in.Address.Street,
		"number":   in.Address.Number,
		"city":     in.Address.City,
		"zipCode":  in.Address.ZipCode,
	}
	var missing []string
	for _, field := range []string{"fullName", "email", "phone", "password", "street", "number", "city", "zipCode"} {
		if strings.TrimSpace(required[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if utf8.RuneCountInString(in.Password) < domain.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, domain.MinPasswordLength)
	}
	if len(in.Password) > domain.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, domain.MaxPasswordBytes)
	}
	return nil
}
