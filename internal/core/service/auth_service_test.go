package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cleanus/booking-api/internal/core/domain"
	"github.com/cleanus/booking-api/internal/core/ports"
	"github.com/cleanus/booking-api/pkg/password"
	"github.com/cleanus/booking-api/pkg/token"
)

type stubUserRepo struct {
	users     map[string]*domain.User
	nextID    int64
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = r.nextID
	stored.CreatedAt = time.Now().UTC()
	r.users[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubDocStore struct {
	files   map[string][]byte
	removed []string
	saveErr error
	seq     int
}

func newStubDocStore() *stubDocStore {
	return &stubDocStore{files: make(map[string][]byte)}
}

func (d *stubDocStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	if d.saveErr != nil {
		return "", d.saveErr
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return "", domain.ErrInvalidDocument
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	d.seq++
	key := "idDocument-" + strings.Repeat("x", d.seq) + ".pdf"
	d.files[key] = data
	return key, nil
}

func (d *stubDocStore) Open(key string) (io.ReadCloser, error) {
	data, ok := d.files[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (d *stubDocStore) Remove(key string) error {
	d.removed = append(d.removed, key)
	delete(d.files, key)
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Time
}

func (r *stubRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	r.revoked[id] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r.revoked[id]
	return ok, nil
}

func newTestAuthService(repo ports.UserRepository, docs ports.DocumentStore, revoker ports.TokenRevoker) *AuthService {
	return NewAuthService(repo, docs, password.NewHasher(bcrypt.MinCost), token.NewManager("secret", time.Hour), revoker, zerolog.Nop())
}

func validRegistration(email string) ports.RegisterInput {
	return ports.RegisterInput{
		FullName: "Ana Gómez",
		Email:    email,
		Phone:    "3001234567",
		Password: "pass123",
		Address:  domain.Address{Street: "Calle 10", Number: "5-20", City: "Bogotá", ZipCode: "110111"},
		Document: &ports.DocumentUpload{Filename: "cedula.pdf", Content: strings.NewReader("%PDF-1.4 test")},
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	docs := newStubDocStore()
	svc := newTestAuthService(repo, docs, nil)

	user, err := svc.Register(context.Background(), validRegistration("ana@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if _, ok := docs.files[user.IDDocumentPath]; !ok {
		t.Fatalf("expected document stored under %q", user.IDDocumentPath)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), newStubDocStore(), nil)

	in := validRegistration("bob@example.com")
	in.FullName = ""
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected domain.ErrValidation for missing name, got %v", err)
	}

	in = validRegistration("bob@example.com")
	in.Password = "12345"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected domain.ErrValidation for short password, got %v", err)
	}

	in = validRegistration("bob@example.com")
	in.Password = strings.Repeat("a", domain.MaxPasswordBytes+1)
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected domain.ErrValidation for 73-byte password, got %v", err)
	}

	// 25 characters, 75 bytes.
	in = validRegistration("bob@example.com")
	in.Password = strings.Repeat("€", 25)
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected domain.ErrValidation for multibyte password over 72 bytes, got %v", err)
	}

	// 5 characters, 10 bytes.
	in = validRegistration("bob@example.com")
	in.Password = strings.Repeat("ñ", 5)
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected domain.ErrValidation for five-character password, got %v", err)
	}
}

func TestAuthService_Register_MissingDocument(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubDocStore(), nil)

	in := validRegistration("carl@example.com")
	in.Document = nil
	if _, err := svc.Register(context.Background(), in); err != domain.ErrMissingDocument {
		t.Fatalf("expected ErrMissingDocument, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user must be persisted without a document")
	}
}

func TestAuthService_Register_NonPDFRejectedBeforePersistence(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubDocStore(), nil)

	in := validRegistration("dina@example.com")
	in.Document = &ports.DocumentUpload{Filename: "photo.png", Content: strings.NewReader("\x89PNG")}
	if _, err := svc.Register(context.Background(), in); err != domain.ErrInvalidDocument {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user must be persisted for a non-PDF document")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	docs := newStubDocStore()
	svc := newTestAuthService(repo, docs, nil)

	if _, err := svc.Register(context.Background(), validRegistration("eve@example.com")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), validRegistration("eve@example.com")); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(docs.removed) != 1 || len(docs.files) != 1 {
		t.Fatalf("expected the second upload to be cleaned up, removed=%v files=%d", docs.removed, len(docs.files))
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.createErr = errors.New("db down")
	docs := newStubDocStore()
	svc := newTestAuthService(repo, docs, nil)

	if _, err := svc.Register(context.Background(), validRegistration("fay@example.com")); err == nil {
		t.Fatalf("expected error")
	}
	if len(docs.files) != 0 {
		t.Fatalf("expected orphaned document to be removed")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubDocStore(), nil)

	registered, err := svc.Register(context.Background(), validRegistration("gina@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	signed, user, err := svc.Login(context.Background(), "gina@example.com", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := token.Claims{}
	parsed, err := jwt.ParseWithClaims(signed, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != "1" {
		t.Fatalf("expected subject 1, got %q", claims.Subject)
	}
	lifetime := time.Unix(0, claims.ExpiresAtNano).Sub(claims.IssuedAt.Time)
	if lifetime < time.Hour || lifetime >= time.Hour+time.Second {
		t.Fatalf("expected 1h expiry, got %v", lifetime)
	}
}

func TestAuthService_Login_UnifiedFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubDocStore(), nil)

	_, _ = svc.Register(context.Background(), validRegistration("hugo@example.com"))

	_, _, wrongPassword := svc.Login(context.Background(), "hugo@example.com", "badpass")
	_, _, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "pass123")
	_, _, empty := svc.Login(context.Background(), "", "")

	for name, err := range map[string]error{"wrong password": wrongPassword, "unknown email": unknownEmail, "empty": empty} {
		if err != domain.ErrInvalidCredentials {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestAuthService_Logout(t *testing.T) {
	revoker := &stubRevoker{revoked: make(map[string]time.Time)}
	svc := newTestAuthService(newStubUserRepo(), newStubDocStore(), revoker)

	exp := time.Now().Add(30 * time.Minute)
	claims := &token.Claims{RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1", ExpiresAt: jwt.NewNumericDate(exp)}}
	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if until, ok := revoker.revoked["jti-1"]; !ok || !until.Equal(exp.Truncate(time.Second)) {
		t.Fatalf("expected jti-1 revoked until %v, got %v (%v)", exp, until, ok)
	}

	stateless := newTestAuthService(newStubUserRepo(), newStubDocStore(), nil)
	if err := stateless.Logout(context.Background(), claims); err != nil {
		t.Fatalf("stateless logout must succeed, got %v", err)
	}
}

func TestAuthService_ProfileAndDocument(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, newStubDocStore(), nil)

	user, err := svc.Register(context.Background(), validRegistration("iris@example.com"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	profile, err := svc.Profile(context.Background(), user.ID)
	if err != nil || profile.Email != "iris@example.com" {
		t.Fatalf("unexpected profile %+v (%v)", profile, err)
	}

	rc, err := svc.Document(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "%PDF-1.4 test" {
		t.Fatalf("unexpected document content %q", data)
	}

	if _, err := svc.Document(context.Background(), 999); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
