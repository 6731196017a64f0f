package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"designmatch/internal/pkg/jwt"
	"designmatch/internal/repository"
)

type mockClientRepo struct {
	byEmail map[string]repository.Client
}

func (m *mockClientRepo) UpsertByEmail(_ context.Context, email string) (repository.Client, error) {
	if m.byEmail == nil {
		m.byEmail = map[string]repository.Client{}
	}
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	c := repository.Client{ID: uuid.New(), Email: email, Credits: 3, CreatedAt: time.Now()}
	m.byEmail[email] = c
	return c, nil
}

func (m *mockClientRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Client, error) {
	for _, c := range m.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.Client{}, repository.ErrClientNotFound
}

func (m *mockClientRepo) GetByEmail(_ context.Context, email string) (repository.Client, error) {
	if c, ok := m.byEmail[email]; ok {
		return c, nil
	}
	return repository.Client{}, repository.ErrClientNotFound
}

type mockLoginCodeRepo struct {
	codes map[string]repository.LoginCode
}

func (m *mockLoginCodeRepo) Create(_ context.Context, email, codeHash string, expiresAt time.Time) (repository.LoginCode, error) {
	if m.codes == nil {
		m.codes = map[string]repository.LoginCode{}
	}
	lc := repository.LoginCode{ID: uuid.New(), Email: email, CodeHash: codeHash, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	m.codes[email] = lc
	return lc, nil
}

func (m *mockLoginCodeRepo) FindActiveByEmail(_ context.Context, email string, now time.Time) (repository.LoginCode, error) {
	lc, ok := m.codes[email]
	if !ok || now.After(lc.ExpiresAt) {
		return repository.LoginCode{}, repository.ErrLoginCodeNotFound
	}
	return lc, nil
}

func (m *mockLoginCodeRepo) Consume(_ context.Context, id uuid.UUID) error {
	for email, lc := range m.codes {
		if lc.ID == id {
			delete(m.codes, email)
			return nil
		}
	}
	return repository.ErrLoginCodeNotFound
}

type capturingSender struct {
	email string
	code  string
}

func (s *capturingSender) SendLoginCode(_ context.Context, email, code string) error {
	s.email = email
	s.code = code
	return nil
}

func newTestAuth() (*Auth, *mockClientRepo, *mockLoginCodeRepo, *capturingSender) {
	clients := &mockClientRepo{}
	codes := &mockLoginCodeRepo{}
	sender := &capturingSender{}
	jwtSvc := jwt.NewHMACService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	uc := NewAuthUsecase(clients, codes, sender, jwtSvc, 10*time.Minute, nil)
	return uc, clients, codes, sender
}

func TestAuth_RequestAndVerifyCode(t *testing.T) {
	uc, _, _, sender := newTestAuth()
	ctx := context.Background()

	if err := uc.RequestCode(ctx, "Client@Example.com"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sender.email != "client@example.com" {
		t.Fatalf("expected normalized address, got %q", sender.email)
	}
	if len(sender.code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", sender.code)
	}

	client, access, refresh, err := uc.VerifyCode(ctx, "client@example.com", sender.code)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if client.Email != "client@example.com" {
		t.Fatalf("unexpected client: %+v", client)
	}
	if access == "" || refresh == "" {
		t.Fatalf("expected token pair")
	}

	// Codes are single use.
	if _, _, _, err := uc.VerifyCode(ctx, "client@example.com", sender.code); !errors.Is(err, ErrInvalidLoginCode) {
		t.Fatalf("expected consumed code to be rejected, got %v", err)
	}
}

func TestAuth_VerifyWrongCode(t *testing.T) {
	uc, _, _, sender := newTestAuth()
	ctx := context.Background()

	if err := uc.RequestCode(ctx, "client@example.com"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}
	if _, _, _, err := uc.VerifyCode(ctx, "client@example.com", wrong); !errors.Is(err, ErrInvalidLoginCode) {
		t.Fatalf("expected ErrInvalidLoginCode, got %v", err)
	}
}

func TestAuth_NewCodeInvalidatesOld(t *testing.T) {
	uc, _, _, sender := newTestAuth()
	ctx := context.Background()

	if err := uc.RequestCode(ctx, "client@example.com"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	old := sender.code
	if err := uc.RequestCode(ctx, "client@example.com"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if old == sender.code {
		t.Skip("codes collided; cannot distinguish")
	}

	if _, _, _, err := uc.VerifyCode(ctx, "client@example.com", old); !errors.Is(err, ErrInvalidLoginCode) {
		t.Fatalf("expected stale code rejection, got %v", err)
	}
}

func TestAuth_InvalidEmailRejected(t *testing.T) {
	uc, _, _, _ := newTestAuth()
	for _, bad := range []string{"", "not-an-email", "a b@example.com"} {
		if err := uc.RequestCode(context.Background(), bad); !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("address %q: expected ErrInvalidEmail, got %v", bad, err)
		}
	}
}

func TestAuth_RefreshRotatesTokens(t *testing.T) {
	uc, _, _, sender := newTestAuth()
	ctx := context.Background()

	if err := uc.RequestCode(ctx, "client@example.com"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, access, refresh, err := uc.VerifyCode(ctx, "client@example.com", sender.code)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	newAccess, newRefresh, err := uc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Fatalf("expected rotated token pair")
	}

	// An access token is not accepted as a refresh token.
	if _, _, err := uc.Refresh(ctx, access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
	if _, _, err := uc.Refresh(ctx, "garbage"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for garbage, got %v", err)
	}
}
