package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"designmatch/internal/pkg/jwt"
	"designmatch/internal/repository"
)

var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidLoginCode    = errors.New("invalid or expired login code")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// CodeSender delivers a login code to an address. The default implementation
// only logs; a mail provider slots in behind the same interface.
type CodeSender interface {
	SendLoginCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes the code to the application log. Development only.
type LogCodeSender struct {
	Logger *zap.Logger
}

func (s LogCodeSender) SendLoginCode(_ context.Context, email, code string) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("login code issued", zap.String("email", email), zap.String("code", code))
	return nil
}

type AuthUsecase interface {
	// RequestCode issues a fresh six-digit login code for the address,
	// invalidating any outstanding one.
	RequestCode(ctx context.Context, email string) error
	// VerifyCode exchanges a valid code for the client record plus an
	// access/refresh token pair, creating the client on first login.
	VerifyCode(ctx context.Context, email, code string) (repository.Client, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	clients repository.ClientRepository
	codes   repository.LoginCodeRepository
	sender  CodeSender
	jwt     jwt.Service

	codeTTL time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewAuthUsecase(
	clients repository.ClientRepository,
	codes repository.LoginCodeRepository,
	sender CodeSender,
	jwtSvc jwt.Service,
	codeTTL time.Duration,
	logger *zap.Logger,
) *Auth {
	if logger == nil {
		logger = zap.NewNop()
	}
	if codeTTL <= 0 {
		codeTTL = 10 * time.Minute
	}
	return &Auth{
		clients: clients,
		codes:   codes,
		sender:  sender,
		jwt:     jwtSvc,
		codeTTL: codeTTL,
		now:     time.Now,
		logger:  logger,
	}
}

func (u *Auth) RequestCode(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	code, err := generateLoginCode()
	if err != nil {
		return ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}

	if _, err := u.codes.Create(ctx, email, string(hash), u.now().Add(u.codeTTL)); err != nil {
		u.logger.Error("login code create failed", zap.String("email", email), zap.Error(err))
		return ErrInternal
	}

	if err := u.sender.SendLoginCode(ctx, email, code); err != nil {
		u.logger.Error("login code delivery failed", zap.String("email", email), zap.Error(err))
		return ErrInternal
	}
	return nil
}

func (u *Auth) VerifyCode(ctx context.Context, email, code string) (repository.Client, string, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return repository.Client{}, "", "", err
	}
	code = strings.TrimSpace(code)
	if len(code) != loginCodeLength {
		return repository.Client{}, "", "", ErrInvalidLoginCode
	}

	lc, err := u.codes.FindActiveByEmail(ctx, email, u.now())
	if err != nil {
		if errors.Is(err, repository.ErrLoginCodeNotFound) {
			return repository.Client{}, "", "", ErrInvalidLoginCode
		}
		return repository.Client{}, "", "", ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(lc.CodeHash), []byte(code)) != nil {
		return repository.Client{}, "", "", ErrInvalidLoginCode
	}

	if err := u.codes.Consume(ctx, lc.ID); err != nil {
		return repository.Client{}, "", "", ErrInternal
	}

	client, err := u.clients.UpsertByEmail(ctx, email)
	if err != nil {
		return repository.Client{}, "", "", ErrInternal
	}

	access, err := u.jwt.GenerateAccessToken(client.ID, client.Email)
	if err != nil {
		return repository.Client{}, "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(client.ID)
	if err != nil {
		return repository.Client{}, "", "", ErrInternal
	}

	return client, access, refresh, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return "", "", ErrInvalidRefreshToken
	}

	client, err := u.clients.GetByID(ctx, claims.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	access, err := u.jwt.GenerateAccessToken(client.ID, client.Email)
	if err != nil {
		return "", "", ErrInternal
	}
	newRefresh, err := u.jwt.GenerateRefreshToken(client.ID)
	if err != nil {
		return "", "", ErrInternal
	}

	return access, newRefresh, nil
}

const loginCodeLength = 6

func generateLoginCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
