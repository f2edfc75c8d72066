package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/domain"
	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/colegiosoft/siged/pkg/cryptox"
	"github.com/colegiosoft/siged/pkg/idx"
	"github.com/colegiosoft/siged/pkg/jwtx"
	"github.com/colegiosoft/siged/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTOTPRequired       = errors.New("totp_required")
	ErrInvalidTOTP        = errors.New("invalid_totp")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
)

// AuthService issues and rotates token pairs for dashboard accounts.
type AuthService struct {
	Signer     *jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login implements the password (+ optional TOTP) exchange. When the account
// has a TOTP secret enrolled a valid code is mandatory; ErrTOTPRequired tells
// the client to re-submit with one.
func (s *AuthService) Login(ctx context.Context, email, password, codigoTOTP string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Usuarios().GetUsuarioByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so missing accounts are not distinguishable
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", slog.String("usuario_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	if u.MFAActive() {
		if codigoTOTP == "" {
			return nil, ErrTOTPRequired
		}
		if !totp.Validate(codigoTOTP, *u.MFASecret) {
			l.Info("login totp verification failed", slog.String("usuario_id", u.ID))
			return nil, ErrInvalidTOTP
		}
	}

	return s.issuePair(ctx, u, time.Now())
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued, atomically. A revoked or expired token yields
// ErrInvalidRefresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrInvalidRefresh
	}

	now := time.Now()
	hash := cryptox.FingerprintToken(refreshToken)

	var result *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if rec.Revoked || now.After(rec.ExpiresAt) {
			return ErrInvalidRefresh
		}

		u, err := tx.Usuarios().GetUsuarioByID(ctx, rec.UsuarioID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, hash); err != nil {
			return err
		}

		pair, err := s.mintPair(ctx, tx, u, now)
		if err != nil {
			return err
		}
		result = pair
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Revoke invalidates a single refresh token. Unknown tokens are not an
// error; logout must stay idempotent.
func (s *AuthService) Revoke(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshToken))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// RevokeAll invalidates every live refresh token of one account (password
// change, admin lockout).
func (s *AuthService) RevokeAll(ctx context.Context, usuarioID string) error {
	return s.Store.RefreshTokens().RevokeAllUsuarioRefreshTokens(ctx, usuarioID)
}

func (s *AuthService) issuePair(ctx context.Context, u domain.Usuario, now time.Time) (*domain.TokenPair, error) {
	var result *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		pair, err := s.mintPair(ctx, tx, u, now)
		if err != nil {
			return err
		}
		result = pair
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AuthService) mintPair(ctx context.Context, tx store.Tx, u domain.Usuario, now time.Time) (*domain.TokenPair, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Email, u.Rol, u.Nombre, s.AccessTTL, s.Issuer, now)
	accessToken, err := s.Signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rec := domain.RefreshToken{
		ID:        idx.New().String(),
		UsuarioID: u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := tx.RefreshTokens().CreateRefreshToken(ctx, rec); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    s.AccessTTL,
	}, nil
}
