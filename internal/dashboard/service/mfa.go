package service

import (
	"context"
	"errors"

	"github.com/colegiosoft/siged/internal/dashboard/store"
	"github.com/pquerna/otp/totp"
)

var (
	ErrMFAAlreadyActive = errors.New("mfa_already_active")
	ErrMFANotEnrolled   = errors.New("mfa_not_enrolled")
	ErrMFABadCode       = errors.New("mfa_bad_code")
)

// MFAService manages the optional TOTP second factor on an account.
// Enrollment is two-step: Enroll stores a pending secret and returns the
// otpauth URL for the authenticator app; Activate turns it on once the
// account proves it can produce a valid code.
type MFAService struct {
	Store  store.Store
	Issuer string
}

type MFAEnrollment struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

func (s *MFAService) Enroll(ctx context.Context, usuarioID string) (*MFAEnrollment, error) {
	u, err := s.Store.Usuarios().GetUsuarioByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUsuarioNotFound
		}
		return nil, err
	}
	if u.MFAActive() {
		return nil, ErrMFAAlreadyActive
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: u.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Store.Usuarios().UpdateMFASecret(ctx, usuarioID, key.Secret()); err != nil {
		return nil, err
	}

	return &MFAEnrollment{Secret: key.Secret(), OTPAuthURL: key.URL()}, nil
}

func (s *MFAService) Activate(ctx context.Context, usuarioID, codigo string) error {
	u, err := s.Store.Usuarios().GetUsuarioByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUsuarioNotFound
		}
		return err
	}
	if u.MFAActive() {
		return ErrMFAAlreadyActive
	}
	if u.MFASecret == nil || *u.MFASecret == "" {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(codigo, *u.MFASecret) {
		return ErrMFABadCode
	}
	return s.Store.Usuarios().EnableMFA(ctx, usuarioID)
}

// Deactivate removes the second factor; a valid current code is required.
func (s *MFAService) Deactivate(ctx context.Context, usuarioID, codigo string) error {
	u, err := s.Store.Usuarios().GetUsuarioByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUsuarioNotFound
		}
		return err
	}
	if !u.MFAActive() {
		return ErrMFANotEnrolled
	}
	if !totp.Validate(codigo, *u.MFASecret) {
		return ErrMFABadCode
	}
	return s.Store.Usuarios().DisableMFA(ctx, usuarioID)
}
