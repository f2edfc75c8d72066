package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/colegiosoft/siged/internal/dashboard/service"
	"github.com/colegiosoft/siged/pkg/httpx"
	"github.com/colegiosoft/siged/pkg/slogx"
)

// SessionCookie marks an authenticated browser session at the routing
// perimeter. It carries the opaque refresh token; the access token never
// touches a cookie.
const SessionCookie = "siged_session"

// AuthHandler serves the /v1/auth endpoints. Bodies are JSON.
type AuthHandler struct {
	AuthService  *service.AuthService
	CookieSecure bool
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	CodigoTOTP string `json:"codigo_totp"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// HandleLogin godoc
//
//	@Summary		Iniciar sesión
//	@Description	Exchanges email/password (plus TOTP when enrolled) for a token pair and sets the session cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		loginRequest	true	"email, password, codigo_totp (optional)"
//	@Success		200			{object}	tokenResponse
//	@Failure		400			{object}	httpx.ErrorResponse
//	@Failure		401			{object}	httpx.ErrorResponse
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	pair, err := h.AuthService.Login(ctx, req.Email, req.Password, req.CodigoTOTP)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		case errors.Is(err, service.ErrTOTPRequired):
			httpx.WriteError(w, http.StatusUnauthorized, "totp_required", "a codigo_totp is required for this account")
		case errors.Is(err, service.ErrInvalidTOTP):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_totp", "the codigo_totp is not valid")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
		}
		return
	}

	h.setSessionCookie(w, pair.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}

// HandleRefresh godoc
//
//	@Summary		Rotar el par de tokens
//	@Description	Rotates the refresh token (body field or session cookie) and returns a fresh pair.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			token	body		refreshRequest	false	"refresh_token; falls back to the session cookie"
//	@Success		200		{object}	tokenResponse
//	@Failure		401		{object}	httpx.ErrorResponse
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	refreshToken := h.refreshTokenFrom(r)
	if refreshToken == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_refresh_token", "no refresh token presented")
		return
	}

	pair, err := h.AuthService.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			h.clearSessionCookie(w)
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token is expired or revoked")
			return
		}
		log.Error("refresh failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "unexpected error")
		return
	}

	h.setSessionCookie(w, pair.RefreshToken)
	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}

// HandleLogout godoc
//
//	@Summary		Cerrar sesión
//	@Description	Revokes the presented refresh token and clears the session cookie. Always 204.
//	@Tags			Auth
//	@Success		204	{string}	string	"no content"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if refreshToken := h.refreshTokenFrom(r); refreshToken != "" {
		if err := h.AuthService.Revoke(ctx, refreshToken); err != nil {
			// Logout still succeeds from the client's point of view
			log.Error("refresh token revocation failed", "err", err)
		}
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// refreshTokenFrom prefers the JSON body, then the session cookie.
func (h *AuthHandler) refreshTokenFrom(r *http.Request) string {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.AuthService.RefreshTTL / time.Second),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
