package handlers

import (
	"net/http"
	"time"

	"github.com/pribylovaa/hr-admin-service/internal/models"
	"github.com/pribylovaa/hr-admin-service/internal/service"
	"github.com/pribylovaa/hr-admin-service/internal/transport/http/httperr"
)

// Имена кук, в которых клиенту доставляются токены.
const (
	accessCookieName  = "access_token"
	refreshCookieName = "refresh_token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login - POST /auth/login.
// Тело: {email, password}. Успех: 204 No Content, пара токенов уезжает
// HttpOnly-куками access_token/refresh_token (скриптам недоступны).
// Любой отказ — единый 401 Invalid Credentials.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteError(w, r, service.ErrInvalidCredentials)
		return
	}

	pair, _, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	h.setTokenCookies(w, pair)
	w.WriteHeader(http.StatusNoContent)
}

// Refresh - POST /auth/refresh.
// Refresh-токен берётся из куки refresh_token; для небраузерных клиентов
// допускается тело {refresh_token}. Успех: 204 + новая пара кук (ротация).
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshCookieName); err == nil {
		token = c.Value
	}

	if token == "" {
		var in refreshRequest
		if err := decodeStrict(r, &in); err == nil {
			token = in.RefreshToken
		}
	}

	pair, _, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	h.setTokenCookies(w, pair)
	w.WriteHeader(http.StatusNoContent)
}

// setTokenCookies выставляет пару токенов HttpOnly-куками.
// Срок жизни кук совпадает со сроком жизни соответствующих токенов.
func (h *Handlers) setTokenCookies(w http.ResponseWriter, pair *models.TokenPair) {
	http.SetCookie(w, h.tokenCookie(accessCookieName, pair.AccessToken, h.cfg.Auth.AccessTokenTTL))
	http.SetCookie(w, h.tokenCookie(refreshCookieName, pair.RefreshToken, h.cfg.Auth.RefreshTokenTTL))
}

func (h *Handlers) tokenCookie(name, value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}

	if h.cfg.Auth.CookieDomain != "" {
		ck.Domain = h.cfg.Auth.CookieDomain
	}

	return ck
}
