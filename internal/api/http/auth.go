package httpapi

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/service"
	platformobservability "github.com/shestoi/rivalsyndicate/platform/observability"
)

const (
	stateCookieName   = "syndicate_oauth_state"
	stateCookiePath   = "/api/auth/discord"
	stateCookieMaxAge = 600
)

// Коды ошибок, которые получает страница /auth/callback фронтенда
const (
	callbackErrMissingCode  = "missing_code"
	callbackErrInvalidState = "invalid_state"
	callbackErrOAuthFailed  = "oauth_failed"
)

// DiscordLogin обрабатывает GET /api/auth/discord/login
func (h *Handler) DiscordLogin(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     stateCookiePath,
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.auth.LoginURL(state), http.StatusTemporaryRedirect)
}

// DiscordCallback обрабатывает GET /api/auth/discord/callback
func (h *Handler) DiscordCallback(w http.ResponseWriter, r *http.Request) {
	logger := platformobservability.L(r.Context(), h.logger)
	q := r.URL.Query()

	expected := ""
	if c, err := r.Cookie(stateCookieName); err == nil {
		expected = c.Value
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Path:     stateCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	if oauthErr := q.Get("error"); oauthErr != "" {
		logger.Warn("discord oauth returned error", zap.String("error", oauthErr))
		h.callbackError(w, r, callbackErrOAuthFailed)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.callbackError(w, r, callbackErrMissingCode)
		return
	}

	state := q.Get("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(state)) != 1 {
		logger.Warn("oauth state mismatch")
		h.callbackError(w, r, callbackErrInvalidState)
		return
	}

	out, err := h.auth.Login(r.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.callbackError(w, r, callbackErrMissingCode)
			return
		}
		logger.Error("discord login failed", zap.Error(err))
		h.callbackError(w, r, callbackErrOAuthFailed)
		return
	}

	user := toUserResponse(out.User)
	if h.cfg.FrontendURL == "" {
		writeJSON(w, http.StatusOK, LoginResponse{Success: true, User: user, AccessToken: out.Token})
		return
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	target := h.cfg.FrontendURL + "/auth/callback?" + url.Values{
		"token": {out.Token},
		"user":  {string(userJSON)},
	}.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) callbackError(w http.ResponseWriter, r *http.Request, code string) {
	if h.cfg.FrontendURL == "" {
		writeDetail(w, http.StatusBadRequest, "Discord OAuth error: "+code)
		return
	}
	target := h.cfg.FrontendURL + "/auth/callback?" + url.Values{"error": {code}}.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}

// Me обрабатывает GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(s.User))
}

// Logout обрабатывает POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.auth.Logout(r.Context(), *s); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Logged out"})
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
