package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOAuthServer(t *testing.T, userStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client-id", r.PostForm.Get("client_id"))
		require.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))

		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"discord-access","token_type":"Bearer","expires_in":604800}`))
	})
	mux.HandleFunc("/users/@me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer discord-access", r.Header.Get("Authorization"))
		w.WriteHeader(userStatus)
		_, _ = w.Write([]byte(`{"id":"555","username":"alice","avatar":"abc","email":"a@example.com"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestOAuth(srv *httptest.Server) *DiscordOAuth {
	return NewDiscordOAuth(zap.NewNop(), nil, OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8001/api/auth/discord/callback",
		TokenURL:     srv.URL + "/oauth2/token",
		APIURL:       srv.URL,
	})
}

func TestDiscordOAuth_AuthCodeURL(t *testing.T) {
	o := NewDiscordOAuth(zap.NewNop(), nil, OAuthConfig{ClientID: "client-id", RedirectURL: "http://localhost/cb"})

	u, err := url.Parse(o.AuthCodeURL("state-1"))
	require.NoError(t, err)
	require.Equal(t, "discord.com", u.Host)
	require.Equal(t, "client-id", u.Query().Get("client_id"))
	require.Equal(t, "code", u.Query().Get("response_type"))
	require.Equal(t, "identify email", u.Query().Get("scope"))
	require.Equal(t, "state-1", u.Query().Get("state"))
}

func TestDiscordOAuth_Exchange(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		o := newTestOAuth(newOAuthServer(t, http.StatusOK))

		user, err := o.Exchange(ctx, "good-code")
		require.NoError(t, err)
		require.Equal(t, "555", user.ID)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "https://cdn.discordapp.com/avatars/555/abc.png", user.AvatarURL())
	})

	t.Run("bad code", func(t *testing.T) {
		o := newTestOAuth(newOAuthServer(t, http.StatusOK))

		_, err := o.Exchange(ctx, "bad-code")
		require.ErrorIs(t, err, ErrOAuthFailed)
	})

	t.Run("user info fails", func(t *testing.T) {
		o := newTestOAuth(newOAuthServer(t, http.StatusUnauthorized))

		_, err := o.Exchange(ctx, "good-code")
		require.ErrorIs(t, err, ErrOAuthFailed)
	})
}
