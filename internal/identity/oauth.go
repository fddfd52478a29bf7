package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/shestoi/rivalsyndicate/internal/metrics"
)

const (
	defaultAuthURL  = "https://discord.com/api/oauth2/authorize"
	defaultTokenURL = "https://discord.com/api/oauth2/token"
	defaultAPIURL   = "https://discord.com/api/v10"
)

// ErrOAuthFailed - обмен кода или запрос профиля завершились ошибкой
var ErrOAuthFailed = errors.New("discord oauth failed")

// OAuthConfig задаёт параметры OAuth2 приложения Discord
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Переопределяются в тестах
	AuthURL  string
	TokenURL string
	APIURL   string
}

// DiscordUser - профиль из /users/@me
type DiscordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Email    string `json:"email"`
}

// AvatarURL возвращает ссылку на аватар или пустую строку
func (u DiscordUser) AvatarURL() string {
	if u.Avatar == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", u.ID, u.Avatar)
}

// DiscordOAuth реализует authorization code flow Discord
type DiscordOAuth struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	cfg     *oauth2.Config
	apiURL  string
	client  *http.Client
}

// NewDiscordOAuth создаёт OAuth клиент со scope identify email
func NewDiscordOAuth(logger *zap.Logger, m *metrics.Metrics, cfg OAuthConfig) *DiscordOAuth {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	return &DiscordOAuth{
		logger:  logger,
		metrics: m,
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthCodeURL возвращает ссылку на страницу согласия Discord
func (o *DiscordOAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state)
}

// Exchange меняет код на токен и читает профиль пользователя
func (o *DiscordOAuth) Exchange(ctx context.Context, code string) (DiscordUser, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.client)

	start := time.Now()
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		o.metrics.ObserveUpstream("discord_oauth", "exchange", 0, time.Since(start))
		return DiscordUser{}, fmt.Errorf("%w: exchange code: %v", ErrOAuthFailed, err)
	}
	o.metrics.ObserveUpstream("discord_oauth", "exchange", http.StatusOK, time.Since(start))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.apiURL+"/users/@me", nil)
	if err != nil {
		return DiscordUser{}, fmt.Errorf("failed to create request: %w", err)
	}

	start = time.Now()
	resp, err := o.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		o.metrics.ObserveUpstream("discord_oauth", "user", 0, time.Since(start))
		return DiscordUser{}, fmt.Errorf("%w: fetch user: %v", ErrOAuthFailed, err)
	}
	defer resp.Body.Close()
	o.metrics.ObserveUpstream("discord_oauth", "user", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return DiscordUser{}, fmt.Errorf("%w: user info status %d: %s", ErrOAuthFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var user DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return DiscordUser{}, fmt.Errorf("failed to decode user: %w", err)
	}
	if user.ID == "" {
		return DiscordUser{}, fmt.Errorf("%w: empty user id", ErrOAuthFailed)
	}

	o.logger.Debug("discord user resolved", zap.String("discord_id", user.ID))
	return user, nil
}
