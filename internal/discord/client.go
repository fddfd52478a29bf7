package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/metrics"
)

// DefaultBaseURL - REST API Discord v10
const DefaultBaseURL = "https://discord.com/api/v10"

const (
	membersPageSize  = 1000
	membersMaxPages  = 10
	messagesPageSize = 100
)

// Config задаёт параметры клиента
type Config struct {
	BotToken string
	BaseURL  string
	Timeout  time.Duration
}

// Client выполняет аутентифицированные запросы к Discord REST API
// Ретраев нет: вызывающая сторона сама решает, что делать с ошибкой
type Client struct {
	logger   *zap.Logger
	metrics  *metrics.Metrics
	botToken string
	baseURL  string
	client   *http.Client
}

// NewClient создаёт новый Discord клиент
func NewClient(logger *zap.Logger, m *metrics.Metrics, cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		logger:   logger,
		metrics:  m,
		botToken: cfg.BotToken,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured сообщает, задан ли токен бота
func (c *Client) Configured() bool {
	return c.botToken != ""
}

// CreateGuildChannel создаёт канал в гильдии
func (c *Client) CreateGuildChannel(ctx context.Context, guildID string, params CreateChannelParams) (Channel, error) {
	var ch Channel
	err := c.do(ctx, "create_channel", http.MethodPost, "/guilds/"+guildID+"/channels", nil, params, &ch,
		http.StatusCreated, http.StatusOK)
	return ch, err
}

// DeleteChannel удаляет канал; успешны только 200 и 204
func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	return c.do(ctx, "delete_channel", http.MethodDelete, "/channels/"+channelID, nil, nil, nil,
		http.StatusOK, http.StatusNoContent)
}

// CreateMessage отправляет сообщение в канал
func (c *Client) CreateMessage(ctx context.Context, channelID string, params MessageParams) (Message, error) {
	var msg Message
	err := c.do(ctx, "create_message", http.MethodPost, "/channels/"+channelID+"/messages", nil, params, &msg,
		http.StatusOK)
	return msg, err
}

// ListGuildMembers постранично читает участников гильдии (курсор after, не больше 10 страниц)
func (c *Client) ListGuildMembers(ctx context.Context, guildID string) ([]Member, error) {
	var all []Member
	after := ""

	for page := 0; page < membersMaxPages; page++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(membersPageSize))
		if after != "" {
			q.Set("after", after)
		}

		var batch []Member
		if err := c.do(ctx, "list_members", http.MethodGet, "/guilds/"+guildID+"/members", q, nil, &batch, http.StatusOK); err != nil {
			return all, err
		}
		all = append(all, batch...)

		if len(batch) < membersPageSize {
			break
		}
		after = batch[len(batch)-1].User.ID
	}

	return all, nil
}

// ListChannelMessages читает последние сообщения канала (курсор before)
// limit - размер страницы (до 100), maxPages - максимальное число страниц
func (c *Client) ListChannelMessages(ctx context.Context, channelID string, limit, maxPages int) ([]Message, error) {
	if limit <= 0 || limit > messagesPageSize {
		limit = messagesPageSize
	}
	if maxPages <= 0 {
		maxPages = 1
	}

	var all []Message
	before := ""

	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(limit))
		if before != "" {
			q.Set("before", before)
		}

		var batch []Message
		if err := c.do(ctx, "list_messages", http.MethodGet, "/channels/"+channelID+"/messages", q, nil, &batch, http.StatusOK); err != nil {
			return all, err
		}
		all = append(all, batch...)

		if len(batch) < limit {
			break
		}
		before = batch[len(batch)-1].ID
	}

	return all, nil
}

// BulkOverwriteGuildCommands заменяет набор slash-команд гильдии
func (c *Client) BulkOverwriteGuildCommands(ctx context.Context, applicationID, guildID string, commands []Command) error {
	path := fmt.Sprintf("/applications/%s/guilds/%s/commands", applicationID, guildID)
	return c.do(ctx, "register_commands", http.MethodPut, path, nil, commands, nil, http.StatusOK)
}

// GetGuild получает гильдию с приблизительными счётчиками участников
func (c *Client) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	var g Guild
	q := url.Values{}
	q.Set("with_counts", "true")
	err := c.do(ctx, "get_guild", http.MethodGet, "/guilds/"+guildID, q, nil, &g, http.StatusOK)
	return g, err
}

// do выполняет запрос, проверяет статус и декодирует ответ в out
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any, okStatuses ...int) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream("discord", op, 0, time.Since(start))
		return fmt.Errorf("discord %s: %w", op, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstream("discord", op, resp.StatusCode, time.Since(start))

	if !statusIn(resp.StatusCode, okStatuses) {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	c.logger.Debug("discord request succeeded",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
	)
	return nil
}

// decodeAPIError читает тело не-успешного ответа для диагностики
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func statusIn(code int, statuses []int) bool {
	for _, s := range statuses {
		if code == s {
			return true
		}
	}
	return false
}

// IsNotFound сообщает, что ресурс (например, канал) не существует
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == CodeUnknownChannel
	}
	return false
}
