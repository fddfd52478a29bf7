package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/authctx"
	"github.com/shestoi/rivalsyndicate/internal/service"
)

const maxRequestBody = 1 << 20

// Config - настройки HTTP слоя
type Config struct {
	// FrontendURL - куда callback OAuth перенаправляет с токеном; пусто - ответ JSON
	FrontendURL string
	// SecureCookies ставит Secure на cookie состояния OAuth (за HTTPS)
	SecureCookies bool
}

// Services - зависимости обработчиков
type Services struct {
	Orders   OrderService
	Auth     AuthService
	Users    UserService
	Stats    StatsService
	Rates    RatesSource
	Tickets  TicketCloser
	Commands CommandRegistrar
}

// Handler содержит HTTP-обработчики API
// Зависит от service слоя через интерфейсы и не знает о хранилищах и Discord
type Handler struct {
	logger   *zap.Logger
	cfg      Config
	orders   OrderService
	auth     AuthService
	users    UserService
	stats    StatsService
	rates    RatesSource
	tickets  TicketCloser
	commands CommandRegistrar
}

// NewHandler создаёт новый HTTP handler
func NewHandler(logger *zap.Logger, cfg Config, s Services) *Handler {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &Handler{
		logger:   logger,
		cfg:      cfg,
		orders:   s.Orders,
		auth:     s.Auth,
		users:    s.Users,
		stats:    s.Stats,
		rates:    s.Rates,
		tickets:  s.Tickets,
		commands: s.Commands,
	}
}

// session возвращает сессию, положенную middleware; без неё отвечает 401
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	s, ok := authctx.SessionFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return s, true
}

// decodeJSON читает тело запроса; ошибка разбора - 422, как и прочая валидация
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeDetail(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			writeDetail(w, http.StatusUnprocessableEntity, "Request body is empty")
		default:
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid JSON body: "+err.Error())
		}
		return false
	}
	return true
}
