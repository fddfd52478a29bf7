package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/authctx"
	"github.com/shestoi/rivalsyndicate/internal/service"
	platformobservability "github.com/shestoi/rivalsyndicate/platform/observability"
)

// Authenticator проверяет bearer токен и возвращает сессию
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Session, error)
}

// WithSession - HTTP middleware: читает Authorization: Bearer <token>, при невалидном токене возвращает 401,
// иначе кладёт сессию в context
func WithSession(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeDetail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			session, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				platformobservability.L(r.Context(), logger).Error("failed to authenticate request", zap.Error(err))
				writeDetail(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			ctx := authctx.WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
