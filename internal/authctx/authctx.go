package authctx

import (
	"context"

	"github.com/shestoi/rivalsyndicate/internal/service"
)

type ctxKeySession struct{}

var sessionKey = ctxKeySession{}

// WithSession сохраняет проверенную сессию в контексте (используется HTTP middleware)
func WithSession(ctx context.Context, s *service.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext возвращает сессию из контекста, если она была установлена
func SessionFromContext(ctx context.Context) (*service.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*service.Session)
	return s, ok && s != nil
}
