package middleware

import (
	"context"
	"net/http"
	"strings"

	"todoTracker/internal/logger"
	"todoTracker/internal/session"

	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Identity, error)
}

// BearerToken токен из заголовка Authorization; пустая строка, если его нет
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate кладёт сессию в контекст запроса. Без валидного токена
// запрос дальше не идёт
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, r, "требуется заголовок Authorization: Bearer <token>")
				return
			}

			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Warn("HTTP: Отказ в аутентификации",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.Error(err))
				unauthorized(w, r, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), identity)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"error":      "UNAUTHORIZED",
		"message":    message,
		"request_id": GetRequestID(r.Context()),
	})
}
