// Package remote HTTP-клиент к серверу задач. Реализует todos.Store, так что
// клиентский репозиторий и контроллер работают с сервером так же, как с
// локальным хранилищем.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"todoTracker/internal/auth"
	"todoTracker/internal/form"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/session"

	"go.uber.org/zap"
)

// APIError ответ сервера с кодом ошибки
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("сервер ответил %d [%s] %s", e.Status, e.Code, e.Message)
}

// Unwrap сопоставляет коды сервера с ошибками нижних слоёв, чтобы
// errors.Is работал одинаково для локального и удалённого хранилища
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "CONFLICT":
		return repo.ErrConstraint
	case "UNAUTHORIZED":
		return session.ErrNoSession
	case "INVALID_CREDENTIALS":
		return auth.ErrInvalidCredentials
	case "EMAIL_TAKEN":
		return auth.ErrEmailTaken
	}
	return nil
}

type Client struct {
	baseURL  string
	http     *http.Client
	sessions session.Accessor
}

func New(baseURL string, timeout time.Duration, sessions session.Accessor) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authorized bool) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация запроса: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if authorized {
		id, ok := c.sessions.Current(ctx)
		if !ok {
			return session.ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.Debug("HTTP: Ответ сервера",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("ms", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("разбор ответа %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body dto.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return &APIError{Status: resp.StatusCode, Code: "HTTP_ERROR", Message: strings.TrimSpace(string(data))}
	}

	if body.Error == "VALIDATION_ERROR" {
		fields := make(map[string]string, len(body.Details))
		for k, v := range body.Details {
			fields[k] = fmt.Sprint(v)
		}
		return &form.ValidationError{Fields: fields}
	}

	return &APIError{
		Status:  resp.StatusCode,
		Code:    body.Error,
		Message: body.Message,
		Details: body.Details,
	}
}
