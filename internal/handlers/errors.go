package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"todoTracker/internal/auth"
	"todoTracker/internal/form"
	"todoTracker/internal/logger"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/todos"

	"go.uber.org/zap"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{Key: key, Payload: payload}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}
	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}
	return busErr
}

func NewValidationError(fields map[string]string) *BusinessError {
	details := make(map[string]any, len(fields))
	for k, v := range fields {
		details[k] = v
	}
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: "Неверные значения полей",
		Details: details,
	}
}

// toBusinessError раскладывает ошибки нижних слоёв по кодам ответа
func toBusinessError(err error) *BusinessError {
	var (
		busErr   *BusinessError
		vErr     *form.ValidationError
		authErr  *todos.AuthError
		storeErr *todos.StoreError
	)

	switch {
	case errors.As(err, &busErr):
		return busErr
	case errors.As(err, &vErr):
		return NewValidationError(vErr.Fields)
	case errors.As(err, &authErr):
		return &BusinessError{Code: "UNAUTHORIZED", Message: "Требуется вход в систему", Err: err}
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken), errors.Is(err, auth.ErrSessionRevoked):
		return &BusinessError{Code: "UNAUTHORIZED", Message: err.Error()}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &BusinessError{Code: "INVALID_CREDENTIALS", Message: err.Error()}
	case errors.Is(err, auth.ErrEmailTaken):
		return NewBusinessError("EMAIL_TAKEN", err.Error(), ToDetail("field", "email"))
	case errors.As(err, &storeErr):
		if errors.Is(err, todos.ErrNoSession) {
			return &BusinessError{Code: "UNAUTHORIZED", Message: "Требуется вход в систему", Err: err}
		}
		if errors.Is(err, repo.ErrDuplicate) || errors.Is(err, repo.ErrConstraint) {
			return &BusinessError{Code: "CONFLICT", Message: "Запись нарушает ограничения хранилища", Err: err}
		}
		return &BusinessError{Code: "STORE_ERROR", Message: "Хранилище недоступно", Err: err}
	}
	return &BusinessError{Code: "INTERNAL", Message: "Внутренняя ошибка сервера", Err: err}
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case "VALIDATION_ERROR", "BAD_REQUEST":
		return http.StatusBadRequest
	case "UNAUTHORIZED", "INVALID_CREDENTIALS":
		return http.StatusUnauthorized
	case "CONFLICT", "EMAIL_TAKEN":
		return http.StatusConflict
	case "UNSUPPORTED_MEDIA_TYPE":
		return http.StatusUnsupportedMediaType
	case "CONFIRMATION_REQUIRED":
		return http.StatusPreconditionRequired
	case "STORE_ERROR":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func handleError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	busErr := toBusinessError(err)
	statusCode := mapBusinessErrorToHTTP(busErr.Code)

	fields := []zap.Field{
		zap.String("operation", operation),
		zap.String("error_code", busErr.Code),
		zap.Int("http_status", statusCode),
		zap.String("client_ip", r.RemoteAddr),
	}
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP: Ошибка обработки запроса", err, fields...)
	} else {
		logger.Warn("HTTP: Бизнес-ошибка", append(fields, zap.Error(err))...)
	}

	payload := []Payload{
		toPayload("error", busErr.Code),
		toPayload("message", busErr.Message),
	}
	if len(busErr.Details) > 0 {
		payload = append(payload, toPayload("details", busErr.Details))
	}
	responseWithJSON(w, statusCode, payload...)
}
