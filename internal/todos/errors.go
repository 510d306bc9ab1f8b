package todos

import (
	"fmt"

	"todoTracker/internal/session"
)

var ErrNoSession = session.ErrNoSession

// AuthError запись без активной сессии
type AuthError struct {
	Op string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: нет активной сессии, нужно войти", e.Op)
}

func (e *AuthError) Unwrap() error {
	return ErrNoSession
}

// StoreError любой отказ хранилища: сеть, ограничения таблицы, бэкенд.
// Исходная ошибка доступна через errors.Is/As
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: ошибка хранилища: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
