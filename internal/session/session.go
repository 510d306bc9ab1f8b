// Package session отвечает на один вопрос: есть ли сейчас аутентифицированный
// пользователь и кто он. Репозиторий задач спрашивает об этом при каждой записи.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Identity struct {
	UserID    uuid.UUID `json:"user_id" yaml:"user_id"`
	Email     string    `json:"email" yaml:"email"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	Token     string    `json:"-" yaml:"token"`
	TokenID   string    `json:"-" yaml:"token_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at" yaml:"expires_at"`
}

func (i *Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Accessor источник текущей сессии; false означает, что сессии нет
type Accessor interface {
	Current(ctx context.Context) (*Identity, bool)
}

type AccessorFunc func(ctx context.Context) (*Identity, bool)

func (f AccessorFunc) Current(ctx context.Context) (*Identity, bool) {
	return f(ctx)
}

// Static фиксированная сессия, удобна в тестах; nil означает "нет сессии"
func Static(id *Identity) Accessor {
	return AccessorFunc(func(context.Context) (*Identity, bool) {
		return id, id != nil
	})
}
