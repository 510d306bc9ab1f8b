package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Persister долговременное хранение клиентской сессии между запусками
type Persister interface {
	Load() (*Identity, error)
	Save(*Identity) error
	Remove() error
}

// Holder клиентская сессия процесса. Передаётся явно, глобального состояния нет
type Holder struct {
	mu      sync.RWMutex
	current *Identity
	persist Persister
	now     func() time.Time
}

func NewHolder(persist Persister) *Holder {
	return &Holder{persist: persist, now: time.Now}
}

func (h *Holder) Current(ctx context.Context) (*Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == nil || h.current.Expired(h.now()) {
		return nil, false
	}
	c := *h.current
	return &c, true
}

func (h *Holder) Set(id *Identity) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := *id
	h.current = &c
	if h.persist != nil {
		return h.persist.Save(&c)
	}
	return nil
}

func (h *Holder) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.current = nil
	if h.persist != nil {
		return h.persist.Remove()
	}
	return nil
}

// Restore подтягивает сохранённую сессию; отсутствие файла не ошибка
func (h *Holder) Restore() error {
	if h.persist == nil {
		return nil
	}
	id, err := h.persist.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil
		}
		return err
	}

	h.mu.Lock()
	h.current = id
	h.mu.Unlock()
	return nil
}
