// Package form состояние формы без привязки к UI: значения полей, карта
// ошибок и флаг незавершённой отправки.
package form

import (
	"context"
	"errors"
	"sync"
)

type State int

const (
	Untouched State = iota
	Editing
	Validating
	Valid
	Invalid
)

func (s State) String() string {
	switch s {
	case Untouched:
		return "untouched"
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	}
	return "unknown"
}

var ErrSubmitInFlight = errors.New("предыдущая отправка формы ещё выполняется")

type Action[T any] func(ctx context.Context, values T) error

type Form[T any] struct {
	mu      sync.Mutex
	values  T
	state   State
	errors  map[string]string
	pending bool
}

func New[T any](values T) *Form[T] {
	return &Form[T]{values: values, state: Untouched, errors: map[string]string{}}
}

func (f *Form[T]) Values() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form[T]) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	c := make(map[string]string, len(f.errors))
	for k, v := range f.errors {
		c[k] = v
	}
	return c
}

func (f *Form[T]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Edit меняет значения; сообщения об ошибках остаются до следующей отправки
func (f *Form[T]) Edit(change func(values *T)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	change(&f.values)
	f.state = Editing
}

// Reset возвращает форму в исходное состояние. Незавершённая отправка
// продолжает выполняться, флаг pending снимет она сама
func (f *Form[T]) Reset(values T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.values = values
	f.state = Untouched
	f.errors = map[string]string{}
}

// Submit валидирует все поля; при ошибках действие не вызывается и
// возвращается *ValidationError. Пока действие выполняется, повторная
// отправка отклоняется с ErrSubmitInFlight
func (f *Form[T]) Submit(ctx context.Context, action Action[T]) error {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}

	f.state = Validating
	errs := Validate(f.values)
	if len(errs) > 0 {
		f.state = Invalid
		f.errors = errs
		f.mu.Unlock()
		return &ValidationError{Fields: errs}
	}

	f.state = Valid
	f.errors = map[string]string{}
	f.pending = true
	values := f.values
	f.mu.Unlock()

	err := action(ctx, values)

	f.mu.Lock()
	f.pending = false
	f.mu.Unlock()
	return err
}
