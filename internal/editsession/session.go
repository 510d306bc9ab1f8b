// Package editsession состояние окна добавления/редактирования задачи:
// какая задача редактируется (или никакая при создании), значения полей и
// выбранный цвет.
package editsession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"todoTracker/internal/form"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/todo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoTarget     = errors.New("задача для удаления не выбрана")
	ErrInvalidColor = errors.New("цвета нет в палитре")
)

// Mutator операции, которые вызывает окно. Реализуется todos.Controller
type Mutator interface {
	Create(ctx context.Context, t todo.Todo) (todo.Todo, error)
	UpdateFull(ctx context.Context, t todo.Todo) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// Confirmer блокирующий вопрос да/нет перед удалением
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

type Session struct {
	mu      sync.Mutex
	mutator Mutator
	form    *form.Form[form.TodoFields]
	target  *todo.Todo
	color   todo.Color
	// generation растёт при каждом открытии/закрытии, чтобы завершившееся
	// позже сохранение не сбросило уже открытое новое окно
	generation uint64
	now        func() time.Time
}

func New(mutator Mutator) *Session {
	s := &Session{mutator: mutator, now: time.Now}
	s.form = form.New(s.defaults())
	s.color = todo.DefaultColor
	return s
}

func (s *Session) defaults() form.TodoFields {
	today := todo.Today(s.now())
	return form.TodoFields{EndDate: &today}
}

// OpenCreate открывает пустое окно для новой задачи
func (s *Session) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// OpenEdit заполняет поля значениями задачи
func (s *Session) OpenEdit(t todo.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := t.Clone()
	s.target = &target
	s.generation++

	endDate := target.EndDate
	if endDate == nil {
		today := todo.Today(s.now())
		endDate = &today
	}
	s.form.Reset(form.TodoFields{
		Title:       target.Title,
		Description: target.Description,
		EndDate:     endDate,
	})

	s.color = target.Color
	if !s.color.Valid() {
		s.color = todo.DefaultColor
	}
}

func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.target = nil
	s.generation++
	s.form.Reset(s.defaults())
	s.color = todo.DefaultColor
}

// Target редактируемая задача; false - окно в режиме создания
func (s *Session) Target() (todo.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return todo.Todo{}, false
	}
	return s.target.Clone(), true
}

func (s *Session) Form() *form.Form[form.TodoFields] {
	return s.form
}

func (s *Session) Color() todo.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

func (s *Session) SetColor(c todo.Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidColor, c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = c
	return nil
}

func (s *Session) SetTitle(title string) {
	s.form.Edit(func(v *form.TodoFields) { v.Title = title })
}

func (s *Session) SetDescription(description *string) {
	s.form.Edit(func(v *form.TodoFields) { v.Description = description })
}

func (s *Session) SetEndDate(date time.Time) {
	s.form.Edit(func(v *form.TodoFields) { v.EndDate = todo.TruncateDate(&date) })
}

// Save проверяет форму и создаёт или обновляет задачу. После успеха окно
// закрывается; при ошибке валидации или хранилища остаётся как было
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	generation := s.generation
	var target *todo.Todo
	if s.target != nil {
		c := s.target.Clone()
		target = &c
	}
	color := s.color
	s.mu.Unlock()

	err := s.form.Submit(ctx, func(ctx context.Context, fields form.TodoFields) error {
		fields = fields.Normalize()

		if target == nil {
			created, err := s.mutator.Create(ctx, todo.New(fields.Title, fields.Description, fields.EndDate, color))
			if err != nil {
				return err
			}
			logger.Debug("Service: Задача создана", zap.String("todo_id", created.ID.String()))
			return nil
		}

		updated := target.Clone()
		updated.Title = fields.Title
		updated.Description = fields.Description
		updated.EndDate = todo.TruncateDate(fields.EndDate)
		updated.Color = color

		affected, err := s.mutator.UpdateFull(ctx, updated)
		if err != nil {
			return err
		}
		if affected == 0 {
			logger.Warn("Service: Задача не обновлена, строк не затронуто", zap.String("todo_id", updated.ID.String()))
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.generation == generation {
		s.resetLocked()
	}
	s.mu.Unlock()
	return nil
}

// Delete удаляет редактируемую задачу после подтверждения. Возвращает false,
// если пользователь отказался
func (s *Session) Delete(ctx context.Context, confirmer Confirmer) (bool, error) {
	target, ok := s.Target()
	if !ok {
		return false, ErrNoTarget
	}

	yes, err := confirmer.Confirm(ctx, fmt.Sprintf("Удалить задачу %q?", target.Title))
	if err != nil {
		return false, err
	}
	if !yes {
		return false, nil
	}

	if _, err := s.mutator.Delete(ctx, target.ID); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.target != nil && s.target.ID == target.ID {
		s.resetLocked()
	}
	s.mu.Unlock()
	return true, nil
}
