package todo

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout формат end_date: только календарная дата, без времени
const DateLayout = "2006-01-02"

type Todo struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	EndDate     *time.Time `json:"end_date,omitempty" db:"end_date"`
	Color       Color      `json:"color" db:"color"`
	Completed   bool       `json:"completed" db:"completed"`
	Owner       uuid.UUID  `json:"owner" db:"owner"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// New собирает новую задачу: id генерируется на клиенте до записи,
// владелец не задаётся - его подставит репозиторий из сессии
func New(title string, description *string, endDate *time.Time, color Color) Todo {
	if color == "" {
		color = DefaultColor
	}
	return Todo{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		EndDate:     TruncateDate(endDate),
		Color:       color,
		Completed:   false,
	}
}

// TruncateDate отбрасывает время суток, оставляя дату в UTC
func TruncateDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &day
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// Today текущая дата в виде полуночи UTC
func Today(now time.Time) time.Time {
	return *TruncateDate(&now)
}

// Clone глубокая копия, чтобы хранилища не делили указатели с вызывающим
func (t Todo) Clone() Todo {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.EndDate != nil {
		e := *t.EndDate
		c.EndDate = &e
	}
	return c
}
