package todo

import "time"

// Patch частичное обновление: nil означает "поле не трогаем".
// Для description отдельный флаг, потому что nil там значимое значение
type Patch struct {
	Title          *string
	Description    *string
	SetDescription bool
	EndDate        *time.Time
	SetEndDate     bool
	Color          *Color
	Completed      *bool
}

type TodoOption func(*Patch)

func WithTitle(title string) TodoOption {
	return func(p *Patch) {
		p.Title = &title
	}
}

// WithDescription nil очищает описание
func WithDescription(description *string) TodoOption {
	return func(p *Patch) {
		p.Description = description
		p.SetDescription = true
	}
}

func WithEndDate(endDate *time.Time) TodoOption {
	return func(p *Patch) {
		p.EndDate = TruncateDate(endDate)
		p.SetEndDate = true
	}
}

func WithColor(color Color) TodoOption {
	if color == "" {
		return nil
	}
	return func(p *Patch) {
		p.Color = &color
	}
}

func WithCompleted(completed bool) TodoOption {
	return func(p *Patch) {
		p.Completed = &completed
	}
}

// FullUpdate все изменяемые поля задачи разом
func FullUpdate(t Todo) []TodoOption {
	return []TodoOption{
		WithTitle(t.Title),
		WithDescription(t.Description),
		WithEndDate(t.EndDate),
		WithColor(t.Color),
		WithCompleted(t.Completed),
	}
}

func NewPatch(options ...TodoOption) Patch {
	var p Patch
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&p)
	}
	return p
}

func (p Patch) Empty() bool {
	return p.Title == nil && !p.SetDescription && !p.SetEndDate && p.Color == nil && p.Completed == nil
}

func (p Patch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.SetDescription {
		t.Description = p.Description
	}
	if p.SetEndDate {
		t.EndDate = p.EndDate
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
