package form

import (
	"strings"
	"time"
)

type TodoFields struct {
	Title       string     `json:"title" validate:"required,min=2,max=35"`
	Description *string    `json:"description" validate:"omitempty,max=50"`
	EndDate     *time.Time `json:"end_date" validate:"required"`
}

// Normalize пустое описание превращается в отсутствующее
func (f TodoFields) Normalize() TodoFields {
	if f.Description != nil && strings.TrimSpace(*f.Description) == "" {
		f.Description = nil
	}
	return f
}

type SignInFields struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=30"`
}

type SignUpFields struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

// TodoPatchFields правила для частичного обновления: проверяются только переданные поля
type TodoPatchFields struct {
	Title       *string `json:"title" validate:"omitnil,min=2,max=35"`
	Description *string `json:"description" validate:"omitempty,max=50"`
}
