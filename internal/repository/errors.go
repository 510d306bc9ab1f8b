package repository

import "errors"

var (
	ErrNotFound   = errors.New("не найдено")
	ErrDuplicate  = errors.New("запись уже существует")
	ErrConstraint = errors.New("нарушение ограничений хранилища")
)
