package handlers

import (
	"time"

	"todoTracker/internal/form"
	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/todo"
)

// todoFromRequest собирает новую задачу; ошибки всех полей собираются вместе
func todoFromRequest(req dto.CreateTodoRequest) (todo.Todo, error) {
	errs := form.Validate(form.TodoPatchFields{Title: &req.Title, Description: req.Description})

	endDate, ok := parseDate(req.EndDate, errs)
	color, err := todo.ParseColor(req.Color)
	if err != nil {
		errs["color"] = err.Error()
	}
	if len(errs) > 0 || !ok {
		return todo.Todo{}, &form.ValidationError{Fields: errs}
	}

	t := todo.New(req.Title, req.Description, endDate, color)
	if req.ID != nil {
		t.ID = *req.ID
	}
	return t, nil
}

func optionsFromRequest(req dto.UpdateTodoRequest) ([]todo.TodoOption, error) {
	errs := form.Validate(form.TodoPatchFields{Title: req.Title, Description: req.Description})

	var opts []todo.TodoOption
	if req.Title != nil {
		opts = append(opts, todo.WithTitle(*req.Title))
	}
	if req.SetDescription {
		opts = append(opts, todo.WithDescription(req.Description))
	}
	if req.SetEndDate {
		endDate, ok := parseDate(req.EndDate, errs)
		if ok {
			opts = append(opts, todo.WithEndDate(endDate))
		}
	}
	if req.Color != nil {
		color, err := todo.ParseColor(*req.Color)
		if err != nil {
			errs["color"] = err.Error()
		} else {
			opts = append(opts, todo.WithColor(color))
		}
	}
	if req.Completed != nil {
		opts = append(opts, todo.WithCompleted(*req.Completed))
	}

	if len(errs) > 0 {
		return nil, &form.ValidationError{Fields: errs}
	}
	if len(opts) == 0 {
		return nil, NewBusinessError("BAD_REQUEST", "Нет полей для обновления")
	}
	return opts, nil
}

// parseDate nil и пустая строка означают "без даты"
func parseDate(s *string, errs map[string]string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	d, err := todo.ParseDate(*s)
	if err != nil {
		errs["end_date"] = "Дата должна быть в формате ГГГГ-ММ-ДД"
		return nil, false
	}
	return &d, true
}
