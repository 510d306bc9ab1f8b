package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"todoTracker/internal/models/todo"
	"todoTracker/internal/querycache"
	"todoTracker/internal/session"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	EndDate     *string    `json:"end_date,omitempty"`
	Color       string     `json:"color,omitempty"`
}

// UpdateTodoRequest частичное обновление. Для description и end_date важно
// отличать отсутствие ключа от null, поэтому флаги Set* выставляет UnmarshalJSON
type UpdateTodoRequest struct {
	Title          *string
	Description    *string
	SetDescription bool
	EndDate        *string
	SetEndDate     bool
	Color          *string
	Completed      *bool
}

func (u *UpdateTodoRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		var err error
		switch key {
		case "title":
			err = json.Unmarshal(value, &u.Title)
		case "description":
			u.SetDescription = true
			err = json.Unmarshal(value, &u.Description)
		case "end_date":
			u.SetEndDate = true
			err = json.Unmarshal(value, &u.EndDate)
		case "color":
			err = json.Unmarshal(value, &u.Color)
		case "completed":
			err = json.Unmarshal(value, &u.Completed)
		default:
			return fmt.Errorf("неизвестное поле %q", key)
		}
		if err != nil {
			return fmt.Errorf("поле %s: %w", key, err)
		}
	}
	return nil
}

func (u UpdateTodoRequest) MarshalJSON() ([]byte, error) {
	raw := map[string]any{}
	if u.Title != nil {
		raw["title"] = *u.Title
	}
	if u.SetDescription {
		raw["description"] = u.Description
	}
	if u.SetEndDate {
		raw["end_date"] = u.EndDate
	}
	if u.Color != nil {
		raw["color"] = *u.Color
	}
	if u.Completed != nil {
		raw["completed"] = *u.Completed
	}
	return json.Marshal(raw)
}

// FromPatch обратное преобразование, используется HTTP-клиентом
func FromPatch(p todo.Patch) UpdateTodoRequest {
	req := UpdateTodoRequest{
		Title:          p.Title,
		Description:    p.Description,
		SetDescription: p.SetDescription,
		SetEndDate:     p.SetEndDate,
		Completed:      p.Completed,
	}
	if p.SetEndDate && p.EndDate != nil {
		s := todo.FormatDate(p.EndDate)
		req.EndDate = &s
	}
	if p.Color != nil {
		c := string(*p.Color)
		req.Color = &c
	}
	return req
}

type ToggleRequest struct {
	Completed bool `json:"completed"`
}

type AffectedResponse struct {
	Affected int64 `json:"affected"`
}

type TodoResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EndDate     *string   `json:"end_date"`
	Color       string    `json:"color"`
	Completed   bool      `json:"completed"`
	Owner       uuid.UUID `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromTodo(t todo.Todo) TodoResponse {
	resp := TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Color:       string(t.Color),
		Completed:   t.Completed,
		Owner:       t.Owner,
		CreatedAt:   t.CreatedAt,
	}
	if t.EndDate != nil {
		s := todo.FormatDate(t.EndDate)
		resp.EndDate = &s
	}
	return resp
}

func FromTodoList(todos []todo.Todo) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t)
	}
	return result
}

func (r TodoResponse) ToTodo() (todo.Todo, error) {
	t := todo.Todo{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Color:       todo.Color(r.Color),
		Completed:   r.Completed,
		Owner:       r.Owner,
		CreatedAt:   r.CreatedAt,
	}
	if r.EndDate != nil {
		d, err := todo.ParseDate(*r.EndDate)
		if err != nil {
			return todo.Todo{}, fmt.Errorf("end_date: %w", err)
		}
		t.EndDate = &d
	}
	return t, nil
}

type BoardResponse struct {
	Pending   []TodoResponse `json:"pending"`
	Completed []TodoResponse `json:"completed"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name,omitempty"`
}

type SessionResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

func FromIdentity(id *session.Identity) SessionResponse {
	return SessionResponse{
		AccessToken: id.Token,
		TokenType:   "Bearer",
		ExpiresAt:   id.ExpiresAt,
		User: UserResponse{
			ID:    id.UserID,
			Email: id.Email,
			Name:  id.Name,
		},
	}
}

// ToIdentity клиентская сторона: ответ сервера превращается в сессию.
// TokenID клиенту не нужен, сервер найдёт его по токену
func (s SessionResponse) ToIdentity() *session.Identity {
	return &session.Identity{
		UserID:    s.User.ID,
		Email:     s.User.Email,
		Name:      s.User.Name,
		Token:     s.AccessToken,
		ExpiresAt: s.ExpiresAt,
	}
}

// ErrorResponse тело ошибки
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type HealthResponse struct {
	Status string           `json:"status"`
	Cache  querycache.Stats `json:"cache"`
}
