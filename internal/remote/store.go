package remote

import (
	"context"
	"fmt"
	"net/http"

	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/models/todo"

	"github.com/google/uuid"
)

// Insert owner в запрос не передаётся: сервер берёт его из токена
func (c *Client) Insert(ctx context.Context, t *todo.Todo) error {
	req := dto.CreateTodoRequest{
		ID:          &t.ID,
		Title:       t.Title,
		Description: t.Description,
		Color:       string(t.Color),
	}
	if t.EndDate != nil {
		s := todo.FormatDate(t.EndDate)
		req.EndDate = &s
	}

	var resp dto.TodoResponse
	if err := c.do(ctx, http.MethodPost, "/todos", req, &resp, true); err != nil {
		return err
	}
	t.Owner = resp.Owner
	t.CreatedAt = resp.CreatedAt
	return nil
}

// SelectByCompleted сервер сам ограничивает выборку владельцем токена
func (c *Client) SelectByCompleted(ctx context.Context, owner uuid.UUID, completed bool) ([]todo.Todo, error) {
	path := "/todos/pending"
	if completed {
		path = "/todos/completed"
	}

	var resp []dto.TodoResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		return nil, err
	}

	result := make([]todo.Todo, 0, len(resp))
	for _, r := range resp {
		t, err := r.ToTodo()
		if err != nil {
			return nil, fmt.Errorf("задача %s: %w", r.ID, err)
		}
		result = append(result, t)
	}
	return result, nil
}

func (c *Client) UpdateScoped(ctx context.Context, id, owner uuid.UUID, patch todo.Patch) (int64, error) {
	var resp dto.AffectedResponse
	if err := c.do(ctx, http.MethodPut, "/todos/"+id.String(), dto.FromPatch(patch), &resp, true); err != nil {
		return 0, err
	}
	return resp.Affected, nil
}

// DeleteScoped подтверждение уже получено на клиенте
func (c *Client) DeleteScoped(ctx context.Context, id, owner uuid.UUID) (int64, error) {
	var resp dto.AffectedResponse
	if err := c.do(ctx, http.MethodDelete, "/todos/"+id.String()+"?confirm=yes", nil, &resp, true); err != nil {
		return 0, err
	}
	return resp.Affected, nil
}
