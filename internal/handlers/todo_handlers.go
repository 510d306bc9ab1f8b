package handlers

import (
	"net/http"
	"time"

	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"

	"go.uber.org/zap"
)

type TodoHandler struct {
	todos  TodoController
	health HealthChecker
}

func NewTodoHandler(todos TodoController, health HealthChecker) *TodoHandler {
	return &TodoHandler{todos: todos, health: health}
}

func (h *TodoHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.todos.Pending(r.Context())
	if err != nil {
		handleError(w, r, err, "list_pending")
		return
	}

	logger.Debug("HTTP_OUT: Невыполненные задачи получены",
		zap.Int("count", len(list)),
		zap.Duration("ms", time.Since(start)))
	responseWithBody(w, http.StatusOK, dto.FromTodoList(list))
}

func (h *TodoHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.todos.Completed(r.Context())
	if err != nil {
		handleError(w, r, err, "list_completed")
		return
	}

	logger.Debug("HTTP_OUT: Выполненные задачи получены",
		zap.Int("count", len(list)),
		zap.Duration("ms", time.Since(start)))
	responseWithBody(w, http.StatusOK, dto.FromTodoList(list))
}

func (h *TodoHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.todos.Board(r.Context())
	if err != nil {
		handleError(w, r, err, "board")
		return
	}

	responseWithBody(w, http.StatusOK, dto.BoardResponse{
		Pending:   dto.FromTodoList(board.Pending),
		Completed: dto.FromTodoList(board.Completed),
	})
}

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateTodoRequest
	if bErr := decodeJSON(w, r, &request); bErr != nil {
		handleError(w, r, bErr, "create_todo")
		return
	}

	t, err := todoFromRequest(request)
	if err != nil {
		handleError(w, r, err, "create_todo")
		return
	}

	created, err := h.todos.Create(r.Context(), t)
	if err != nil {
		handleError(w, r, err, "create_todo")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("todo_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))
	responseWithBody(w, http.StatusCreated, dto.FromTodo(created))
}

func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, bErr := parseID(r)
	if bErr != nil {
		handleError(w, r, bErr, "update_todo")
		return
	}

	var request dto.UpdateTodoRequest
	if bErr := decodeJSON(w, r, &request); bErr != nil {
		handleError(w, r, bErr, "update_todo")
		return
	}

	opts, err := optionsFromRequest(request)
	if err != nil {
		handleError(w, r, err, "update_todo")
		return
	}

	affected, err := h.todos.Update(r.Context(), id, opts...)
	if err != nil {
		handleError(w, r, err, "update_todo")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("todo_id", id.String()),
		zap.Int64("affected", affected),
		zap.Duration("ms", time.Since(start)))
	responseWithBody(w, http.StatusOK, dto.AffectedResponse{Affected: affected})
}

func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	id, bErr := parseID(r)
	if bErr != nil {
		handleError(w, r, bErr, "toggle_todo")
		return
	}

	var request dto.ToggleRequest
	if bErr := decodeJSON(w, r, &request); bErr != nil {
		handleError(w, r, bErr, "toggle_todo")
		return
	}

	affected, err := h.todos.ToggleCompleted(r.Context(), id, request.Completed)
	if err != nil {
		handleError(w, r, err, "toggle_todo")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи изменён",
		zap.String("todo_id", id.String()),
		zap.Bool("completed", request.Completed),
		zap.Int64("affected", affected))
	responseWithBody(w, http.StatusOK, dto.AffectedResponse{Affected: affected})
}

// DeleteTodo удаление только с явным подтверждением ?confirm=yes
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, bErr := parseID(r)
	if bErr != nil {
		handleError(w, r, bErr, "delete_todo")
		return
	}

	if r.URL.Query().Get("confirm") != "yes" {
		handleError(w, r, NewBusinessError("CONFIRMATION_REQUIRED",
			"Удаление нужно подтвердить параметром confirm=yes",
			ToDetail("id", id.String())), "delete_todo")
		return
	}

	affected, err := h.todos.Delete(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "delete_todo")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("todo_id", id.String()),
		zap.Int64("affected", affected))
	responseWithBody(w, http.StatusOK, dto.AffectedResponse{Affected: affected})
}

func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if h.health != nil {
		if err := h.health.HealthCheck(r.Context()); err != nil {
			logger.Error("HTTP: Хранилище недоступно", err)
			responseWithError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "хранилище недоступно")
			return
		}
	}
	responseWithBody(w, http.StatusOK, dto.HealthResponse{Status: "ok", Cache: h.todos.CacheStats()})
}
