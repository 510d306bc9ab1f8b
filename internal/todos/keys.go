package todos

import "github.com/google/uuid"

const (
	pendingQuery   = "pending-todos"
	completedQuery = "completed-todos"
)

// PendingKey ключ кеша списка невыполненных задач владельца
func PendingKey(owner uuid.UUID) string {
	return pendingQuery + ":" + owner.String()
}

func CompletedKey(owner uuid.UUID) string {
	return completedQuery + ":" + owner.String()
}

// Keys оба ключа владельца; любая успешная мутация сбрасывает их вместе
func Keys(owner uuid.UUID) []string {
	return []string{PendingKey(owner), CompletedKey(owner)}
}
