package session

import "context"

type contextKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}

// ContextAccessor берёт сессию из контекста запроса, её кладёт middleware аутентификации
type ContextAccessor struct{}

func (ContextAccessor) Current(ctx context.Context) (*Identity, bool) {
	return FromContext(ctx)
}
