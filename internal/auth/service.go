// Package auth регистрация, вход и выход пользователей. Результат входа -
// session.Identity с подписанным токеном; сервер принимает токен, пока его
// идентификатор есть в реестре сессий.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoTracker/internal/form"
	"todoTracker/internal/logger"
	"todoTracker/internal/models/user"
	repo "todoTracker/internal/repository"
	"todoTracker/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrEmailTaken         = errors.New("пользователь с таким email уже зарегистрирован")
	ErrSessionRevoked     = errors.New("сессия завершена")
)

type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

type Service struct {
	users    UserStore
	hasher   *PasswordHasher
	tokens   *TokenManager
	sessions session.Store
}

func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenManager, sessions session.Store) *Service {
	return &Service{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		sessions: sessions,
	}
}

// SignUp создаёт пользователя и сразу открывает для него сессию
func (s *Service) SignUp(ctx context.Context, fields form.SignUpFields) (*session.Identity, error) {
	if err := form.Check(fields); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(fields.Password)
	if err != nil {
		return nil, fmt.Errorf("хеширование пароля: %w", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(fields.Name),
		Email:        strings.ToLower(strings.TrimSpace(fields.Email)),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	logger.Info("Service: Пользователь зарегистрирован", zap.String("user_id", u.ID.String()))
	return s.open(ctx, u)
}

func (s *Service) SignIn(ctx context.Context, fields form.SignInFields) (*session.Identity, error) {
	if err := form.Check(fields); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(fields.Email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("поиск пользователя: %w", err)
	}

	ok, err := s.hasher.Verify(fields.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("проверка пароля: %w", err)
	}
	if !ok {
		logger.Info("Service: Неудачная попытка входа", zap.String("user_id", u.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return s.open(ctx, u)
}

// SignOut удаляет сессию токена. Просроченный токен выходом не мешает
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return nil
		}
		return err
	}

	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("удаление сессии: %w", err)
	}
	logger.Info("Service: Выход из системы", zap.String("user_id", claims.UserID))
	return nil
}

// Authenticate проверяет подпись, срок и наличие сессии в реестре
func (s *Service) Authenticate(ctx context.Context, token string) (*session.Identity, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	userID, ok, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("проверка сессии: %w", err)
	}
	if !ok || userID.String() != claims.UserID {
		return nil, ErrSessionRevoked
	}

	return &session.Identity{
		UserID:    userID,
		Email:     claims.Email,
		Name:      claims.Name,
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) open(ctx context.Context, u *user.User) (*session.Identity, error) {
	token, claims, err := s.tokens.Issue(u.ID, u.Email, u.Name)
	if err != nil {
		return nil, fmt.Errorf("выпуск токена: %w", err)
	}

	if err := s.sessions.Put(ctx, claims.ID, u.ID, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("сохранение сессии: %w", err)
	}

	return &session.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
