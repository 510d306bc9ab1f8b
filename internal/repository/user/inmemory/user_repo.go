package inmemory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"todoTracker/internal/models/user"
	repo "todoTracker/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	byID    map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
	mtx     sync.RWMutex
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		byID:    make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *UserStorage) Create(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	email := strings.ToLower(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return fmt.Errorf("%w: users_email_key", repo.ErrDuplicate)
	}

	u.CreatedAt = time.Now()
	stored := *u
	stored.Email = email
	s.byID[u.ID] = &stored
	s.byEmail[email] = u.ID
	return nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u := *s.byID[id]
	return &u, nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := *u
	return &c, nil
}
