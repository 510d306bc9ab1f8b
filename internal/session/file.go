package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNoSession = errors.New("сессия отсутствует")

// FileStore хранит сессию клиента в yaml файле с правами 0600
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultPath ~/.config/todo/session.yml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("каталог конфигурации: %w", err)
	}
	return filepath.Join(dir, "todo", "session.yml"), nil
}

func (f *FileStore) Load() (*Identity, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("чтение сессии: %w", err)
	}

	var id Identity
	if err := yaml.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("разбор сессии: %w", err)
	}
	if id.Token == "" {
		return nil, ErrNoSession
	}
	return &id, nil
}

func (f *FileStore) Save(id *Identity) error {
	data, err := yaml.Marshal(id)
	if err != nil {
		return fmt.Errorf("сериализация сессии: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("создание каталога: %w", err)
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f *FileStore) Remove() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("удаление сессии: %w", err)
	}
	return nil
}
