package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/TashaD16/TaskManager/internal/models"
)

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Storage хранит всю коллекцию задач целиком: Load читает документ,
// Save перезаписывает его полностью
type Storage interface {
	Load(ctx context.Context) ([]models.Task, error)
	Save(ctx context.Context, tasks []models.Task) error

	// Закрытие соединения
	Close() error
}

// Open создает хранилище по имени драйвера. path - файл JSON или база SQLite.
func Open(ctx context.Context, driver, path string) (Storage, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStorage(path), nil
	case DriverSQLite:
		return NewSQLiteStorage(ctx, path)
	case DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища: %q", driver)
	}
}

// In-memory хранилище: держит сериализованный документ, как файл
type MemoryStorage struct {
	mu   sync.Mutex
	data []byte
}

var _ Storage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return models.DecodeTasks(m.data)
}

func (m *MemoryStorage) Save(ctx context.Context, tasks []models.Task) error {
	data, err := models.EncodeTasks(tasks)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = data
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
