package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/models"

	_ "modernc.org/sqlite"
)

// Имя документа с коллекцией задач
const tasksDocument = "tasks"

// SQLiteStorage хранит коллекцию одной строкой таблицы documents
type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = (*SQLiteStorage)(nil)

func NewSQLiteStorage(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}
	// один писатель, иначе ":memory:" разъезжается по соединениям
	db.SetMaxOpenConns(1)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info(ctx, "SQLite база данных инициализирована", "path", dbPath)
	return &SQLiteStorage{db: db}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	createDocumentsTable := `
	CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	)`

	if _, err := db.ExecContext(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("ошибка создания таблицы documents: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) Load(ctx context.Context) ([]models.Task, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE name = ?", tasksDocument,
	).Scan(&body)
	if err != nil {
		if err == sql.ErrNoRows {
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("ошибка чтения задач из БД: %w", err)
	}

	return models.DecodeTasks([]byte(body))
}

func (s *SQLiteStorage) Save(ctx context.Context, tasks []models.Task) error {
	data, err := models.EncodeTasks(tasks)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO documents (name, body, version, updated_at)
	VALUES (?, ?, 1, ?)
	ON CONFLICT(name) DO UPDATE SET
		body = excluded.body,
		version = documents.version + 1,
		updated_at = excluded.updated_at`

	if _, err := tx.ExecContext(ctx, query, tasksDocument, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("ошибка записи задач в БД: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// Version возвращает номер версии документа (0, если задач еще не сохраняли)
func (s *SQLiteStorage) Version(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		"SELECT version FROM documents WHERE name = ?", tasksDocument,
	).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return version, err
}
