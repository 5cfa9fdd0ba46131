package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/storage"
)

func main() {
	fromDriver := flag.String("from-driver", storage.DriverFile, "Source storage driver (file|sqlite)")
	fromPath := flag.String("from", "tasks.json", "Source path")
	toDriver := flag.String("to-driver", storage.DriverSQLite, "Target storage driver (file|sqlite)")
	toPath := flag.String("to", "data/tasks.db", "Target path")
	force := flag.Bool("force", false, "Overwrite a non-empty target")
	flag.Parse()

	ctx := context.Background()
	if err := migrate(ctx, *fromDriver, *fromPath, *toDriver, *toPath, *force); err != nil {
		logger.Error(ctx, err, "❌ Миграция не выполнена")
		os.Exit(1)
	}
}

// migrate копирует коллекцию задач из одного хранилища в другое
func migrate(ctx context.Context, fromDriver, fromPath, toDriver, toPath string, force bool) error {
	if fromDriver == toDriver && fromPath == toPath {
		return fmt.Errorf("источник и приемник совпадают: %s %s", fromDriver, fromPath)
	}

	src, err := storage.Open(ctx, fromDriver, fromPath)
	if err != nil {
		return fmt.Errorf("источник: %w", err)
	}
	defer src.Close()

	dst, err := storage.Open(ctx, toDriver, toPath)
	if err != nil {
		return fmt.Errorf("приемник: %w", err)
	}
	defer dst.Close()

	tasks, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("чтение источника: %w", err)
	}

	existing, err := dst.Load(ctx)
	if err != nil {
		return fmt.Errorf("чтение приемника: %w", err)
	}
	if len(existing) > 0 && !force {
		return fmt.Errorf("в приемнике уже %d задач, используйте --force", len(existing))
	}

	if err := dst.Save(ctx, tasks); err != nil {
		return fmt.Errorf("запись приемника: %w", err)
	}

	logger.Info(ctx, "✅ Миграция завершена", "tasks", len(tasks), "from", fromPath, "to", toPath)
	if s, ok := dst.(*storage.SQLiteStorage); ok {
		if v, err := s.Version(ctx); err == nil {
			logger.Info(ctx, "Версия документа в БД", "version", v)
		}
	}
	return nil
}
