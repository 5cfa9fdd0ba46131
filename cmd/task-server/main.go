package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/TashaD16/TaskManager/internal/config"
	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/manager"
	"github.com/TashaD16/TaskManager/internal/server"
	"github.com/TashaD16/TaskManager/internal/storage"
)

func main() {
	configPath := flag.String("config", os.Getenv("TASKS_CONFIG"), "Path to TOML config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, err, "Ошибка загрузки конфигурации")
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel())

	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.StoragePath())
	if err != nil {
		logger.Error(ctx, err, "Ошибка инициализации хранилища")
		os.Exit(1)
	}
	defer store.Close()

	logger.Info(ctx, "Хранилище готово", "driver", cfg.Storage.Driver, "path", cfg.StoragePath())

	tm := manager.NewTaskManager(store)
	router := server.NewRouter(tm, server.Options{CORSOrigins: cfg.Server.CORSOrigins})

	srv := server.New(cfg.Address(), router)
	if err := srv.Run(ctx, cfg.Server.ShutdownTimeout); err != nil {
		logger.Error(ctx, err, "Сервер завершился с ошибкой")
		store.Close()
		os.Exit(1)
	}
}
