package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/TashaD16/TaskManager/internal/bot"
	"github.com/TashaD16/TaskManager/internal/config"
	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/manager"
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
	logger.Info(ctx, "Запуск Telegram-бота...")

	if cfg.Telegram.Token == "" {
		logger.Error(ctx, nil, "Не задан токен бота (TELEGRAM_BOT_TOKEN или [telegram] token)")
		os.Exit(1)
	}

	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.StoragePath())
	if err != nil {
		logger.Error(ctx, err, "Ошибка инициализации хранилища")
		os.Exit(1)
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Error(ctx, err, "Ошибка создания бота")
		store.Close()
		os.Exit(1)
	}
	api.Debug = cfg.Telegram.Debug
	logger.Info(ctx, "Авторизован", "bot", api.Self.UserName)

	if err := bot.Run(ctx, api, manager.NewTaskManager(store)); err != nil {
		logger.Error(ctx, err, "Бот остановлен с ошибкой")
		store.Close()
		os.Exit(1)
	}
	logger.Info(ctx, "Бот остановлен")
}
