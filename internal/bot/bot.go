package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/manager"
	"github.com/TashaD16/TaskManager/internal/models"
)

const helpText = `🤖 *Помощь по командам*

*/start* - Начать работу с ботом
*/add [задача]* - Добавить новую задачу
*/list* - Показать все задачи
*/show [id]* - Показать задачу целиком
*/done [id]* - Отметить задачу выполненной
*/delete [id]* - Удалить задачу
*/help* - Показать эту справку

Обычный текст тоже добавляется как задача.
Слова с # становятся тегами: /add Купить молоко #покупки`

// sender - часть tgbotapi.BotAPI, нужная боту
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api         sender
	taskManager *manager.TaskManager
}

func New(api sender, tm *manager.TaskManager) *Bot {
	return &Bot{api: api, taskManager: tm}
}

// Run читает обновления до отмены ctx
func Run(ctx context.Context, api *tgbotapi.BotAPI, tm *manager.TaskManager) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("ошибка получения updates: %w", err)
	}
	defer api.StopReceivingUpdates()

	b := New(api, tm)
	logger.Info(ctx, "Бот запущен и слушает сообщения", "bot", api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user := ""
	if msg.From != nil {
		user = msg.From.UserName
	}
	logger.Info(ctx, "Получено сообщение", "user", user, "text", msg.Text)

	reply := b.Handle(ctx, msg.Text)
	if reply == "" {
		return
	}
	b.sendMessage(ctx, msg.Chat.ID, reply)
}

// Handle разбирает текст сообщения и возвращает ответ
func (b *Bot) Handle(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if !strings.HasPrefix(text, "/") {
		return b.addTask(ctx, text)
	}

	command, args, _ := strings.Cut(text, " ")
	// /list@my_bot в группах
	command, _, _ = strings.Cut(strings.TrimPrefix(command, "/"), "@")
	args = strings.TrimSpace(args)

	switch command {
	case "start", "help":
		return helpText
	case "add":
		if args == "" {
			return "Укажите задачу после команды: /add Купить молоко"
		}
		return b.addTask(ctx, args)
	case "list":
		return b.listTasks(ctx)
	case "show":
		return b.showTask(ctx, args)
	case "done":
		return b.completeTask(ctx, args)
	case "delete":
		return b.deleteTask(ctx, args)
	default:
		logger.Warn(ctx, "Неизвестная команда", "command", command)
		return "Неизвестная команда. Используйте /help для списка команд."
	}
}

// parseTags вынимает слова с # в теги
func parseTags(text string) (string, []string) {
	var tags []string
	var words []string
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "#") && len(word) > 1 {
			tags = append(tags, strings.TrimPrefix(word, "#"))
			continue
		}
		words = append(words, word)
	}
	return strings.Join(words, " "), tags
}

func (b *Bot) addTask(ctx context.Context, text string) string {
	title, tags := parseTags(text)
	if title == "" {
		return "❌ Ошибка: пустое название задачи"
	}

	fields := map[string]any{models.FieldTitle: title}
	if len(tags) > 0 {
		fields["tags"] = tags
	}

	task, err := b.taskManager.Create(ctx, fields)
	if err != nil {
		logger.Error(ctx, err, "Ошибка добавления задачи из бота")
		return "❌ Ошибка: не удалось сохранить задачу"
	}

	response := fmt.Sprintf("✅ *Задача добавлена!*\n\nID: `%s`\nЗадача: %s", task.ID(), title)
	if len(tags) > 0 {
		response += fmt.Sprintf("\nТеги: %s", strings.Join(tags, ", "))
	}
	return response
}

func (b *Bot) listTasks(ctx context.Context) string {
	tasks, err := b.taskManager.List(ctx)
	if err != nil {
		logger.Error(ctx, err, "Ошибка чтения задач из бота")
		return "❌ Ошибка: не удалось прочитать задачи"
	}
	if len(tasks) == 0 {
		return "📭 Список задач пуст"
	}

	var response strings.Builder
	response.WriteString("📋 *Ваши задачи:*\n\n")
	for _, task := range tasks {
		status := "🟢"
		if task.Status() == models.StatusDone {
			status = "✅"
		}
		title := task.Title()
		if title == "" {
			title = "(без названия)"
		}
		fmt.Fprintf(&response, "%s `%s`: %s\n", status, task.ID(), title)
	}
	return response.String()
}

// showTask выводит все поля задачи, id и status первыми
func (b *Bot) showTask(ctx context.Context, id string) string {
	if id == "" {
		return "Укажите id задачи: /show <id>"
	}

	task, err := b.taskManager.Get(ctx, id)
	if err != nil {
		return b.errorReply(ctx, err)
	}

	var response strings.Builder
	fmt.Fprintf(&response, "📌 *Задача* `%s`\nСтатус: %s\n", task.ID(), task.Status())

	keys := make([]string, 0, len(task))
	for k := range task {
		if k != models.FieldID && k != models.FieldStatus {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&response, "%s: %v\n", k, task[k])
	}
	return response.String()
}

func (b *Bot) completeTask(ctx context.Context, id string) string {
	if id == "" {
		return "Укажите id задачи: /done <id>"
	}

	_, err := b.taskManager.Update(ctx, id, map[string]any{models.FieldStatus: models.StatusDone})
	if err != nil {
		return b.errorReply(ctx, err)
	}
	return fmt.Sprintf("✅ Задача `%s` отмечена выполненной!", id)
}

func (b *Bot) deleteTask(ctx context.Context, id string) string {
	if id == "" {
		return "Укажите id задачи: /delete <id>"
	}

	if err := b.taskManager.Delete(ctx, id); err != nil {
		return b.errorReply(ctx, err)
	}
	return fmt.Sprintf("🗑️ Задача `%s` удалена!", id)
}

func (b *Bot) errorReply(ctx context.Context, err error) string {
	if errors.Is(err, manager.ErrNotFound) {
		return "❌ Задача не найдена"
	}
	logger.Error(ctx, err, "Ошибка операции из бота")
	return "❌ Ошибка: попробуйте позже"
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"

	if _, err := b.api.Send(msg); err != nil {
		logger.Error(ctx, err, "Ошибка отправки сообщения", "chat_id", chatID)
	}
}
