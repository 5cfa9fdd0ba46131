package manager

import (
	"context"
	"fmt"

	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/models"
)

// SuggestSubTasks пока заглушка: возвращает две подзадачи с названием исходной.
// Задача по id не ищется и ничего не сохраняется.
// TODO: подключить генерацию подзадач через Gemini API.
func (tm *TaskManager) SuggestSubTasks(ctx context.Context, taskID, title string) []models.SubTaskSuggestion {
	operationCount.WithLabelValues("suggest", "success").Inc()
	logger.Info(ctx, "Запрос подзадач", "task_id", taskID, "title", title)

	suggestions := make([]models.SubTaskSuggestion, 0, 2)
	for i := 1; i <= 2; i++ {
		suggestions = append(suggestions, models.SubTaskSuggestion{
			ID:     fmt.Sprintf("sub%d", i),
			Title:  fmt.Sprintf("Sub-task %d for \"%s\"", i, title),
			Status: models.StatusTodo,
		})
	}
	return suggestions
}
