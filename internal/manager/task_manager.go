package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/models"
	"github.com/TashaD16/TaskManager/internal/storage"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrNotFound - задачи с таким id нет в коллекции
var ErrNotFound = errors.New("task not found")

var (
	operationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmanager_operations_total",
			Help: "Total number of task store operations",
		},
		[]string{"operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskmanager_operation_duration_seconds",
			Help:    "Duration of task store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	tasksTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskmanager_tasks",
			Help: "Number of tasks in the collection after the last operation",
		},
	)
)

// TaskManager выполняет операции над коллекцией задач. Каждая операция
// читает коллекцию из хранилища целиком и, если меняет ее, записывает обратно.
// Цикл чтение-изменение-запись выполняется под мьютексом.
type TaskManager struct {
	mu      sync.Mutex
	storage storage.Storage
	newID   func() string
}

func NewTaskManager(s storage.Storage) *TaskManager {
	return &TaskManager{
		storage: s,
		newID:   uuid.NewString,
	}
}

// observe пишет метрики операции; вызывается через defer
func observe(operation string, start time.Time, err *error) {
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	status := "success"
	switch {
	case *err == nil:
	case errors.Is(*err, ErrNotFound):
		status = "not_found"
	default:
		status = "error"
	}
	operationCount.WithLabelValues(operation, status).Inc()
}

func (tm *TaskManager) load(ctx context.Context) ([]models.Task, error) {
	tasks, err := tm.storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки задач: %w", err)
	}
	return tasks, nil
}

func (tm *TaskManager) save(ctx context.Context, tasks []models.Task) error {
	if err := tm.storage.Save(ctx, tasks); err != nil {
		return fmt.Errorf("ошибка сохранения задач: %w", err)
	}
	tasksTotal.Set(float64(len(tasks)))
	return nil
}

// List возвращает все задачи в порядке хранения
func (tm *TaskManager) List(ctx context.Context) (tasks []models.Task, err error) {
	defer observe("list", time.Now(), &err)

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tasks, err = tm.load(ctx)
	if err != nil {
		return nil, err
	}
	tasksTotal.Set(float64(len(tasks)))
	return tasks, nil
}

// Get возвращает одну задачу по id
func (tm *TaskManager) Get(ctx context.Context, id string) (task models.Task, err error) {
	defer observe("get", time.Now(), &err)

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tasks, err := tm.load(ctx)
	if err != nil {
		return nil, err
	}
	if i := indexOf(tasks, id); i >= 0 {
		return tasks[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create добавляет задачу. id назначает хранилище, status всегда "todo":
// переданные клиентом id и status игнорируются.
func (tm *TaskManager) Create(ctx context.Context, fields map[string]any) (task models.Task, err error) {
	defer observe("create", time.Now(), &err)

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tasks, err := tm.load(ctx)
	if err != nil {
		return nil, err
	}

	task = make(models.Task, len(fields)+2)
	task.Merge(fields)
	task[models.FieldID] = tm.uniqueID(tasks)
	task[models.FieldStatus] = models.StatusTodo

	tasks = append(tasks, task)
	if err := tm.save(ctx, tasks); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "Задача создана", "id", task.ID())
	return task, nil
}

// Update накладывает fields поверх существующей задачи
func (tm *TaskManager) Update(ctx context.Context, id string, fields map[string]any) (task models.Task, err error) {
	defer observe("update", time.Now(), &err)

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tasks, err := tm.load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(tasks, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	tasks[i].Merge(fields)

	if err := tm.save(ctx, tasks); err != nil {
		return nil, err
	}

	logger.Debug(ctx, "Задача обновлена", "id", id)
	return tasks[i], nil
}

// Delete удаляет задачу по id
func (tm *TaskManager) Delete(ctx context.Context, id string) (err error) {
	defer observe("delete", time.Now(), &err)

	tm.mu.Lock()
	defer tm.mu.Unlock()

	tasks, err := tm.load(ctx)
	if err != nil {
		return err
	}

	kept := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID() != id {
			kept = append(kept, task)
		}
	}
	if len(kept) == len(tasks) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tm.save(ctx, kept); err != nil {
		return err
	}

	logger.Debug(ctx, "Задача удалена", "id", id)
	return nil
}

func indexOf(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID() == id {
			return i
		}
	}
	return -1
}

// uniqueID генерирует id, которого еще нет в коллекции
func (tm *TaskManager) uniqueID(tasks []models.Task) string {
	for {
		id := tm.newID()
		if id != "" && indexOf(tasks, id) < 0 {
			return id
		}
	}
}
