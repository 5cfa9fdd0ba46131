package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	FieldID     = "id"
	FieldStatus = "status"
	FieldTitle  = "title"

	StatusTodo = "todo"
	StatusDone = "done"
)

// Task - открытая запись: id и status всегда есть, остальные поля задает клиент
type Task map[string]any

// ID возвращает идентификатор задачи или пустую строку
func (t Task) ID() string {
	id, _ := t[FieldID].(string)
	return id
}

func (t Task) Status() string {
	status, _ := t[FieldStatus].(string)
	return status
}

func (t Task) Title() string {
	title, _ := t[FieldTitle].(string)
	return title
}

// Merge накладывает поля fields поверх задачи, id не перезаписывается
func (t Task) Merge(fields map[string]any) {
	for k, v := range fields {
		if k == FieldID {
			continue
		}
		t[k] = v
	}
}

// SubTaskSuggestion - заглушка подзадачи для /suggest-subtasks
type SubTaskSuggestion struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// DecodeTasks разбирает JSON-массив задач. Числа остаются json.Number,
// чтобы не терять точность при повторной записи.
func DecodeTasks(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tasks []Task
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("ошибка разбора списка задач: %w", err)
	}
	if dec.More() {
		return nil, errors.New("ошибка разбора списка задач: лишние данные после массива")
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// EncodeTasks сериализует коллекцию с отступом в 2 пробела и переводом строки в конце
func EncodeTasks(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации задач: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeFields разбирает JSON-объект с полями задачи
func DecodeFields(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("лишние данные после объекта")
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}
