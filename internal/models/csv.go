package models

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// WriteCSV выгружает задачи в CSV. Колонки: id, status, затем остальные
// ключи всех задач по алфавиту. Вложенные значения пишутся как JSON.
func WriteCSV(w io.Writer, tasks []Task) error {
	header := csvColumns(tasks)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, task := range tasks {
		row := make([]string, len(header))
		for i, key := range header {
			v, ok := task[key]
			if !ok || v == nil {
				continue
			}
			cell, err := csvCell(v)
			if err != nil {
				return fmt.Errorf("поле %q задачи %s: %w", key, task.ID(), err)
			}
			row[i] = cell
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvColumns(tasks []Task) []string {
	seen := map[string]bool{FieldID: true, FieldStatus: true}
	var extra []string
	for _, task := range tasks {
		for k := range task {
			if !seen[k] {
				seen[k] = true
				extra = append(extra, k)
			}
		}
	}
	sort.Strings(extra)
	return append([]string{FieldID, FieldStatus}, extra...)
}

func csvCell(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case bool, float64, int, int64:
		return fmt.Sprint(val), nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
