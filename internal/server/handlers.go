package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/TashaD16/TaskManager/internal/logger"
	"github.com/TashaD16/TaskManager/internal/manager"
	"github.com/TashaD16/TaskManager/internal/models"
)

const maxBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error string `json:"error"`
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func listTasksHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tasks, err := tm.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, tasks)
	}
}

func createTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeObject(w, r, taskCreate)
		if !ok {
			return
		}

		task, err := tm.Create(r.Context(), fields)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, task)
	}
}

func updateTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeObject(w, r, taskUpdate)
		if !ok {
			return
		}

		task, err := tm.Update(r.Context(), chi.URLParam(r, "id"), fields)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, task)
	}
}

func deleteTaskHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := tm.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func suggestSubTasksHandler(tm *manager.TaskManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := decodeObject(w, r, suggestReq)
		if !ok {
			return
		}
		title, _ := fields["title"].(string)

		suggestions := tm.SuggestSubTasks(r.Context(), chi.URLParam(r, "id"), title)
		writeJSON(w, r, http.StatusOK, suggestions)
	}
}

// decodeObject читает тело запроса, проверяет схему и возвращает JSON-объект.
// Пустое тело считается пустым объектом. При ошибке ответ уже записан.
func decodeObject(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema) (map[string]any, bool) {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, r, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return nil, false
		}
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return nil, false
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, true
	}

	// не-объект отсекает схема
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return nil, false
	}

	if err := validate(schema, v); err != nil {
		logger.Warn(r.Context(), "Тело запроса не прошло проверку", "path", r.URL.Path, "reason", err.Error())
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, false
	}

	fields, err := models.DecodeFields(body)
	if err != nil {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return nil, false
	}
	return fields, true
}

// writeError: ErrNotFound -> 404 без тела-JSON, остальное -> 500
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, manager.ErrNotFound) {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	logger.Error(r.Context(), err, "Ошибка обработки запроса", "method", r.Method, "path", r.URL.Path)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(r.Context(), err, "Ошибка кодирования ответа")
	}
}
