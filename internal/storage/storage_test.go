package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/TashaD16/TaskManager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{"id": "1", "status": "todo", "title": "A"},
		{"id": "2", "status": "done", "title": "B", "meta": map[string]any{"k": "v"}},
	}
}

// общий набор проверок для всех реализаций
func testStorageContract(t *testing.T, s Storage) {
	ctx := context.Background()

	tasks, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks, "пустое хранилище должно возвращать пустой список")

	require.NoError(t, s.Save(ctx, sampleTasks()))

	tasks, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "1", tasks[0].ID())
	assert.Equal(t, "2", tasks[1].ID())
	assert.Equal(t, "done", tasks[1].Status())
	assert.Equal(t, map[string]any{"k": "v"}, tasks[1]["meta"])

	// загруженная копия не связана с хранимой
	tasks[0]["title"] = "changed"
	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0]["title"])

	require.NoError(t, s.Save(ctx, tasks[1:]))
	tasks, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "2", tasks[0].ID())

	require.NoError(t, s.Close())
}

func TestMemoryStorage(t *testing.T) {
	testStorageContract(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	testStorageContract(t, NewFileStorage(filepath.Join(t.TempDir(), "data", "tasks.json")))
}

func TestSQLiteStorage(t *testing.T) {
	s, err := NewSQLiteStorage(context.Background(), filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	testStorageContract(t, s)
}

func TestFileStorageFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := NewFileStorage(path)

	require.NoError(t, s.Save(context.Background(), []models.Task{{"id": "1", "status": "todo"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": \"1\",\n    \"status\": \"todo\"\n  }\n]\n", string(data))

	// временные файлы не остаются
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStorageCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStorage(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestFileStorageTrailingGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"1","status":"todo"}]garbage`), 0644))

	_, err := NewFileStorage(path).Load(context.Background())
	require.Error(t, err)
}

func TestFileStorageReadError(t *testing.T) {
	// директория вместо файла
	dir := t.TempDir()
	_, err := NewFileStorage(dir).Load(context.Background())
	require.Error(t, err)
}

func TestSQLiteStorageVersion(t *testing.T) {
	ctx := context.Background()
	s, err := NewSQLiteStorage(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	require.NoError(t, s.Save(ctx, sampleTasks()))
	require.NoError(t, s.Save(ctx, sampleTasks()[:1]))

	v, err = s.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	testCases := []struct {
		driver    string
		path      string
		expectErr bool
		check     func(t *testing.T, s Storage)
	}{
		{driver: DriverFile, path: filepath.Join(dir, "tasks.json"), check: func(t *testing.T, s Storage) {
			assert.IsType(t, &FileStorage{}, s)
		}},
		{driver: "", path: filepath.Join(dir, "default.json"), check: func(t *testing.T, s Storage) {
			assert.IsType(t, &FileStorage{}, s)
		}},
		{driver: DriverSQLite, path: filepath.Join(dir, "tasks.db"), check: func(t *testing.T, s Storage) {
			assert.IsType(t, &SQLiteStorage{}, s)
		}},
		{driver: DriverMemory, check: func(t *testing.T, s Storage) {
			assert.IsType(t, &MemoryStorage{}, s)
		}},
		{driver: "redis", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run("driver="+tc.driver, func(t *testing.T) {
			s, err := Open(ctx, tc.driver, tc.path)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			tc.check(t, s)
		})
	}
}
