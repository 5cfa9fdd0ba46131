package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTasksEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n", "[]", "null"} {
		tasks, err := DecodeTasks([]byte(input))
		require.NoError(t, err, "input %q", input)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	}
}

func TestDecodeTasksKeepsNumbers(t *testing.T) {
	data := []byte(`[{"id":"1","status":"todo","estimate":9007199254740993}]`)

	tasks, err := DecodeTasks(data)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, json.Number("9007199254740993"), tasks[0]["estimate"])

	out, err := EncodeTasks(tasks)
	require.NoError(t, err)
	assert.Contains(t, string(out), "9007199254740993")
	assert.True(t, bytes.HasSuffix(out, []byte("\n")))
}

func TestDecodeTasksInvalid(t *testing.T) {
	_, err := DecodeTasks([]byte(`{"id":"1"}`))
	require.Error(t, err)
}

func TestDecodeTasksTrailingData(t *testing.T) {
	_, err := DecodeTasks([]byte(`[{"id":"1","status":"todo"}]garbage`))
	require.Error(t, err)

	_, err = DecodeTasks([]byte(`[] []`))
	require.Error(t, err)

	tasks, err := DecodeTasks([]byte("[]\n\n"))
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestEncodeNilCollection(t *testing.T) {
	out, err := EncodeTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestTaskMergeKeepsID(t *testing.T) {
	task := Task{FieldID: "a", FieldStatus: StatusTodo, "title": "A"}
	task.Merge(map[string]any{FieldID: "b", FieldStatus: StatusDone, "owner": "me"})

	assert.Equal(t, "a", task.ID())
	assert.Equal(t, StatusDone, task.Status())
	assert.Equal(t, "A", task.Title())
	assert.Equal(t, "me", task["owner"])
}

func TestDecodeFields(t *testing.T) {
	fields, err := DecodeFields([]byte(`{"title":"A","n":1}`))
	require.NoError(t, err)
	assert.Equal(t, "A", fields["title"])
	assert.Equal(t, json.Number("1"), fields["n"])

	fields, err = DecodeFields([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = DecodeFields([]byte(`{`))
	require.Error(t, err)

	_, err = DecodeFields([]byte(`{"a":1} {"b":2}`))
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	tasks := []Task{
		{FieldID: "1", FieldStatus: StatusTodo, "title": "Купить молоко", "tags": []any{"дом"}},
		{FieldID: "2", FieldStatus: StatusDone, "priority": json.Number("3")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tasks))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,status,priority,tags,title", lines[0])
	assert.Equal(t, `1,todo,,"[""дом""]",Купить молоко`, lines[1])
	assert.Equal(t, "2,done,3,,", lines[2])
}
