package server

import (
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// При создании годится любой объект: id и status все равно назначает менеджер
const createTaskSchema = `{"type": "object"}`

// При обновлении status остается строкой, id игнорируется при слиянии
const updateTaskSchema = `{
	"type": "object",
	"properties": {
		"status": {"type": "string"}
	}
}`

const suggestSchema = `{
	"type": "object",
	"properties": {
		"title": {"type": "string"}
	}
}`

var (
	taskCreate = jsonschema.MustCompileString("task-create.json", createTaskSchema)
	taskUpdate = jsonschema.MustCompileString("task-update.json", updateTaskSchema)
	suggestReq = jsonschema.MustCompileString("suggest-subtasks.json", suggestSchema)
)

// validate проверяет уже разобранный JSON и собирает ошибки в одну строку
func validate(schema *jsonschema.Schema, v any) error {
	err := schema.Validate(v)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	var msgs []string
	collectSchemaErrors(ve, &msgs)
	return errors.New(strings.Join(msgs, "; "))
}

func collectSchemaErrors(err *jsonschema.ValidationError, msgs *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*msgs = append(*msgs, fmt.Sprintf("%s: %s", loc, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, msgs)
	}
}
