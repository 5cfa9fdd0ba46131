package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TashaD16/TaskManager/internal/config"
	"github.com/TashaD16/TaskManager/internal/manager"
	"github.com/TashaD16/TaskManager/internal/models"
	"github.com/TashaD16/TaskManager/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("TASKS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.StoragePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	tm := manager.NewTaskManager(store)

	command, args := os.Args[1], os.Args[2:]
	switch command {
	case "add":
		err = handleAddCommand(ctx, tm, args)
	case "list":
		err = handleListCommand(ctx, tm, args)
	case "show":
		err = handleShowCommand(ctx, tm, args, os.Stdout)
	case "update":
		err = handleUpdateCommand(ctx, tm, args)
	case "done":
		err = handleDoneCommand(ctx, tm, args)
	case "delete":
		err = handleDeleteCommand(ctx, tm, args)
	case "export":
		err = handleExportCommand(ctx, tm, args)
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printHelp()
		store.Close()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}

func handleAddCommand(ctx context.Context, tm *manager.TaskManager, args []string) error {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	title := addCmd.String("title", "", "Task title")
	tags := addCmd.String("tags", "", "Comma-separated list of tags")
	var sets setFlags
	addCmd.Var(&sets, "set", "Extra field key=value (repeatable)")
	addCmd.Parse(args)

	if *title == "" {
		return errors.New("--title is required")
	}

	fields, err := sets.fields()
	if err != nil {
		return err
	}
	fields[models.FieldTitle] = *title
	if *tags != "" {
		var tagList []string
		for _, tag := range strings.Split(*tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tagList = append(tagList, tag)
			}
		}
		fields["tags"] = tagList
	}

	task, err := tm.Create(ctx, fields)
	if err != nil {
		return err
	}

	fmt.Printf("Added task with ID %s\n", task.ID())
	return nil
}

func handleListCommand(ctx context.Context, tm *manager.TaskManager, args []string) error {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	status := listCmd.String("status", "", "Show only tasks with this status (e.g. todo, done)")
	listCmd.Parse(args)

	tasks, err := tm.List(ctx)
	if err != nil {
		return err
	}

	shown := 0
	for _, task := range tasks {
		if *status != "" && task.Status() != *status {
			continue
		}
		fmt.Printf("%s: %s [%s]\n", task.ID(), task.Title(), task.Status())
		shown++
	}
	if shown == 0 {
		fmt.Println("No tasks found")
	}
	return nil
}

func handleShowCommand(ctx context.Context, tm *manager.TaskManager, args []string, w io.Writer) error {
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	id := showCmd.String("id", "", "Task ID to show")
	showCmd.Parse(args)

	if *id == "" {
		return errors.New("--id is required")
	}

	task, err := tm.Get(ctx, *id)
	if err != nil {
		return err
	}
	return printJSON(w, task)
}

func handleUpdateCommand(ctx context.Context, tm *manager.TaskManager, args []string) error {
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	id := updateCmd.String("id", "", "Task ID to update")
	var sets setFlags
	updateCmd.Var(&sets, "set", "Field key=value to merge (repeatable)")
	updateCmd.Parse(args)

	if *id == "" {
		return errors.New("--id is required")
	}
	if len(sets) == 0 {
		return errors.New("at least one --set is required")
	}

	fields, err := sets.fields()
	if err != nil {
		return err
	}

	task, err := tm.Update(ctx, *id, fields)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, task)
}

func handleDoneCommand(ctx context.Context, tm *manager.TaskManager, args []string) error {
	doneCmd := flag.NewFlagSet("done", flag.ExitOnError)
	id := doneCmd.String("id", "", "Task ID to mark as done")
	doneCmd.Parse(args)

	if *id == "" {
		return errors.New("--id is required")
	}

	if _, err := tm.Update(ctx, *id, map[string]any{models.FieldStatus: models.StatusDone}); err != nil {
		return err
	}

	fmt.Printf("Task %s marked as done\n", *id)
	return nil
}

func handleDeleteCommand(ctx context.Context, tm *manager.TaskManager, args []string) error {
	deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
	id := deleteCmd.String("id", "", "Task ID to delete")
	deleteCmd.Parse(args)

	if *id == "" {
		return errors.New("--id is required")
	}

	if err := tm.Delete(ctx, *id); err != nil {
		return err
	}

	fmt.Printf("Task %s deleted\n", *id)
	return nil
}

func handleExportCommand(ctx context.Context, tm *manager.TaskManager, args []string) error {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	format := exportCmd.String("format", "json", "Export format (json|csv)")
	outFile := exportCmd.String("out", "", "Output file path")
	exportCmd.Parse(args)

	if *outFile == "" {
		return errors.New("--out is required")
	}

	tasks, err := tm.List(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch *format {
	case "json":
		data, err := models.EncodeTasks(tasks)
		if err != nil {
			return err
		}
		buf.Write(data)
	case "csv":
		if err := models.WriteCSV(&buf, tasks); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %s", *format)
	}

	if err := os.WriteFile(*outFile, buf.Bytes(), 0644); err != nil {
		return err
	}

	fmt.Printf("Tasks exported to %s in %s format\n", *outFile, *format)
	return nil
}

// setFlags собирает повторяющиеся --set key=value
type setFlags []string

func (s *setFlags) String() string {
	return strings.Join(*s, ",")
}

func (s *setFlags) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	*s = append(*s, v)
	return nil
}

// fields: значение, похожее на JSON (число, true, {...}), разбирается как JSON,
// иначе остается строкой
func (s setFlags) fields() (map[string]any, error) {
	fields := make(map[string]any, len(s))
	for _, kv := range s {
		key, raw, _ := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty field name in %q", kv)
		}

		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil || dec.More() {
			v = raw
		}
		fields[key] = v
	}
	return fields, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHelp() {
	fmt.Println(`Usage: todo-app <command> [flags]

Commands:
  add     --title="..." [--tags="tag1,tag2"] [--set key=value]  Add new task
  list    [--status=todo|done|...]                              List tasks
  show    --id=ID                                               Print one task as JSON
  update  --id=ID --set key=value [--set ...]                   Merge fields into a task
  done    --id=ID                                               Mark task as done
  delete  --id=ID                                               Delete task
  export  --format=json|csv --out=FILE                          Export tasks

Storage:
  Uses the same storage as the server (TASKS_CONFIG, STORAGE_DRIVER, TASKS_FILE, SQLITE_PATH).`)
}
