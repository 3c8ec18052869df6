package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/nick-dorsch/taskboard/pkg/models"
)

// DefaultKey is the storage key the task list lives under.
const DefaultKey = "todos"

// Adapter mirrors the task list to a KV under a single key.
type Adapter struct {
	kv     KV
	key    string
	logger *slog.Logger
}

func NewAdapter(kv KV, key string, logger *slog.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{kv: kv, key: key, logger: logger}
}

// Load returns the stored list. A missing key, a read failure, or a value
// that does not decode as a task array all yield an empty list.
func (a *Adapter) Load(ctx context.Context) []*models.Task {
	value, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		a.logger.Warn("failed to read stored tasks, starting empty", "key", a.key, "error", err)
		return []*models.Task{}
	}
	if !ok {
		return []*models.Task{}
	}

	tasks, err := decodeTasks([]byte(value))
	if err != nil {
		a.logger.Warn("stored tasks are malformed, starting empty", "key", a.key, "error", err)
		return []*models.Task{}
	}
	return tasks
}

// Save overwrites the stored list with tasks.
func (a *Adapter) Save(ctx context.Context, tasks []*models.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, a.key, string(data)); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

// Export writes the stored list to path in the stored layout.
func (a *Adapter) Export(ctx context.Context, path string) (int, error) {
	tasks := a.Load(ctx)
	data, err := encodeTasks(tasks)
	if err != nil {
		return 0, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return 0, fmt.Errorf("failed to export tasks: %w", err)
	}
	return len(tasks), nil
}

// Import replaces the stored list with the one read from path. Unlike Load,
// a malformed file is an error so nothing is overwritten by mistake.
func (a *Adapter) Import(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read import file: %w", err)
	}
	tasks, err := decodeTasks(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse import file: %w", err)
	}
	if err := a.Save(ctx, tasks); err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func encodeTasks(tasks []*models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []*models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	return data, nil
}

func decodeTasks(data []byte) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	out := make([]*models.Task, 0, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return nil, fmt.Errorf("task %d is null", i)
		}
		out = append(out, t)
	}
	return out, nil
}
