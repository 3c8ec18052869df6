package board

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nick-dorsch/taskboard/pkg/models"
)

// Persister loads the initial list and receives the full list after every
// mutation.
type Persister interface {
	Load(ctx context.Context) []*models.Task
	Save(ctx context.Context, tasks []*models.Task) error
}

// Board owns the ordered task list, newest first.
type Board struct {
	mu        sync.RWMutex
	tasks     []*models.Task
	persister Persister
	now       func() time.Time
	newID     func() models.TaskID
	logger    *slog.Logger
}

type Option func(*Board)

func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

func WithIDGenerator(newID func() models.TaskID) Option {
	return func(b *Board) { b.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) { b.logger = logger }
}

// NewUUIDv7 returns a time-ordered id. It falls back to a random UUID if the
// v7 generator fails.
func NewUUIDv7() models.TaskID {
	id, err := uuid.NewV7()
	if err != nil {
		return models.TaskID(uuid.NewString())
	}
	return models.TaskID(id.String())
}

// New loads the persisted list and immediately writes it back.
func New(ctx context.Context, persister Persister, opts ...Option) *Board {
	b := &Board{
		persister: persister,
		now:       time.Now,
		newID:     NewUUIDv7,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.tasks = persister.Load(ctx)
	if b.tasks == nil {
		b.tasks = []*models.Task{}
	}
	b.logger.Debug("board loaded", "tasks", len(b.tasks))

	b.mu.Lock()
	b.saveLocked(ctx)
	b.mu.Unlock()
	return b
}

// Add prepends a task with the trimmed text. Blank text is ignored and
// reported as false.
func (b *Board) Add(ctx context.Context, text string) (*models.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	t := &models.Task{
		ID:        b.uniqueIDLocked(),
		Text:      text,
		Completed: false,
		CreatedAt: b.now().UTC(),
	}
	b.tasks = append([]*models.Task{t}, b.tasks...)
	b.saveLocked(ctx)

	b.logger.Debug("task added", "id", t.ID)
	return t.Clone(), true
}

// Toggle flips the completed flag of the task with the given id.
func (b *Board) Toggle(ctx context.Context, id models.TaskID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.tasks[i].Completed = !b.tasks[i].Completed
	b.saveLocked(ctx)

	b.logger.Debug("task toggled", "id", id, "completed", b.tasks[i].Completed)
	return true
}

// Remove deletes the task with the given id.
func (b *Board) Remove(ctx context.Context, id models.TaskID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexLocked(id)
	if i < 0 {
		return false
	}
	b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
	b.saveLocked(ctx)

	b.logger.Debug("task removed", "id", id)
	return true
}

// Tasks returns a copy of the list, newest first.
func (b *Board) Tasks() []*models.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneAll(b.tasks)
}

// Get returns a copy of the task with the given id, or nil.
func (b *Board) Get(id models.TaskID) *models.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if i := b.indexLocked(id); i >= 0 {
		return b.tasks[i].Clone()
	}
	return nil
}

func (b *Board) indexLocked(id models.TaskID) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// uniqueIDLocked guards against a generator that repeats itself, such as a
// millisecond clock hit twice in a row.
func (b *Board) uniqueIDLocked() models.TaskID {
	id := b.newID()
	for attempt := 0; b.indexLocked(id) >= 0; attempt++ {
		if attempt >= 8 {
			return NewUUIDv7()
		}
		id = b.newID()
	}
	return id
}

func (b *Board) saveLocked(ctx context.Context) {
	if err := b.persister.Save(ctx, cloneAll(b.tasks)); err != nil {
		b.logger.Warn("failed to persist tasks", "error", err)
	}
}

func cloneAll(tasks []*models.Task) []*models.Task {
	out := make([]*models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
