package repo

import (
	"context"
	"sync"

	dom "github.com/dychi/todo-api/internal/domain"
)

// MemoryTodoRepo implements TodoRepo with a map guarded by a single
// reader/writer lock. Reads run concurrently, writes are exclusive.
// Share one instance; the pointer is the shared handle.
type MemoryTodoRepo struct {
	mu     sync.RWMutex
	todos  map[int64]dom.Todo
	nextID int64
}

var _ TodoRepo = (*MemoryTodoRepo)(nil)

// NewMemoryTodoRepo returns an empty in-memory todo repository.
func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{todos: make(map[int64]dom.Todo)}
}

// Create never fails; the error return satisfies TodoRepo.
// Ids come from a counter advanced under the write lock, so they are
// never reused even after deletes.
func (r *MemoryTodoRepo) Create(_ context.Context, payload CreateTodo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t := dom.Todo{ID: r.nextID, Text: payload.Text}
	r.todos[t.ID] = t
	return t, nil
}

func (r *MemoryTodoRepo) Find(_ context.Context, id int64) (dom.Todo, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.todos[id]
	return t, ok, nil
}

func (r *MemoryTodoRepo) All(_ context.Context) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]dom.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		list = append(list, t)
	}
	return list, nil
}

func (r *MemoryTodoRepo) Update(_ context.Context, id int64, payload UpdateTodo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return dom.Todo{}, todoNotFound(id)
	}
	if payload.Text != nil {
		t.Text = *payload.Text
	}
	if payload.Completed != nil {
		t.Completed = *payload.Completed
	}
	r.todos[id] = t
	return t, nil
}

func (r *MemoryTodoRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return todoNotFound(id)
	}
	delete(r.todos, id)
	return nil
}
