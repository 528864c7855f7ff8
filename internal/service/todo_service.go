package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dychi/todo-api/internal/cache"
	dom "github.com/dychi/todo-api/internal/domain"
	"github.com/dychi/todo-api/internal/repo"

	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found")

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

func (s *TodoService) Create(ctx context.Context, text string) (dom.Todo, error) {
	t, err := s.repo.Create(ctx, repo.CreateTodo{Text: text})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) List(ctx context.Context) ([]dom.Todo, error) {
	if s.cache != nil {
		v, err, _ := s.sf.Do("list", func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.All(ctx)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.All(ctx)
}

func (s *TodoService) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	t, ok, err := s.repo.Find(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	return t, nil
}

// Update applies a partial update: nil fields keep their current value.
func (s *TodoService) Update(ctx context.Context, id int64, text *string, completed *bool) (dom.Todo, error) {
	t, err := s.repo.Update(ctx, id, repo.UpdateTodo{Text: text, Completed: completed})
	if err != nil {
		if errors.Is(err, repo.ErrTodoNotFound) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) Complete(ctx context.Context, id int64) (dom.Todo, error) {
	done := true
	return s.Update(ctx, id, nil, &done)
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrTodoNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Search returns todos whose text contains q, case-insensitively.
// The filter runs over All(); the repository only indexes by id.
func (s *TodoService) Search(ctx context.Context, q string) ([]dom.Todo, error) {
	q = strings.TrimSpace(q)
	if s.cache != nil {
		key := "search:" + strings.ToLower(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetSearch(ctx, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.searchAll(ctx, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetSearch(ctx, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.searchAll(ctx, q)
}

func (s *TodoService) searchAll(ctx context.Context, q string) ([]dom.Todo, error) {
	list, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := make([]dom.Todo, 0, len(list))
	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Text), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
