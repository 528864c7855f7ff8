package repo

import (
	"context"
	"errors"

	dom "github.com/dychi/todo-api/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateTodo is the payload for creating a todo. The store assigns the id
// and every new todo starts out not completed.
type CreateTodo struct {
	Text string
}

// UpdateTodo is a partial-update payload. A nil field leaves the
// corresponding todo field unchanged.
type UpdateTodo struct {
	Text      *string
	Completed *bool
}

// TodoRepo provides todo persistence. Implementations must be safe for
// concurrent use; callers share a single instance across goroutines.
type TodoRepo interface {
	// Create stores a new todo built from the payload and returns it
	// with its assigned id.
	Create(ctx context.Context, payload CreateTodo) (dom.Todo, error)

	// Find returns the todo with the given id. A missing record is
	// reported through the bool, not as an error.
	Find(ctx context.Context, id int64) (dom.Todo, bool, error)

	// All returns every stored todo. Order is unspecified.
	All(ctx context.Context) ([]dom.Todo, error)

	// Update merges the payload over the existing record and returns the
	// result. Fails with ErrTodoNotFound if the id is absent.
	Update(ctx context.Context, id int64, payload UpdateTodo) (dom.Todo, error)

	// Delete removes the todo. Fails with ErrTodoNotFound if the id is absent.
	Delete(ctx context.Context, id int64) error
}

// PGTodoRepo implements TodoRepo with Postgres.
type PGTodoRepo struct {
	db *pgxpool.Pool
}

var _ TodoRepo = (*PGTodoRepo)(nil)

// NewPGTodoRepo returns a new PGTodoRepo.
func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, payload CreateTodo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (text)
		VALUES ($1)
		RETURNING id, text, completed`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, payload.Text).Scan(&t.ID, &t.Text, &t.Completed)
	return t, err
}

func (r *PGTodoRepo) Find(ctx context.Context, id int64) (dom.Todo, bool, error) {
	var t dom.Todo
	err := r.db.QueryRow(ctx,
		`SELECT id, text, completed FROM todos WHERE id = $1`, id,
	).Scan(&t.ID, &t.Text, &t.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, false, nil
	}
	if err != nil {
		return dom.Todo{}, false, err
	}
	return t, true, nil
}

func (r *PGTodoRepo) All(ctx context.Context) ([]dom.Todo, error) {
	rows, err := r.db.Query(ctx, `SELECT id, text, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update merges in a single statement so the read-modify-write cannot race
// with another writer.
func (r *PGTodoRepo) Update(ctx context.Context, id int64, payload UpdateTodo) (dom.Todo, error) {
	query := `
		UPDATE todos
		SET text = COALESCE($2, text), completed = COALESCE($3, completed)
		WHERE id = $1
		RETURNING id, text, completed`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, payload.Text, payload.Completed).Scan(
		&t.ID, &t.Text, &t.Completed,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Todo{}, todoNotFound(id)
	}
	if err != nil {
		return dom.Todo{}, err
	}
	return t, nil
}

func (r *PGTodoRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return todoNotFound(id)
	}
	return nil
}
