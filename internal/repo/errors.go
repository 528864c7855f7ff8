package repo

import (
	"errors"
	"fmt"
)

var (
	ErrTodoNotFound      = errors.New("todo not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// todoNotFound wraps ErrTodoNotFound with the id so it survives to the boundary.
func todoNotFound(id int64) error {
	return fmt.Errorf("todo %d: %w", id, ErrTodoNotFound)
}
