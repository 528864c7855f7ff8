package domain

// Todo is the domain entity for a single todo item.
// It does not depend on Gin, Postgres or Redis.
type Todo struct {
	ID        int64
	Text      string
	Completed bool
}
