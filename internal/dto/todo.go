package dto

// CreateTodoRequest is the JSON body for POST /todos.
// Text length is validated here, at the boundary; the store trusts it.
type CreateTodoRequest struct {
	Text string `json:"text" binding:"required,min=1,max=100"`
}

// UpdateTodoRequest is a partial update: nil fields are left unchanged.
// omitnil (not omitempty) so an explicit "" still hits the length checks.
type UpdateTodoRequest struct {
	Text      *string `json:"text" binding:"omitnil,min=1,max=100"`
	Completed *bool   `json:"completed"`
}

type TodoResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}
