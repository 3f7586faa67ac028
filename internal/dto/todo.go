package dto

import "strings"

// CreateTodoInput is the createTodo mutation input.
type CreateTodoInput struct {
	Title string `json:"title"`
}

func (in *CreateTodoInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	var errs FieldErrors
	errs = requireMin(errs, "title", in.Title, 1)
	return errs.OrNil()
}

// UpdateTodoInput is the updateTodo mutation input; nil fields stay unchanged.
type UpdateTodoInput struct {
	ID          string  `json:"id"`
	Title       *string `json:"title"`
	IsCompleted *bool   `json:"isCompleted"`
}

func (in *UpdateTodoInput) Validate() error {
	in.ID = strings.TrimSpace(in.ID)
	var errs FieldErrors
	errs = requireMin(errs, "id", in.ID, 1)
	if in.Title != nil {
		*in.Title = strings.TrimSpace(*in.Title)
		errs = requireMin(errs, "title", *in.Title, 1)
	}
	return errs.OrNil()
}
