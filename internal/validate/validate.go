// Package validate checks task form input before it reaches the store.
package validate

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Field error messages
const (
	MsgTitleRequired    = "Task title is required"
	MsgTitleTooLong     = "Task title must be less than 200 characters"
	MsgDescriptionLong  = "Description must be less than 2000 characters"
	MsgInvalidFieldText = "Invalid value"
)

// Errors maps a form field ("title", "description") to its message
type Errors map[string]string

// OK reports whether no field failed
func (e Errors) OK() bool {
	return len(e) == 0
}

// Error implements error so callers may return Errors directly
func (e Errors) Error() string {
	if e.OK() {
		return ""
	}
	var msgs []string
	for _, field := range []string{"title", "description"} {
		if msg, ok := e[field]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

type taskForm struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Task validates a task's title and description. The title is trimmed
// before checking; lengths are counted in characters.
func Task(title, description string) Errors {
	form := taskForm{
		Title:       strings.TrimSpace(title),
		Description: description,
	}

	errs := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["title"] = MsgInvalidFieldText
		return errs
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Title":
			if fe.Tag() == "required" {
				errs["title"] = MsgTitleRequired
			} else {
				errs["title"] = MsgTitleTooLong
			}
		case "Description":
			errs["description"] = MsgDescriptionLong
		}
	}
	return errs
}
