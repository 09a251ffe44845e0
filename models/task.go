package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// StatusFilter narrows a task listing by completion state.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterCompleted StatusFilter = "completed"
)

// ParseStatusFilter converts a user-supplied string into a StatusFilter.
// Unknown values are an error, never silently treated as "all".
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case FilterAll, FilterPending, FilterCompleted:
		return StatusFilter(s), nil
	}
	return "", fmt.Errorf("unknown status filter %q (want all, pending or completed)", s)
}

// SortKey selects the ordering of a task projection.
type SortKey string

const (
	// SortCreatedDesc orders newest first. This is the default.
	SortCreatedDesc SortKey = "created"
	// SortTitleAsc orders by title, lexicographically ascending.
	SortTitleAsc SortKey = "title"
	// SortPendingFirst groups incomplete tasks before completed ones,
	// newest first within each group.
	SortPendingFirst SortKey = "completed"
)

// ParseSortKey converts a user-supplied string into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortCreatedDesc, SortTitleAsc, SortPendingFirst:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("unknown sort key %q (want created, title or completed)", s)
}

const (
	// TitleMaxLen is the longest accepted task title.
	TitleMaxLen = 200
	// DescriptionMaxLen is the longest accepted task description.
	DescriptionMaxLen = 1000
)

// Task is a single unit of work owned by a user. The remote service is the
// source of truth; instances here mirror its confirmed state plus any
// optimistic local mutation.
type Task struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"user_id"`
	Title       string    `json:"title" validate:"required,notblank,max=200"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskFields carries a partial update. Nil pointers mean "leave unchanged".
type TaskFields struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed,omitempty"`
}

// FieldError describes a single rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports locally rejected input. It is raised before any
// request is issued, so the remote service never sees invalid fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// ValidateFields checks a partial update against the field constraints and
// returns a *ValidationError listing every offending field, or nil.
func ValidateFields(fields TaskFields) error {
	return toValidationError(validate.Struct(fields))
}

// ValidateTask checks a full task, e.g. before a create request.
func ValidateTask(t Task) error {
	return toValidationError(validate.Struct(t))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{}
	for _, e := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:  strings.ToLower(e.Field()),
			Reason: reasonFor(e),
		})
	}
	return out
}

func reasonFor(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	default:
		return fmt.Sprintf("failed rule %q", e.Tag())
	}
}
