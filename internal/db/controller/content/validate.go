package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput wraps every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// Validator checks Input values. Limits come from the `validate` tags,
// fields needed to create a record carry `create:"required"`.
type Validator struct {
	limits   *validator.Validate
	creation *validator.Validate
}

// NewValidator returns a ready Validator.
func NewValidator() *Validator {
	creation := validator.New(validator.WithRequiredStructEnabled())
	creation.SetTagName("create")

	return &Validator{
		limits:   validator.New(validator.WithRequiredStructEnabled()),
		creation: creation,
	}
}

// Create validates input for a new record.
func (v *Validator) Create(in Input) error {
	if err := v.creation.Struct(in); err != nil {
		return describe(err)
	}

	return v.Update(in)
}

// Update validates a partial change.
func (v *Validator) Update(in Input) error {
	if err := v.limits.Struct(in); err != nil {
		return describe(err)
	}

	return nil
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))

	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, ", "))
}
