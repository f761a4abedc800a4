package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	eventserrors "eventbook/internal/events/errors"
	"eventbook/pkg/config"
	"eventbook/pkg/datetime"
	"eventbook/pkg/logger"
	"eventbook/pkg/model"
	"eventbook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ValidationError names the first field that failed. Field is the JSON name;
// Message is meant for end users.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

func (v ValidationError) Unwrap() error {
	return v.Err
}

type EventValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		log.Fatal("Failed to register 'notblank' validator", "error", err)
	}
	if err := v.RegisterValidation("event_mode", validEventMode); err != nil {
		log.Fatal("Failed to register 'event_mode' validator", "error", err)
	}

	return &EventValidator{
		validate: v,
		logger:   log,
	}
}

func validEventMode(fl validator.FieldLevel) bool {
	return slices.Contains(config.EventModes, fl.Field().String())
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}

// Validate checks presence and enumerations. Fields are checked in
// declaration order and only the first failure is reported.
func (v *EventValidator) Validate(event *model.Event) error {
	if err := v.validate.Struct(event); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return translateValidationError(validationErrs[0])
		}
		return err
	}
	return nil
}

func translateValidationError(err validator.FieldError) ValidationError {
	label, index, isItem := strings.Cut(err.StructField(), "[")
	field, _, _ := strings.Cut(err.Field(), "[")
	message := err.Error()

	switch {
	case isItem && index != "":
		message = fmt.Sprintf("%s items cannot be empty", label)
	case err.Kind() == reflect.Slice && (err.Tag() == "min" || err.Tag() == "required" || err.Tag() == "notblank"):
		message = fmt.Sprintf("%s must contain at least one item", label)
	case err.Tag() == "notblank" || err.Tag() == "required":
		message = fmt.Sprintf("%s cannot be empty", label)
	case err.Tag() == "event_mode":
		message = fmt.Sprintf("%s must be one of: %s", label, strings.Join(config.EventModes, ", "))
	case err.Tag() == "mongodb":
		message = fmt.Sprintf("%s must be a valid ObjectID", label)
	}

	return ValidationError{Field: field, Message: message}
}

// Normalize fills the derived fields of next. prev is the stored version for
// updates and nil for creates; a derived field is only recomputed when its
// source differs from prev.
func (v *EventValidator) Normalize(prev, next *model.Event) error {
	if prev == nil || next.Title != prev.Title || next.Slug == "" {
		next.Slug = sanitizer.Slugify(next.Title)
		if next.Slug == "" {
			return ValidationError{
				Field:   "title",
				Message: "Title must contain at least one letter or digit",
				Err:     eventserrors.ErrEmptySlug,
			}
		}
	} else {
		next.Slug = prev.Slug
	}

	if prev == nil || next.Date != prev.Date {
		date, err := datetime.NormalizeDate(next.Date)
		if err != nil {
			return ValidationError{Field: "date", Message: "Invalid date format", Err: err}
		}
		next.Date = date
	}

	if prev == nil || next.Time != prev.Time {
		t, err := datetime.NormalizeTime(next.Time)
		if err != nil {
			return ValidationError{Field: "time", Message: "Invalid time format", Err: err}
		}
		next.Time = t
	}

	return nil
}
