package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"eventbook/pkg/logger"
	"eventbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("booking_email", validateEmail); err != nil {
		log.Fatal("Failed to register 'booking_email' validator",
			"error", err,
		)
	}

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// Validate reports the first failing field only.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return translateValidationError(validationErrs[0])
		}
		return err
	}
	return nil
}

func translateValidationError(err validator.FieldError) ValidationError {
	message := err.Error()

	switch err.StructField() + "/" + err.Tag() {
	case "EventID/required":
		message = "Event ID is required"
	case "EventID/mongodb":
		message = "Event ID must be a valid ObjectID"
	case "Email/required":
		message = "Email is required"
	case "Email/booking_email":
		message = "Please provide a valid email address"
	case "ID/mongodb":
		message = "ID must be a valid ObjectID"
	}

	return ValidationError{
		Field:   err.Field(),
		Message: message,
	}
}
