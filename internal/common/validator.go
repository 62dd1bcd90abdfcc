package common

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator"
)

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, fe[field]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// FormValidator implements echo.Validator for structs tagged with `form` and `validate`.
// Validation failures are returned as FieldErrors keyed by the form field name.
type FormValidator struct {
	validator *validator.Validate
	messages  map[string]string
}

func NewFormValidator() *FormValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &FormValidator{
		validator: v,
		messages:  make(map[string]string),
	}
}

// RegisterValidation adds a custom tag whose failures are reported with message.
func (fv *FormValidator) RegisterValidation(tag string, fn validator.Func, message string) error {
	if err := fv.validator.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("failed to register validation %s: %w", tag, err)
	}
	fv.messages[tag] = message
	return nil
}

func (fv *FormValidator) Validate(i interface{}) error {
	err := fv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("could not validate form: %w", err)
	}

	structType := reflect.TypeOf(i)
	for structType.Kind() == reflect.Ptr {
		structType = structType.Elem()
	}

	fieldErrors := make(FieldErrors, len(validationErrors))
	for _, fieldError := range validationErrors {
		// first failing rule wins, as the form shows one message per field
		if _, exists := fieldErrors[fieldError.Field()]; exists {
			continue
		}
		fieldErrors[fieldError.Field()] = fv.message(structType, fieldError)
	}
	return fieldErrors
}

func (fv *FormValidator) message(structType reflect.Type, fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "min", "max", "len":
		return lengthMessage(lengthBounds(structType, fieldError.StructField()))
	}
	if message, ok := fv.messages[fieldError.Tag()]; ok {
		return message
	}
	return "Invalid value."
}

// lengthBounds reads the min and max parameters of a field's validate tag, -1 when unset.
func lengthBounds(structType reflect.Type, fieldName string) (int, int) {
	minimum, maximum := -1, -1
	if structType.Kind() != reflect.Struct {
		return minimum, maximum
	}
	field, ok := structType.FieldByName(fieldName)
	if !ok {
		return minimum, maximum
	}

	for _, rule := range strings.Split(field.Tag.Get("validate"), ",") {
		key, value, found := strings.Cut(rule, "=")
		if !found {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			continue
		}
		switch key {
		case "min":
			minimum = n
		case "max":
			maximum = n
		case "len":
			minimum, maximum = n, n
		}
	}
	return minimum, maximum
}

func lengthMessage(minimum, maximum int) string {
	switch {
	case minimum >= 0 && maximum >= 0:
		return fmt.Sprintf("Field must be between %d and %d characters long.", minimum, maximum)
	case minimum >= 0:
		return fmt.Sprintf("Field must be at least %d characters long.", minimum)
	case maximum >= 0:
		return fmt.Sprintf("Field cannot be longer than %d characters.", maximum)
	default:
		return "Field has an invalid length."
	}
}
