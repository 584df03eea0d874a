package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	simpleEmailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern       = regexp.MustCompile(`^\d{0,15}$`)
)

func init() {
	validate = validator.New()

	// Report fields by their wire name so messages line up with form inputs.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterValidation("simple_email", validateSimpleEmail)
	validate.RegisterValidation("phone_digits", validatePhoneDigits)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateSimpleEmail(fl validator.FieldLevel) bool {
	return simpleEmailPattern.MatchString(fl.Field().String())
}

func validatePhoneDigits(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e *FieldError) Error() string {
	return Message(*e)
}

// Struct validates s and returns every failure in field declaration order.
func Struct(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Tag: "invalid"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// First returns the first failing field of s, or nil when s is valid.
func First(s any) *FieldError {
	errs := Struct(s)
	if len(errs) == 0 {
		return nil
	}
	return &errs[0]
}

// Message renders a default English message for fe.
func Message(fe FieldError) string {
	field := humanize(fe.Field)
	switch fe.Tag {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "simple_email", "email":
		return "Invalid email format"
	case "phone_digits":
		return "Phone must be numeric and max 15 digits"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// humanize turns a wire name such as "year_publish" into "Year publish".
func humanize(field string) string {
	if field == "" {
		return "Value"
	}
	s := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
