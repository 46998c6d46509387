package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps json field paths ("email", "skills[2]") to messages.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e.Errors[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	registerCustomRules(v)
	return &Validator{validate: v}
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Validate returns a *ValidationError when s breaks any rule, or the
// validator's own error for values it cannot inspect.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldPath(fe)] = message(fe)
	}
	return &ValidationError{Errors: out}
}

// fieldPath drops the struct name from the namespace: "UpdateSkillsRequest.skills[1]" -> "skills[1]".
func fieldPath(fe validator.FieldError) string {
	if _, rest, found := strings.Cut(fe.Namespace(), "."); found {
		return rest
	}
	return fe.Field()
}

var staticMessages = map[string]string{
	"required":  "This field is required",
	"email":     "Must be a valid email address",
	"http-url":  "Must be a valid http(s) URL",
	"username":  "Must be 4 to 15 letters, digits or underscores",
	"not-blank": "Must not be blank",
}

func message(fe validator.FieldError) string {
	if msg, ok := staticMessages[fe.Tag()]; ok {
		return msg
	}
	sized := fe.Kind() == reflect.String || fe.Kind() == reflect.Slice
	switch {
	case fe.Tag() == "min" && sized:
		return fmt.Sprintf("Must be at least %s characters long", fe.Param())
	case fe.Tag() == "max" && sized:
		return fmt.Sprintf("Must be at most %s characters long", fe.Param())
	case fe.Tag() == "min":
		return "Must be at least " + fe.Param()
	case fe.Tag() == "max":
		return "Must be at most " + fe.Param()
	case fe.Tag() == "oneof":
		return "Must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("Invalid value (failed on '%s')", fe.Tag())
}
