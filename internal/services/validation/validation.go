// Package validation turns raw form submissions into typed values.
//
// Each form is described by a struct whose validate tags carry the rules.
// Validation is pure: it never touches storage, so checks that need the store
// (such as username uniqueness) happen later, at write time.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/studentdesk/internal/model"
)

// Messages shown next to invalid fields
const (
	MsgRequired     = "This field is required."
	MsgLettersOnly  = "Only letters allowed"
	MsgInvalidEmail = "Invalid email address"
	MsgInvalidAge   = "Enter a valid age"
)

var lettersPattern = regexp.MustCompile(`^[A-Za-z\s]+$`)

// Errors maps a form field name to its validation messages
type Errors map[string][]string

// Error implements error
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add appends a message for field
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// First returns the first message for field, or "" if it is valid
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// AsErrors extracts validation errors from err
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// Register is a validated registration submission
type Register struct {
	Username string `form:"username" validate:"required,min=3,max=50"`
	Password string `form:"password" validate:"required,nonblank,min=6"`
}

// Login is a validated login submission
type Login struct {
	Username string `form:"username" validate:"required,min=3,max=50"`
	Password string `form:"password" validate:"required,nonblank"`
}

type studentForm struct {
	FirstName string `form:"first_name" validate:"required,min=2,max=50,letters"`
	LastName  string `form:"last_name" validate:"required,min=2,max=50,letters"`
	Email     string `form:"email" validate:"omitempty,max=120,email"`
	Age       *int   `form:"age" validate:"omitempty,min=1,max=120"`
	City      string `form:"city" validate:"max=50"`
}

// Per-field overrides, keyed "field.tag"; anything missing uses defaultMessage
var messageOverrides = map[string]string{
	"username.min":   lengthBetween(3, 50),
	"username.max":   lengthBetween(3, 50),
	"first_name.min": lengthBetween(2, 50),
	"first_name.max": lengthBetween(2, 50),
	"last_name.min":  lengthBetween(2, 50),
	"last_name.max":  lengthBetween(2, 50),
	"age.min":        MsgInvalidAge,
	"age.max":        MsgInvalidAge,
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("letters", func(fl validator.FieldLevel) bool {
		return lettersPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	// Passwords are kept as typed, so blank ones are rejected here instead
	// of being trimmed away
	if err := v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}

	return v
}

// ValidateRegister checks a registration form
func ValidateRegister(values url.Values) (Register, error) {
	form := Register{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
	if errs := check(form); errs != nil {
		return Register{}, errs
	}
	return form, nil
}

// ValidateLogin checks a login form. Password strength is not re-checked,
// only its presence.
func ValidateLogin(values url.Values) (Login, error) {
	form := Login{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
	}
	if errs := check(form); errs != nil {
		return Login{}, errs
	}
	return form, nil
}

// ValidateStudent checks a student form and returns only the whitelisted
// mutable fields
func ValidateStudent(values url.Values) (model.StudentFields, error) {
	form := studentForm{
		FirstName: strings.TrimSpace(values.Get("first_name")),
		LastName:  strings.TrimSpace(values.Get("last_name")),
		Email:     strings.TrimSpace(values.Get("email")),
		City:      strings.TrimSpace(values.Get("city")),
	}

	errs := Errors{}
	if raw := strings.TrimSpace(values.Get("age")); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add("age", MsgInvalidAge)
		} else {
			form.Age = &age
		}
	}

	for field, msgs := range check(form) {
		for _, msg := range msgs {
			errs.Add(field, msg)
		}
	}
	if len(errs) > 0 {
		return model.StudentFields{}, errs
	}

	return model.StudentFields{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Age:       form.Age,
		City:      form.City,
	}, nil
}

// check runs the struct rules and converts failures to Errors (nil if valid)
func check(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable on a programming error (bad tag, non-struct)
		panic(err)
	}

	errs := Errors{}
	for _, fe := range fieldErrs {
		field := fe.Field()
		msg := messageFor(field, fe.Tag(), fe.Param())
		// min and max share one message on bounded fields
		if !contains(errs[field], msg) {
			errs.Add(field, msg)
		}
	}
	return errs
}

func messageFor(field, tag, param string) string {
	if msg, ok := messageOverrides[field+"."+tag]; ok {
		return msg
	}
	return defaultMessage(tag, param)
}

func defaultMessage(tag, param string) string {
	switch tag {
	case "required", "nonblank":
		return MsgRequired
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", param)
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", param)
	case "email":
		return MsgInvalidEmail
	case "letters":
		return MsgLettersOnly
	default:
		return "Invalid value."
	}
}

func lengthBetween(lo, hi int) string {
	return fmt.Sprintf("Field must be between %d and %d characters long.", lo, hi)
}

func contains(msgs []string, msg string) bool {
	for _, m := range msgs {
		if m == msg {
			return true
		}
	}
	return false
}
