// Package pages renders the application's HTML pages as templ components.
package pages

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/services/validation"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
)

// page renders body inside the shared layout
func page(data layout.PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layout.Base(data).Render(templ.WithChildren(ctx, body), w)
	})
}

// LoginData is the data for the login page
type LoginData struct {
	layout.PageData
	Username string
	Errors   validation.Errors
}

// RegisterData is the data for the registration page
type RegisterData struct {
	layout.PageData
	Username string
	Errors   validation.Errors
}

// StudentForm holds the raw values and errors of a student form
type StudentForm struct {
	FirstName string
	LastName  string
	Email     string
	Age       string
	City      string
	Errors    validation.Errors
}

// StudentFormFromValues keeps what the user typed so the form can be re-shown
func StudentFormFromValues(values url.Values, errs validation.Errors) StudentForm {
	return StudentForm{
		FirstName: values.Get("first_name"),
		LastName:  values.Get("last_name"),
		Email:     values.Get("email"),
		Age:       values.Get("age"),
		City:      values.Get("city"),
		Errors:    errs,
	}
}

// StudentFormFromStudent pre-fills the form with a stored record
func StudentFormFromStudent(student *model.Student) StudentForm {
	form := StudentForm{
		FirstName: student.FirstName,
		LastName:  student.LastName,
		Email:     student.Email,
		City:      student.City,
	}
	if student.Age != nil {
		form.Age = strconv.Itoa(*student.Age)
	}
	return form
}

// IndexData is the data for the student list page
type IndexData struct {
	layout.PageData
	Students []*model.Student
	Form     StudentForm
}

// UpdateData is the data for the edit page
type UpdateData struct {
	layout.PageData
	Student *model.Student
	Form    StudentForm
}

// ErrorData is the data for error pages
type ErrorData struct {
	layout.PageData
	Status  int
	Heading string
	Message string
}

// NotFound renders the record-not-found page
func NotFound(data layout.PageData) templ.Component {
	data.Title = "Not Found"
	return Error(ErrorData{
		PageData: data,
		Status:   404,
		Heading:  "Record not found",
		Message:  "The page or record you were looking for does not exist.",
	})
}

// ServerError renders the generic failure page
func ServerError(data layout.PageData) templ.Component {
	data.Title = "Error"
	return Error(ErrorData{
		PageData: data,
		Status:   500,
		Heading:  "Internal Server Error",
		Message:  "Something went wrong. Please try again later.",
	})
}

// Forbidden renders the rejected-form page
func Forbidden(data layout.PageData) templ.Component {
	data.Title = "Forbidden"
	return Error(ErrorData{
		PageData: data,
		Status:   403,
		Heading:  "Forbidden",
		Message:  "The form has expired or is invalid. Go back, reload the page and try again.",
	})
}
