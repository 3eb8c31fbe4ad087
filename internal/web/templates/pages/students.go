package pages

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/studentdesk/internal/model"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
)

// Index renders the student list with the create form
func Index(data IndexData) templ.Component {
	return page(data.PageData, templ.Join(
		studentTable(data.Students, data.CSRFToken),
		heading("h2", "Add Student"),
		studentForm("/", data.CSRFToken, data.Form, false),
	))
}

// Update renders the edit form for one student
func Update(data UpdateData) templ.Component {
	return page(data.PageData, templ.Join(
		heading("h1", "Update Student"),
		studentForm(fmt.Sprintf("/update/%d", data.Student.ID), data.CSRFToken, data.Form, true),
	))
}

func heading(tag, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw("<" + tag + ">")
		hw.Text(text)
		hw.Raw("</" + tag + ">")
		return hw.Err()
	})
}

func studentTable(students []*model.Student, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<h1>Students</h1><table id="students"><thead><tr>`)
		hw.Raw(`<th>ID</th><th>First Name</th><th>Last Name</th><th>Email</th><th>Age</th><th>City</th><th></th>`)
		hw.Raw(`</tr></thead><tbody>`)
		for _, student := range students {
			hw.Component(ctx, studentRow(student, csrfToken))
		}
		if len(students) == 0 {
			hw.Raw(`<tr class="empty"><td colspan="7">No students yet.</td></tr>`)
		}
		hw.Raw(`</tbody></table>`)
		return hw.Err()
	})
}

func studentRow(student *model.Student, csrfToken string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := strconv.FormatInt(int64(student.ID), 10)
		age := ""
		if student.Age != nil {
			age = strconv.Itoa(*student.Age)
		}

		hw := layout.NewWriter(w)
		hw.Raw(`<tr data-id="` + id + `"><td>` + id + `</td>`)
		for _, cell := range []struct{ class, value string }{
			{"first-name", student.FirstName},
			{"last-name", student.LastName},
			{"email", student.Email},
			{"age", age},
			{"city", student.City},
		} {
			hw.Raw(`<td class="` + cell.class + `">`)
			hw.Text(cell.value)
			hw.Raw(`</td>`)
		}
		hw.Raw(`<td><a href="`)
		hw.URL("/update/" + id)
		hw.Raw(`">Edit</a><form class="inline" method="post" action="`)
		hw.URL("/delete/" + id)
		hw.Raw(`">`)
		hw.Component(ctx, layout.CSRFField(csrfToken))
		hw.Raw(`<button type="submit">Delete</button></form></td></tr>`)
		return hw.Err()
	})
}

func studentForm(action, csrfToken string, form StudentForm, cancel bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<form method="post" action="`)
		hw.URL(action)
		hw.Raw(`" id="student-form">`)
		hw.Component(ctx, layout.CSRFField(csrfToken))
		for _, f := range []field{
			{Name: "first_name", Label: "First Name", Type: "text", Value: form.FirstName, Required: true},
			{Name: "last_name", Label: "Last Name", Type: "text", Value: form.LastName, Required: true},
			{Name: "email", Label: "Email", Type: "email", Value: form.Email},
			{Name: "age", Label: "Age", Type: "number", Value: form.Age, Attrs: `min="1" max="120"`},
			{Name: "city", Label: "City", Type: "text", Value: form.City},
		} {
			f.Errors = form.Errors[f.Name]
			hw.Component(ctx, input(f))
		}
		hw.Raw(`<p><button type="submit">Submit</button>`)
		if cancel {
			hw.Raw(` <a href="/">Cancel</a>`)
		}
		hw.Raw(`</p></form>`)
		return hw.Err()
	})
}
