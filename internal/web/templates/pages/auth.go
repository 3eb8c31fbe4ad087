package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/studentdesk/internal/services/validation"
	"github.com/mcoot/studentdesk/internal/web/templates/layout"
)

// Login renders the login page
func Login(data LoginData) templ.Component {
	return page(data.PageData, credentialsForm(credentials{
		Heading:   "Login",
		Action:    "/login",
		ID:        "login-form",
		CSRFToken: data.CSRFToken,
		Username:  data.Username,
		Errors:    data.Errors,
		AltPrompt: "No account?",
		AltHref:   "/register",
		AltLabel:  "Register",
	}))
}

// Register renders the registration page
func Register(data RegisterData) templ.Component {
	return page(data.PageData, credentialsForm(credentials{
		Heading:   "Register",
		Action:    "/register",
		ID:        "register-form",
		CSRFToken: data.CSRFToken,
		Username:  data.Username,
		Errors:    data.Errors,
		AltPrompt: "Already registered?",
		AltHref:   "/login",
		AltLabel:  "Login",
	}))
}

type credentials struct {
	Heading   string
	Action    string
	ID        string
	CSRFToken string
	Username  string
	Errors    validation.Errors
	AltPrompt string
	AltHref   string
	AltLabel  string
}

func credentialsForm(c credentials) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<h1>`)
		hw.Text(c.Heading)
		hw.Raw(`</h1><form method="post" action="`)
		hw.URL(c.Action)
		hw.Raw(`" id="`)
		hw.Text(c.ID)
		hw.Raw(`">`)
		hw.Component(ctx, layout.CSRFField(c.CSRFToken))
		hw.Component(ctx, input(field{
			Name: "username", Label: "Username", Type: "text",
			Value: c.Username, Required: true, Errors: c.Errors["username"],
		}))
		hw.Component(ctx, input(field{
			Name: "password", Label: "Password", Type: "password",
			Required: true, Errors: c.Errors["password"],
		}))
		hw.Raw(`<p><button type="submit">`)
		hw.Text(c.Heading)
		hw.Raw(`</button></p></form><p>`)
		hw.Text(c.AltPrompt)
		hw.Raw(` <a href="`)
		hw.URL(c.AltHref)
		hw.Raw(`">`)
		hw.Text(c.AltLabel)
		hw.Raw(`</a></p>`)
		return hw.Err()
	})
}
