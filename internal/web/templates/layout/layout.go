// Package layout holds the data and markup shared by every page.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // success, danger, info
	Message string
}

// Flash types
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// PageData is embedded by every page's data struct
type PageData struct {
	Title     string
	Username  string // empty when anonymous
	Flash     *FlashMessage
	CSRFToken string
}

// SignedIn reports whether the nav should show the signed-in links
func (p PageData) SignedIn() bool {
	return p.Username != ""
}

// Writer writes markup and keeps the first write error
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes trusted markup as is
func (hw *Writer) Raw(markup string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, markup)
	}
}

// Text writes s escaped for use in element content or a quoted attribute
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// URL writes u sanitized and escaped for an href or action attribute
func (hw *Writer) URL(u string) {
	hw.Text(string(templ.URL(u)))
}

// Component renders c in place
func (hw *Writer) Component(ctx context.Context, c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

// Err returns the first error hit while writing
func (hw *Writer) Err() error {
	return hw.err
}

// Base renders the document chrome around the children in ctx
func Base(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		children := templ.GetChildren(ctx)
		ctx = templ.ClearChildren(ctx)

		hw := NewWriter(w)
		hw.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.Text(data.Title)
		hw.Raw(` | Student Desk</title>`)
		hw.Raw(stylesheet)
		hw.Raw(`</head><body>`)
		hw.Component(ctx, nav(data))
		hw.Raw(`<main>`)
		if data.Flash != nil {
			hw.Component(ctx, flash(*data.Flash))
		}
		hw.Component(ctx, children)
		hw.Raw(`</main></body></html>`)
		return hw.Err()
	})
}

func nav(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<nav><a class="brand" href="/">Student Desk</a>`)
		if data.SignedIn() {
			hw.Raw(`<span class="user">`)
			hw.Text(data.Username)
			hw.Raw(`</span><a href="/logout">Logout</a>`)
		} else {
			hw.Raw(`<a href="/login">Login</a><a href="/register">Register</a>`)
		}
		hw.Raw(`</nav>`)
		return hw.Err()
	})
}

func flash(msg FlashMessage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<div class="flash flash-`)
		hw.Text(msg.Type)
		hw.Raw(`" role="alert">`)
		hw.Text(msg.Message)
		hw.Raw(`</div>`)
		return hw.Err()
	})
}

// CSRFField renders the hidden token input every form carries
func CSRFField(token string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw(`<input type="hidden" name="csrf_token" value="`)
		hw.Text(token)
		hw.Raw(`">`)
		return hw.Err()
	})
}

// FieldErrors renders the messages for one form field
func FieldErrors(msgs []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		for _, msg := range msgs {
			hw.Raw(`<div class="field-error">`)
			hw.Text(msg)
			hw.Raw(`</div>`)
		}
		return hw.Err()
	})
}

const stylesheet = `<style>
body { font-family: system-ui, sans-serif; margin: 0 auto; max-width: 960px; padding: 0 1rem; }
nav { display: flex; gap: 1rem; align-items: center; padding: 1rem 0; border-bottom: 1px solid #ddd; }
nav .brand { font-weight: bold; margin-right: auto; }
.flash { padding: .75rem 1rem; margin: 1rem 0; border-radius: 4px; }
.flash-success { background: #e6f4ea; }
.flash-danger { background: #fdecea; }
.flash-info { background: #e8f0fe; }
.field-error { color: #b00020; font-size: .875rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #eee; padding: .5rem; text-align: left; }
form.inline { display: inline; }
label { display: block; margin-top: .5rem; }
</style>`
