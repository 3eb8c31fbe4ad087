package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/studentdesk/internal/web/templates/layout"
)

// field describes one labelled form input. Name doubles as the element id.
type field struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
	Attrs    string // extra trusted attributes, e.g. min/max
	Errors   []string
}

// password inputs never echo a value back
func input(f field) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<label for="`)
		hw.Text(f.Name)
		hw.Raw(`">`)
		hw.Text(f.Label)
		hw.Raw(`</label><input type="`)
		hw.Text(f.Type)
		hw.Raw(`" id="`)
		hw.Text(f.Name)
		hw.Raw(`" name="`)
		hw.Text(f.Name)
		hw.Raw(`"`)
		if f.Type != "password" {
			hw.Raw(` value="`)
			hw.Text(f.Value)
			hw.Raw(`"`)
		}
		if f.Attrs != "" {
			hw.Raw(" " + f.Attrs)
		}
		if f.Required {
			hw.Raw(` required`)
		}
		hw.Raw(`>`)
		hw.Component(ctx, layout.FieldErrors(f.Errors))
		return hw.Err()
	})
}
