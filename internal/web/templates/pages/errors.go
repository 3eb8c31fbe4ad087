package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/studentdesk/internal/web/templates/layout"
)

// Error renders a generic error page
func Error(data ErrorData) templ.Component {
	return page(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<h1>`)
		hw.Text(data.Heading)
		hw.Raw(`</h1><p class="error-message" data-status="` + strconv.Itoa(data.Status) + `">`)
		hw.Text(data.Message)
		hw.Raw(`</p><p><a href="/">Return to home</a></p>`)
		return hw.Err()
	}))
}
