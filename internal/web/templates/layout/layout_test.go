package layout

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderDoc(t *testing.T, ctx context.Context, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestBaseWrapsChildren(t *testing.T) {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p id="body">hello</p>`)
		return err
	})

	doc := renderDoc(t, templ.WithChildren(context.Background(), body), Base(PageData{Title: "Home"}))

	assert.Equal(t, "hello", doc.Find("main #body").Text())
	assert.Equal(t, "Home | Student Desk", doc.Find("title").Text())
	assert.Equal(t, 1, doc.Find("nav a[href='/register']").Length())
}

func TestBaseEscapesUserText(t *testing.T) {
	doc := renderDoc(t, context.Background(), Base(PageData{
		Username: `<script>x</script>`,
		Flash:    &FlashMessage{Type: FlashDanger, Message: `<b>bad</b>`},
	}))

	assert.Equal(t, `<script>x</script>`, doc.Find("nav .user").Text())
	assert.Equal(t, 0, doc.Find("nav script").Length())
	assert.Equal(t, `<b>bad</b>`, doc.Find(".flash.flash-danger").Text())
	assert.Equal(t, 1, doc.Find("nav a[href='/logout']").Length())
}

func TestCSRFFieldEscapesAttribute(t *testing.T) {
	doc := renderDoc(t, context.Background(), CSRFField(`a"><b`))

	val, ok := doc.Find("input[name='csrf_token']").Attr("value")
	require.True(t, ok)
	assert.Equal(t, `a"><b`, val)
	assert.Equal(t, 0, doc.Find("b").Length())
}

func TestWriterSanitizesURLs(t *testing.T) {
	var buf bytes.Buffer
	hw := NewWriter(&buf)
	hw.URL("javascript:alert(1)")
	require.NoError(t, hw.Err())
	assert.NotContains(t, buf.String(), "javascript")

	buf.Reset()
	hw.URL("/update/3")
	assert.Equal(t, "/update/3", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWriterKeepsFirstError(t *testing.T) {
	hw := NewWriter(failingWriter{})
	hw.Raw("<p>")
	hw.Text("x")
	assert.EqualError(t, hw.Err(), "closed")

	assert.EqualError(t, Base(PageData{}).Render(context.Background(), failingWriter{}), "closed")
}
