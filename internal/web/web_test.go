package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/studentdesk/internal/factory"
	"github.com/mcoot/studentdesk/internal/middleware"
	"github.com/mcoot/studentdesk/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	metrics *middleware.Metrics
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	metrics := middleware.NewMetrics("studentdesk")

	router := web.NewRouter(web.RouterConfig{
		Logger:             app.Logger,
		AuthService:        app.AuthService,
		StudentsController: app.StudentsController,
		Random:             app.Random,
		Metrics:            metrics,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		metrics: metrics,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request carrying the browser's CSRF token, as a rendered form would
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	ts.ensureCSRF()
	if form == nil {
		form = url.Values{}
	}
	if form.Get("csrf_token") == "" {
		form.Set("csrf_token", ts.cookies.value("csrf_token"))
	}
	return ts.request(http.MethodPost, path, form)
}

// postRaw makes a POST request exactly as given, without adding a CSRF token
func (ts *webTestServer) postRaw(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// ensureCSRF obtains a CSRF cookie the way a browser would, by loading a form page
func (ts *webTestServer) ensureCSRF() {
	if ts.cookies.value("csrf_token") != "" {
		return
	}
	ts.get("/register")
	require.NotEmpty(ts.t, ts.cookies.value("csrf_token"), "Expected CSRF cookie after loading a page")
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// value returns the stored cookie value, or "" if absent
func (j *cookieJar) value(name string) string {
	if cookie, ok := j.cookies[name]; ok {
		return cookie.Value
	}
	return ""
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// register registers a user through the form
func (ts *webTestServer) register(username, password string) {
	ts.t.Helper()
	rr := ts.post("/register", url.Values{"username": {username}, "password": {password}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after registration")
	require.Equal(ts.t, "/login", rr.Header().Get("Location"))
}

// login logs in through the form
func (ts *webTestServer) login(username, password string) {
	ts.t.Helper()
	rr := ts.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after login")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")
}

// signIn registers and logs in a fresh user
func (ts *webTestServer) signIn(username string) {
	ts.t.Helper()
	ts.register(username, "secret1")
	ts.login(username, "secret1")
}

// createStudent submits the create form and expects success
func (ts *webTestServer) createStudent(form url.Values) {
	ts.t.Helper()
	rr := ts.post("/", form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after creating student")
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
