package frontend

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jo-hoe/goportfolio/internal/backend/database"
	"github.com/jo-hoe/goportfolio/internal/core"
	"github.com/jo-hoe/goportfolio/internal/flash"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBaseURL = &url.URL{Scheme: "http", Host: "example.com", Path: "/"}

// testClient replays cookies between requests like a browser.
type testClient struct {
	t   *testing.T
	e   *echo.Echo
	jar *cookiejar.Jar
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, cookie := range c.jar.Cookies(testBaseURL) {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c.e.ServeHTTP(rec, req)
	c.jar.SetCookies(testBaseURL, rec.Result().Cookies())
	return rec
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return c.do(req)
}

func newTestConfig(t *testing.T) *core.ServiceConfig {
	t.Helper()
	staticDirectory := t.TempDir()
	imageDirectory := filepath.Join(staticDirectory, "images")
	require.NoError(t, os.MkdirAll(filepath.Join(staticDirectory, "css"), 0755))
	require.NoError(t, os.MkdirAll(imageDirectory, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDirectory, "css", "style.css"), []byte("body { margin: 0; }\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(imageDirectory, "test-project.jpg"), []byte("jpeg bytes"), 0644))

	img := image.NewRGBA(image.Rect(0, 0, 960, 480))
	for x := 0; x < 960; x++ {
		img.Set(x, x%480, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(imageDirectory, "wide.png"), buf.Bytes(), 0644))

	cfg := core.DefaultConfig()
	cfg.Database = core.Database{Type: "sqlite", ConnectionString: ":memory:"}
	cfg.StaticDirectory = staticDirectory
	cfg.ImageDirectory = imageDirectory
	cfg.RateLimit = 0
	return cfg
}

func newTestClient(t *testing.T, cfg *core.ServiceConfig, store ProjectStore) *testClient {
	t.Helper()
	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	NewFrontendService(cfg, store, flash.NewCookieStore()).SetRoutes(e)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, e: e, jar: jar}
}

func newCoreStore(t *testing.T, cfg *core.ServiceConfig) *core.CoreService {
	t.Helper()
	store, err := core.NewCoreService(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// fakeStore drives the failure paths of the pages.
type fakeStore struct {
	images   []string
	addFails bool
	down     bool
	added    int
}

func (f *fakeStore) AddProject(ctx context.Context, title, description, imageFilename string) (int64, bool) {
	if f.addFails {
		return 0, false
	}
	f.added++
	return int64(f.added), true
}

func (f *fakeStore) GetAllProjects(ctx context.Context) []*database.Project {
	return []*database.Project{}
}

func (f *fakeStore) GetAvailableImages() []string {
	return f.images
}

func (f *fakeStore) GetImageThumbnail(filename string) ([]byte, error) {
	return nil, core.ErrImageNotFound
}

func (f *fakeStore) Ping() bool {
	return !f.down
}

func validProjectForm() url.Values {
	return url.Values{
		"title":          {"New Test Project"},
		"description":    {"This is a new test project created through the form."},
		"image_filename": {"test-project.jpg"},
	}
}

func validContactForm() url.Values {
	return url.Values{
		"first_name": {"John"},
		"last_name":  {"Doe"},
		"email":      {"john.doe@example.com"},
		"message":    {"Hello, this is a test message from the contact form."},
	}
}

func TestStaticPages(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, newCoreStore(t, cfg))

	tests := []struct {
		path     string
		expected []string
	}{
		{"/", []string{"Welcome to My Digital Space", "Saad Siddique", "View Source Code on GitHub", cfg.Site.SourceURL}},
		{"/about", []string{"About Me", "Professional Background"}},
		{"/resume", []string{"<h1>Resume</h1>", "/static/Siddique_Saad_Resume.pdf", "<iframe"}},
		{"/contact", []string{"Get In Touch", "<label", `name="first_name"`}},
		{"/thank-you", []string{"Thank You!"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := client.get(tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/html"))

			body := rec.Body.String()
			assert.Contains(t, body, "<!DOCTYPE html>")
			assert.Contains(t, body, `<link rel="stylesheet" href="/static/css/style.css">`)
			for _, link := range []string{`href="/"`, `href="/about"`, `href="/resume"`, `href="/projects"`, `href="/contact"`} {
				assert.Contains(t, body, link)
			}
			for _, text := range tt.expected {
				assert.Contains(t, body, text)
			}
		})
	}
}

func TestProjectsPage_Empty(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, newCoreStore(t, cfg))

	rec := client.get("/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Projects &amp; Portfolio")
	assert.NotContains(t, rec.Body.String(), `class="project-card"`)
}

func TestProjectsPage_ListsStoredProjects(t *testing.T) {
	cfg := newTestConfig(t)
	store := newCoreStore(t, cfg)
	client := newTestClient(t, cfg, store)

	_, ok := store.AddProject(context.Background(), "Persistence <Test> Project", "Testing data persistence across requests", "test-project.jpg")
	require.True(t, ok)

	rec := client.get("/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Persistence &lt;Test&gt; Project")
	assert.Contains(t, body, `src="/thumbnails/test-project.jpg"`)
	assert.Equal(t, 1, strings.Count(body, `class="project-card"`))
}

func TestAddProject_Form(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, newCoreStore(t, cfg))

	rec := client.get("/add-project")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Add New Project")
	assert.Contains(t, body, `<option value="test-project.jpg">test-project.jpg</option>`)
	assert.Contains(t, body, `<option value="wide.png">wide.png</option>`)
}

func TestAddProject_RedirectsAndShowsProject(t *testing.T) {
	cfg := newTestConfig(t)
	store := newCoreStore(t, cfg)
	client := newTestClient(t, cfg, store)

	rec := client.postForm("/add-project", validProjectForm())
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/projects", rec.Header().Get(echo.HeaderLocation))

	rec = client.get("/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "New Test Project")
	assert.Contains(t, rec.Body.String(), "Project added successfully!")
	require.Len(t, store.GetAllProjects(context.Background()), 1)

	// the confirmation is shown once
	rec = client.get("/projects")
	assert.NotContains(t, rec.Body.String(), "Project added successfully!")
}

func TestAddProject_ValidationErrors(t *testing.T) {
	cfg := newTestConfig(t)
	store := newCoreStore(t, cfg)
	client := newTestClient(t, cfg, store)

	rec := client.postForm("/add-project", url.Values{
		"title":          {"X"},
		"description":    {"short"},
		"image_filename": {"not-there.jpg"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Field must be between 2 and 200 characters long.")
	assert.Contains(t, body, "Field must be between 10 and 2000 characters long.")
	assert.Contains(t, body, "Not a valid choice.")
	assert.Contains(t, body, `value="X"`)
	assert.Empty(t, store.GetAllProjects(context.Background()))
}

func TestAddProject_BlankFieldsAreRequired(t *testing.T) {
	cfg := newTestConfig(t)
	store := newCoreStore(t, cfg)
	client := newTestClient(t, cfg, store)

	values := validProjectForm()
	values.Set("title", "    ")
	rec := client.postForm("/add-project", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "This field is required.")
	assert.Empty(t, store.GetAllProjects(context.Background()))
}

func TestAddProject_TrimsInputBeforeValidation(t *testing.T) {
	cfg := newTestConfig(t)
	store := newCoreStore(t, cfg)
	client := newTestClient(t, cfg, store)

	// lengths are counted after trimming
	values := validProjectForm()
	values.Set("title", " A")
	rec := client.postForm("/add-project", values)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Field must be between 2 and 200 characters long.")
	assert.Empty(t, store.GetAllProjects(context.Background()))

	values = validProjectForm()
	values.Set("title", "  Padded Title  ")
	values.Set("image_filename", " test-project.jpg ")
	rec = client.postForm("/add-project", values)
	require.Equal(t, http.StatusFound, rec.Code)

	projects := store.GetAllProjects(context.Background())
	require.Len(t, projects, 1)
	assert.Equal(t, "Padded Title", projects[0].Title)
	assert.Equal(t, "test-project.jpg", projects[0].ImageFilename)
}

func TestAddProject_StoreFailure(t *testing.T) {
	cfg := newTestConfig(t)
	store := &fakeStore{images: []string{"test-project.jpg"}, addFails: true}
	client := newTestClient(t, cfg, store)

	rec := client.postForm("/add-project", validProjectForm())
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Error adding project. Please try again.")
	assert.Contains(t, body, `class="flash flash-error"`)
	assert.Contains(t, body, `value="New Test Project"`)
}

func TestContact_RedirectsToThankYou(t *testing.T) {
	cfg := newTestConfig(t)
	store := newCoreStore(t, cfg)
	client := newTestClient(t, cfg, store)

	rec := client.postForm("/contact", validContactForm())
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/thank-you", rec.Header().Get(echo.HeaderLocation))

	rec = client.get("/thank-you")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Thank You!")
	assert.Contains(t, rec.Body.String(), "Thank you for your message!")
	assert.Empty(t, store.GetAllProjects(context.Background()))
}

func TestContact_InvalidSubmission(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, newCoreStore(t, cfg))

	values := validContactForm()
	values.Set("first_name", "")
	values.Set("email", "invalid-email")
	values.Set("message", "Short")
	rec := client.postForm("/contact", values)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<form method="POST" action="/contact"`)
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, "Invalid email address.")
	assert.Contains(t, body, "Field must be between 10 and 1000 characters long.")
	assert.Contains(t, body, `value="Doe"`)
}

func TestNotFound(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, newCoreStore(t, cfg))

	for _, path := range []string{"/nonexistent-page", "/static/missing.css"} {
		rec := client.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "404 - Not Found", path)
		assert.Contains(t, rec.Body.String(), `href="/projects"`, path)
	}
}

func TestStaticFiles(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, newCoreStore(t, cfg))

	rec := client.get("/static/css/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/css"))
	assert.Equal(t, "body { margin: 0; }\n", rec.Body.String())

	rec = client.get("/static/images/test-project.jpg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg bytes", rec.Body.String())
}

func TestThumbnails(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, newCoreStore(t, cfg))

	rec := client.get("/thumbnails/wide.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimePNG, rec.Header().Get(echo.HeaderContentType))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 480, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	rec = client.get("/thumbnails/missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = client.get("/thumbnails/test-project.jpg")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIcons(t *testing.T) {
	cfg := newTestConfig(t)
	client := newTestClient(t, cfg, &fakeStore{})

	rec := client.get("/icon.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimeSVG, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = client.get("/favicon.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, mimePNG, rec.Header().Get(echo.HeaderContentType))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, faviconSize, img.Bounds().Dx())
	assert.Equal(t, faviconSize, img.Bounds().Dy())
}

func TestProbe(t *testing.T) {
	cfg := newTestConfig(t)
	store := &fakeStore{}
	client := newTestClient(t, cfg, store)

	rec := client.get("/probe")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	store.down = true
	rec = client.get("/probe")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimitedForms(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.RateLimit = 1
	store := &fakeStore{images: []string{"test-project.jpg"}}
	client := newTestClient(t, cfg, store)

	rec := client.postForm("/add-project", validProjectForm())
	require.Equal(t, http.StatusFound, rec.Code)

	rec = client.postForm("/add-project", validProjectForm())
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "429 - Too Many Requests")
	assert.Equal(t, 1, store.added)

	// pages stay reachable
	assert.Equal(t, http.StatusOK, client.get("/add-project").Code)
}

func TestCSRFProtection(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.CSRF = true
	store := &fakeStore{images: []string{"test-project.jpg"}}
	client := newTestClient(t, cfg, store)

	rec := client.get("/add-project")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="csrf"`)

	anonymous := newTestClient(t, cfg, store)
	rec = anonymous.postForm("/add-project", validProjectForm())
	assert.GreaterOrEqual(t, rec.Code, http.StatusBadRequest)
	assert.Equal(t, 0, store.added)

	var token string
	for _, cookie := range client.jar.Cookies(testBaseURL) {
		if cookie.Name == "_csrf" {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token)

	values := validProjectForm()
	values.Set("csrf", token)
	rec = client.postForm("/add-project", values)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, 1, store.added)
}
