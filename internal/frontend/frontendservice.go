package frontend

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/jo-hoe/goportfolio/internal/backend/database"
	"github.com/jo-hoe/goportfolio/internal/common"
	"github.com/jo-hoe/goportfolio/internal/core"
	"github.com/jo-hoe/goportfolio/internal/flash"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	CSRFContextKey = "csrf"

	projectAddedMessage  = "Project added successfully!"
	projectErrorMessage  = "Error adding project. Please try again."
	contactThanksMessage = "Thank you for your message! I will get back to you as soon as possible."
)

// ProjectStore is the part of the core service the pages depend on.
type ProjectStore interface {
	AddProject(ctx context.Context, title, description, imageFilename string) (int64, bool)
	GetAllProjects(ctx context.Context) []*database.Project
	GetAvailableImages() []string
	GetImageThumbnail(filename string) ([]byte, error)
	Ping() bool
}

// PageData is passed to every view.
type PageData struct {
	Title          string
	Active         string
	Site           core.Site
	Year           int
	CSRF           string
	Flashes        []flash.Message
	ResumeDocument string

	Projects []*database.Project
	Images   []string
	Form     any
	Errors   common.FieldErrors

	StatusCode int
	Heading    string
	Detail     string
}

type FrontendService struct {
	config     *core.ServiceConfig
	store      ProjectStore
	flashStore flash.Store
	favicon    *favicon
}

func NewFrontendService(config *core.ServiceConfig, store ProjectStore, flashStore flash.Store) *FrontendService {
	return &FrontendService{
		config:     config,
		store:      store,
		flashStore: flashStore,
		favicon:    &favicon{},
	}
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	renderer, err := newTemplate(viewsFS)
	if err != nil {
		panic(err)
	}
	e.Renderer = renderer
	e.Validator = service.newValidator()
	e.HTTPErrorHandler = service.httpErrorHandler

	if service.config.CSRF {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/probe"
			},
			TokenLookup:    "form:" + CSRFContextKey,
			ContextKey:     CSRFContextKey,
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteStrictMode,
		}))
	}
	formMiddleware := service.formMiddleware()

	e.GET("/", service.homeHandler)
	e.GET("/about", service.aboutHandler)
	e.GET("/resume", service.resumeHandler)
	e.GET("/projects", service.projectsHandler)
	e.GET("/add-project", service.addProjectFormHandler)
	e.POST("/add-project", service.addProjectSubmitHandler, formMiddleware...)
	e.GET("/contact", service.contactFormHandler)
	e.POST("/contact", service.contactSubmitHandler, formMiddleware...)
	e.GET("/thank-you", service.thankYouHandler)

	e.Static("/static", service.config.StaticDirectory)
	e.GET("/thumbnails/:filename", service.thumbnailHandler)

	// Favicon routes
	e.GET("/icon.svg", service.iconHandler)
	e.GET("/favicon.png", service.faviconHandler)

	e.GET("/probe", service.probeHandler)
}

// formMiddleware limits form submissions per client IP
func (service *FrontendService) formMiddleware() []echo.MiddlewareFunc {
	if service.config.RateLimit <= 0 {
		return nil
	}
	burst := int(service.config.RateLimit)
	if burst < 1 {
		burst = 1
	}
	return []echo.MiddlewareFunc{
		middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(service.config.RateLimit),
				Burst:     burst,
				ExpiresIn: 3 * time.Minute,
			}),
		}),
	}
}

func (service *FrontendService) newValidator() *common.FormValidator {
	formValidator := common.NewFormValidator()
	err := formValidator.RegisterValidation(availableImageTag, func(fl validator.FieldLevel) bool {
		return slices.Contains(service.store.GetAvailableImages(), fl.Field().String())
	}, "Not a valid choice.")
	if err != nil {
		panic(err)
	}
	return formValidator
}

// render pops pending flash messages into data before executing the page.
func (service *FrontendService) render(ctx echo.Context, status int, page string, data *PageData) error {
	messages, err := service.flashStore.Pop(ctx)
	if err != nil {
		slog.Warn("failed to read flash messages", "error", err)
	}
	data.Flashes = append(messages, data.Flashes...)
	return ctx.Render(status, page, service.decorate(ctx, data))
}

func (service *FrontendService) decorate(ctx echo.Context, data *PageData) *PageData {
	data.Site = service.config.Site
	data.Year = time.Now().Year()
	data.ResumeDocument = service.config.ResumeDocument
	if token, ok := ctx.Get(CSRFContextKey).(string); ok {
		data.CSRF = token
	}
	return data
}

func (service *FrontendService) homeHandler(ctx echo.Context) error {
	return service.render(ctx, http.StatusOK, "home", &PageData{Title: "Home", Active: "home"})
}

func (service *FrontendService) aboutHandler(ctx echo.Context) error {
	return service.render(ctx, http.StatusOK, "about", &PageData{Title: "About Me", Active: "about"})
}

func (service *FrontendService) resumeHandler(ctx echo.Context) error {
	return service.render(ctx, http.StatusOK, "resume", &PageData{Title: "Resume", Active: "resume"})
}

func (service *FrontendService) thankYouHandler(ctx echo.Context) error {
	return service.render(ctx, http.StatusOK, "thank_you", &PageData{Title: "Thank You"})
}

func (service *FrontendService) projectsHandler(ctx echo.Context) error {
	projects := service.store.GetAllProjects(ctx.Request().Context())
	return service.render(ctx, http.StatusOK, "projects", &PageData{
		Title:    "Projects",
		Active:   "projects",
		Projects: projects,
	})
}

func (service *FrontendService) addProjectFormHandler(ctx echo.Context) error {
	return service.renderAddProject(ctx, &ProjectForm{}, nil, nil)
}

func (service *FrontendService) addProjectSubmitHandler(ctx echo.Context) error {
	form := new(ProjectForm)
	if err := ctx.Bind(form); err != nil {
		slog.Warn("addProjectSubmitHandler: failed to bind form", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	form.normalize()

	if err := ctx.Validate(form); err != nil {
		var fieldErrors common.FieldErrors
		if !errors.As(err, &fieldErrors) {
			return err
		}
		return service.renderAddProject(ctx, form, fieldErrors, nil)
	}

	id, ok := service.store.AddProject(ctx.Request().Context(), form.Title, form.Description, form.ImageFilename)
	if !ok {
		return service.renderAddProject(ctx, form, nil, []flash.Message{flash.Error(projectErrorMessage)})
	}
	slog.Info("project added through form", "id", id)

	if err := service.flashStore.Add(ctx, flash.Success(projectAddedMessage)); err != nil {
		slog.Error("addProjectSubmitHandler: failed to store flash message", "error", err)
	}
	return ctx.Redirect(http.StatusFound, "/projects")
}

func (service *FrontendService) renderAddProject(ctx echo.Context, form *ProjectForm, fieldErrors common.FieldErrors, flashes []flash.Message) error {
	return service.render(ctx, http.StatusOK, "add_project", &PageData{
		Title:   "Add Project",
		Active:  "projects",
		Images:  service.store.GetAvailableImages(),
		Form:    form,
		Errors:  fieldErrors,
		Flashes: flashes,
	})
}

func (service *FrontendService) contactFormHandler(ctx echo.Context) error {
	return service.renderContact(ctx, &ContactForm{}, nil)
}

func (service *FrontendService) contactSubmitHandler(ctx echo.Context) error {
	form := new(ContactForm)
	if err := ctx.Bind(form); err != nil {
		slog.Warn("contactSubmitHandler: failed to bind form", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	form.normalize()

	if err := ctx.Validate(form); err != nil {
		var fieldErrors common.FieldErrors
		if !errors.As(err, &fieldErrors) {
			return err
		}
		return service.renderContact(ctx, form, fieldErrors)
	}

	// Messages are acknowledged only; delivery is out of scope.
	slog.Info("contact message received", "email_domain", emailDomain(form.Email), "message_length", len(form.Message))

	if err := service.flashStore.Add(ctx, flash.Success(contactThanksMessage)); err != nil {
		slog.Error("contactSubmitHandler: failed to store flash message", "error", err)
	}
	return ctx.Redirect(http.StatusFound, "/thank-you")
}

func (service *FrontendService) renderContact(ctx echo.Context, form *ContactForm, fieldErrors common.FieldErrors) error {
	return service.render(ctx, http.StatusOK, "contact", &PageData{
		Title:  "Contact",
		Active: "contact",
		Form:   form,
		Errors: fieldErrors,
	})
}

func (service *FrontendService) probeHandler(ctx echo.Context) error {
	if !service.store.Ping() {
		return ctx.String(http.StatusServiceUnavailable, "database unavailable")
	}
	return ctx.String(http.StatusOK, "ok")
}

func emailDomain(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}
