package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/demo"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/forms"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/render"
	"github.com/mrlokans/readinglist/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// parseTemplates loads the embedded page templates.
func parseTemplates() *template.Template {
	funcMap := template.FuncMap{
		"formatRating": render.FormatRating,
		"maxRating":    func() float64 { return entities.MaxRating },
		"bookView": func(p pageData, b entities.Book) bookView {
			return bookView{Book: b, CSRFField: p.CSRFField}
		},
	}
	return template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))
}

// UIController serves the library page and its form posts. Every post
// redirects back to the page; failures are reported through a flash message.
type UIController struct {
	controller *controller.Controller
	sessions   *session.Manager
	settings   ThemeSettings
}

func NewUIController(ctrl *controller.Controller, sessions *session.Manager, settings ThemeSettings) *UIController {
	return &UIController{
		controller: ctrl,
		sessions:   sessions,
		settings:   settings,
	}
}

// pageData is the model of the library template.
type pageData struct {
	Shelves   render.Shelves
	Theme     entities.Theme
	Flash     string
	Demo      bool
	CSRFField template.HTML
}

// bookView is the model of one list entry; each entry carries its own forms.
type bookView struct {
	entities.Book
	CSRFField template.HTML
}

// LibraryPage handles GET /
func (ui *UIController) LibraryPage(c *gin.Context) {
	ui.renderPage(c, http.StatusOK, ui.popFlash(c))
}

func (ui *UIController) renderPage(c *gin.Context, status int, flash string) {
	c.HTML(status, "library", pageData{
		Shelves:   ui.controller.Shelves(),
		Theme:     resolveTheme(c, ui.sessions, ui.settings),
		Flash:     flash,
		Demo:      demo.IsDemo(c),
		CSRFField: session.CSRFTokenField(c),
	})
}

// CreateBook handles POST /books
func (ui *UIController) CreateBook(c *gin.Context) {
	var form forms.BookForm
	if err := c.ShouldBind(&form); err != nil {
		ui.redirectWithFlash(c, "Could not read the form.")
		return
	}

	input, err := form.Parse()
	if err != nil {
		ui.redirectWithFlash(c, err.Error())
		return
	}

	ui.dispatch(c, controller.CreateBook{Input: input})
}

// UpdateBook handles POST /books/:id
func (ui *UIController) UpdateBook(c *gin.Context) {
	var form forms.BookForm
	if err := c.ShouldBind(&form); err != nil {
		ui.redirectWithFlash(c, "Could not read the form.")
		return
	}

	patch, err := form.ParsePatch()
	if err != nil {
		ui.redirectWithFlash(c, err.Error())
		return
	}

	ui.dispatch(c, controller.UpdateBook{ID: c.Param("id"), Patch: patch})
}

// ToggleRead handles POST /books/:id/toggle
func (ui *UIController) ToggleRead(c *gin.Context) {
	ui.dispatch(c, controller.ToggleRead{ID: c.Param("id")})
}

// DeleteBook handles POST /books/:id/delete
func (ui *UIController) DeleteBook(c *gin.Context) {
	ui.dispatch(c, controller.DeleteBook{ID: c.Param("id")})
}

func (ui *UIController) dispatch(c *gin.Context, cmd controller.Command) {
	if _, err := ui.controller.Dispatch(cmd); err != nil {
		if errors.Is(err, library.ErrBookNotFound) {
			ui.renderPage(c, http.StatusNotFound, "That book no longer exists.")
			return
		}
		respondInternalError(c, err, "dispatch")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (ui *UIController) redirectWithFlash(c *gin.Context, msg string) {
	if ui.sessions != nil {
		ui.sessions.Flash(c.Request, msg)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (ui *UIController) popFlash(c *gin.Context) string {
	if ui.sessions == nil {
		return ""
	}
	return ui.sessions.PopFlash(c.Request)
}
