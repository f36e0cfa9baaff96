package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/forms"
	"github.com/mrlokans/readinglist/internal/render"
)

// BooksController serves the JSON books API.
type BooksController struct {
	controller *controller.Controller
}

func NewBooksController(ctrl *controller.Controller) *BooksController {
	return &BooksController{controller: ctrl}
}

// BookResponse is returned by every mutating books endpoint.
type BookResponse struct {
	Book    *entities.Book  `json:"book,omitempty"`
	Shelves ShelvesResponse `json:"shelves"`
}

// ShelvesResponse is the JSON form of render.Shelves.
type ShelvesResponse struct {
	Unread      []entities.Book `json:"unread"`
	Read        []entities.Book `json:"read"`
	UnreadCount int             `json:"unread_count"`
	ReadCount   int             `json:"read_count"`
	Total       int             `json:"total"`
}

func asShelvesResponse(s render.Shelves) ShelvesResponse {
	return ShelvesResponse{
		Unread:      s.Unread,
		Read:        s.Read,
		UnreadCount: len(s.Unread),
		ReadCount:   len(s.Read),
		Total:       s.Total(),
	}
}

// GetAllBooks handles GET /api/books
func (bc *BooksController) GetAllBooks(c *gin.Context) {
	books := bc.controller.Store().All()
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, ok := bc.controller.Store().Find(c.Param("id"))
	if !ok {
		respondNotFound(c, "book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// GetShelves handles GET /api/shelves
func (bc *BooksController) GetShelves(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, asShelvesResponse(bc.controller.Shelves()))
}

// CreateBook handles POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var payload forms.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	input, err := payload.Parse()
	if err != nil {
		respondCommandError(c, err, "create book")
		return
	}

	bc.dispatch(c, http.StatusCreated, controller.CreateBook{Input: input})
}

// UpdateBook handles PATCH /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var payload forms.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, "invalid JSON body: "+err.Error())
		return
	}

	patch, err := payload.ParsePatch()
	if err != nil {
		respondCommandError(c, err, "update book")
		return
	}

	bc.dispatch(c, http.StatusOK, controller.UpdateBook{ID: c.Param("id"), Patch: patch})
}

// ToggleRead handles POST /api/books/:id/toggle
func (bc *BooksController) ToggleRead(c *gin.Context) {
	bc.dispatch(c, http.StatusOK, controller.ToggleRead{ID: c.Param("id")})
}

// DeleteBook handles DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	bc.dispatch(c, http.StatusOK, controller.DeleteBook{ID: c.Param("id")})
}

func (bc *BooksController) dispatch(c *gin.Context, status int, cmd controller.Command) {
	out, err := bc.controller.Dispatch(cmd)
	if err != nil {
		respondCommandError(c, err, "dispatch")
		return
	}

	resp := BookResponse{Shelves: asShelvesResponse(out.Shelves)}
	if out.Book.ID != "" {
		book := out.Book
		resp.Book = &book
	}
	c.JSON(status, resp)
}
