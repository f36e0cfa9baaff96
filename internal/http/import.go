package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
	"github.com/mrlokans/readinglist/internal/services"
	"github.com/mrlokans/readinglist/internal/tasks"
)

// syncImportTimeout bounds a URL import run inline when no task queue exists.
const syncImportTimeout = 2 * time.Minute

// ImportController handles fixture import, export and import history.
type ImportController struct {
	importer   BulkImporter
	controller *controller.Controller
	history    ImportHistory
	queue      FixtureTaskQueue
	httpClient *http.Client
}

func NewImportController(importer BulkImporter, ctrl *controller.Controller, history ImportHistory, queue FixtureTaskQueue, httpClient *http.Client) *ImportController {
	return &ImportController{
		importer:   importer,
		controller: ctrl,
		history:    history,
		queue:      queue,
		httpClient: httpClient,
	}
}

// ImportResponse reports a finished synchronous import.
type ImportResponse struct {
	Session *entities.ImportSession `json:"session"`
	Shelves ShelvesResponse         `json:"shelves"`
}

// Import handles POST /api/library/import?mode=merge|replace
// The fixture is either the raw request body or a multipart "file" field.
func (ic *ImportController) Import(c *gin.Context) {
	mode, ok := parseModeParam(c)
	if !ok {
		return
	}

	books, source, err := ic.readFixture(c)
	if err != nil {
		if errors.Is(err, fixture.ErrMalformed) {
			respondError(c, http.StatusBadRequest, CodeMalformedFixture, err.Error())
			return
		}
		respondBadRequest(c, err.Error())
		return
	}

	session, err := ic.importer.ImportBooks(services.ImportRequest{
		Source:   entities.ImportSourceUpload,
		Location: source,
		Mode:     mode,
	}, books)
	if err != nil {
		respondCommandError(c, err, "import fixture")
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Session: session,
		Shelves: asShelvesResponse(ic.controller.Shelves()),
	})
}

func (ic *ImportController) readFixture(c *gin.Context) ([]entities.Book, string, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("no file uploaded")
		}
		if header.Size > fixture.MaxSize {
			return nil, "", fmt.Errorf("fixture exceeds %d bytes", fixture.MaxSize)
		}
		file, err := header.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open uploaded file")
		}
		defer file.Close()

		books, err := fixture.Decode(file)
		return books, header.Filename, err
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, fixture.MaxSize)
	books, err := fixture.Decode(body)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return nil, "", fmt.Errorf("fixture exceeds %d bytes", fixture.MaxSize)
	}
	return books, "", err
}

// ImportURLRequest is the body of POST /api/library/import/url.
type ImportURLRequest struct {
	URL  string `json:"url" form:"url" binding:"required"`
	Mode string `json:"mode" form:"mode"`
}

// ImportURL handles POST /api/library/import/url
// With a task queue the download runs in the background and a task id is
// returned; otherwise the import runs inline.
func (ic *ImportController) ImportURL(c *gin.Context) {
	var req ImportURLRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "url is required")
		return
	}

	if err := validateFixtureURL(req.URL); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	mode, ok := library.ParseLoadMode(req.Mode)
	if !ok {
		respondBadRequest(c, "mode must be merge or replace")
		return
	}

	if ic.queue != nil {
		taskID, err := ic.queue.EnqueueImportFixture(tasks.ImportFixtureTask{URL: req.URL, Mode: string(mode)})
		if err != nil {
			respondInternalError(c, err, "enqueue fixture import")
			return
		}
		respondAccepted(c, "fixture import enqueued", gin.H{
			"task_id": taskID,
			"queue":   tasks.ImportFixtureQueue,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), syncImportTimeout)
	defer cancel()

	session, err := ic.importer.ImportFrom(ctx, services.ImportRequest{
		Source:   entities.ImportSourceURL,
		Location: req.URL,
		Mode:     mode,
	}, fixture.URLSource(ic.httpClient, req.URL))
	if err != nil {
		var batchErr *library.BatchError
		if errors.As(err, &batchErr) {
			respondCommandError(c, err, "import fixture url")
			return
		}
		respondError(c, http.StatusBadGateway, CodeUnavailable, err.Error())
		return
	}

	c.JSON(http.StatusOK, ImportResponse{
		Session: session,
		Shelves: asShelvesResponse(ic.controller.Shelves()),
	})
}

func validateFixtureURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must be http or https")
	}
	if u.Host == "" {
		return fmt.Errorf("url must include a host")
	}
	return nil
}

// Export handles GET /api/library/export
// Writes the whole library in the fixture format.
func (ic *ImportController) Export(c *gin.Context) {
	books := ic.controller.Store().All()

	filename := fmt.Sprintf("readinglist-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Status(http.StatusOK)
	if err := fixture.Encode(c.Writer, books); err != nil {
		log.Printf("Failed to write library export: %v", err)
	}
}

// History handles GET /api/imports
func (ic *ImportController) History(c *gin.Context) {
	if ic.history == nil {
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, "import history not available")
		return
	}

	limit, ok := parseLimitQuery(c, 50)
	if !ok {
		return
	}

	sessions, err := ic.history.ListImportSessions(limit)
	if err != nil {
		respondInternalError(c, err, "list import sessions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imports": sessions, "count": len(sessions)})
}
