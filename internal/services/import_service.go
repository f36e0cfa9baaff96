package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
)

// ImportRequest describes one bulk load.
type ImportRequest struct {
	Source   entities.ImportSource
	Location string
	Mode     library.LoadMode
}

// ImportService loads fixtures into the library and records each attempt.
// Either the whole fixture is applied or nothing is.
type ImportService struct {
	dispatcher Dispatcher
	recorder   ImportRecorder
}

// NewImportService creates a new ImportService. recorder may be nil, in which
// case no history is kept.
func NewImportService(dispatcher Dispatcher, recorder ImportRecorder) *ImportService {
	return &ImportService{
		dispatcher: dispatcher,
		recorder:   recorder,
	}
}

// ImportFrom loads src and applies it as a single batch.
func (s *ImportService) ImportFrom(ctx context.Context, req ImportRequest, src fixture.Source) (*entities.ImportSession, error) {
	session := s.begin(req)

	books, err := src.Load(ctx)
	if err != nil {
		s.fail(session, err)
		return session, err
	}
	return s.apply(session, req, books)
}

// ImportBooks applies an already decoded fixture as a single batch.
func (s *ImportService) ImportBooks(req ImportRequest, books []entities.Book) (*entities.ImportSession, error) {
	return s.apply(s.begin(req), req, books)
}

func (s *ImportService) apply(session *entities.ImportSession, req ImportRequest, books []entities.Book) (*entities.ImportSession, error) {
	session.BooksInFile = len(books)

	out, err := s.dispatcher.Dispatch(controller.BulkLoad{Books: books, Mode: req.Mode})
	if err != nil {
		s.fail(session, err)
		return session, err
	}

	now := time.Now()
	session.Status = entities.ImportStatusCompleted
	session.Created = out.Load.Created
	session.Replaced = out.Load.Replaced
	session.Removed = out.Load.Removed
	session.CompletedAt = &now
	s.save(session)

	log.Printf("Import %s from %s finished: %d books, created=%d replaced=%d removed=%d",
		req.Source, describeLocation(req.Location), len(books), session.Created, session.Replaced, session.Removed)
	return session, nil
}

func (s *ImportService) begin(req ImportRequest) *entities.ImportSession {
	mode := string(req.Mode)
	if mode == "" {
		mode = string(library.LoadModeMerge)
	}

	var session *entities.ImportSession
	if s.recorder != nil {
		created, err := s.recorder.CreateImportSession(req.Source, req.Location, mode)
		if err != nil {
			log.Printf("Warning: failed to record import session: %v", err)
		} else {
			session = created
		}
	}
	if session == nil {
		session = &entities.ImportSession{
			Source:    req.Source,
			Location:  req.Location,
			Mode:      mode,
			StartedAt: time.Now(),
		}
	}
	session.Status = entities.ImportStatusRunning
	s.save(session)
	return session
}

func (s *ImportService) fail(session *entities.ImportSession, err error) {
	now := time.Now()
	session.Status = entities.ImportStatusFailed
	session.Errors = err.Error()
	session.CompletedAt = &now
	s.save(session)
	log.Printf("Import %s from %s failed: %v", session.Source, describeLocation(session.Location), err)
}

func (s *ImportService) save(session *entities.ImportSession) {
	if s.recorder == nil || session.ID == 0 {
		return
	}
	if err := s.recorder.UpdateImportSession(session); err != nil {
		log.Printf("Warning: failed to update import session %d: %v", session.ID, err)
	}
}

func describeLocation(location string) string {
	if location == "" {
		return "request body"
	}
	return fmt.Sprintf("%q", location)
}
