package services

import (
	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/entities"
)

// Dispatcher applies library commands. Implemented by *controller.Controller.
type Dispatcher interface {
	Dispatch(cmd controller.Command) (controller.Outcome, error)
}

// ImportRecorder persists the history of bulk loads. Implemented by *database.Database.
type ImportRecorder interface {
	CreateImportSession(source entities.ImportSource, location, mode string) (*entities.ImportSession, error)
	UpdateImportSession(session *entities.ImportSession) error
}
