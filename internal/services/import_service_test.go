package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/readinglist/internal/controller"
	"github.com/mrlokans/readinglist/internal/database"
	"github.com/mrlokans/readinglist/internal/entities"
	"github.com/mrlokans/readinglist/internal/fixture"
	"github.com/mrlokans/readinglist/internal/library"
)

type failingSource struct{ err error }

func (f failingSource) Load(context.Context) ([]entities.Book, error) { return nil, f.err }
func (f failingSource) String() string                               { return "failing" }

func setup(t *testing.T) (*ImportService, *controller.Controller, *database.Database) {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "imports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := controller.New(library.New())
	return NewImportService(ctrl, db), ctrl, db
}

func TestImportFromSeed(t *testing.T) {
	svc, ctrl, db := setup(t)

	session, err := svc.ImportFrom(context.Background(),
		ImportRequest{Source: entities.ImportSourceSeed, Mode: library.LoadModeMerge},
		fixture.SeedSource())
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, session.Status)
	assert.Equal(t, 100, session.BooksInFile)
	assert.Equal(t, 100, session.Created)
	assert.NotNil(t, session.CompletedAt)
	assert.Equal(t, 100, ctrl.Store().Len())

	stored, err := db.GetImportSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, stored.Status)
	assert.Equal(t, "merge", stored.Mode)
}

func TestImportBooksRejectedBatch(t *testing.T) {
	svc, ctrl, db := setup(t)
	ctrl.Store().Create(entities.BookInput{Title: "Emma", Author: "Austen"})

	session, err := svc.ImportBooks(
		ImportRequest{Source: entities.ImportSourceUpload, Mode: library.LoadModeReplace},
		[]entities.Book{{ID: "x", Title: "", Author: "A"}})

	var batchErr *library.BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, entities.ImportStatusFailed, session.Status)
	assert.NotEmpty(t, session.Errors)
	assert.Equal(t, 1, ctrl.Store().Len(), "failed import leaves the library untouched")

	stored, err := db.GetImportSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusFailed, stored.Status)
}

func TestImportFromFailingSource(t *testing.T) {
	svc, ctrl, _ := setup(t)
	boom := errors.New("unreachable")

	session, err := svc.ImportFrom(context.Background(),
		ImportRequest{Source: entities.ImportSourceURL, Location: "http://example.invalid"},
		failingSource{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, entities.ImportStatusFailed, session.Status)
	assert.Equal(t, "merge", session.Mode)
	assert.Zero(t, ctrl.Store().Len())
}

func TestImportWithoutRecorder(t *testing.T) {
	ctrl := controller.New(library.New())
	svc := NewImportService(ctrl, nil)

	session, err := svc.ImportBooks(ImportRequest{Source: entities.ImportSourceFile},
		[]entities.Book{{ID: "a", Title: "A", Author: "x"}})
	require.NoError(t, err)
	assert.Zero(t, session.ID)
	assert.Equal(t, entities.ImportStatusCompleted, session.Status)
	assert.Equal(t, 1, ctrl.Store().Len())
}
