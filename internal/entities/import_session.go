package entities

import "time"

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportSource names where a bulk fixture came from.
type ImportSource string

const (
	ImportSourceUpload   ImportSource = "upload"
	ImportSourceURL      ImportSource = "url"
	ImportSourceFile     ImportSource = "file"
	ImportSourceSeed     ImportSource = "seed"
	ImportSourceSchedule ImportSource = "schedule"
)

// ImportSession records one bulk load of a fixture into the library.
type ImportSession struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Source      ImportSource `gorm:"index;size:20" json:"source"`
	Location    string       `gorm:"size:2048" json:"location,omitempty"` // file path or URL
	Mode        string       `gorm:"size:20" json:"mode"`
	Status      ImportStatus `gorm:"size:20;default:'pending'" json:"status"`
	BooksInFile int          `json:"books_in_file"`
	Created     int          `json:"created"`
	Replaced    int          `json:"replaced"`
	Removed     int          `json:"removed"`
	Errors      string       `gorm:"type:text" json:"errors,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
