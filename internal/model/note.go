package model

const (
	DefaultNoteTitle       = "Untitled Note"
	DefaultFontColor       = "#000000"
	DefaultBackgroundColor = "#FFFFFF"
)

type Note struct {
	ID              int64
	Slug            string
	UserID          int64
	Title           string
	Content         string
	FontColor       string
	BackgroundColor string
	IsPinned        bool
	CreatedAt       int64
	UpdatedAt       int64
}
