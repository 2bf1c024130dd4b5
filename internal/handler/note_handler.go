package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/stickynote/internal/model"
	"github.com/xxxsen/stickynote/internal/pkg/response"
	"github.com/xxxsen/stickynote/internal/pkg/timeutil"
	"github.com/xxxsen/stickynote/internal/service"
)

type NoteHandler struct {
	notes *service.NoteService
}

func NewNoteHandler(notes *service.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// noteView is the wire shape of a note. Fields are listed explicitly so that
// new model columns are never exposed by accident.
type noteView struct {
	ID              int64     `json:"id"`
	Slug            string    `json:"slug"`
	User            string    `json:"user"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	FontColor       string    `json:"font_color"`
	BackgroundColor string    `json:"background_color"`
	IsPinned        bool      `json:"is_pinned"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newNoteView(note *model.Note, owner *model.User) noteView {
	return noteView{
		ID:              note.ID,
		Slug:            note.Slug,
		User:            owner.Email,
		Title:           note.Title,
		Content:         note.Content,
		FontColor:       note.FontColor,
		BackgroundColor: note.BackgroundColor,
		IsPinned:        note.IsPinned,
		CreatedAt:       timeutil.FromMilli(note.CreatedAt),
		UpdatedAt:       timeutil.FromMilli(note.UpdatedAt),
	}
}

func bindNoteFields(c *gin.Context) (service.NoteFields, bool) {
	fields := service.NoteFields{}
	if c.Request.ContentLength == 0 {
		return fields, true
	}
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, msgBadJSON)
		return nil, false
	}
	return fields, true
}

func (h *NoteHandler) List(c *gin.Context) {
	user := getUser(c)
	notes, err := h.notes.List(c.Request.Context(), user.ID, service.NoteListQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Ordering: c.Query("ordering"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]noteView, 0, len(notes))
	for i := range notes {
		views = append(views, newNoteView(&notes[i], user))
	}
	response.Success(c, http.StatusOK, views)
}

func (h *NoteHandler) Create(c *gin.Context) {
	fields, ok := bindNoteFields(c)
	if !ok {
		return
	}
	user := getUser(c)
	note, err := h.notes.Create(c.Request.Context(), user.ID, fields)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, newNoteView(note, user))
}

func (h *NoteHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user := getUser(c)
	note, err := h.notes.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, newNoteView(note, user))
}

// Update serves both PUT and PATCH; only the supplied fields change.
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fields, ok := bindNoteFields(c)
	if !ok {
		return
	}
	user := getUser(c)
	note, err := h.notes.Update(c.Request.Context(), user.ID, id, fields)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, newNoteView(note, user))
}

func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), getUser(c).ID, id); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}
