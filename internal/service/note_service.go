package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/stickynote/internal/model"
	"github.com/xxxsen/stickynote/internal/pkg/timeutil"
	"github.com/xxxsen/stickynote/internal/repo"
)

// NoteService is the owner-scoped note store. Every call takes the owner
// explicitly; a note owned by someone else behaves exactly like a missing one.
type NoteService struct {
	notes     *repo.NoteRepo
	validator *NoteValidator
	now       func() int64
}

func NewNoteService(notes *repo.NoteRepo, validator *NoteValidator) *NoteService {
	return &NoteService{
		notes:     notes,
		validator: validator,
		now:       timeutil.NowMilli,
	}
}

type NoteListQuery struct {
	Search   string
	Ordering string
}

func (s *NoteService) List(ctx context.Context, ownerID int64, query NoteListQuery) ([]model.Note, error) {
	return s.notes.List(ctx, ownerID, repo.NoteFilter{
		Search:  query.Search,
		OrderBy: buildNoteOrder(query.Ordering),
	})
}

func (s *NoteService) Get(ctx context.Context, ownerID, noteID int64) (*model.Note, error) {
	return s.notes.GetByID(ctx, ownerID, noteID)
}

func (s *NoteService) Create(ctx context.Context, ownerID int64, fields NoteFields) (*model.Note, error) {
	input, err := s.validator.Validate(fields)
	if err != nil {
		return nil, err
	}
	now := s.now()
	note := &model.Note{
		Slug:            newSlug(),
		UserID:          ownerID,
		Title:           model.DefaultNoteTitle,
		FontColor:       model.DefaultFontColor,
		BackgroundColor: model.DefaultBackgroundColor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	applyNoteInput(note, input)
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Debug("note created",
		zap.Int64("user_id", ownerID),
		zap.Int64("note_id", note.ID),
		zap.String("slug", note.Slug),
	)
	return note, nil
}

// Update applies the supplied fields to an existing note. Concurrent updates
// to the same note are last-write-wins.
func (s *NoteService) Update(ctx context.Context, ownerID, noteID int64, fields NoteFields) (*model.Note, error) {
	note, err := s.notes.GetByID(ctx, ownerID, noteID)
	if err != nil {
		return nil, err
	}
	input, err := s.validator.Validate(fields)
	if err != nil {
		return nil, err
	}
	applyNoteInput(note, input)
	note.UpdatedAt = s.now()
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID int64) error {
	return s.notes.Delete(ctx, ownerID, noteID)
}

func applyNoteInput(note *model.Note, input NoteInput) {
	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.FontColor != nil {
		note.FontColor = *input.FontColor
	}
	if input.BackgroundColor != nil {
		note.BackgroundColor = *input.BackgroundColor
	}
	if input.IsPinned != nil {
		note.IsPinned = *input.IsPinned
	}
}
