package repo

import (
	"context"
	"strings"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/stickynote/internal/model"
	"github.com/xxxsen/stickynote/internal/pkg/dbutil"
	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
)

const DefaultNoteOrder = "is_pinned desc, updated_at desc, id desc"

var noteColumns = []string{"id", "slug", "user_id", "title", "content", "font_color", "background_color", "is_pinned", "created_at", "updated_at"}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type NoteFilter struct {
	Search  string
	OrderBy string
}

type NoteRepo struct {
	db *sqlx.DB
}

func NewNoteRepo(db *sqlx.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

func (r *NoteRepo) Create(ctx context.Context, note *model.Note) error {
	data := map[string]interface{}{
		"slug":             note.Slug,
		"user_id":          note.UserID,
		"title":            note.Title,
		"content":          note.Content,
		"font_color":       note.FontColor,
		"background_color": note.BackgroundColor,
		"is_pinned":        note.IsPinned,
		"created_at":       note.CreatedAt,
		"updated_at":       note.UpdatedAt,
	}
	sqlStr, args, err := builder.BuildInsert("notes", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	id, err := insertReturningID(ctx, r.db, sqlStr, args)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	note.ID = id
	return nil
}

func (r *NoteRepo) Update(ctx context.Context, note *model.Note) error {
	where := map[string]interface{}{
		"id":      note.ID,
		"user_id": note.UserID,
	}
	update := map[string]interface{}{
		"title":            note.Title,
		"content":          note.Content,
		"font_color":       note.FontColor,
		"background_color": note.BackgroundColor,
		"is_pinned":        note.IsPinned,
		"updated_at":       note.UpdatedAt,
	}
	sqlStr, args, err := builder.BuildUpdate("notes", where, update)
	if err != nil {
		return err
	}
	affected, err := execAffecting(ctx, r.db, sqlStr, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) GetByID(ctx context.Context, userID, noteID int64) (*model.Note, error) {
	where := map[string]interface{}{
		"id":      noteID,
		"user_id": userID,
	}
	notes, err := r.query(ctx, where)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, appErr.ErrNotFound
	}
	return &notes[0], nil
}

// List returns the user's notes. filter.OrderBy is inserted verbatim and must
// come from a trusted allow-list.
func (r *NoteRepo) List(ctx context.Context, userID int64, filter NoteFilter) ([]model.Note, error) {
	where := map[string]interface{}{
		"user_id": userID,
	}
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = DefaultNoteOrder
	}
	where["_orderby"] = orderBy
	if filter.Search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		where["_custom_search"] = builder.Custom("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!')", like, like)
	}
	return r.query(ctx, where)
}

func (r *NoteRepo) Delete(ctx context.Context, userID, noteID int64) error {
	where := map[string]interface{}{
		"id":      noteID,
		"user_id": userID,
	}
	sqlStr, args, err := builder.BuildDelete("notes", where)
	if err != nil {
		return err
	}
	affected, err := execAffecting(ctx, r.db, sqlStr, args)
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) query(ctx context.Context, where map[string]interface{}) ([]model.Note, error) {
	sqlStr, args, err := builder.BuildSelect("notes", where, noteColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(r.db.DriverName(), sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	notes := make([]model.Note, 0)
	for rows.Next() {
		var note model.Note
		if err := rows.Scan(&note.ID, &note.Slug, &note.UserID, &note.Title, &note.Content, &note.FontColor, &note.BackgroundColor, &note.IsPinned, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}
