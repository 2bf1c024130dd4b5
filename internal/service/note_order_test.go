package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/stickynote/internal/repo"
)

func TestBuildNoteOrder(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: repo.DefaultNoteOrder},
		{raw: "title", want: "title asc, id desc"},
		{raw: "-updated_at", want: "updated_at desc, id desc"},
		{raw: "-created_at, title", want: "created_at desc, title asc, id desc"},
		{raw: "content", want: repo.DefaultNoteOrder},
		{raw: "is_pinned", want: repo.DefaultNoteOrder},
		{raw: "title;DROP TABLE notes", want: repo.DefaultNoteOrder},
		{raw: "bogus,-title,title", want: "title desc, id desc"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			require.Equal(t, tt.want, buildNoteOrder(tt.raw))
		})
	}
}
