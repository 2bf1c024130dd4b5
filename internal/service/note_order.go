package service

import (
	"strings"

	"github.com/xxxsen/stickynote/internal/repo"
)

var noteOrderFields = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"title":      {},
}

// buildNoteOrder turns an ordering parameter such as "-updated_at,title" into
// an ORDER BY clause. Unknown fields are dropped; when nothing usable remains
// the default pinned-first, most-recent-first order applies.
func buildNoteOrder(raw string) string {
	var terms []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		dir := "asc"
		if strings.HasPrefix(part, "-") {
			dir = "desc"
			part = part[1:]
		}
		if _, ok := noteOrderFields[part]; !ok {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		terms = append(terms, part+" "+dir)
	}
	if len(terms) == 0 {
		return repo.DefaultNoteOrder
	}
	return strings.Join(append(terms, "id desc"), ", ")
}
