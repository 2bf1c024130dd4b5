package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	appErr "github.com/xxxsen/stickynote/internal/pkg/errors"
)

const (
	maxTitleLength = 255
	colorLength    = 7
)

const (
	msgNull       = "This field may not be null."
	msgBlank      = "This field may not be blank."
	msgNotString  = "Not a valid string."
	msgNotBoolean = "Must be a valid boolean."
)

// NoteFields is a decoded json object as sent by a client. Keys that are not
// writable note fields are ignored.
type NoteFields map[string]json.RawMessage

// NoteInput holds the writable fields present in a payload; nil means absent.
type NoteInput struct {
	Title           *string
	Content         *string
	FontColor       *string
	BackgroundColor *string
	IsPinned        *bool
}

type NoteValidator struct {
	strictColors bool
}

// NewNoteValidator builds a validator. With strictColors the six characters
// after '#' must also be hex digits.
func NewNoteValidator(strictColors bool) *NoteValidator {
	return &NoteValidator{strictColors: strictColors}
}

func (v *NoteValidator) Validate(fields NoteFields) (NoteInput, error) {
	var in NoteInput
	verr := appErr.NewValidationError()

	if raw, ok := fields["title"]; ok {
		if s, msg := decodeString(raw); msg != "" {
			verr.Add("title", msg)
		} else if s = strings.TrimSpace(s); s == "" {
			verr.Add("title", msgBlank)
		} else if utf8.RuneCountInString(s) > maxTitleLength {
			verr.Add("title", "Ensure this field has no more than 255 characters.")
		} else {
			in.Title = &s
		}
	}
	if raw, ok := fields["content"]; ok {
		if s, msg := decodeString(raw); msg != "" {
			verr.Add("content", msg)
		} else {
			in.Content = &s
		}
	}
	if raw, ok := fields["font_color"]; ok {
		if s, msg := v.decodeColor(raw, "Font color must be a valid hex code."); msg != "" {
			verr.Add("font_color", msg)
		} else {
			in.FontColor = &s
		}
	}
	if raw, ok := fields["background_color"]; ok {
		if s, msg := v.decodeColor(raw, "Background color must be a valid hex code."); msg != "" {
			verr.Add("background_color", msg)
		} else {
			in.BackgroundColor = &s
		}
	}
	if raw, ok := fields["is_pinned"]; ok {
		if isNull(raw) {
			verr.Add("is_pinned", msgNull)
		} else {
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				verr.Add("is_pinned", msgNotBoolean)
			} else {
				in.IsPinned = &b
			}
		}
	}
	if !verr.Empty() {
		return NoteInput{}, verr
	}
	return in, nil
}

func (v *NoteValidator) decodeColor(raw json.RawMessage, invalidMsg string) (string, string) {
	s, msg := decodeString(raw)
	if msg != "" {
		return "", msg
	}
	if utf8.RuneCountInString(s) > colorLength {
		return "", "Ensure this field has no more than 7 characters."
	}
	if !v.ValidColor(s) {
		return "", invalidMsg
	}
	return s, ""
}

// ValidColor reports whether s passes the color rule: a '#' prefix and
// exactly seven characters. Non-hex characters such as "#GGGGGG" pass unless
// strict checking is enabled.
func (v *NoteValidator) ValidColor(s string) bool {
	if !strings.HasPrefix(s, "#") || utf8.RuneCountInString(s) != colorLength {
		return false
	}
	if !v.strictColors {
		return true
	}
	for _, ch := range s[1:] {
		if !isHexDigit(ch) {
			return false
		}
	}
	return true
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(raw json.RawMessage) (string, string) {
	if isNull(raw) {
		return "", msgNull
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", msgNotString
	}
	return s, ""
}
