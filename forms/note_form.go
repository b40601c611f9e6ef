package forms

import "strings"

type NoteInput struct {
	Title   string `json:"title" form:"title" validate:"required,max=200"`
	Content string `json:"content" form:"content"`
}

// ValidateNote trims the title and checks it against the note field rules.
func ValidateNote(input NoteInput) (NoteInput, error) {
	input.Title = strings.TrimSpace(input.Title)

	verr := &ValidationError{}
	if err := validate.Struct(input); err != nil {
		verr.addStruct(err)
	}
	return input, verr.orNil()
}
