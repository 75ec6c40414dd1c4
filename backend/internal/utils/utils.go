package utils

import (
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/plankhq/plank/shared/errors"
)

func GenerateConfirmationCode(len int) string {
	code := uuid.NewString()
	return code[:len]
}

// TextValidator enforces length bounds on user-authored text fields.
type TextValidator struct{}

func (v *TextValidator) Title(title string) error {
	if len(title) == 0 {
		return &errors.ErrorWithStatusCode{Message: "Title is required", StatusCode: 400}
	}
	if utf8.RuneCountInString(title) > 200 {
		return &errors.ErrorWithStatusCode{Message: "Title is too long", StatusCode: 400}
	}
	return nil
}

func (v *TextValidator) Body(text string) error {
	if utf8.RuneCountInString(text) > 10_000 {
		return &errors.ErrorWithStatusCode{Message: "Text is too long", StatusCode: 400}
	}
	return nil
}

func New() *TextValidator {
	return &TextValidator{}
}
