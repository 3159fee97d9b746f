package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	titleMaxLength       = 255
	descriptionMaxLength = 4000
)

// Validate checks every scalar rule and reports all violations at once.
func (s VideoSpec) Validate() error {
	verr := &ValidationError{}
	validateTitle(s.Title, verr)
	validateDescription(s.Description, verr)
	validateLaunchedAt(s.LaunchedAt, verr)
	validateRating(s.Rating, verr)
	return verr.orNil()
}

func validateTitle(title string, verr *ValidationError) {
	validateText("title", title, titleMaxLength, verr)
}

func validateDescription(description string, verr *ValidationError) {
	validateText("description", description, descriptionMaxLength, verr)
}

// validateText stops at the first failing rule for one field.
func validateText(field, value string, maxLength int, verr *ValidationError) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		verr.Append(fmt.Sprintf("'%s' should not be empty", field))
		return
	}
	if utf8.RuneCountInString(trimmed) > maxLength {
		verr.Append(fmt.Sprintf("'%s' must be between 1 and %d characters", field, maxLength))
	}
}

func validateLaunchedAt(year int, verr *ValidationError) {
	switch {
	case year == 0:
		verr.Append("'launchedAt' should not be null")
	case year < 0:
		verr.Append("'launchedAt' must be a valid year")
	}
}

func validateRating(r Rating, verr *ValidationError) {
	switch {
	case r == "":
		verr.Append("'rating' should not be null")
	case !r.IsValid():
		verr.Append(fmt.Sprintf("'rating' has an unknown value %q", string(r)))
	}
}
