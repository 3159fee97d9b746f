package model

import "strings"

// Rating is the age classification of a video.
type Rating string

const (
	RatingER    Rating = "ER"
	RatingL     Rating = "L"
	RatingAge10 Rating = "10"
	RatingAge12 Rating = "12"
	RatingAge14 Rating = "14"
	RatingAge16 Rating = "16"
	RatingAge18 Rating = "18"
)

func (r Rating) IsValid() bool {
	switch r {
	case RatingER, RatingL, RatingAge10, RatingAge12, RatingAge14, RatingAge16, RatingAge18:
		return true
	default:
		return false
	}
}

func (r Rating) String() string {
	return string(r)
}

// ParseRating returns the rating matching s. Unknown values yield "", false.
func ParseRating(s string) (Rating, bool) {
	r := Rating(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", false
	}
	return r, true
}
