package forms

import (
	"regexp"
	"strings"
)

var (
	numberRe = regexp.MustCompile(`^\d+$`)
	emailRe  = regexp.MustCompile(`[^@]+@[^@]+\.[^@]+`)
	ratingRe = regexp.MustCompile(`^[1-5]$`)
	phoneRe  = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	yesNoRe  = regexp.MustCompile(`^(?i:yes|no)$`)
)

// Validate checks a raw answer against the question's validation type. It
// returns a human-readable rejection message, or "" when the answer is
// acceptable. Text and unknown types always pass.
func Validate(input string, q Question) string {
	trimmed := strings.TrimSpace(input)

	switch q.Type {
	case TypeNumber:
		if !numberRe.MatchString(trimmed) {
			return failMessage(q, "Numbers only please")
		}
	case TypeEmail:
		if !emailRe.MatchString(trimmed) {
			return failMessage(q, "Please enter a valid email")
		}
	case TypeRating:
		if !ratingRe.MatchString(trimmed) {
			return failMessage(q, "Please rate between 1-5")
		}
	case TypePhone:
		if !phoneRe.MatchString(trimmed) {
			return failMessage(q, "Please enter a valid phone number")
		}
	case TypeYesNo:
		if !yesNoRe.MatchString(trimmed) {
			return failMessage(q, "Please answer Yes or No")
		}
	}
	return ""
}

func failMessage(q Question, fallback string) string {
	if q.ErrorMsg != "" {
		return q.ErrorMsg
	}
	return fallback
}
