package research

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xeze-org/research-assistant/internal/models"
)

const (
	MaxTopicLen       = 300
	MaxQueryLen       = 5000
	MaxInstitutionLen = 200
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateCreate checks a research request before any work is done.
func ValidateCreate(req models.CreateRequest) error {
	required := []struct{ name, value string }{
		{"student_name", req.StudentName},
		{"student_email", req.StudentEmail},
		{"topic", req.Topic},
		{"query", req.Query},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%s is required", f.name)
		}
	}

	if !emailRegex.MatchString(strings.ToLower(strings.TrimSpace(req.StudentEmail))) {
		return errors.New("student_email format is invalid")
	}
	if utf8.RuneCountInString(req.Topic) > MaxTopicLen {
		return fmt.Errorf("topic must be <= %d characters", MaxTopicLen)
	}
	if utf8.RuneCountInString(req.Query) > MaxQueryLen {
		return fmt.Errorf("query must be <= %d characters", MaxQueryLen)
	}
	return nil
}

// Normalize trims every field, lowercases the email and caps the institution.
func Normalize(req models.CreateRequest) models.CreateRequest {
	return models.CreateRequest{
		StudentName:  strings.TrimSpace(req.StudentName),
		StudentEmail: strings.ToLower(strings.TrimSpace(req.StudentEmail)),
		Institution:  truncate(strings.TrimSpace(req.Institution), MaxInstitutionLen),
		Topic:        strings.TrimSpace(req.Topic),
		Query:        strings.TrimSpace(req.Query),
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
