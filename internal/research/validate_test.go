package research

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xeze-org/research-assistant/internal/models"
)

func validRequest() models.CreateRequest {
	return models.CreateRequest{
		StudentName:  "Asha",
		StudentEmail: "asha@example.edu",
		Institution:  "State University",
		Topic:        "Computer Vision",
		Query:        "How can students improve defect detection?",
	}
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.CreateRequest)
		wantErr string
	}{
		{"valid", func(*models.CreateRequest) {}, ""},
		{"missing name", func(r *models.CreateRequest) { r.StudentName = "  " }, "student_name is required"},
		{"missing email", func(r *models.CreateRequest) { r.StudentEmail = "" }, "student_email is required"},
		{"missing topic", func(r *models.CreateRequest) { r.Topic = "\t" }, "topic is required"},
		{"missing query", func(r *models.CreateRequest) { r.Query = "" }, "query is required"},
		{"bad email", func(r *models.CreateRequest) { r.StudentEmail = "asha@example" }, "student_email format is invalid"},
		{"email with space", func(r *models.CreateRequest) { r.StudentEmail = "as ha@example.edu" }, "student_email format is invalid"},
		{"padded upper email ok", func(r *models.CreateRequest) { r.StudentEmail = "  ASHA@Example.EDU " }, ""},
		{"topic at limit", func(r *models.CreateRequest) { r.Topic = strings.Repeat("é", MaxTopicLen) }, ""},
		{"topic too long", func(r *models.CreateRequest) { r.Topic = strings.Repeat("a", MaxTopicLen+1) }, "topic must be <= 300 characters"},
		{"query too long", func(r *models.CreateRequest) { r.Query = strings.Repeat("a", MaxQueryLen+1) }, "query must be <= 5000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := ValidateCreate(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(models.CreateRequest{
		StudentName:  "  Asha ",
		StudentEmail: " ASHA@Example.EDU ",
		Institution:  " " + strings.Repeat("ü", MaxInstitutionLen+10),
		Topic:        " Edge AI ",
		Query:        "\nWhy?\n",
	})

	assert.Equal(t, "Asha", got.StudentName)
	assert.Equal(t, "asha@example.edu", got.StudentEmail)
	assert.Equal(t, strings.Repeat("ü", MaxInstitutionLen), got.Institution)
	assert.Equal(t, "Edge AI", got.Topic)
	assert.Equal(t, "Why?", got.Query)
}
