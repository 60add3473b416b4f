package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xeze-org/research-assistant/internal/report"
)

// ResearchLog is a single generated report stored in MongoDB. The report is
// kept as its JSON encoding so both generation paths round-trip unchanged.
type ResearchLog struct {
	ID          primitive.ObjectID `json:"research_id" bson:"_id,omitempty"`
	StudentID   string             `json:"student_id"  bson:"student_id"`
	Topic       string             `json:"topic"       bson:"topic"`
	Query       string             `json:"query"       bson:"query"`
	Source      string             `json:"source"      bson:"source"`
	Report      report.Report      `json:"report"      bson:"-"`
	ReportJSON  string             `json:"-"           bson:"report_json"`
	MarkdownKey string             `json:"-"           bson:"markdown_object_key"`
	HTMLKey     string             `json:"-"           bson:"html_object_key"`
	CreatedAt   time.Time          `json:"created_at"  bson:"created_at"`
}

// CreateRequest is the JSON body for POST /api/research.
type CreateRequest struct {
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	Institution  string `json:"institution"`
	Topic        string `json:"topic"`
	Query        string `json:"query"`
}

// HistoryItem is one entry of a student's research history.
type HistoryItem struct {
	ResearchID string    `json:"research_id"`
	Topic      string    `json:"topic"`
	Query      string    `json:"query"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}
