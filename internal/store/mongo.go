package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xeze-org/research-assistant/internal/models"
)

// ErrNotFound is returned when a record does not exist or its id is malformed.
var ErrNotFound = errors.New("not found")

// MongoStore handles research log persistence in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("research_logs")}
}

// Insert stores log and returns its hex id. CreatedAt is set here.
func (s *MongoStore) Insert(ctx context.Context, log *models.ResearchLog) (string, error) {
	raw, err := json.Marshal(log.Report)
	if err != nil {
		return "", fmt.Errorf("mongo insert: encode report: %w", err)
	}
	log.ReportJSON = string(raw)
	log.CreatedAt = time.Now().UTC()

	res, err := s.col.InsertOne(ctx, log)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	log.ID = oid
	return oid.Hex(), nil
}

// SetExportKeys records where the rendered exports of a log were uploaded.
func (s *MongoStore) SetExportKeys(ctx context.Context, id, markdownKey, htmlKey string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"markdown_object_key": markdownKey,
		"html_object_key":     htmlKey,
	}})
	if err != nil {
		return fmt.Errorf("mongo set export keys: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByStudent returns a student's logs, newest first, without report bodies.
func (s *MongoStore) ListByStudent(ctx context.Context, studentID string) ([]models.ResearchLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"report_json": 0})
	cur, err := s.col.Find(ctx, bson.M{"student_id": studentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cur.Close(ctx)

	var logs []models.ResearchLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	return logs, nil
}

// GetByID loads one log and decodes its stored report.
func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.ResearchLog, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var log models.ResearchLog
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&log); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo get: %w", err)
	}
	if err := json.Unmarshal([]byte(log.ReportJSON), &log.Report); err != nil {
		return nil, fmt.Errorf("mongo get: decode report: %w", err)
	}
	return &log, nil
}
