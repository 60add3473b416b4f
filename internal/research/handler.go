package research

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xeze-org/research-assistant/internal/models"
	"github.com/xeze-org/research-assistant/internal/render"
	"github.com/xeze-org/research-assistant/internal/report"
	"github.com/xeze-org/research-assistant/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// StudentStore defines the interface for student persistence.
type StudentStore interface {
	UpsertStudent(ctx context.Context, name, email, institution string) (*models.Student, error)
	GetStudent(ctx context.Context, id string) (*models.Student, error)
}

// LogStore defines the interface for research history persistence.
type LogStore interface {
	Insert(ctx context.Context, log *models.ResearchLog) (string, error)
	SetExportKeys(ctx context.Context, id, markdownKey, htmlKey string) error
	ListByStudent(ctx context.Context, studentID string) ([]models.ResearchLog, error)
	GetByID(ctx context.Context, id string) (*models.ResearchLog, error)
}

// FileStore defines the interface for export storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Limiter throttles report generation per student.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Generator produces a report for a topic and query, along with the branch
// that produced it.
type Generator interface {
	GenerateWithSource(ctx context.Context, topic, query string) (report.Report, string)
}

// maxCreateBody caps the JSON body of POST /research.
const maxCreateBody = 64 << 10

// Handler holds research HTTP handlers. files and limiter may be nil.
type Handler struct {
	students StudentStore
	logs     LogStore
	files    FileStore
	limiter  Limiter
	reports  Generator
	logger   *zap.Logger
}

func NewHandler(students StudentStore, logs LogStore, files FileStore, limiter Limiter, reports Generator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		students: students,
		logs:     logs,
		files:    files,
		limiter:  limiter,
		reports:  reports,
		logger:   logger,
	}
}

// Routes mounts the research API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/research", h.Create)
	r.Get("/history/{studentID}", h.History)
	r.Get("/history/detail/{researchID}", h.Detail)
	r.Get("/history/detail/{researchID}/markdown", h.DownloadMarkdown)
	r.Get("/history/detail/{researchID}/html", h.DownloadHTML)
}

// Create validates the request, generates a report and stores it.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCreateBody)
	var req models.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ValidateCreate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req = Normalize(req)

	student, err := h.students.UpsertStudent(r.Context(), req.StudentName, req.StudentEmail, req.Institution)
	if err != nil {
		h.logger.Error("upsert student", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save student")
		return
	}

	// Quota is counted only after the student row is saved.
	if h.limiter != nil {
		ok, err := h.limiter.Allow(r.Context(), req.StudentEmail)
		if err != nil {
			h.logger.Warn("rate limiter unavailable", zap.Error(err))
		}
		if !ok {
			writeError(w, http.StatusTooManyRequests, "too many research requests, try again later")
			return
		}
	}

	doc, source := h.reports.GenerateWithSource(r.Context(), req.Topic, req.Query)

	log := &models.ResearchLog{
		StudentID: student.ID,
		Topic:     req.Topic,
		Query:     req.Query,
		Source:    source,
		Report:    doc,
	}
	researchID, err := h.logs.Insert(r.Context(), log)
	if err != nil {
		h.logger.Error("insert research log", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save research")
		return
	}

	h.export(r.Context(), log, researchID)

	h.logger.Info("research report generated",
		zap.String("research_id", researchID),
		zap.String("student_id", student.ID),
		zap.String("source", log.Source))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Research report generated successfully.",
		"research_id": researchID,
		"student_id":  student.ID,
		"report":      doc,
	})
}

// export renders and uploads the Markdown and HTML versions of a report.
// Failures are logged and leave the log without export keys.
func (h *Handler) export(ctx context.Context, log *models.ResearchLog, researchID string) {
	if h.files == nil {
		return
	}

	markdown := render.Markdown(log.Topic, log.Source, log.Report)
	page, err := render.HTML(log.Topic, markdown)
	if err != nil {
		h.logger.Warn("render html export", zap.Error(err))
		return
	}

	mdKey := store.ExportKey(log.StudentID, researchID, store.ExportMarkdown)
	htmlKey := store.ExportKey(log.StudentID, researchID, store.ExportHTML)
	if err := h.files.Upload(ctx, mdKey, []byte(markdown), store.ExportMarkdown.ContentType()); err != nil {
		h.logger.Warn("upload markdown export", zap.Error(err))
		return
	}
	if err := h.files.Upload(ctx, htmlKey, []byte(page), store.ExportHTML.ContentType()); err != nil {
		h.logger.Warn("upload html export", zap.Error(err))
		htmlKey = ""
	}
	if err := h.logs.SetExportKeys(ctx, researchID, mdKey, htmlKey); err != nil {
		h.logger.Warn("record export keys", zap.Error(err))
	}
}

// History lists a student's reports, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	studentID := chi.URLParam(r, "studentID")
	if _, err := uuid.Parse(studentID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	student, err := h.students.GetStudent(r.Context(), studentID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "student not found")
		return
	}
	if err != nil {
		h.logger.Error("get student", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	logs, err := h.logs.ListByStudent(r.Context(), studentID)
	if err != nil {
		h.logger.Error("list research logs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	history := make([]models.HistoryItem, 0, len(logs))
	for _, l := range logs {
		history = append(history, models.HistoryItem{
			ResearchID: l.ID.Hex(),
			Topic:      l.Topic,
			Query:      l.Query,
			Source:     l.Source,
			CreatedAt:  l.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student": student,
		"history": history,
	})
}

// Detail returns a single stored report.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	log, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// DownloadMarkdown streams the Markdown export.
func (h *Handler) DownloadMarkdown(w http.ResponseWriter, r *http.Request) {
	log, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.download(w, r, log.MarkdownKey, "report.md")
}

// DownloadHTML streams the HTML export.
func (h *Handler) DownloadHTML(w http.ResponseWriter, r *http.Request) {
	log, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.download(w, r, log.HTMLKey, "report.html")
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*models.ResearchLog, bool) {
	log, err := h.logs.GetByID(r.Context(), chi.URLParam(r, "researchID"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("get research log", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "database error")
		return nil, false
	}
	return log, true
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request, key, filename string) {
	if h.files == nil || key == "" {
		writeError(w, http.StatusNotFound, "export not available")
		return
	}
	data, ct, err := h.files.Download(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "export not available")
		return
	}
	if err != nil {
		h.logger.Error("download export", zap.String("key", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "download failed")
		return
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(data)
}
