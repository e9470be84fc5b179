package server

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/job-tracker/internal/rendering"
	"github.com/jonathan/job-tracker/internal/stats"
	"github.com/jonathan/job-tracker/internal/types"
	"go.uber.org/zap"
)

// createForm is the add-application form.
type createForm struct {
	Title       string `validate:"required,notblank"`
	Company     string `validate:"required,notblank"`
	City        string
	DateOfApply string
	Status      string
	Tags        []string
}

// handleIndex renders the dashboard, optionally filtered by ?search=
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	jobs, err := s.store.List(r.Context(), search)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	view := newIndexView(s.engine.Dashboard(jobs), search, s.today(), s.tagOptions)

	var buf bytes.Buffer
	if err := s.index.Execute(&buf, view); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleCreate adds an application from the dashboard form
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "form", Message: err.Error()})
		return
	}

	form := createForm{
		Title:       r.PostForm.Get("job_tittle"),
		Company:     r.PostForm.Get("company"),
		City:        r.PostForm.Get("city"),
		DateOfApply: r.PostForm.Get("date_of_apply"),
		Status:      r.PostForm.Get("status"),
		Tags:        r.PostForm["tags"],
	}
	if err := s.validate.Struct(form); err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "job_tittle/company", Message: "job_tittle and company are required"})
		return
	}

	if form.DateOfApply == "" {
		form.DateOfApply = s.today()
	}
	if form.Status == "" {
		form.Status = types.StatusWaiting
	}

	id, err := s.store.Insert(r.Context(), types.ApplicationFields{
		Title:            form.Title,
		Company:          form.Company,
		City:             form.City,
		DateOfApply:      form.DateOfApply,
		Status:           form.Status,
		LastStatusUpdate: form.DateOfApply,
		Tags:             types.JoinTags(form.Tags),
	})
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.metrics.ApplicationsAdded.Inc()
	s.logger.Info("application added", zap.Int64("id", id), zap.String("company", form.Company))
	s.redirectHome(w, r)
}

// handleMonthlyReportJSON downloads one month of applications as JSON
func (s *Server) handleMonthlyReportJSON(w http.ResponseWriter, r *http.Request) {
	selection := strings.TrimSpace(r.FormValue("month_selection"))
	if selection == "" {
		s.redirectHome(w, r)
		return
	}

	prefix, err := s.engine.ParseMonthSelection(selection)
	if err != nil {
		s.errorResponse(w, r, &ErrValidation{Field: "month_selection", Message: err.Error()})
		return
	}

	jobs, err := s.store.ListAll(r.Context())
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := rendering.MonthlyJSON(&buf, stats.FilterMonth(jobs, prefix)); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.metrics.ReportsRendered.WithLabelValues("json").Inc()
	s.attachment(w, "application/json; charset=utf-8", rendering.MonthlyJSONFilename(selection), buf.Bytes())
}

// handleRenderReport downloads the PDF activity report for a date range
func (s *Server) handleRenderReport(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListRange(r.Context(), r.FormValue("start_date"), r.FormValue("end_date"))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.report.Render(&buf, jobs); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.metrics.ReportsRendered.WithLabelValues("pdf").Inc()
	s.attachment(w, "application/pdf", rendering.ActivityReportFilename, buf.Bytes())
}

// handleUploadToAF hands a date range to the automation agent and returns immediately
func (s *Server) handleUploadToAF(w http.ResponseWriter, r *http.Request) {
	res, err := s.uploader.Upload(r.Context(), r.FormValue("start_date"), r.FormValue("end_date"))
	if err != nil {
		s.logger.Error("upload handoff failed", zap.String("batch_id", res.BatchID), zap.Error(err))
	}
	if res.Launched {
		s.metrics.UploadsLaunched.Inc()
		s.metrics.UploadRecords.Add(float64(res.Records))
	}
	s.redirectHome(w, r)
}

// handleUpdateStatus changes the status of one application
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.store.UpdateStatus(r.Context(), id, r.FormValue("status")); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.metrics.StatusUpdates.Inc()
	s.redirectHome(w, r)
}

// handleDeleteJob removes one application
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.errorResponse(w, r, err)
		return
	}

	s.metrics.ApplicationsDeleted.Inc()
	s.redirectHome(w, r)
}

// handleBackupDB downloads a raw copy of the database file
func (s *Server) handleBackupDB(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.store.Backup(r.Context(), &buf); err != nil {
		s.errorResponse(w, r, err)
		return
	}
	s.attachment(w, "application/x-sqlite3", "backup_"+s.today()+".db", buf.Bytes())
}

// attachment writes body as a file download.
func (s *Server) attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("failed to write download", zap.String("filename", filename), zap.Error(err))
	}
}

func (s *Server) today() string {
	return s.now().Format(types.DateLayout)
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, &ErrValidation{Field: "id", Message: "must be an integer"}
	}
	return id, nil
}
