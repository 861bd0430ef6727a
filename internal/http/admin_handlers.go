package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"monipersonal/server/internal/model"
	"monipersonal/server/internal/report"
	"monipersonal/server/internal/repository"
	"monipersonal/server/internal/stats"
)

func studentIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "studentID"), 10, 64)
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	system, err := s.store.GetSystemStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	recent, err := s.store.CountAssessmentsSince(r.Context(), s.now().UTC().AddDate(0, 0, -30))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalStudents":     system.TotalStudents,
		"activeStudents":    system.ActiveStudents,
		"totalAssessments":  system.TotalAssessments,
		"averageBmi":        system.AverageBMI,
		"assessments30Days": recent,
	})
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := s.now().UTC()

	system, err := s.store.GetSystemStats(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	bands, err := s.store.GetBMIBands(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	progressed, err := s.store.CountStudentsWithProgress(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	top, err := s.store.TopStudentsByAssessments(ctx, 5)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	last30, err := s.store.CountAssessmentsSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	last7, err := s.store.CountAssessmentsSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := s.store.CountAssessmentsSince(ctx, midnight)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	var assessmentsPerStudent *float64
	if system.ActiveStudents > 0 {
		avg := math.Round(float64(system.TotalAssessments)/float64(system.ActiveStudents)*100) / 100
		assessmentsPerStudent = &avg
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalStudents":         system.TotalStudents,
		"activeStudents":        system.ActiveStudents,
		"totalAssessments":      system.TotalAssessments,
		"averageBmi":            system.AverageBMI,
		"assessmentsPerStudent": assessmentsPerStudent,
		"assessments30Days":     last30,
		"assessments7Days":      last7,
		"assessmentsToday":      today,
		"bmiBands":              bands,
		"studentsWithProgress":  progressed,
		"topStudents":           top,
	})
}

type studentOverviewResponse struct {
	studentSummary
	Assessments     int      `json:"assessments"`
	FirstRecordedAt *string  `json:"firstRecordedAt,omitempty"`
	LastRecordedAt  *string  `json:"lastRecordedAt,omitempty"`
	WeightDelta     *float64 `json:"weightDelta,omitempty"`
	WeightTrend     string   `json:"weightTrend,omitempty"`
	LastBMI         *float64 `json:"lastBmi,omitempty"`
	LastBMIClass    string   `json:"lastBmiClass,omitempty"`
}

func (s *Server) handleAdminListStudents(w http.ResponseWriter, r *http.Request) {
	overviews, err := s.store.ListStudentOverviews(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	students := make([]studentOverviewResponse, 0, len(overviews))
	for _, o := range overviews {
		resp := studentOverviewResponse{
			studentSummary: mapStudent(o.Student),
			Assessments:    o.Assessments,
			LastBMI:        o.LastBMI,
		}
		if o.FirstRecordedAt != nil {
			first := o.FirstRecordedAt.UTC().Format(time.RFC3339)
			resp.FirstRecordedAt = &first
		}
		if o.LastRecordedAt != nil {
			last := o.LastRecordedAt.UTC().Format(time.RFC3339)
			resp.LastRecordedAt = &last
		}
		if o.FirstWeightKg != nil && o.LastWeightKg != nil && o.Assessments > 1 {
			delta := math.Round((*o.LastWeightKg-*o.FirstWeightKg)*100) / 100
			resp.WeightDelta = &delta
			resp.WeightTrend = stats.Trend(delta)
		}
		if o.LastBMI != nil {
			resp.LastBMIClass = stats.ClassifyBMI(*o.LastBMI)
		}
		students = append(students, resp)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":    len(students),
		"students": students,
	})
}

// loadStudent fetches the path student or writes the error response itself.
func (s *Server) loadStudent(w http.ResponseWriter, r *http.Request) (model.Student, bool) {
	id, err := studentIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return model.Student{}, false
	}
	student, err := s.store.GetStudentByID(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "student_not_found")
		return model.Student{}, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return model.Student{}, false
	}
	return student, true
}

func (s *Server) handleAdminGetStudent(w http.ResponseWriter, r *http.Request) {
	student, ok := s.loadStudent(w, r)
	if !ok {
		return
	}
	assessments, err := s.store.ListAssessmentsByStudent(r.Context(), student.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student":     mapStudent(student),
		"assessments": mapAssessments(assessments),
	})
}

func (s *Server) handleAdminStudentProgress(w http.ResponseWriter, r *http.Request) {
	student, ok := s.loadStudent(w, r)
	if !ok {
		return
	}
	assessments, err := s.store.ListAssessmentsByStudent(r.Context(), student.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	// Assessments arrive most recent first.
	var first, latest *model.Assessment
	if len(assessments) > 0 {
		latest = &assessments[0]
		first = &assessments[len(assessments)-1]
	}

	resp := map[string]interface{}{
		"student":  mapStudent(student),
		"progress": stats.Compare(first, latest, len(assessments)),
	}
	if first != nil {
		resp["first"] = mapAssessment(*first)
	}
	if latest != nil {
		resp["latest"] = mapAssessment(*latest)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminStudentReport(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	student, ok := s.loadStudent(w, r)
	if !ok {
		return
	}
	assessments, err := s.store.ListAssessmentsByStudent(r.Context(), student.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	pdf, err := report.StudentReport(student, assessments, s.now())
	if err != nil {
		logger.Error().Err(err).Int64("student_id", student.ID).Msg("report generation failed")
		writeError(w, http.StatusInternalServerError, "report_failed")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=student-%d-report.pdf", student.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

type studentPatchRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birthDate"`
	Active    *bool   `json:"active"`
}

func (s *Server) handleAdminPatchStudent(w http.ResponseWriter, r *http.Request) {
	id, err := studentIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}

	var req studentPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.StudentUpdate{
		Name:   req.Name,
		Phone:  req.Phone,
		Active: req.Active,
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_birth_date")
			return
		}
		update.BirthDate = &birthDate
	}

	student, err := s.store.UpdateStudent(r.Context(), id, update)
	if errors.Is(err, pgx.ErrNoRows) {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapStudent(student))
}

func (s *Server) handleAdminDeleteStudent(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	student, ok := s.loadStudent(w, r)
	if !ok {
		return
	}
	if err := s.store.DeactivateStudent(r.Context(), student.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	logger.Info().Str("event", "student_deactivated").Int64("student_id", student.ID).Send()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
