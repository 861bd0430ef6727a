package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"monipersonal/server/internal/model"
	"monipersonal/server/internal/stats"
)

type studentSummary struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt int64   `json:"createdOn"`
}

func mapStudent(student model.Student) studentSummary {
	summary := studentSummary{
		ID:        student.ID,
		Name:      student.Name,
		Email:     student.Email,
		Phone:     student.Phone,
		Active:    student.Active,
		CreatedAt: student.CreatedAt.Unix(),
	}
	if student.BirthDate != nil {
		birthDate := student.BirthDate.Format("2006-01-02")
		summary.BirthDate = &birthDate
	}
	return summary
}

type assessmentSummary struct {
	ID         int64    `json:"id"`
	RecordedAt string   `json:"recordedAt"`
	WeightKg   float64  `json:"weightKg"`
	HeightCm   float64  `json:"heightCm"`
	BMI        float64  `json:"bmi"`
	BMIClass   string   `json:"bmiClass"`
	BodyFatPct *float64 `json:"bodyFatPct,omitempty"`
	WaistCm    *float64 `json:"waistCm,omitempty"`
	HipCm      *float64 `json:"hipCm,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

func mapAssessment(a model.Assessment) assessmentSummary {
	return assessmentSummary{
		ID:         a.ID,
		RecordedAt: a.RecordedAt.UTC().Format(time.RFC3339),
		WeightKg:   a.WeightKg,
		HeightCm:   a.HeightCm,
		BMI:        a.BMI,
		BMIClass:   stats.ClassifyBMI(a.BMI),
		BodyFatPct: a.BodyFatPct,
		WaistCm:    a.WaistCm,
		HipCm:      a.HipCm,
		Notes:      a.Notes,
	}
}

func mapAssessments(assessments []model.Assessment) []assessmentSummary {
	summaries := make([]assessmentSummary, 0, len(assessments))
	for _, a := range assessments {
		summaries = append(summaries, mapAssessment(a))
	}
	return summaries
}

func (s *Server) handleMyHistory(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	assessments, err := s.store.ListAssessmentsByStudent(r.Context(), identity.SubjectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"student":          mapStudent(*identity.Student),
		"totalAssessments": len(assessments),
		"assessments":      mapAssessments(assessments),
	})
}

func (s *Server) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	writeJSON(w, http.StatusOK, mapStudent(*identity.Student))
}

type assessmentRequest struct {
	WeightKg float64  `json:"weightKg"`
	HeightCm float64  `json:"heightCm"`
	BodyFat  *float64 `json:"bodyFatPct"`

	NeckCm         *float64 `json:"neckCm"`
	RightArmCm     *float64 `json:"rightArmCm"`
	LeftArmCm      *float64 `json:"leftArmCm"`
	RightForearmCm *float64 `json:"rightForearmCm"`
	LeftForearmCm  *float64 `json:"leftForearmCm"`
	ChestCm        *float64 `json:"chestCm"`
	WaistCm        *float64 `json:"waistCm"`
	AbdomenCm      *float64 `json:"abdomenCm"`
	HipCm          *float64 `json:"hipCm"`
	RightThighCm   *float64 `json:"rightThighCm"`
	LeftThighCm    *float64 `json:"leftThighCm"`
	RightCalfCm    *float64 `json:"rightCalfCm"`
	LeftCalfCm     *float64 `json:"leftCalfCm"`

	BicipitalFoldMm   *float64 `json:"bicipitalFoldMm"`
	TricipitalFoldMm  *float64 `json:"tricipitalFoldMm"`
	SubscapularFoldMm *float64 `json:"subscapularFoldMm"`
	SuprailiacFoldMm  *float64 `json:"suprailiacFoldMm"`
	AbdominalFoldMm   *float64 `json:"abdominalFoldMm"`
	ThighFoldMm       *float64 `json:"thighFoldMm"`

	Notes             string `json:"notes"`
	MissingItems      string `json:"missingItems"`
	LikedMostLeast    string `json:"likedMostLeast"`
	WaterGoal         string `json:"waterGoal"`
	WaterGoalImprove  string `json:"waterGoalImprove"`
	Nutrition         string `json:"nutrition"`
	Improvements      string `json:"improvements"`
	SpecialRequest    string `json:"specialRequest"`
	TrainingRoutine   string `json:"trainingRoutine"`
	GeneralSuggestion string `json:"generalSuggestion"`
}

func parseAssessmentRequest(r *http.Request) (assessmentRequest, error) {
	var req assessmentRequest
	if isJSONRequest(r) {
		return req, decodeJSON(r, &req)
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}

	required := func(key string) (float64, error) {
		value := strings.TrimSpace(r.PostFormValue(key))
		if value == "" {
			return 0, fmt.Errorf("missing %s", key)
		}
		return strconv.ParseFloat(value, 64)
	}
	var err error
	if req.WeightKg, err = required("weight_kg"); err != nil {
		return req, err
	}
	if req.HeightCm, err = required("height_cm"); err != nil {
		return req, err
	}

	optionals := map[string]**float64{
		"body_fat_pct":        &req.BodyFat,
		"neck_cm":             &req.NeckCm,
		"right_arm_cm":        &req.RightArmCm,
		"left_arm_cm":         &req.LeftArmCm,
		"right_forearm_cm":    &req.RightForearmCm,
		"left_forearm_cm":     &req.LeftForearmCm,
		"chest_cm":            &req.ChestCm,
		"waist_cm":            &req.WaistCm,
		"abdomen_cm":          &req.AbdomenCm,
		"hip_cm":              &req.HipCm,
		"right_thigh_cm":      &req.RightThighCm,
		"left_thigh_cm":       &req.LeftThighCm,
		"right_calf_cm":       &req.RightCalfCm,
		"left_calf_cm":        &req.LeftCalfCm,
		"bicipital_fold_mm":   &req.BicipitalFoldMm,
		"tricipital_fold_mm":  &req.TricipitalFoldMm,
		"subscapular_fold_mm": &req.SubscapularFoldMm,
		"suprailiac_fold_mm":  &req.SuprailiacFoldMm,
		"abdominal_fold_mm":   &req.AbdominalFoldMm,
		"thigh_fold_mm":       &req.ThighFoldMm,
	}
	for key, target := range optionals {
		value := strings.TrimSpace(r.PostFormValue(key))
		if value == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return req, fmt.Errorf("invalid %s", key)
		}
		*target = &parsed
	}

	req.Notes = r.PostFormValue("notes")
	req.MissingItems = r.PostFormValue("missing_items")
	req.LikedMostLeast = r.PostFormValue("liked_most_least")
	req.WaterGoal = r.PostFormValue("water_goal")
	req.WaterGoalImprove = r.PostFormValue("water_goal_improve")
	req.Nutrition = r.PostFormValue("nutrition")
	req.Improvements = r.PostFormValue("improvements")
	req.SpecialRequest = r.PostFormValue("special_request")
	req.TrainingRoutine = r.PostFormValue("training_routine")
	req.GeneralSuggestion = r.PostFormValue("general_suggestion")
	return req, nil
}

func (s *Server) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	identity := identityFromContext(r.Context())

	req, err := parseAssessmentRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.WeightKg <= 0 || req.HeightCm <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_measurements")
		return
	}

	assessment := model.Assessment{
		StudentID:  identity.SubjectID,
		RecordedAt: s.now().UTC(),

		WeightKg:   req.WeightKg,
		HeightCm:   req.HeightCm,
		BodyFatPct: req.BodyFat,
		BMI:        stats.BMI(req.WeightKg, req.HeightCm),

		NeckCm:         req.NeckCm,
		RightArmCm:     req.RightArmCm,
		LeftArmCm:      req.LeftArmCm,
		RightForearmCm: req.RightForearmCm,
		LeftForearmCm:  req.LeftForearmCm,
		ChestCm:        req.ChestCm,
		WaistCm:        req.WaistCm,
		AbdomenCm:      req.AbdomenCm,
		HipCm:          req.HipCm,
		RightThighCm:   req.RightThighCm,
		LeftThighCm:    req.LeftThighCm,
		RightCalfCm:    req.RightCalfCm,
		LeftCalfCm:     req.LeftCalfCm,

		BicipitalFoldMm:   req.BicipitalFoldMm,
		TricipitalFoldMm:  req.TricipitalFoldMm,
		SubscapularFoldMm: req.SubscapularFoldMm,
		SuprailiacFoldMm:  req.SuprailiacFoldMm,
		AbdominalFoldMm:   req.AbdominalFoldMm,
		ThighFoldMm:       req.ThighFoldMm,

		Notes:             req.Notes,
		MissingItems:      req.MissingItems,
		LikedMostLeast:    req.LikedMostLeast,
		WaterGoal:         req.WaterGoal,
		WaterGoalImprove:  req.WaterGoalImprove,
		Nutrition:         req.Nutrition,
		Improvements:      req.Improvements,
		SpecialRequest:    req.SpecialRequest,
		TrainingRoutine:   req.TrainingRoutine,
		GeneralSuggestion: req.GeneralSuggestion,
	}

	created, err := s.store.CreateAssessment(r.Context(), assessment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	assessmentsCreated.Inc()
	logger.Info().Str("event", "assessment_created").
		Int64("student_id", identity.SubjectID).
		Float64("weight_kg", created.WeightKg).
		Float64("bmi", created.BMI).
		Send()

	if isJSONRequest(r) {
		writeJSON(w, http.StatusCreated, mapAssessment(created))
		return
	}
	http.Redirect(w, r, "/me/history?success=true", http.StatusSeeOther)
}
