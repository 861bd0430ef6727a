package repository

import (
	"context"
	"time"

	"monipersonal/server/internal/model"
)

const assessmentColumns = `id, student_id, recorded_at, created_at,
	weight_kg, height_cm, body_fat_pct, bmi,
	neck_cm, right_arm_cm, left_arm_cm, right_forearm_cm, left_forearm_cm,
	chest_cm, waist_cm, abdomen_cm, hip_cm,
	right_thigh_cm, left_thigh_cm, right_calf_cm, left_calf_cm,
	bicipital_fold_mm, tricipital_fold_mm, subscapular_fold_mm,
	suprailiac_fold_mm, abdominal_fold_mm, thigh_fold_mm,
	notes, missing_items, liked_most_least, water_goal, water_goal_improve,
	nutrition, improvements, special_request, training_routine, general_suggestion`

func scanAssessment(row pgxRow) (model.Assessment, error) {
	var a model.Assessment
	err := row.Scan(
		&a.ID, &a.StudentID, &a.RecordedAt, &a.CreatedAt,
		&a.WeightKg, &a.HeightCm, &a.BodyFatPct, &a.BMI,
		&a.NeckCm, &a.RightArmCm, &a.LeftArmCm, &a.RightForearmCm, &a.LeftForearmCm,
		&a.ChestCm, &a.WaistCm, &a.AbdomenCm, &a.HipCm,
		&a.RightThighCm, &a.LeftThighCm, &a.RightCalfCm, &a.LeftCalfCm,
		&a.BicipitalFoldMm, &a.TricipitalFoldMm, &a.SubscapularFoldMm,
		&a.SuprailiacFoldMm, &a.AbdominalFoldMm, &a.ThighFoldMm,
		&a.Notes, &a.MissingItems, &a.LikedMostLeast, &a.WaterGoal, &a.WaterGoalImprove,
		&a.Nutrition, &a.Improvements, &a.SpecialRequest, &a.TrainingRoutine, &a.GeneralSuggestion,
	)
	return a, err
}

func (s *Store) CreateAssessment(ctx context.Context, a model.Assessment) (model.Assessment, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO assessments (
			student_id, recorded_at, created_at,
			weight_kg, height_cm, body_fat_pct, bmi,
			neck_cm, right_arm_cm, left_arm_cm, right_forearm_cm, left_forearm_cm,
			chest_cm, waist_cm, abdomen_cm, hip_cm,
			right_thigh_cm, left_thigh_cm, right_calf_cm, left_calf_cm,
			bicipital_fold_mm, tricipital_fold_mm, subscapular_fold_mm,
			suprailiac_fold_mm, abdominal_fold_mm, thigh_fold_mm,
			notes, missing_items, liked_most_least, water_goal, water_goal_improve,
			nutrition, improvements, special_request, training_routine, general_suggestion
		) VALUES (
			$1, $2, now(),
			$3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22,
			$23, $24, $25,
			$26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35
		)
		RETURNING `+assessmentColumns+`
	`,
		a.StudentID, a.RecordedAt,
		a.WeightKg, a.HeightCm, a.BodyFatPct, a.BMI,
		a.NeckCm, a.RightArmCm, a.LeftArmCm, a.RightForearmCm, a.LeftForearmCm,
		a.ChestCm, a.WaistCm, a.AbdomenCm, a.HipCm,
		a.RightThighCm, a.LeftThighCm, a.RightCalfCm, a.LeftCalfCm,
		a.BicipitalFoldMm, a.TricipitalFoldMm, a.SubscapularFoldMm,
		a.SuprailiacFoldMm, a.AbdominalFoldMm, a.ThighFoldMm,
		a.Notes, a.MissingItems, a.LikedMostLeast, a.WaterGoal, a.WaterGoalImprove,
		a.Nutrition, a.Improvements, a.SpecialRequest, a.TrainingRoutine, a.GeneralSuggestion,
	)
	return scanAssessment(row)
}

// ListAssessmentsByStudent returns the student's history, most recent first.
func (s *Store) ListAssessmentsByStudent(ctx context.Context, studentID int64) ([]model.Assessment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+assessmentColumns+`
		FROM assessments
		WHERE student_id = $1
		ORDER BY recorded_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []model.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

// StudentOverview is one row of the trainer's student list: the student plus
// aggregate history markers.
type StudentOverview struct {
	Student         model.Student
	Assessments     int
	FirstRecordedAt *time.Time
	LastRecordedAt  *time.Time
	FirstWeightKg   *float64
	LastWeightKg    *float64
	LastBMI         *float64
}

func (s *Store) ListStudentOverviews(ctx context.Context) ([]StudentOverview, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.name, s.email, s.phone, s.password_hash, s.birth_date, s.active, s.created_at,
		       COUNT(a.id),
		       MIN(a.recorded_at),
		       MAX(a.recorded_at),
		       (SELECT weight_kg FROM assessments WHERE student_id = s.id ORDER BY recorded_at ASC LIMIT 1),
		       (SELECT weight_kg FROM assessments WHERE student_id = s.id ORDER BY recorded_at DESC LIMIT 1),
		       (SELECT bmi FROM assessments WHERE student_id = s.id ORDER BY recorded_at DESC LIMIT 1)
		FROM students s
		LEFT JOIN assessments a ON a.student_id = s.id
		GROUP BY s.id
		ORDER BY s.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []StudentOverview
	for rows.Next() {
		var o StudentOverview
		err := rows.Scan(
			&o.Student.ID, &o.Student.Name, &o.Student.Email, &o.Student.Phone,
			&o.Student.PasswordHash, &o.Student.BirthDate, &o.Student.Active, &o.Student.CreatedAt,
			&o.Assessments,
			&o.FirstRecordedAt, &o.LastRecordedAt,
			&o.FirstWeightKg, &o.LastWeightKg, &o.LastBMI,
		)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, o)
	}
	return overviews, rows.Err()
}
