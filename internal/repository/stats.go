package repository

import (
	"context"
	"time"
)

// SystemStats is the aggregate view the admin dashboard and stats endpoints
// are built from.
type SystemStats struct {
	TotalStudents    int
	ActiveStudents   int
	TotalAssessments int
	AverageBMI       *float64
}

func (s *Store) GetSystemStats(ctx context.Context) (SystemStats, error) {
	var stats SystemStats
	row := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM students WHERE active = true),
			(SELECT COUNT(*) FROM assessments),
			(SELECT ROUND(AVG(bmi)::numeric, 2) FROM assessments WHERE bmi > 0)
	`)
	err := row.Scan(&stats.TotalStudents, &stats.ActiveStudents, &stats.TotalAssessments, &stats.AverageBMI)
	return stats, err
}

func (s *Store) CountAssessmentsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM assessments WHERE recorded_at >= $1
	`, since).Scan(&count)
	return count, err
}

// BMIBands is the four-bucket histogram the original dashboard showed; the
// three obesity grades collapse into one bucket here.
type BMIBands struct {
	Underweight int `json:"underweight"`
	Normal      int `json:"normal"`
	Overweight  int `json:"overweight"`
	Obesity     int `json:"obesity"`
}

func (s *Store) GetBMIBands(ctx context.Context) (BMIBands, error) {
	var bands BMIBands
	row := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE bmi < 18.5),
			COUNT(*) FILTER (WHERE bmi >= 18.5 AND bmi < 25),
			COUNT(*) FILTER (WHERE bmi >= 25 AND bmi < 30),
			COUNT(*) FILTER (WHERE bmi >= 30)
		FROM assessments
		WHERE bmi > 0
	`)
	err := row.Scan(&bands.Underweight, &bands.Normal, &bands.Overweight, &bands.Obesity)
	return bands, err
}

// CountStudentsWithProgress counts students with more than one assessment,
// i.e. those for whom a comparison is meaningful.
func (s *Store) CountStudentsWithProgress(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM (
			SELECT student_id FROM assessments GROUP BY student_id HAVING COUNT(*) > 1
		) progressed
	`).Scan(&count)
	return count, err
}

type StudentActivity struct {
	StudentID   int64  `json:"studentId"`
	Name        string `json:"name"`
	Assessments int    `json:"assessments"`
}

func (s *Store) TopStudentsByAssessments(ctx context.Context, limit int) ([]StudentActivity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id, s.name, COUNT(a.id)
		FROM students s
		JOIN assessments a ON a.student_id = s.id
		GROUP BY s.id, s.name
		ORDER BY COUNT(a.id) DESC, s.name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []StudentActivity
	for rows.Next() {
		var entry StudentActivity
		if err := rows.Scan(&entry.StudentID, &entry.Name, &entry.Assessments); err != nil {
			return nil, err
		}
		top = append(top, entry)
	}
	return top, rows.Err()
}
