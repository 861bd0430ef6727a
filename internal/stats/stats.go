// Package stats holds the measurement arithmetic shared by the student and
// admin views: BMI computation, WHO classification bands and progress deltas
// between two assessments.
package stats

import (
	"math"

	"monipersonal/server/internal/model"
)

// BMI computes the body mass index from weight in kg and height in cm,
// rounded to two decimals. Returns 0 for non-positive height.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return round2(weightKg / (heightM * heightM))
}

// ClassifyBMI maps a BMI value onto the WHO bands.
func ClassifyBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	case bmi < 35:
		return "obesity_1"
	case bmi < 40:
		return "obesity_2"
	default:
		return "obesity_3"
	}
}

// Trend renders the direction of a delta the way the history views expect.
func Trend(delta float64) string {
	switch {
	case delta > 0:
		return "up"
	case delta < 0:
		return "down"
	default:
		return "steady"
	}
}

// Progress compares a student's first and latest assessments.
type Progress struct {
	Assessments  int      `json:"assessments"`
	WeightDelta  *float64 `json:"weightDelta,omitempty"`
	WeightTrend  string   `json:"weightTrend,omitempty"`
	BMIDelta     *float64 `json:"bmiDelta,omitempty"`
	BMITrend     string   `json:"bmiTrend,omitempty"`
	BodyFatDelta *float64 `json:"bodyFatDelta,omitempty"`
	WaistDelta   *float64 `json:"waistDelta,omitempty"`
	HipDelta     *float64 `json:"hipDelta,omitempty"`
}

// Compare builds the progress view from first and latest assessments. With
// fewer than two assessments there is nothing to compare and only the count
// is filled in.
func Compare(first, latest *model.Assessment, total int) Progress {
	progress := Progress{Assessments: total}
	if first == nil || latest == nil || total < 2 {
		return progress
	}

	weightDelta := round2(latest.WeightKg - first.WeightKg)
	progress.WeightDelta = &weightDelta
	progress.WeightTrend = Trend(weightDelta)

	bmiDelta := round2(latest.BMI - first.BMI)
	progress.BMIDelta = &bmiDelta
	progress.BMITrend = Trend(bmiDelta)

	if d := deltaPtr(first.BodyFatPct, latest.BodyFatPct); d != nil {
		progress.BodyFatDelta = d
	}
	if d := deltaPtr(first.WaistCm, latest.WaistCm); d != nil {
		progress.WaistDelta = d
	}
	if d := deltaPtr(first.HipCm, latest.HipCm); d != nil {
		progress.HipDelta = d
	}
	return progress
}

func deltaPtr(first, latest *float64) *float64 {
	if first == nil || latest == nil {
		return nil
	}
	d := round2(*latest - *first)
	return &d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
