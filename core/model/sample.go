package model

import "time"

// Sample is the combined insulin and carbohydrate state of a scenario at one
// instant.
type Sample struct {
	RunID    string    `json:"run_id"`
	Scenario string    `json:"scenario"`
	Time     time.Time `json:"time"`

	InsulinOnBoard  float64 `json:"iob"`              // units still active
	InsulinActivity float64 `json:"insulin_activity"` // units per hour
	InsulinRate     float64 `json:"insulin_rate"`     // rate multiplier in effect at Time
	// EffectiveElapsed is the warped time since the first dose.
	EffectiveElapsed time.Duration `json:"effective_elapsed"`

	CarbsOnBoard   float64 `json:"cob"`            // grams not yet absorbed
	CarbsAbsorbed  float64 `json:"carbs_absorbed"` // grams
	CarbRate       float64 `json:"carb_rate"`      // grams per hour
	CarbsSuspended bool    `json:"carbs_suspended"`

	Override string `json:"override,omitempty"`
}

// Summary aggregates a run.
type Summary struct {
	RunID               string        `json:"run_id"`
	Scenario            string        `json:"scenario"`
	Samples             int           `json:"samples"`
	PeakActivity        float64       `json:"peak_activity"`
	PeakActivityAt      time.Time     `json:"peak_activity_at"`
	TotalCarbsAbsorbed  float64       `json:"total_carbs_absorbed"`
	MaxInsulinOnBoard   float64       `json:"max_iob"`
	SuspendedCarbTime   time.Duration `json:"suspended_carb_time"`
	MeanInsulinActivity float64       `json:"mean_insulin_activity"`
}
