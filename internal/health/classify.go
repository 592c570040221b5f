// Package health derives a plant's health category from a meter reading.
package health

import "github.com/urban-jungle/backend/internal/models"

const (
	// CriticalAt is the reading at and above which soil counts as waterlogged.
	CriticalAt = 8
	// DryAt is the reading at and below which soil counts as too dry.
	DryAt = 2

	// DroughtTolerantPlant targets the dry end of the meter, so a low
	// reading is its normal state.
	DroughtTolerantPlant = "dracaena"
)

// Classify maps a manually entered reading to a health category.
// Any integer is accepted.
func Classify(reading int, plantID string) models.Health {
	switch {
	case reading >= CriticalAt:
		return models.HealthCritical
	case reading <= DryAt && plantID != DroughtTolerantPlant:
		return models.HealthNeedsAttention
	default:
		return models.HealthHealthy
	}
}

// ClassifyImported maps a reading from a CSV import to a health category.
// Unlike Classify it applies no per-species exception; the two rules are
// kept apart until the import rule is confirmed.
func ClassifyImported(reading int) models.Health {
	switch {
	case reading >= CriticalAt:
		return models.HealthCritical
	case reading <= DryAt:
		return models.HealthNeedsAttention
	default:
		return models.HealthHealthy
	}
}
