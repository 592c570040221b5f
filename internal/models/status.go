package models

// Health is the derived health category of a plant.
type Health string

const (
	HealthHealthy        Health = "Healthy"
	HealthNeedsAttention Health = "Needs Attention"
	HealthCritical       Health = "Critical"
)

// PlantStatus is the latest derived health and last-watered date of one
// catalog plant.
type PlantStatus struct {
	PlantID     string  `json:"plantId" msgpack:"plantId"`
	LastWatered *string `json:"lastWatered" msgpack:"lastWatered"`
	Health      Health  `json:"health" msgpack:"health"`
}

// DefaultStatus returns the status of a plant that has never been watered.
func DefaultStatus(plantID string) PlantStatus {
	return PlantStatus{
		PlantID: plantID,
		Health:  HealthHealthy,
	}
}

// Watered reports whether a last-watered date is recorded.
func (s PlantStatus) Watered() bool {
	return s.LastWatered != nil && *s.LastWatered != ""
}
