package models

// WateringLogEntry is one recorded watering or measurement event.
type WateringLogEntry struct {
	ID           string `json:"id" msgpack:"id"`
	PlantID      string `json:"plantId" msgpack:"plantId"`
	Date         string `json:"date" msgpack:"date"` // free text, locale formatted
	MeterReading int    `json:"meterReading" msgpack:"meterReading"`
	Notes        string `json:"notes" msgpack:"notes"`
}
