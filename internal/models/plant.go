// Package models contains domain types for the Urban Jungle plant tracker.
package models

// Plant is one cared-for species in the catalog. Plants are reference data
// and never change once the catalog is built.
type Plant struct {
	ID                string `json:"id" yaml:"id"`
	Name              string `json:"name" yaml:"name"`
	ScientificName    string `json:"scientificName" yaml:"scientific_name"`
	CommonName        string `json:"commonName" yaml:"common_name"`
	MeterTarget       string `json:"meterTarget" yaml:"meter_target"` // display text, not a parsed range
	FrequencyEstimate string `json:"frequencyEstimate" yaml:"frequency_estimate"`
	KeyRisk           string `json:"keyRisk" yaml:"key_risk"`
	Light             string `json:"light" yaml:"light"`
	Watering          string `json:"watering" yaml:"watering"`
	SpecialNote       string `json:"specialNote" yaml:"special_note"`
	Toxicity          string `json:"toxicity" yaml:"toxicity"`
	ImageURL          string `json:"imageUrl" yaml:"image_url"`
}
