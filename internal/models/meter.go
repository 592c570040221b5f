package models

// MeterZone is a band of the soil-moisture meter scale.
type MeterZone struct {
	Key   string `json:"key"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Label string `json:"label"`
}

// MeterScale lists the zones of the 1-10 moisture meter, driest first.
var MeterScale = []MeterZone{
	{Key: "dry", Min: 1, Max: 3, Label: "Dry (Red)"},
	{Key: "moist", Min: 4, Max: 7, Label: "Moist (Green)"},
	{Key: "wet", Min: 8, Max: 10, Label: "Wet (Blue)"},
}

// ZoneFor returns the zone a reading falls into. Readings below the scale
// count as dry and readings above it as wet.
func ZoneFor(reading int) MeterZone {
	switch {
	case reading <= 3:
		return MeterScale[0]
	case reading <= 7:
		return MeterScale[1]
	default:
		return MeterScale[2]
	}
}
