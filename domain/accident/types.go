package accident

import "math"

// Record is one police-reported accident. The source data has no day of month,
// only year, month, weekday and hour.
type Record struct {
	State          int     `json:"state"`
	Region         int     `json:"region"`
	District       int     `json:"district"`
	Municipality   int     `json:"municipality"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	Weekday        int     `json:"weekday"`
	Hour           int     `json:"hour"`
	AccidentType   int     `json:"accident_type"`
	InjurySeverity int     `json:"injury_severity"`
	LightCondition int     `json:"light_condition"`
	RoadCondition  int     `json:"road_condition"`
	IsBicycle      bool    `json:"is_bicycle"`
	IsCar          bool    `json:"is_car"`
	IsPedestrian   bool    `json:"is_pedestrian"`
	IsMotorcycle   bool    `json:"is_motorcycle"`
	IsOther        bool    `json:"is_other"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// RegionFilter selects accidents by administrative unit; nil fields match everything.
type RegionFilter struct {
	State    *int
	Region   *int
	District *int
}

// Matches reports whether r lies in the selected administrative unit.
func (f RegionFilter) Matches(r Record) bool {
	if f.State != nil && r.State != *f.State {
		return false
	}
	if f.Region != nil && r.Region != *f.Region {
		return false
	}
	if f.District != nil && r.District != *f.District {
		return false
	}
	return true
}

// Located reports whether the record carries coordinates. Loaders store missing
// coordinates as NaN.
func (r Record) Located() bool {
	return !math.IsNaN(r.Latitude) && !math.IsNaN(r.Longitude)
}
