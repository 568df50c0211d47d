package csvstore

import (
	"math"

	"bikeusage/domain/accident"
)

// readAccidents reads accident rows. Missing coordinates become NaN so the
// record still counts in temporal aggregations.
func readAccidents(files []string) ([]accident.Record, error) {
	var out []accident.Record
	for _, path := range files {
		rows, err := readTable(path)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			rec := accident.Record{
				IsBicycle:    r.boolean("is_bicycle"),
				IsCar:        r.boolean("is_car"),
				IsPedestrian: r.boolean("is_pedestrian"),
				IsMotorcycle: r.boolean("is_motorcycle"),
				IsOther:      r.boolean("is_other"),
			}
			rec.State, _ = r.int("state")
			rec.Region, _ = r.int("region")
			rec.District, _ = r.int("district")
			rec.Municipality, _ = r.int("municipality")
			rec.Year, _ = r.int("year")
			rec.Month, _ = r.int("month")
			rec.Weekday, _ = r.int("weekday")
			rec.Hour, _ = r.int("hour")
			rec.AccidentType, _ = r.int("accident_type")
			rec.InjurySeverity, _ = r.int("injury_severity")
			rec.LightCondition, _ = r.int("light_condition")
			rec.RoadCondition, _ = r.int("road_condition")

			lat, okLat := r.float("latitude")
			lon, okLon := r.float("longitude")
			if !okLat || !okLon {
				lat, lon = math.NaN(), math.NaN()
			}
			rec.Latitude, rec.Longitude = lat, lon
			out = append(out, rec)
		}
	}
	return out, nil
}
