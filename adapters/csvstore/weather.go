package csvstore

import (
	"time"

	"bikeusage/domain/station"
)

// readWeather indexes hourly weather rows by UTC hour. Later files win on
// duplicate hours.
func readWeather(files []string) (map[time.Time]station.Weather, int, error) {
	out := make(map[time.Time]station.Weather)
	skipped := 0
	for _, path := range files {
		rows, err := readTable(path)
		if err != nil {
			return nil, 0, err
		}
		for _, r := range rows {
			raw := r.str("datetime")
			if raw == "" {
				raw = r.str("timestamp")
			}
			ts, err := parseTimestamp(raw)
			if err != nil {
				skipped++
				continue
			}
			var w station.Weather
			w.Temperature, _ = r.float("temperature_2m")
			w.Humidity, _ = r.float("relative_humidity_2m")
			w.Precipitation, _ = r.float("precipitation")
			w.Rain, _ = r.float("rain")
			w.Snowfall, _ = r.float("snowfall")
			w.Code, _ = r.int("weather_code")
			w.CloudCover, _ = r.float("cloud_cover")
			w.WindSpeed, _ = r.float("wind_speed_10m")
			w.WindDirection, _ = r.float("wind_direction_10m")
			w.WindGusts, _ = r.float("wind_gusts_10m")
			out[ts.Truncate(time.Hour)] = w
		}
	}
	return out, skipped, nil
}
