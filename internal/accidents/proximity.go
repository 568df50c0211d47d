// Package accidents relates police accident records to counter stations.
package accidents

import (
	"sort"

	"bikeusage/domain/accident"
	"bikeusage/domain/station"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// DefaultRadius is the search radius around a station in meters.
const DefaultRadius = 50.0

// StationStats counts accidents within Radius meters of a station.
type StationStats struct {
	Station      string  `json:"station"`
	Radius       float64 `json:"radius_m"`
	Total        int     `json:"total_accidents"`
	Bicycle      int     `json:"bicycle_accidents"`
	BicycleShare float64 `json:"bicycle_share"`
}

// Site is a station position to search around.
type Site struct {
	Name     string
	Location station.Location
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b station.Location) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Proximity counts, for every site, the located records within its radius
// (radii[name], else defaultRadius). Results are sorted by bicycle accidents,
// most first, then by name.
func Proximity(sites []Site, records []accident.Record, radii map[string]float64, defaultRadius float64) []StationStats {
	points := make([]s2.Point, 0, len(records))
	bicycle := make([]bool, 0, len(records))
	for _, r := range records {
		if !r.Located() {
			continue
		}
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(r.Latitude, r.Longitude)))
		bicycle = append(bicycle, r.IsBicycle)
	}

	out := make([]StationStats, 0, len(sites))
	for _, site := range sites {
		radius := defaultRadius
		if r, ok := radii[site.Name]; ok {
			radius = r
		}
		center := s2.PointFromLatLng(s2.LatLngFromDegrees(site.Location.Latitude, site.Location.Longitude))
		area := s2.CapFromCenterAngle(center, s1.Angle(radius/EarthRadiusMeters))

		st := StationStats{Station: site.Name, Radius: radius}
		for i, p := range points {
			if !area.ContainsPoint(p) {
				continue
			}
			st.Total++
			if bicycle[i] {
				st.Bicycle++
			}
		}
		if st.Total > 0 {
			st.BicycleShare = float64(st.Bicycle) / float64(st.Total)
		}
		out = append(out, st)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bicycle != out[j].Bicycle {
			return out[i].Bicycle > out[j].Bicycle
		}
		return out[i].Station < out[j].Station
	})
	return out
}
