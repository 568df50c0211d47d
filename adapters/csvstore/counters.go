package csvstore

import (
	"bikeusage/domain/core"
	"bikeusage/domain/station"
)

// counter column names
const (
	colSite      = "counter_site"
	colLatitude  = "latitude"
	colLongitude = "longitude"
	colTimestamp = "iso_timestamp"
	colIn        = "channels_in"
	colOut       = "channels_out"
	colAll       = "channels_all"
)

type site struct {
	location station.Location
	obs      []station.Observation
}

// counterStats reports rows dropped while reading counter files
type counterStats struct {
	rows        int
	badTime     int
	missingSite int
	noCount     int
}

// readCounters merges counter rows of all files into per-site observations.
// order lists sites in first-seen order.
func readCounters(files []string) (map[string]*site, []string, counterStats, error) {
	sites := make(map[string]*site)
	var order []string
	var st counterStats

	for _, path := range files {
		rows, err := readTable(path)
		if err != nil {
			return nil, nil, st, err
		}
		for _, r := range rows {
			st.rows++
			id, err := core.ParseStationID(r.str(colSite))
			if err != nil {
				st.missingSite++
				continue
			}
			name := id.String()
			ts, err := parseTimestamp(r.str(colTimestamp))
			if err != nil {
				st.badTime++
				continue
			}
			count, ok := r.int(colAll)
			if !ok {
				in, okIn := r.int(colIn)
				out, okOut := r.int(colOut)
				if !okIn && !okOut {
					st.noCount++
					continue
				}
				count = in + out
			}

			s, exists := sites[name]
			if !exists {
				lat, _ := r.float(colLatitude)
				lon, _ := r.float(colLongitude)
				s = &site{location: station.Location{Latitude: lat, Longitude: lon}}
				sites[name] = s
				order = append(order, name)
			}
			s.obs = append(s.obs, station.Observation{Time: ts, Count: count})
		}
	}

	for _, s := range sites {
		s.obs = station.Normalize(s.obs)
	}
	return sites, order, st, nil
}
