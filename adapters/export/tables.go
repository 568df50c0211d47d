package export

import (
	"strconv"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/usage"
	"bikeusage/internal/accidents"
	"bikeusage/internal/coverage"
	"bikeusage/internal/events"
	"bikeusage/internal/features"
	"bikeusage/internal/probability"
	"bikeusage/internal/weather"
	"bikeusage/ports"
)

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FeatureTable renders {station, DPI, WSD, SDI, valid}. Invalid rows leave the
// feature cells empty.
func FeatureTable(t features.Table) ports.Table {
	out := ports.Table{Name: "features", Header: []string{"station", "DPI", "WSD", "SDI", "valid"}}
	for _, r := range t {
		row := []string{r.Station, "", "", "", strconv.FormatBool(r.Valid)}
		if r.Valid {
			row[1], row[2], row[3] = ftoa(r.DPI), ftoa(r.WSD), ftoa(r.SDI)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// TimelineTable renders {station, date, cluster_id, usage_type}.
func TimelineTable(rows []usage.Assignment) ports.Table {
	out := ports.Table{Name: "timeline", Header: []string{"station", "date", "cluster_id", "usage_type"}}
	for _, a := range rows {
		out.Rows = append(out.Rows, []string{
			a.Station, a.Date.Format(core.DateLayout), strconv.Itoa(a.Cluster), a.Type.String(),
		})
	}
	return out
}

// ProbabilityTable renders {station, usage_type, k, N, probability, ci_low, ci_high}.
func ProbabilityTable(name string, rows []probability.Row) ports.Table {
	out := ports.Table{Name: name, Header: []string{"station", "usage_type", "k", "N", "probability", "ci_low", "ci_high"}}
	for _, r := range rows {
		out.Rows = append(out.Rows, []string{
			r.Station, r.Usage.String(), strconv.Itoa(r.K), strconv.Itoa(r.N),
			ftoa(r.Probability), ftoa(r.CILow), ftoa(r.CIHigh),
		})
	}
	return out
}

// EntropyTable renders {station, usage_entropy} in the order of stations.
func EntropyTable(stations []string, entropy map[string]float64) ports.Table {
	out := ports.Table{Name: "usage_entropy", Header: []string{"station", "usage_entropy"}}
	for _, s := range stations {
		if h, ok := entropy[s]; ok {
			out.Rows = append(out.Rows, []string{s, ftoa(h)})
		}
	}
	return out
}

// DeltaTable renders {station, baseline_score, event_score, delta, DPI_delta,
// WSD_delta, SDI_delta}.
func DeltaTable(name string, rows []events.Delta) ports.Table {
	out := ports.Table{Name: name, Header: []string{
		"station", "baseline_score", "event_score", "delta", "DPI_delta", "WSD_delta", "SDI_delta",
	}}
	for _, d := range rows {
		out.Rows = append(out.Rows, []string{
			d.Station, ftoa(d.BaselineScore), ftoa(d.EventScore), ftoa(d.ScoreDelta),
			ftoa(d.Diff.DPI), ftoa(d.Diff.WSD), ftoa(d.Diff.SDI),
		})
	}
	return out
}

// WeatherTable renders weather responses.
func WeatherTable(rows []weather.Response) ports.Table {
	out := ports.Table{Name: "weather_response", Header: []string{
		"station", "bin", "inside_mean", "outside_mean", "inside_obs", "outside_obs", "delta_absolute", "delta_relative",
	}}
	for _, r := range rows {
		out.Rows = append(out.Rows, []string{
			r.Station, r.Bin, ftoa(r.InsideMean), ftoa(r.OutsideMean),
			strconv.Itoa(r.InsideObs), strconv.Itoa(r.OutsideObs), ftoa(r.Absolute), ftoa(r.Relative),
		})
	}
	return out
}

// AccidentTable renders per-station accident counts.
func AccidentTable(rows []accidents.StationStats) ports.Table {
	out := ports.Table{Name: "accidents", Header: []string{
		"station", "radius_m", "total_accidents", "bicycle_accidents", "bicycle_share",
	}}
	for _, r := range rows {
		out.Rows = append(out.Rows, []string{
			r.Station, ftoa(r.Radius), strconv.Itoa(r.Total), strconv.Itoa(r.Bicycle), ftoa(r.BicycleShare),
		})
	}
	return out
}

// BucketTable renders an accident aggregation. Month buckets get year and
// month columns, others a single key column.
func BucketTable(name, key string, rows []accidents.Bucket, monthly bool) ports.Table {
	out := ports.Table{Name: name}
	if monthly {
		out.Header = []string{"year", "month", "num_accidents"}
	} else {
		out.Header = []string{key, "num_accidents"}
	}
	for _, b := range rows {
		if monthly {
			out.Rows = append(out.Rows, []string{strconv.Itoa(b.Year), strconv.Itoa(b.Month), strconv.Itoa(b.Count)})
		} else {
			out.Rows = append(out.Rows, []string{strconv.Itoa(b.Key), strconv.Itoa(b.Count)})
		}
	}
	return out
}

// OutageTable renders outage rates.
func OutageTable(rows []coverage.Outage) ports.Table {
	out := ports.Table{Name: "outage", Header: []string{
		"station", "first", "last", "expected_hours", "missing_hours", "outage_rate",
	}}
	for _, o := range rows {
		out.Rows = append(out.Rows, []string{
			o.Station, o.First.Format(time.RFC3339), o.Last.Format(time.RFC3339),
			strconv.Itoa(o.Expected), strconv.Itoa(o.Missing), ftoa(o.Rate),
		})
	}
	return out
}
