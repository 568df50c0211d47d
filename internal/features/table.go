package features

// Row is one line of the feature table.
type Row struct {
	Station string `json:"station"`
	Vector
}

// Table is the per-station feature table for one interval.
type Table []Row

// Valid returns the rows with a valid vector, preserving order.
func (t Table) Valid() Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if r.Valid {
			out = append(out, r)
		}
	}
	return out
}

// Matrix returns the feature slices of t in row order.
func (t Table) Matrix() [][]float64 {
	out := make([][]float64, len(t))
	for i, r := range t {
		out[i] = r.Slice()
	}
	return out
}

// Stations returns the station names in row order.
func (t Table) Stations() []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.Station
	}
	return out
}

// Lookup returns the row of station.
func (t Table) Lookup(station string) (Row, bool) {
	for _, r := range t {
		if r.Station == station {
			return r, true
		}
	}
	return Row{}, false
}
