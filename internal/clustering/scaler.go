package clustering

import (
	"errors"

	"github.com/montanaflynn/stats"
)

// Scaler standardizes feature columns to mean 0 and population standard deviation 1.
// Constant columns get a unit scale so they map to 0 instead of NaN.
type Scaler struct {
	Mean   []float64 `json:"mean"`
	Stddev []float64 `json:"stddev"`
}

// FitScaler computes column statistics over rows.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows to fit scaler")
	}
	dims := len(rows[0])
	if dims == 0 {
		return nil, errors.New("rows have no features")
	}

	s := &Scaler{Mean: make([]float64, dims), Stddev: make([]float64, dims)}
	column := make([]float64, len(rows))
	for j := 0; j < dims; j++ {
		for i, r := range rows {
			if len(r) != dims {
				return nil, errors.New("inconsistent feature dimensions")
			}
			column[i] = r[j]
		}
		mean, err := stats.Mean(column)
		if err != nil {
			return nil, err
		}
		sd, err := stats.StandardDeviationPopulation(column)
		if err != nil {
			return nil, err
		}
		if sd < 1e-12 {
			sd = 1
		}
		s.Mean[j], s.Stddev[j] = mean, sd
	}
	return s, nil
}

// Transform returns standardized copies of rows.
func (s *Scaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		z := make([]float64, len(r))
		for j, v := range r {
			z[j] = (v - s.Mean[j]) / s.Stddev[j]
		}
		out[i] = z
	}
	return out
}

// Inverse maps a standardized point back to feature units.
func (s *Scaler) Inverse(z []float64) []float64 {
	out := make([]float64, len(z))
	for j, v := range z {
		out[j] = v*s.Stddev[j] + s.Mean[j]
	}
	return out
}
