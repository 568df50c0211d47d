package testkit

import (
	"math"
	"math/rand"
	"time"

	"bikeusage/domain/core"
	"bikeusage/domain/station"
)

// Pattern is the riding archetype a synthetic station imitates.
type Pattern int

const (
	// Commuter: weekday double peak, flat weekends, weak seasonality
	Commuter Pattern = iota
	// Leisure: single afternoon hump, busy weekends, strong seasonality
	Leisure
	// Blend: the average of both
	Blend
)

// StationConfig configures one synthetic counter site.
type StationConfig struct {
	Name        string           `json:"name"`
	Pattern     Pattern          `json:"pattern"`
	Location    station.Location `json:"location"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"` // exclusive
	Volume      float64          `json:"volume"`   // mean riders per hour at shape weight 1
	NoiseLevel  float64          `json:"noise_level"`
	MissingRate float64          `json:"missing_rate"` // share of hours dropped to simulate outages
	WithWeather bool             `json:"with_weather"`
	// Holidays are ridden like Sundays by every pattern
	Holidays []core.DateRange `json:"-"`
	Seed     int64            `json:"seed"`
}

// DefaultStationConfig returns a full two-year commuter station.
func DefaultStationConfig(name string, pattern Pattern) StationConfig {
	return StationConfig{
		Name:       name,
		Pattern:    pattern,
		Location:   station.Location{Latitude: 49.4094, Longitude: 8.6942},
		StartDate:  time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Volume:     40,
		NoiseLevel: 0.05,
		Seed:       42,
	}
}

// hour-of-day weights
var (
	commuterWeekday = [24]float64{
		0.05, 0.03, 0.02, 0.02, 0.05, 0.3, 1.2, 3.2, 2.6, 1.1, 0.8, 0.8,
		0.9, 0.9, 1.0, 1.6, 2.4, 3.0, 1.8, 1.0, 0.6, 0.4, 0.2, 0.1,
	}
	commuterWeekend = [24]float64{
		0.05, 0.03, 0.02, 0.02, 0.02, 0.05, 0.1, 0.2, 0.4, 0.6, 0.8, 0.9,
		1.0, 1.0, 1.0, 0.9, 0.8, 0.7, 0.5, 0.4, 0.3, 0.2, 0.1, 0.05,
	}
	leisureWeekday = [24]float64{
		0.02, 0.01, 0.01, 0.01, 0.01, 0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.1,
		1.3, 1.5, 1.6, 1.6, 1.5, 1.3, 1.0, 0.7, 0.4, 0.2, 0.1, 0.05,
	}
	leisureWeekend = [24]float64{
		0.02, 0.01, 0.01, 0.01, 0.01, 0.02, 0.05, 0.2, 0.6, 1.4, 2.4, 3.0,
		3.3, 3.4, 3.4, 3.2, 2.8, 2.2, 1.5, 0.9, 0.5, 0.2, 0.1, 0.05,
	}
)

// StationGenerator produces deterministic hourly count series
type StationGenerator struct {
	config StationConfig
	rng    *rand.Rand
}

// NewStationGenerator creates a generator seeded from config.Seed
func NewStationGenerator(config StationConfig) *StationGenerator {
	return &StationGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns the hourly series for [StartDate, EndDate).
func (g *StationGenerator) Generate() station.CountSeries {
	cfg := g.config
	var obs []station.Observation
	var rainyDay bool
	for t := cfg.StartDate.UTC(); t.Before(cfg.EndDate); t = t.Add(time.Hour) {
		if t.Hour() == 0 {
			rainyDay = g.rng.Float64() < 0.3
		}
		noise := g.rng.NormFloat64()
		drop := g.rng.Float64() < cfg.MissingRate
		if drop {
			continue
		}

		shape := g.shape(t)
		season := 1 + g.seasonAmplitude()*math.Cos(2*math.Pi*float64(t.YearDay()-196)/365)
		expected := cfg.Volume * shape * season
		if cfg.WithWeather && rainyDay {
			expected *= g.rainFactor()
		}
		count := int(math.Round(expected * (1 + cfg.NoiseLevel*noise)))
		if count < 0 {
			count = 0
		}

		o := station.Observation{Time: t, Count: count}
		if cfg.WithWeather {
			o.Weather = g.weather(t, rainyDay)
		}
		obs = append(obs, o)
	}

	return station.CountSeries{Station: cfg.Name, Resolution: station.Hourly, Observations: obs}
}

func (g *StationGenerator) shape(t time.Time) float64 {
	h := t.Hour()
	weekend := !station.Weekdays.Matches(t) || core.InAnyRange(t, g.config.Holidays)
	switch g.config.Pattern {
	case Commuter:
		if weekend {
			return 0.5 * commuterWeekend[h]
		}
		return commuterWeekday[h]
	case Leisure:
		if weekend {
			return leisureWeekend[h]
		}
		return 0.6 * leisureWeekday[h]
	default:
		if weekend {
			return 0.5 * (0.5*commuterWeekend[h] + leisureWeekend[h])
		}
		return 0.5 * (commuterWeekday[h] + 0.6*leisureWeekday[h])
	}
}

func (g *StationGenerator) seasonAmplitude() float64 {
	switch g.config.Pattern {
	case Commuter:
		return 0.15
	case Leisure:
		return 0.7
	default:
		return 0.4
	}
}

func (g *StationGenerator) rainFactor() float64 {
	switch g.config.Pattern {
	case Commuter:
		return 0.85
	case Leisure:
		return 0.35
	default:
		return 0.6
	}
}

func (g *StationGenerator) weather(t time.Time, rainy bool) *station.Weather {
	temp := 10 + 9*math.Cos(2*math.Pi*float64(t.YearDay()-196)/365) + 4*math.Sin(2*math.Pi*float64(t.Hour()-9)/24)
	w := &station.Weather{
		Temperature: temp,
		Humidity:    70,
		CloudCover:  30,
		WindSpeed:   8,
	}
	if rainy {
		w.Precipitation = 0.4
		w.Rain = 0.4
		w.CloudCover = 90
		w.Code = 61
	}
	return w
}
