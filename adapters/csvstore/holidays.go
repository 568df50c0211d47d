package csvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"bikeusage/domain/core"

	"github.com/tidwall/gjson"
)

type holiday struct {
	rng    core.DateRange
	public bool
	school bool
}

// readHolidays reads tabular exports (name, start_date, end_date,
// is_public_holiday, is_school_vacation) and raw API dumps in JSON
// ({"data": [{"name", "starts_on", "ends_on", ...}]}).
func readHolidays(files []string) ([]holiday, error) {
	var out []holiday
	for _, path := range files {
		var (
			hs  []holiday
			err error
		)
		if strings.EqualFold(filepath.Ext(path), ".json") {
			hs, err = readHolidayJSON(path)
		} else {
			hs, err = readHolidayTable(path)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, hs...)
	}
	return out, nil
}

func readHolidayTable(path string) ([]holiday, error) {
	rows, err := readTable(path)
	if err != nil {
		return nil, err
	}
	out := make([]holiday, 0, len(rows))
	for i, r := range rows {
		rng, err := dateRange(r.str("start_date"), r.str("end_date"), r.str("name"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", filepath.Base(path), i+2, err)
		}
		out = append(out, holiday{
			rng:    rng,
			public: r.boolean("is_public_holiday"),
			school: r.boolean("is_school_vacation"),
		})
	}
	return out, nil
}

func readHolidayJSON(path string) ([]holiday, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%s: invalid JSON", filepath.Base(path))
	}

	var out []holiday
	var parseErr error
	gjson.GetBytes(raw, "data").ForEach(func(_, item gjson.Result) bool {
		rng, err := dateRange(item.Get("starts_on").String(), item.Get("ends_on").String(), item.Get("name").String())
		if err != nil {
			parseErr = fmt.Errorf("%s: %w", filepath.Base(path), err)
			return false
		}
		out = append(out, holiday{
			rng:    rng,
			public: item.Get("is_public_holiday").Bool(),
			school: item.Get("is_school_vacation").Bool(),
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func dateRange(start, end, name string) (core.DateRange, error) {
	s, err := core.ParseDate(start)
	if err != nil {
		return core.DateRange{}, err
	}
	e := s
	if end != "" {
		if e, err = core.ParseDate(end); err != nil {
			return core.DateRange{}, err
		}
	}
	return core.NewDateRange(s, e, name)
}
