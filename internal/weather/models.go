package weather

import (
	"sync"
	"time"
)

// View selects which metric graph is rendered for a day.
type View string

const (
	ViewTemperature   View = "Temperature"
	ViewPrecipitation View = "Precipitation"
	ViewWind          View = "Wind"
)

// Valid reports whether v is one of the three recognized views.
func (v View) Valid() bool {
	switch v {
	case ViewTemperature, ViewPrecipitation, ViewWind:
		return true
	}
	return false
}

// ForecastSample is one discrete observation from the provider's
// 5-day/3-hour forecast. Immutable once parsed.
type ForecastSample struct {
	Timestamp   time.Time // always UTC
	Temp        float64   // °C
	TempMin     float64   // per-slot lower bound, °C
	TempMax     float64   // per-slot upper bound, °C
	Main        string    // condition code, e.g. "Rain"
	Description string
	Clouds      int     // cloud cover %
	Rain        float64 // mm over the slot, 0 if absent
	WindSpeed   float64 // m/s
	WindDeg     float64 // degrees the wind comes from
	TimeOfDay   string  // display time, "15:00"
	Icon        string  // provider icon identifier, e.g. "10d"
}

// DaySummary holds all samples sharing one calendar date, in provider
// order, plus summary stats computed on first use.
type DaySummary struct {
	Date    string // "2006-01-02"
	Samples []ForecastSample

	once sync.Once
	memo dayStats
}

type dayStats struct {
	icon        string
	description string
	minTemp     float64
	maxTemp     float64
	avgTemp     float64
}

func (d *DaySummary) stats() dayStats {
	d.once.Do(func() {
		if len(d.Samples) == 0 {
			panic("weather: day summary has no samples")
		}
		d.memo = summarize(d.Samples)
	})
	return d.memo
}

// IconCode returns the most frequent icon code across the day's samples.
// Ties go to the code encountered first.
func (d *DaySummary) IconCode() string { return d.stats().icon }

// Description returns the most frequent condition description, same tie
// rule as IconCode.
func (d *DaySummary) Description() string { return d.stats().description }

// MinTemp returns the day's displayed low. It is derived from the
// per-sample TempMax bound (and MaxTemp from TempMin): the swapped field
// usage the bot has always shipped with. See DESIGN.md before "fixing".
func (d *DaySummary) MinTemp() float64 { return d.stats().minTemp }

// MaxTemp returns the day's displayed high, derived from TempMin.
func (d *DaySummary) MaxTemp() float64 { return d.stats().maxTemp }

// AvgTemp returns the arithmetic mean temperature, rounded to 1 decimal.
func (d *DaySummary) AvgTemp() float64 { return d.stats().avgTemp }

// WeekdayFull returns the full weekday name for the summary's date.
func (d *DaySummary) WeekdayFull() string { return weekday(d.Date, "Monday") }

// WeekdayShort returns the abbreviated weekday name.
func (d *DaySummary) WeekdayShort() string { return weekday(d.Date, "Mon") }

func weekday(date, layout string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format(layout)
}

// maxPages bounds how many days the card strip can show.
const maxPages = 5

// ForecastSet is an ordered mapping from date to DaySummary. Ordering is
// first-occurrence order of dates in the provider response.
type ForecastSet struct {
	dates []string
	days  map[string]*DaySummary
}

// Dates returns the dates in chronological (insertion) order.
func (s *ForecastSet) Dates() []string { return s.dates }

// Len returns the number of days in the set.
func (s *ForecastSet) Len() int { return len(s.dates) }

// Day returns the summary for the i-th date.
func (s *ForecastSet) Day(i int) *DaySummary { return s.days[s.dates[i]] }

// Pages returns how many days the UI exposes: at most 5.
func (s *ForecastSet) Pages() int {
	if len(s.dates) > maxPages {
		return maxPages
	}
	return len(s.dates)
}
