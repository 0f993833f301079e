package weather

import (
	"errors"
	"math"
)

// ErrEmptyForecast is returned when the provider delivered no samples at
// all; the card strip cannot render with no data.
var ErrEmptyForecast = errors.New("forecast contains no samples")

// Aggregate groups samples by the calendar date of their timestamp,
// preserving first-seen date order and never reordering samples within a
// day.
func Aggregate(samples []ForecastSample) (*ForecastSet, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyForecast
	}

	set := &ForecastSet{days: make(map[string]*DaySummary)}
	for _, sample := range samples {
		date := sample.Timestamp.UTC().Format("2006-01-02")
		day, ok := set.days[date]
		if !ok {
			day = &DaySummary{Date: date}
			set.days[date] = day
			set.dates = append(set.dates, date)
		}
		day.Samples = append(day.Samples, sample)
	}
	return set, nil
}

func summarize(samples []ForecastSample) dayStats {
	icons := make([]string, len(samples))
	descriptions := make([]string, len(samples))
	for i, s := range samples {
		icons[i] = s.Icon
		descriptions[i] = s.Description
	}

	minTemp := samples[0].TempMax
	maxTemp := samples[0].TempMin
	sum := 0.0
	for _, s := range samples {
		if s.TempMax < minTemp {
			minTemp = s.TempMax
		}
		if s.TempMin > maxTemp {
			maxTemp = s.TempMin
		}
		sum += s.Temp
	}

	return dayStats{
		icon:        modal(icons),
		description: modal(descriptions),
		minTemp:     round1(minTemp),
		maxTemp:     round1(maxTemp),
		avgTemp:     round1(sum / float64(len(samples))),
	}
}

// modal returns the most frequent value; ties go to the value that
// appears first in the slice.
func modal(values []string) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	best := values[0]
	bestCount := 0
	for _, v := range values {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
