package interaction

import (
	"time"

	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

// Symbol is one of the emoji reaction controls attached to a forecast
// message.
type Symbol string

const (
	SymbolTemperature Symbol = "🌡️"
	SymbolRain        Symbol = "🌧️"
	SymbolWind        Symbol = "💨"
	SymbolBackward    Symbol = "⬅"
	SymbolForward     Symbol = "➡"
	SymbolCross       Symbol = "❌"
)

// Controls is the fixed ordered set of reactions added to every posted
// forecast message.
var Controls = []Symbol{
	SymbolTemperature,
	SymbolRain,
	SymbolWind,
	SymbolBackward,
	SymbolForward,
	SymbolCross,
}

// Known reports whether sym is one of the six reaction controls.
func (s Symbol) Known() bool {
	for _, c := range Controls {
		if s == c {
			return true
		}
	}
	return false
}

// MaxIdle is the inactivity ceiling: a state untouched for this long is
// discarded on next access. Checked lazily, not by an active timer.
const MaxIdle = 60 * time.Second

// Key identifies a posted forecast message.
type Key struct {
	ChannelID string
	MessageID string
}

// State is the per-message UI state behind a rendered forecast.
type State struct {
	Day        int          // selected day index, 0-based
	View       weather.View // selected metric view
	Days       int          // selectable day count, capped at 5
	Location   string       // display name
	Lat        float64
	Lon        float64
	LastUpdate int64 // epoch seconds of creation or last change
}

// Expired reports whether the state has passed the inactivity ceiling.
func (st State) Expired(now time.Time) bool {
	return now.Unix()-st.LastUpdate >= int64(MaxIdle/time.Second)
}

// Decision is the outcome of applying a reaction to a state.
type Decision int

const (
	// DecisionNoop leaves state and timestamp untouched.
	DecisionNoop Decision = iota
	// DecisionUpdate means (day, view) changed: re-render and commit.
	DecisionUpdate
	// DecisionClose deletes the backing message and discards the state.
	DecisionClose
	// DecisionExpire discards the state without rendering.
	DecisionExpire
)

// Transition applies one reaction symbol to st. It is pure: the returned
// state is only meaningful for DecisionUpdate, where it carries the new
// day/view and a refreshed LastUpdate.
//
// Priority order: expiry, close, day navigation, view selection. Boundary
// violations (forward on the last day, backward on day 0) and unknown
// symbols are no-ops.
func Transition(st State, sym Symbol, now time.Time) (State, Decision) {
	if st.Expired(now) {
		return st, DecisionExpire
	}
	if sym == SymbolCross {
		return st, DecisionClose
	}

	day, view := st.Day, st.View
	switch sym {
	case SymbolForward:
		if day < st.Days-1 && day < 4 {
			day++
		}
	case SymbolBackward:
		if day > 0 {
			day--
		}
	case SymbolTemperature:
		view = weather.ViewTemperature
	case SymbolRain:
		view = weather.ViewPrecipitation
	case SymbolWind:
		view = weather.ViewWind
	}

	if day == st.Day && view == st.View {
		return st, DecisionNoop
	}

	st.Day = day
	st.View = view
	st.LastUpdate = now.Unix()
	return st, DecisionUpdate
}
