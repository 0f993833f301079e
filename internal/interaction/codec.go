package interaction

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/FrontRowWithJ/WeatherBot/internal/weather"
)

// The stateless variant persists State in the footer of the rendered
// message, making the bot restart-safe without a database. The payload is
// a fixed `field=value` schema parsed by a per-field typed parser, so a
// tampered or truncated footer fails loudly instead of half-applying.

const fieldSeparator = "|"

var fieldParsers = map[string]func(string, *State) error{
	"day": func(v string, st *State) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		st.Day = n
		return nil
	},
	"view": func(v string, st *State) error {
		view := weather.View(v)
		if !view.Valid() {
			return fmt.Errorf("unknown view %q", v)
		}
		st.View = view
		return nil
	},
	"days": func(v string, st *State) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		st.Days = n
		return nil
	},
	"loc": func(v string, st *State) error {
		loc, err := url.QueryUnescape(v)
		if err != nil {
			return err
		}
		st.Location = loc
		return nil
	},
	"lat": func(v string, st *State) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		st.Lat = f
		return nil
	},
	"lon": func(v string, st *State) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		st.Lon = f
		return nil
	},
	"ts": func(v string, st *State) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		st.LastUpdate = n
		return nil
	},
}

// EncodeState serializes st into the compact footer payload. Location is
// the only free-text field and is query-escaped so user input cannot
// collide with the separator or the field syntax.
func EncodeState(st State) string {
	fields := []string{
		fmt.Sprintf("day=%d", st.Day),
		fmt.Sprintf("view=%s", st.View),
		fmt.Sprintf("days=%d", st.Days),
		fmt.Sprintf("loc=%s", url.QueryEscape(st.Location)),
		fmt.Sprintf("lat=%s", strconv.FormatFloat(st.Lat, 'f', -1, 64)),
		fmt.Sprintf("lon=%s", strconv.FormatFloat(st.Lon, 'f', -1, 64)),
		fmt.Sprintf("ts=%d", st.LastUpdate),
	}
	return strings.Join(fields, fieldSeparator)
}

// DecodeState parses a footer payload produced by EncodeState. Every
// schema field must be present exactly once.
func DecodeState(payload string) (State, error) {
	var st State
	seen := make(map[string]bool, len(fieldParsers))

	for _, field := range strings.Split(payload, fieldSeparator) {
		name, value, ok := strings.Cut(field, "=")
		if !ok {
			return State{}, fmt.Errorf("malformed state field %q", field)
		}
		parse, ok := fieldParsers[name]
		if !ok {
			return State{}, fmt.Errorf("unknown state field %q", name)
		}
		if seen[name] {
			return State{}, fmt.Errorf("duplicate state field %q", name)
		}
		if err := parse(value, &st); err != nil {
			return State{}, fmt.Errorf("state field %q: %w", name, err)
		}
		seen[name] = true
	}

	if len(seen) != len(fieldParsers) {
		return State{}, fmt.Errorf("incomplete state payload: %d of %d fields", len(seen), len(fieldParsers))
	}
	return st, nil
}
