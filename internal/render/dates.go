package render

import (
	"fmt"
	"math"
	"time"
)

var shortMonths = [...]string{
	"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
	"jul.", "ago.", "set.", "out.", "nov.", "dez.",
}

var weekdays = [...]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

// Lisbon is the zone the application displays dates in. Falls back to UTC
// when tzdata is unavailable.
var Lisbon = loadLocation("Europe/Lisbon")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ShortDate renders "02 out.".
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%02d %s", t.Day(), shortMonths[t.Month()-1])
}

func clock(t time.Time) string {
	return t.Format("15:04")
}

// FormatRelativeDate renders t relative to now, in now's location: "Hoje,
// 14:05", "Ontem, 09:30", the weekday within a week, else "02 out. 2026,
// 14:05". Days are whole 24h periods elapsed, floored, so future dates fall
// in the weekday branch. The zero time renders as "".
func FormatRelativeDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	t = t.In(now.Location())
	days := int(math.Floor(now.Sub(t).Hours() / 24))

	switch {
	case days == 0:
		return "Hoje, " + clock(t)
	case days == 1:
		return "Ontem, " + clock(t)
	case days < 7:
		return weekdays[t.Weekday()] + ", " + clock(t)
	default:
		return fmt.Sprintf("%s %d, %s", ShortDate(t), t.Year(), clock(t))
	}
}
