package lib

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ardnew/atx/lang"
)

func dates() []lang.Function {
	return []lang.Function{
		lang.Direct("now", lang.Arity0(now)).WithDoc(
			"Returns the current date and time in the evaluation's location.",
			lang.Example{Expression: `now().year >= 2024`, Result: "true"},
		),
		lang.Direct("today", lang.Arity0(today)).WithDoc(
			"Returns the current date in the evaluation's location.",
			lang.Example{Expression: `today() = now().date`, Result: "true"},
		),
		lang.Direct("date", lang.Arity3(date)).WithDoc(
			"Returns the calendar date with the given year, month and day.",
			lang.Example{Expression: `date(2024, 2, 29)`, Result: "2024-02-29"},
			lang.Example{Expression: `date(2024, 3, 15).weekday`, Result: "5"},
		),
		lang.Direct("datetime", lang.Arity1(datetime)).WithDoc(
			"Parses RFC 3339 text, or \"YYYY-MM-DD hh:mm:ss\" in the evaluation's location, as a date-time.",
			lang.Example{
				Expression: `datetime("2024-03-15T10:30:00Z").hour`,
				Result:     "10",
			},
		),
	}
}

func now(env lang.Env) (lang.Value, error) {
	return lang.DateTime(env.Time()), nil
}

func today(env lang.Env) (lang.Value, error) {
	return lang.Date(env.Time().Date()), nil
}

func date(_ lang.Env, y, m, d lang.Value) (lang.Value, error) {
	var parts [3]int

	for i, v := range []lang.Value{y, m, d} {
		n, err := integer("date", v)
		if err != nil {
			return lang.Null(), err
		}

		parts[i] = int(n)
	}

	year, month, day := parts[0], time.Month(parts[1]), parts[2]

	// time.Date normalizes out-of-range fields, so a mismatch means the
	// input named no real day.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return lang.Null(), ErrInvalidArgument.
			Wrap(fmt.Errorf("no such date %04d-%02d-%02d", year, month, day)).
			With(slog.String("function", "date"))
	}

	return lang.Date(year, month, day), nil
}

func datetime(env lang.Env, v lang.Value) (lang.Value, error) {
	s, ok := v.AsString()
	if !ok {
		return lang.Null(), lang.NewTypeError("datetime", v)
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return lang.DateTime(t), nil
	}

	loc := env.Location
	if loc == nil {
		loc = time.Local
	}

	t, err := time.ParseInLocation(time.DateTime, s, loc)
	if err != nil {
		return lang.Null(), ErrInvalidArgument.Wrap(err).
			With(slog.String("function", "datetime"))
	}

	return lang.DateTime(t), nil
}
